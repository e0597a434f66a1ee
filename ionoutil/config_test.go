/*
Copyright © 2024 the ionochem authors.
This file is part of ionochem.

ionochem is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ionochem is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ionochem.  If not, see <http://www.gnu.org/licenses/>.
*/

package ionoutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/science/ionization"
	"github.com/spf13/viper"
)

func TestParseWindow(t *testing.T) {
	w, err := parseWindow(" 3600:3700:0.5 ")
	if err != nil {
		t.Fatal(err)
	}
	if w != (ionochem.Window{Start: 3600, End: 3700, Step: 0.5}) {
		t.Errorf("have %+v", w)
	}
	for _, s := range []string{"", "1:2", "a:2:1", "0:10:0", "10:0:1", "0:10:-1"} {
		if _, err := parseWindow(s); err == nil {
			t.Errorf("%q should be an error", s)
		}
	}
}

func TestCheckWindows(t *testing.T) {
	w, err := checkWindows([]interface{}{"0:3599:1", "3600:4200:1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(w) != 2 || w[1].End != 4200 {
		t.Errorf("have %+v", w)
	}
	if _, err := checkWindows([]string{}); err == nil {
		t.Error("no windows should be an error")
	}
}

func TestCheckRegimes(t *testing.T) {
	r, err := checkRegimes([]string{"Constant", "sinusoidal"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 || r[0] != ionization.RegimeConstant || r[1] != ionization.RegimeSinusoidal {
		t.Errorf("have %v", r)
	}
	if _, err := checkRegimes([]string{"custom"}, ""); err == nil {
		t.Error("custom regime without an expression should be an error")
	}
	if _, err := checkRegimes([]string{"custom"}, "pow(10, 8)"); err != nil {
		t.Error(err)
	}
	if _, err := checkRegimes([]string{"pulse"}, ""); err == nil {
		t.Error("invalid regime should be an error")
	}
}

func TestCheckAltitudes(t *testing.T) {
	atm, err := loadAtmosphere(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	idx, err := checkAltitudes([]interface{}{int64(10), int64(70)}, atm)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 2 || idx[1] != 70 {
		t.Errorf("have %v", idx)
	}
	if _, err := checkAltitudes([]int{}, atm); err == nil {
		t.Error("no altitudes should be an error")
	}
	if _, err := checkAltitudes([]int{-1}, atm); err == nil {
		t.Error("negative index should be an error")
	}
}

func testConfig() *viper.Viper {
	cfg := viper.New()
	cfg.Set("NeutralProfile", "../testdata/msis.dat")
	cfg.Set("IonosphereProfile", "../testdata/iri.dat")
	cfg.Set("MinAltitude", 100)
	return cfg
}

func TestLoadAtmosphere(t *testing.T) {
	cfg := testConfig()
	os.Setenv("IONOCHEM_TEST_DATA", "../testdata")
	defer os.Unsetenv("IONOCHEM_TEST_DATA")
	cfg.Set("NeutralProfile", "${IONOCHEM_TEST_DATA}/msis.dat")
	atm, err := loadAtmosphere(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if atm.Len() != 151 {
		t.Errorf("have %d levels, want 151", atm.Len())
	}
	cfg.Set("IonosphereProfile", "../testdata/missing.dat")
	if _, err := loadAtmosphere(cfg); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestSolverConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Solver.Method", "bs32")
	cfg.Set("Solver.RelTol", 1e-4)
	cfg.Set("Solver.AbsTol", 10.0)
	s, err := solverConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Adaptive || s.Method.Name != "bs32" || s.RelTol != 1e-4 {
		t.Errorf("have %+v", s)
	}

	cfg.Set("Solver.Method", "rk4")
	if _, err := solverConfig(cfg); err == nil {
		t.Error("rk4 without a step should be an error")
	}
	cfg.Set("Solver.Step", 0.01)
	s, err = solverConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Adaptive || s.InitialStep != 0.01 {
		t.Errorf("have %+v", s)
	}

	cfg.Set("Solver.Method", "leapfrog")
	if _, err := solverConfig(cfg); err == nil {
		t.Error("invalid method should be an error")
	}
}

func TestCheckOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	d, err := checkOutputDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
		t.Errorf("%s was not created: %v", d, err)
	}
	if _, err := checkOutputDir(""); err == nil {
		t.Error("empty directory should be an error")
	}
}

func TestCheckPlotFormat(t *testing.T) {
	for in, want := range map[string]string{"png": "png", ".SVG": "svg", " pdf": "pdf"} {
		f, err := checkPlotFormat(in)
		if err != nil {
			t.Error(err)
		}
		if f != want {
			t.Errorf("%q: have %q, want %q", in, f, want)
		}
	}
	if _, err := checkPlotFormat("gif"); err == nil {
		t.Error("gif should be an error")
	}
}
