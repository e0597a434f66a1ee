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

package ionchem

import (
	"context"
	"math"
	"testing"

	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/science/ionization"
)

func testAtmosphere(t *testing.T) *ionochem.Atmosphere {
	n, err := ionochem.ReadNeutralProfileFile("../../../testdata/msis.dat")
	if err != nil {
		t.Fatal(err)
	}
	i, err := ionochem.ReadIonosphereProfileFile("../../../testdata/iri.dat")
	if err != nil {
		t.Fatal(err)
	}
	a, err := ionochem.NewAtmosphere(n, i, 100)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestRatesMonotonic(t *testing.T) {
	const tr = 800.
	prev := Rates(200, tr)
	for te := 250.; te <= 5000; te += 50 {
		r := Rates(te, tr)
		if !(r.Alpha1 < prev.Alpha1) || !(r.Alpha2 < prev.Alpha2) ||
			!(r.Alpha3 < prev.Alpha3) || !(r.AlphaR < prev.AlphaR) {
			t.Errorf("te=%g: recombination rates should decrease: %+v, %+v", te, prev, r)
		}
		if r.K2 != prev.K2 || r.K5 != prev.K5 || r.K6 != prev.K6 {
			t.Errorf("te=%g: exchange rates should not depend on te", te)
		}
		prev = r
	}
	const te = 800.
	prev = Rates(te, 200)
	for tr := 250.; tr <= 5000; tr += 50 {
		r := Rates(te, tr)
		if !(r.K2 < prev.K2) || !(r.K5 < prev.K5) || !(r.K6 < prev.K6) {
			t.Errorf("tr=%g: exchange rates should decrease: %+v, %+v", tr, prev, r)
		}
		if r.Alpha1 != prev.Alpha1 || r.AlphaR != prev.AlphaR {
			t.Errorf("tr=%g: recombination rates should not depend on tr", tr)
		}
		prev = r
	}
}

func TestRatesConstant(t *testing.T) {
	for _, c := range [][2]float64{{300, 300}, {150, 2000}, {4000, 180}} {
		r := Rates(c[0], c[1])
		if r.K1 != 2e-18 || r.K3 != 4.4e-16 || r.K4 != 5e-22 {
			t.Errorf("%v: have k1=%g, k3=%g, k4=%g", c, r.K1, r.K3, r.K4)
		}
	}
}

func TestRatesReference(t *testing.T) {
	r := Rates(300, 300)
	for _, c := range []struct {
		name       string
		have, want float64
	}{
		{"alpha1", r.Alpha1, 2.1e-13},
		{"alpha2", r.Alpha2, 1.9e-13},
		{"alpha3", r.Alpha3, 1.8e-13},
		{"alphar", r.AlphaR, 3.7e-18 * math.Pow(250./300, 0.7)},
		{"k2", r.K2, 2e-17},
		{"k5", r.K5, 1.4e-16},
		{"k6", r.K6, 5e-17},
	} {
		if different(c.have, c.want, 1e-14) {
			t.Errorf("%s: have %g, want %g", c.name, c.have, c.want)
		}
	}
}

func TestProduction(t *testing.T) {
	for _, c := range [][4]float64{
		{1e8, 2.25e17, 6e17, 2.96e18},
		{1e10, 1e15, 1e13, 1e14},
		{2e10, 1, 1, 1},
		{0.3, 7e16, 3e9, 1e17},
	} {
		qN2, qO, qO2 := Production(c[0], c[1], c[2], c[3])
		if different(qN2+qO+qO2, c[0], 1e-12) {
			t.Errorf("%v: channels sum to %g, want %g", c, qN2+qO+qO2, c[0])
		}
	}
	qN2, qO, qO2 := Production(1, 1, 1, 1)
	w := 0.92 + 1 + 0.56
	if qN2 != 0.92/w || qO != 0.56/w || qO2 != 1/w {
		t.Errorf("have %g, %g, %g", qN2, qO, qO2)
	}
}

func TestInitialState(t *testing.T) {
	a := testAtmosphere(t)
	var m Mechanism
	for i := 0; i < a.Len(); i++ {
		l, err := a.Level(i, ionochem.Unheated)
		if err != nil {
			t.Fatal(err)
		}
		y := m.InitialState(&l)
		if len(y) != m.Len() {
			t.Fatalf("length %d != %d", len(y), m.Len())
		}
		if y[IN2Plus] != 0 || y[INO] != 0 {
			t.Errorf("index %d: N2+=%g, NO=%g; want 0", i, y[IN2Plus], y[INO])
		}
		if y[IElectron] != l.Electron || y[IOPlus] != l.OPlus || y[IO2Plus] != l.O2Plus || y[INOPlus] != l.NOPlus {
			t.Errorf("index %d: have %v", i, y)
		}
	}
}

func TestUnits(t *testing.T) {
	var m Mechanism
	for _, s := range m.Species() {
		u, err := m.Units(s)
		if err != nil {
			t.Error(err)
		}
		if u != "m⁻³" {
			t.Errorf("%s: have %s", s, u)
		}
	}
	if _, err := m.Units("O3"); err == nil {
		t.Error("invalid species should be an error")
	}
}

func TestDerivativesIdempotent(t *testing.T) {
	a := testAtmosphere(t)
	var m Mechanism
	for _, src := range []ionization.Source{ionization.Constant{}, ionization.StepPulse{}, ionization.SinusoidalPulse{}} {
		for _, adj := range []ionochem.TemperatureAdjustment{ionochem.Unheated, ionochem.Heated} {
			l, err := a.Level(70, adj)
			if err != nil {
				t.Fatal(err)
			}
			y := m.InitialState(&l)
			y[IN2Plus], y[INO] = 1e8, 1e9
			d1 := make([]float64, m.Len())
			d2 := make([]float64, m.Len())
			m.Derivatives(d1, y, 3650.25, &l, src)
			m.Derivatives(d2, y, 3650.25, &l, src)
			for i := range d1 {
				if math.Float64bits(d1[i]) != math.Float64bits(d2[i]) {
					t.Errorf("%T %v: species %d: %g != %g", src, adj, i, d1[i], d2[i])
				}
			}
		}
	}
}

// Electrons and ions are created and destroyed in pairs, so the
// electron density minus the total ion density is constant.
func TestChargeBalance(t *testing.T) {
	a := testAtmosphere(t)
	var m Mechanism
	l, err := a.Level(10, ionochem.Unheated)
	if err != nil {
		t.Fatal(err)
	}
	y := m.InitialState(&l)
	y[IN2Plus], y[INO] = 1e8, 1e9
	d := make([]float64, m.Len())
	m.Derivatives(d, y, 3650, &l, ionization.StepPulse{})
	ions := d[IOPlus] + d[IO2Plus] + d[IN2Plus] + d[INOPlus]
	if different(d[IElectron], ions, 1e-9) {
		t.Errorf("electron change %g != ion change %g", d[IElectron], ions)
	}
}

func TestConstantRegime(t *testing.T) {
	a := testAtmosphere(t)
	var m Mechanism
	w := ionochem.Window{Start: 0, End: 3599, Step: 1}
	s := &ionochem.Simulation{
		Atmosphere:    a,
		Mechanism:     m,
		AltitudeIndex: 10,
		Times:         w.Times(),
		Regime:        ionization.RegimeConstant,
		Adjustment:    ionochem.Unheated,
	}
	tr, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.States) != len(s.Times) {
		t.Fatalf("have %d states, want %d", len(tr.States), len(s.Times))
	}
	for i, y := range tr.States {
		for j, v := range y {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("t=%g: species %s is %g", tr.Times[i], tr.SpeciesNames[j], v)
			}
		}
	}
	final := tr.Final()
	eq := m.Equilibrium(&tr.Level, final, ionization.Background)
	ratio := final[IElectron] / eq
	if ratio < 0.1 || ratio > 10 {
		t.Errorf("final electron density %g is not near equilibrium %g", final[IElectron], eq)
	}
	// Recombination with a background source should reduce the
	// electron density from its initial value.
	if !(final[IElectron] < tr.States[0][IElectron]) {
		t.Errorf("electron density grew from %g to %g", tr.States[0][IElectron], final[IElectron])
	}
}

func TestStepPulseRaisesElectrons(t *testing.T) {
	a := testAtmosphere(t)
	var m Mechanism
	w := ionochem.Window{Start: 3600, End: 3700, Step: 0.5}
	sims := []*ionochem.Simulation{
		{Atmosphere: a, Mechanism: m, AltitudeIndex: 10, Times: w.Times(), Regime: ionization.RegimeConstant},
		{Atmosphere: a, Mechanism: m, AltitudeIndex: 10, Times: w.Times(), Regime: ionization.RegimeStep},
	}
	trs, err := ionochem.RunAll(context.Background(), sims, 2)
	if err != nil {
		t.Fatal(err)
	}
	c, s := trs[0].Summary(IElectron), trs[1].Summary(IElectron)
	if !(s.Final > c.Final) {
		t.Errorf("pulse final electron density %g should exceed background %g", s.Final, c.Final)
	}
	if !(s.Max >= s.Final && s.Min <= s.Final) {
		t.Errorf("bad summary %+v", s)
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
