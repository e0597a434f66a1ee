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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/internal/ode"
	"github.com/spatialmodel/ionochem/science/ionization"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// loadAtmosphere reads the neutral and ionospheric profiles named in cfg
// and pairs them above MinAltitude.
func loadAtmosphere(cfg *viper.Viper) (*ionochem.Atmosphere, error) {
	nf := os.ExpandEnv(cfg.GetString("NeutralProfile"))
	inf := os.ExpandEnv(cfg.GetString("IonosphereProfile"))
	if nf == "" || inf == "" {
		return nil, fmt.Errorf("ionochem: NeutralProfile and IonosphereProfile must both be specified")
	}
	neutral, err := ionochem.ReadNeutralProfileFile(nf)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, nf)
	}
	iono, err := ionochem.ReadIonosphereProfileFile(inf)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, inf)
	}
	minAlt, err := cast.ToFloat64E(cfg.Get("MinAltitude"))
	if err != nil {
		return nil, fmt.Errorf("ionochem: invalid MinAltitude: %v", err)
	}
	atm, err := ionochem.NewAtmosphere(neutral, iono, minAlt)
	if err != nil {
		return nil, err
	}
	Log.WithField("levels", atm.Len()).Debug("loaded atmosphere")
	return atm, nil
}

// checkAltitudes makes sure the altitude indices are specified and
// inside of the atmosphere.
func checkAltitudes(v interface{}, atm *ionochem.Atmosphere) ([]int, error) {
	idx, err := cast.ToIntSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("ionochem: invalid Altitudes: %v", err)
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("ionochem: no altitude indices specified; please set Altitudes")
	}
	for _, i := range idx {
		if _, err := atm.Altitude(i); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// parseWindow parses a time window in the format start:end:step.
func parseWindow(s string) (ionochem.Window, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return ionochem.Window{}, fmt.Errorf("ionochem: invalid time window '%s'; the format is start:end:step", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ionochem.Window{}, fmt.Errorf("ionochem: invalid time window '%s': %v", s, err)
		}
		v[i] = f
	}
	w := ionochem.Window{Start: v[0], End: v[1], Step: v[2]}
	if !(w.Step > 0) || !(w.End > w.Start) {
		return ionochem.Window{}, fmt.Errorf("ionochem: invalid time window '%s'; end must follow start and step must be positive", s)
	}
	return w, nil
}

// checkWindows parses the time windows.
func checkWindows(v interface{}) ([]ionochem.Window, error) {
	ss, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("ionochem: invalid Windows: %v", err)
	}
	if len(ss) == 0 {
		return nil, fmt.Errorf("ionochem: no time windows specified; please set Windows")
	}
	w := make([]ionochem.Window, len(ss))
	for i, s := range ss {
		if w[i], err = parseWindow(s); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// checkRegimes parses the ionization regimes and makes sure an
// expression is given if the custom regime is requested.
func checkRegimes(v interface{}, expr string) ([]ionization.Regime, error) {
	ss, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("ionochem: invalid Regimes: %v", err)
	}
	if len(ss) == 0 {
		return nil, fmt.Errorf("ionochem: no ionization regimes specified; valid options are %v", ionization.RegimeNames())
	}
	r := make([]ionization.Regime, len(ss))
	for i, s := range ss {
		if r[i], err = ionization.ParseRegime(s); err != nil {
			return nil, err
		}
		if r[i] == ionization.RegimeCustom {
			if _, err := ionization.NewExpression(expr); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// solverConfig creates an integrator from the Solver options.
func solverConfig(cfg *viper.Viper) (*ode.Solver, error) {
	m, err := ode.MethodByName(cfg.GetString("Solver.Method"))
	if err != nil {
		return nil, err
	}
	s := &ode.Solver{
		Method:   m,
		RelTol:   cfg.GetFloat64("Solver.RelTol"),
		AbsTol:   cfg.GetFloat64("Solver.AbsTol"),
		MaxSteps: cfg.GetInt("Solver.MaxSteps"),
	}
	if step := cfg.GetFloat64("Solver.Step"); step > 0 {
		s.InitialStep = step
		return s, nil
	}
	if !m.Embedded() {
		return nil, fmt.Errorf("ionochem: method %s needs a fixed step; please set Solver.Step", m.Name)
	}
	if !(s.RelTol > 0) || !(s.AbsTol > 0) {
		return nil, fmt.Errorf("ionochem: Solver.RelTol and Solver.AbsTol must be positive")
	}
	s.Adaptive = true
	return s, nil
}

// checkOutputDir expands environment variables in the output
// directory and creates it if necessary.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("ionochem: OutputDir must be specified")
	}
	dir = os.ExpandEnv(dir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("ionochem: creating OutputDir: %v", err)
	}
	return dir, nil
}

var plotFormats = []string{"png", "svg", "pdf", "eps", "jpg", "tif"}

// checkPlotFormat makes sure the plot format is supported.
func checkPlotFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
	for _, ff := range plotFormats {
		if f == ff {
			return f, nil
		}
	}
	return "", fmt.Errorf("ionochem: invalid PlotFormat '%s'; valid options are %v", f, plotFormats)
}
