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

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/internal/ode"
	"github.com/spatialmodel/ionochem/science/ionization"
	"github.com/spf13/viper"
)

// RunRecord holds the effective settings of a set of runs and a summary
// of each run. Its keys match the configuration option names, so a
// written record can be used as a configuration file.
type RunRecord struct {
	Version string

	NeutralProfile    string
	IonosphereProfile string
	MinAltitude       float64

	Altitudes  []int
	Windows    []string
	Regimes    []string
	Expression string `toml:",omitempty"`
	Heated     bool

	Solver SolverRecord

	Runs []RunResult
}

// SolverRecord holds the integrator settings.
type SolverRecord struct {
	Method   string
	RelTol   float64
	AbsTol   float64
	Step     float64
	MaxSteps int
}

// RunResult summarizes one trajectory. Densities are in m⁻³.
type RunResult struct {
	Label         string
	AltitudeIndex int
	Altitude      float64
	Regime        string
	Start, End    float64

	Steps, Rejected int

	MinElectron, MaxElectron, FinalElectron float64

	// EquilibriumElectron is the electron density that balances the
	// final ion composition at the final ionization rate.
	EquilibriumElectron float64

	Plot string
}

func newRunRecord(cfg *viper.Viper, s *ode.Solver, altitudes []int, windows []ionochem.Window, regimes []ionization.Regime, adj ionochem.TemperatureAdjustment) *RunRecord {
	r := &RunRecord{
		Version:           ionochem.Version,
		NeutralProfile:    cfg.GetString("NeutralProfile"),
		IonosphereProfile: cfg.GetString("IonosphereProfile"),
		MinAltitude:       cfg.GetFloat64("MinAltitude"),
		Altitudes:         altitudes,
		Expression:        cfg.GetString("Expression"),
		Heated:            adj == ionochem.Heated,
		Solver: SolverRecord{
			Method:   s.Method.Name,
			RelTol:   s.RelTol,
			AbsTol:   s.AbsTol,
			MaxSteps: s.MaxSteps,
		},
	}
	if !s.Adaptive {
		r.Solver.Step = s.InitialStep
	}
	for _, w := range windows {
		r.Windows = append(r.Windows, fmt.Sprintf("%g:%g:%g", w.Start, w.End, w.Step))
	}
	for _, g := range regimes {
		r.Regimes = append(r.Regimes, g.String())
	}
	return r
}

// WriteRunRecord writes r to filename in TOML format.
func WriteRunRecord(filename string, r *RunRecord) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("ionochem: creating run record: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(r); err != nil {
		f.Close()
		return fmt.Errorf("ionochem: writing run record: %v", err)
	}
	return f.Close()
}

// ReadRunRecord reads a run record written by WriteRunRecord.
func ReadRunRecord(filename string) (*RunRecord, error) {
	r := new(RunRecord)
	if _, err := toml.DecodeFile(filename, r); err != nil {
		return nil, fmt.Errorf("ionochem: reading run record: %v", err)
	}
	return r, nil
}
