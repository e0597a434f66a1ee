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

// Package ionization contains electron production rate models: a quiet
// background rate and ionizing pulses, such as particle precipitation
// events, injected on top of it.
package ionization

import (
	"fmt"
	"math"
	"strings"
)

// Source is an ionization source. Rate returns the electron production
// rate [m⁻³ s⁻¹] at time t [s] after the start of a run.
type Source interface {
	Rate(t float64) float64
}

// Breakpointer is implemented by sources whose rate is discontinuous.
// Breakpoints returns the times [s] of the discontinuities.
type Breakpointer interface {
	Breakpoints() []float64
}

// Pulse timing and magnitudes.
const (
	Background = 1e8  // m⁻³ s⁻¹, quiet-time production rate
	PulseStart = 3600 // s
	PulseEnd   = 3700 // s
	StepPeak   = 1e10 // m⁻³ s⁻¹
	SinePeak   = 2e10 // m⁻³ s⁻¹
	SinePeriod = 20   // s
)

// Constant is a steady background source.
type Constant struct{}

// Rate returns the background rate for all t.
func (Constant) Rate(t float64) float64 { return Background }

// StepPulse is a background source followed by a rectangular pulse
// that switches the source off when it ends.
type StepPulse struct{}

// Rate returns the background rate before PulseStart, the step peak
// from PulseStart through PulseEnd inclusive, and zero afterwards.
func (StepPulse) Rate(t float64) float64 {
	switch {
	case t < PulseStart:
		return Background
	case t <= PulseEnd:
		return StepPeak
	default:
		return 0
	}
}

// Breakpoints returns the pulse edges.
func (StepPulse) Breakpoints() []float64 { return []float64{PulseStart, PulseEnd} }

// SinusoidalPulse is a background source followed by a pulse whose
// amplitude is modulated by sin², after which the source is off.
type SinusoidalPulse struct{}

// Rate returns the background rate up to and including PulseStart,
// SinePeak·sin²(2πt/SinePeriod) up to and including PulseEnd, and
// zero afterwards.
func (SinusoidalPulse) Rate(t float64) float64 {
	switch {
	case t <= PulseStart:
		return Background
	case t <= PulseEnd:
		s := math.Sin(2 * math.Pi * t / SinePeriod)
		return SinePeak * s * s
	default:
		return 0
	}
}

// Breakpoints returns the pulse edges.
func (SinusoidalPulse) Breakpoints() []float64 { return []float64{PulseStart, PulseEnd} }

// Regime selects an ionization source.
type Regime int

// Available regimes.
const (
	RegimeConstant Regime = iota
	RegimeStep
	RegimeSinusoidal
	RegimeCustom
)

var regimeNames = []string{
	RegimeConstant:   "constant",
	RegimeStep:       "step",
	RegimeSinusoidal: "sinusoidal",
	RegimeCustom:     "custom",
}

func (r Regime) String() string {
	if r < 0 || int(r) >= len(regimeNames) {
		return fmt.Sprintf("Regime(%d)", int(r))
	}
	return regimeNames[r]
}

// ParseRegime returns the regime with the given name.
func ParseRegime(name string) (Regime, error) {
	for i, n := range regimeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Regime(i), nil
		}
	}
	return 0, fmt.Errorf("ionization: invalid regime '%s'; valid options are %v", name, regimeNames)
}

// RegimeNames returns the names accepted by ParseRegime.
func RegimeNames() []string { return append([]string(nil), regimeNames...) }

// New returns the source for regime r. expr is the rate formula for the
// RegimeCustom and is ignored otherwise.
func New(r Regime, expr string) (Source, error) {
	switch r {
	case RegimeConstant:
		return Constant{}, nil
	case RegimeStep:
		return StepPulse{}, nil
	case RegimeSinusoidal:
		return SinusoidalPulse{}, nil
	case RegimeCustom:
		return NewExpression(expr)
	}
	return nil, fmt.Errorf("ionization: invalid regime %v", r)
}
