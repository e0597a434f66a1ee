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

// Package ode integrates initial value problems for systems of
// first-order ordinary differential equations with explicit
// Runge-Kutta methods.
package ode

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Func evaluates the right hand side y'(t) = f(t, y), writing the result
// into dydt. It must not retain y or dydt.
type Func func(t float64, y, dydt []float64)

// Errors returned by Solve.
var (
	ErrStepTooSmall = errors.New("ode: step size fell below the minimum")
	ErrMaxSteps     = errors.New("ode: maximum number of steps exceeded")
	ErrNotFinite    = errors.New("ode: solution is not finite")
	ErrTimes        = errors.New("ode: output times must be strictly increasing")
)

// Solver holds integration settings.
type Solver struct {
	Method *Method

	// Adaptive turns on error-controlled step sizes. It requires a
	// method with an embedded error estimator.
	Adaptive bool

	// RelTol and AbsTol are the relative and absolute error tolerances
	// used when Adaptive is true.
	RelTol, AbsTol float64

	// InitialStep is the first step size attempted, and the fixed step
	// size when Adaptive is false. If <= 0, a hundredth of the first
	// output interval is used.
	InitialStep float64

	// MinStep is the smallest step allowed before the solver gives up.
	// If <= 0, a limit relative to the current time is used.
	MinStep float64

	// MaxStep, if > 0, bounds the step size.
	MaxStep float64

	// MaxSteps, if > 0, bounds the total number of attempted steps.
	MaxSteps int
}

// DefaultSolver returns an adaptive Dormand-Prince solver with tolerances
// suited to number densities on the order of 1e6-1e18 m⁻³.
func DefaultSolver() *Solver {
	return &Solver{
		Method:   DormandPrince(),
		Adaptive: true,
		RelTol:   1e-6,
		AbsTol:   1,
		MaxSteps: 10000000,
	}
}

// Stats records the work done by a call to Solve.
type Stats struct {
	Steps, Rejected, Evaluations int
	LastStep                     float64
}

// Solve integrates f from times[0] to times[len(times)-1] starting at y0
// and returns the solution at each of the requested times. The first row
// is a copy of y0. Steps never cross an output time or one of the given
// breakpoints, which can be used to mark discontinuities in f. A step
// that starts or ends on a breakpoint evaluates f one ulp inside the
// step there, so it only sees f on its own side of the discontinuity.
// ctx is checked between output times.
func (s *Solver) Solve(ctx context.Context, f Func, y0, times, breakpoints []float64) ([][]float64, Stats, error) {
	var st Stats
	if s.Method == nil {
		return nil, st, fmt.Errorf("ode: solver has no method")
	}
	if s.Adaptive && !s.Method.Embedded() {
		return nil, st, fmt.Errorf("ode: method %s has no error estimator and cannot be adaptive", s.Method.Name)
	}
	if len(times) == 0 {
		return nil, st, nil
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, st, fmt.Errorf("%w: times[%d]=%g, times[%d]=%g", ErrTimes, i-1, times[i-1], i, times[i])
		}
	}

	n := len(y0)
	w := newWorkspace(s.Method.Stages(), n)
	stops, isBreak := stopTimes(times, breakpoints)

	out := make([][]float64, len(times))
	out[0] = append([]float64(nil), y0...)
	y := append([]float64(nil), y0...)
	t := times[0]

	h := s.InitialStep
	if h <= 0 && len(times) > 1 {
		h = (times[1] - times[0]) / 100
	}
	if s.MaxStep > 0 && h > s.MaxStep {
		h = s.MaxStep
	}

	next := 0 // index into stops
	for i := 1; i < len(times); i++ {
		select {
		case <-ctx.Done():
			return out[:i], st, ctx.Err()
		default:
		}
		for t < times[i] {
			for next < len(stops) && stops[next] <= t {
				next++
			}
			target := stops[next] // times[i] is always in stops
			step := h
			clipped := false
			if t+step >= target {
				step = target - t
				clipped = true
			}
			if s.MaxSteps > 0 && st.Steps+st.Rejected >= s.MaxSteps {
				return out[:i], st, fmt.Errorf("%w (%d) at t=%g", ErrMaxSteps, s.MaxSteps, t)
			}
			minStep := s.MinStep
			if minStep <= 0 {
				minStep = 1e-12 * math.Max(1, math.Abs(t))
			}
			if step < minStep && !clipped {
				return out[:i], st, fmt.Errorf("%w: h=%g at t=%g", ErrStepTooSmall, step, t)
			}

			lo, hi := t, t+step
			if clipped {
				hi = target
			}
			if isBreak(lo) {
				lo = math.Nextafter(lo, math.Inf(1))
			}
			if clipped && isBreak(target) {
				hi = math.Nextafter(target, math.Inf(-1))
			}

			errNorm := s.step(f, t, step, lo, hi, y, w)
			st.Evaluations += s.Method.Stages()

			if !s.Adaptive {
				if !allFinite(w.ynew) {
					return out[:i], st, fmt.Errorf("%w at t=%g", ErrNotFinite, t+step)
				}
				copy(y, w.ynew)
				if clipped {
					t = target
				} else {
					t += step
				}
				st.Steps++
				st.LastStep = step
				continue
			}

			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) || !allFinite(w.ynew) {
				// Shrink hard and retry; give up if the step is already tiny.
				st.Rejected++
				h = step / 10
				if h < minStep {
					return out[:i], st, fmt.Errorf("%w at t=%g", ErrNotFinite, t+step)
				}
				continue
			}

			factor := stepFactor(errNorm, s.Method.Order)
			if errNorm <= 1 {
				copy(y, w.ynew)
				if clipped {
					t = target
				} else {
					t += step
				}
				st.Steps++
				st.LastStep = step
				// A step shortened to land on a stop says nothing about
				// how large the next one may be.
				if !clipped || step*factor > h {
					h = step * factor
				}
			} else {
				st.Rejected++
				h = step * math.Min(factor, 1)
				if h < minStep {
					return out[:i], st, fmt.Errorf("%w: h=%g at t=%g", ErrStepTooSmall, h, t)
				}
			}
			if s.MaxStep > 0 && h > s.MaxStep {
				h = s.MaxStep
			}
		}
		out[i] = append([]float64(nil), y...)
	}
	return out, st, nil
}

// step takes one step of size h from (t, y), leaving the result in w.ynew
// and returning the scaled RMS error estimate (zero for fixed-step use).
// Stage times are clamped to [lo, hi].
func (s *Solver) step(f Func, t, h, lo, hi float64, y []float64, w *workspace) float64 {
	m := s.Method
	for i := range m.B {
		copy(w.tmp, y)
		for j, a := range m.A[i] {
			if a != 0 {
				floats.AddScaled(w.tmp, h*a, w.k[j])
			}
		}
		f(math.Min(hi, math.Max(lo, t+m.C[i]*h)), w.tmp, w.k[i])
	}
	copy(w.ynew, y)
	for i, b := range m.B {
		if b != 0 {
			floats.AddScaled(w.ynew, h*b, w.k[i])
		}
	}
	if !s.Adaptive {
		return 0
	}
	for i := range w.err {
		w.err[i] = 0
	}
	for i, b := range m.Bhat {
		if b != 0 {
			floats.AddScaled(w.err, h*b, w.k[i])
		}
	}
	var sum float64
	for i, e := range w.err {
		scale := s.AbsTol + s.RelTol*math.Max(math.Abs(y[i]), math.Abs(w.ynew[i]))
		sum += (e / scale) * (e / scale)
	}
	return math.Sqrt(sum / float64(len(y)))
}

// stepFactor returns the step size multiplier for the given error norm.
func stepFactor(errNorm float64, order int) float64 {
	const (
		safety    = 0.9
		minFactor = 0.2
		maxFactor = 5.
	)
	if errNorm == 0 {
		return maxFactor
	}
	return math.Min(maxFactor, math.Max(minFactor, safety*math.Pow(errNorm, -1/float64(order))))
}

type workspace struct {
	k              [][]float64
	tmp, ynew, err []float64
}

func newWorkspace(stages, n int) *workspace {
	w := &workspace{
		k:    make([][]float64, stages),
		tmp:  make([]float64, n),
		ynew: make([]float64, n),
		err:  make([]float64, n),
	}
	for i := range w.k {
		w.k[i] = make([]float64, n)
	}
	return w
}

// stopTimes merges the output times with the breakpoints that fall inside
// the integration interval. isBreak reports whether a time is one of the
// breakpoints, including ones at either end of the interval.
func stopTimes(times, breakpoints []float64) (stops []float64, isBreak func(float64) bool) {
	stops = append([]float64(nil), times[1:]...)
	first, last := times[0], times[len(times)-1]
	var bps []float64
	for _, b := range breakpoints {
		if b >= first && b <= last {
			bps = append(bps, b)
		}
		if b > first && b < last {
			stops = append(stops, b)
		}
	}
	sort.Float64s(stops)
	sort.Float64s(bps)
	isBreak = func(t float64) bool {
		i := sort.SearchFloat64s(bps, t)
		return i < len(bps) && bps[i] == t
	}
	return stops, isBreak
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
