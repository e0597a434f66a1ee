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

package ionochem

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ionochem/internal/ode"
	"github.com/spatialmodel/ionochem/science/ionization"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Version gives the version number.
const Version = "1.0.0"

// Simulation describes one integration run: a single altitude, time
// grid, ionization regime and temperature adjustment.
type Simulation struct {
	Atmosphere *Atmosphere
	Mechanism  Mechanism

	// Solver integrates the system. If nil, ode.DefaultSolver is used.
	Solver *ode.Solver

	AltitudeIndex int

	// Times are the output times [s]; they must be strictly increasing.
	// The initial state is assigned to Times[0].
	Times []float64

	Regime ionization.Regime

	// Expression is the rate formula used with ionization.RegimeCustom.
	Expression string

	Adjustment TemperatureAdjustment

	// Log receives progress messages. If nil, the logrus standard
	// logger is used.
	Log logrus.FieldLogger
}

// Trajectory is the result of a Simulation.
type Trajectory struct {
	AltitudeIndex int
	Altitude      float64 // km
	Regime        ionization.Regime
	Adjustment    TemperatureAdjustment

	// Level is the resolved atmospheric state the run used.
	Level Level

	// SpeciesNames are the names of the state vector components.
	SpeciesNames []string

	// Times [s] and the state vector at each time. States[i] has one
	// value per species.
	Times  []float64
	States [][]float64

	Stats ode.Stats
}

func (s *Simulation) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Run integrates the simulation. The returned trajectory holds one
// state per requested time. Solver failures are returned, not retried.
func (s *Simulation) Run(ctx context.Context) (*Trajectory, error) {
	if s.Atmosphere == nil || s.Mechanism == nil {
		return nil, fmt.Errorf("ionochem: simulation needs an atmosphere and a mechanism")
	}
	if len(s.Times) == 0 {
		return nil, fmt.Errorf("ionochem: simulation has no output times")
	}
	lvl, err := s.Atmosphere.Level(s.AltitudeIndex, s.Adjustment)
	if err != nil {
		return nil, err
	}
	src, err := ionization.New(s.Regime, s.Expression)
	if err != nil {
		return nil, err
	}
	var breakpoints []float64
	if b, ok := src.(ionization.Breakpointer); ok {
		breakpoints = b.Breakpoints()
	}
	solver := s.Solver
	if solver == nil {
		solver = ode.DefaultSolver()
	}

	m := s.Mechanism
	f := func(t float64, y, dydt []float64) {
		m.Derivatives(dydt, y, t, &lvl, src)
	}
	y0 := m.InitialState(&lvl)

	log := s.log().WithFields(logrus.Fields{
		"altitude":   lvl.Altitude,
		"index":      lvl.Index,
		"regime":     s.Regime,
		"adjustment": s.Adjustment,
		"start":      s.Times[0],
		"end":        s.Times[len(s.Times)-1],
	})
	log.Debug("starting integration")
	start := time.Now()

	states, stats, err := solver.Solve(ctx, f, y0, s.Times, breakpoints)
	if err != nil {
		log.WithError(err).Error("integration failed")
		return nil, fmt.Errorf("ionochem: altitude index %d, regime %v: %w", s.AltitudeIndex, s.Regime, err)
	}
	log.WithFields(logrus.Fields{
		"steps":    stats.Steps,
		"rejected": stats.Rejected,
		"elapsed":  time.Since(start),
	}).Info("integration complete")

	return &Trajectory{
		AltitudeIndex: s.AltitudeIndex,
		Altitude:      lvl.Altitude,
		Regime:        s.Regime,
		Adjustment:    s.Adjustment,
		Level:         lvl,
		SpeciesNames:  m.Species(),
		Times:         append([]float64(nil), s.Times...),
		States:        states,
		Stats:         stats,
	}, nil
}

// Species returns the time series of state vector component i.
func (t *Trajectory) Species(i int) []float64 {
	v := make([]float64, len(t.States))
	for j, s := range t.States {
		v[j] = s[i]
	}
	return v
}

// Final returns the state at the last output time.
func (t *Trajectory) Final() []float64 {
	if len(t.States) == 0 {
		return nil
	}
	return t.States[len(t.States)-1]
}

// Summary holds statistics of one species over a trajectory.
type Summary struct {
	Min, Max, Mean, Final float64
}

// Summary returns statistics of state vector component i.
func (t *Trajectory) Summary(i int) Summary {
	v := t.Species(i)
	if len(v) == 0 {
		return Summary{}
	}
	return Summary{
		Min:   floats.Min(v),
		Max:   floats.Max(v),
		Mean:  stat.Mean(v, nil),
		Final: v[len(v)-1],
	}
}

// Label names the run, for example "idx10_110km_step_unheated_0-3599s".
func (t *Trajectory) Label() string {
	var start, end float64
	if len(t.Times) > 0 {
		start, end = t.Times[0], t.Times[len(t.Times)-1]
	}
	return fmt.Sprintf("idx%d_%gkm_%v_%v_%g-%gs", t.AltitudeIndex, t.Altitude, t.Regime, t.Adjustment, start, end)
}

// RunAll runs the simulations, at most parallel at a time (all at once
// if parallel < 1), and returns their trajectories in the same order.
// The first failure cancels the remaining runs.
func RunAll(ctx context.Context, sims []*Simulation, parallel int) ([]*Trajectory, error) {
	out := make([]*Trajectory, len(sims))
	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, s := range sims {
		i, s := i, s
		g.Go(func() error {
			t, err := s.Run(gctx)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Window is an output time grid from Start to End [s] inclusive, with
// spacing Step [s].
type Window struct {
	Start, End, Step float64
}

// Times returns the output times in the window.
func (w Window) Times() []float64 {
	if !(w.Step > 0) || w.End < w.Start {
		return nil
	}
	n := int(math.Floor((w.End-w.Start)/w.Step+1e-9)) + 1
	t := make([]float64, n)
	for i := range t {
		t[i] = w.Start + float64(i)*w.Step
	}
	return t
}

func (w Window) String() string {
	return fmt.Sprintf("%g-%gs", w.Start, w.End)
}

// ReferenceAltitudes are the altitude indices of the illustrative runs,
// about 110, 170 and 230 km above a 100 km base.
var ReferenceAltitudes = []int{10, 70, 130}

// ReferenceWindows are the time windows of the illustrative runs: the
// quiet background hour, the pulse, and the pulse with the following
// recovery.
var ReferenceWindows = []Window{
	{Start: 0, End: 3599, Step: 1},
	{Start: 3600, End: 3700, Step: 0.5},
	{Start: 3600, End: 4200, Step: 1},
}

// ReferenceRuns returns one simulation for every combination of altitude
// index, window and regime, sharing atmosphere, mechanism, solver
// settings and temperature adjustment. Each simulation gets its own copy
// of the solver.
func ReferenceRuns(atm *Atmosphere, m Mechanism, solver *ode.Solver, altitudes []int, windows []Window, regimes []ionization.Regime, expr string, adj TemperatureAdjustment, log logrus.FieldLogger) ([]*Simulation, error) {
	var sims []*Simulation
	for _, i := range altitudes {
		if err := atm.check(i); err != nil {
			return nil, err
		}
		for _, w := range windows {
			times := w.Times()
			if len(times) < 2 {
				return nil, fmt.Errorf("ionochem: time window %v with step %g has fewer than two output times", w, w.Step)
			}
			for _, r := range regimes {
				var sv *ode.Solver
				if solver != nil {
					c := *solver
					sv = &c
				}
				sims = append(sims, &Simulation{
					Atmosphere:    atm,
					Mechanism:     m,
					Solver:        sv,
					AltitudeIndex: i,
					Times:         times,
					Regime:        r,
					Expression:    expr,
					Adjustment:    adj,
					Log:           log,
				})
			}
		}
	}
	return sims, nil
}
