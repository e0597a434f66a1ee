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

// Package ionoutil contains the command-line interface for ionochem.
package ionoutil

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/science/chem/ionchem"
	"github.com/spatialmodel/ionochem/science/ionization"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the commands.
var Log = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ionochem.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging verbosity: one of panic, fatal,
              error, warn, info, debug or trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "NeutralProfile",
			usage: `
              NeutralProfile is the path to the neutral atmosphere table
              (MSIS format). It can include environment variables.`,
			defaultVal: "msis.dat",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags(), ratesCmd.Flags()},
		},
		{
			name: "IonosphereProfile",
			usage: `
              IonosphereProfile is the path to the ionospheric table
              (IRI format). It can include environment variables.`,
			defaultVal: "iri.dat",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags(), ratesCmd.Flags()},
		},
		{
			name: "MinAltitude",
			usage: `
              MinAltitude is the altitude [km] of index 0. Profile rows
              below it are ignored.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags(), ratesCmd.Flags()},
		},
		{
			name: "Altitudes",
			usage: `
              Altitudes specifies the altitude indices to simulate or
              report, counted from MinAltitude.`,
			shorthand:  "a",
			defaultVal: []int{10, 70, 130},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags(), ratesCmd.Flags()},
		},
		{
			name: "Heated",
			usage: `
              Heated raises the electron and composite temperatures by
              1000 K below altitude index 50 and by 2000 K at and above it.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags(), ratesCmd.Flags()},
		},
		{
			name: "Windows",
			usage: `
              Windows specifies the output time grids as start:end:step
              in seconds, with the end time included.`,
			defaultVal: []string{"0:3599:1", "3600:3700:0.5", "3600:4200:1"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Regimes",
			usage: `
              Regimes specifies the ionization regimes to simulate. Valid
              options are constant, step, sinusoidal and custom.`,
			shorthand:  "r",
			defaultVal: []string{"constant", "step", "sinusoidal"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Expression",
			usage: `
              Expression is the ionization rate [m⁻³ s⁻¹] as a function of
              time t [s] for the custom regime, for example
              "t < 3600 ? pow(10, 8) : pow(10, 10)".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.Method",
			usage: `
              Solver.Method is the Runge-Kutta method: dopri5, bs32, rk4 or
              euler. rk4 and euler require Solver.Step.`,
			defaultVal: "dopri5",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.RelTol",
			usage: `
              Solver.RelTol is the relative error tolerance for adaptive
              methods.`,
			defaultVal: 1e-6,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.AbsTol",
			usage: `
              Solver.AbsTol is the absolute error tolerance [m⁻³] for adaptive
              methods.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.Step",
			usage: `
              Solver.Step is a fixed step size [s]. If zero, the step size
              is adapted to meet the error tolerances.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.MaxSteps",
			usage: `
              Solver.MaxSteps is the maximum number of steps in one run.`,
			defaultVal: 10000000,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where plots and the run record
              are written. It is created if it does not exist.`,
			shorthand:  "o",
			defaultVal: "ionochem_output",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFormat",
			usage: `
              PlotFormat is the plot file type: png, svg, pdf, eps, jpg or tif.`,
			defaultVal: "png",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Parallel",
			usage: `
              Parallel is the maximum number of runs to integrate at once.`,
			defaultVal: runtime.NumCPU(),
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("IONOCHEM")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})

	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(profileCmd)
	Root.AddCommand(ratesCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ionochem: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("ionochem: invalid LogLevel: %v", err)
	}
	Log.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ionochem",
	Short: "A model of lower-ionosphere electron and ion chemistry.",
	Long: `ionochem integrates the continuity equations for electrons and the
O⁺, O₂⁺, N₂⁺, NO and NO⁺ species at fixed altitudes under background and
pulsed ionization. Use the subcommands specified below to access the model
functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'IONOCHEM_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'. File paths
are allowed to contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ionochem.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ionochem v%s\n", ionochem.Version)
	},
	DisableAutoGenTag: true,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the atmosphere at the selected altitudes.",
	Long: `profile prints the neutral and ion densities and the temperatures that
the chemistry uses at each of the altitude indices in --Altitudes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		atm, err := loadAtmosphere(Cfg)
		if err != nil {
			return err
		}
		idx, err := checkAltitudes(Cfg.Get("Altitudes"), atm)
		if err != nil {
			return err
		}
		return writeProfile(cmd.OutOrStdout(), atm, idx, adjustment(Cfg.GetBool("Heated")))
	},
	DisableAutoGenTag: true,
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print the rate coefficients at the selected altitudes.",
	Long: `rates prints the recombination and ion-neutral exchange rate coefficients
and the fraction of background ionization going into each ion at each of the
altitude indices in --Altitudes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		atm, err := loadAtmosphere(Cfg)
		if err != nil {
			return err
		}
		idx, err := checkAltitudes(Cfg.Get("Altitudes"), atm)
		if err != nil {
			return err
		}
		return writeRates(cmd.OutOrStdout(), atm, idx, adjustment(Cfg.GetBool("Heated")))
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run integrates every combination of the configured altitude indices,
time windows and ionization regimes, writes a plot of each trajectory to
--OutputDir, and records the settings and results in config.toml in the same
directory. The record can be passed back with --config to repeat the runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return Run(ctx, Cfg)
	},
	DisableAutoGenTag: true,
}

// Run carries out the reference runs described by cfg.
func Run(ctx context.Context, cfg *viper.Viper) error {
	atm, err := loadAtmosphere(cfg)
	if err != nil {
		return err
	}
	altitudes, err := checkAltitudes(cfg.Get("Altitudes"), atm)
	if err != nil {
		return err
	}
	windows, err := checkWindows(cfg.Get("Windows"))
	if err != nil {
		return err
	}
	expr := cfg.GetString("Expression")
	regimes, err := checkRegimes(cfg.Get("Regimes"), expr)
	if err != nil {
		return err
	}
	solver, err := solverConfig(cfg)
	if err != nil {
		return err
	}
	outDir, err := checkOutputDir(cfg.GetString("OutputDir"))
	if err != nil {
		return err
	}
	format, err := checkPlotFormat(cfg.GetString("PlotFormat"))
	if err != nil {
		return err
	}
	parallel, err := cast.ToIntE(cfg.Get("Parallel"))
	if err != nil {
		return fmt.Errorf("ionochem: invalid Parallel: %v", err)
	}
	adj := adjustment(cfg.GetBool("Heated"))
	m := ionchem.Mechanism{}

	sims, err := ionochem.ReferenceRuns(atm, m, solver, altitudes, windows, regimes, expr, adj, Log)
	if err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"runs":     len(sims),
		"parallel": parallel,
		"method":   solver.Method.Name,
	}).Info("starting runs")
	trajectories, err := ionochem.RunAll(ctx, sims, parallel)
	if err != nil {
		return err
	}

	rec := newRunRecord(cfg, solver, altitudes, windows, regimes, adj)
	for _, tr := range trajectories {
		plotFile := filepath.Join(outDir, tr.Label()+"."+format)
		if err := PlotTrajectory(tr, plotFile); err != nil {
			return err
		}
		src, err := ionization.New(tr.Regime, expr)
		if err != nil {
			return err
		}
		final := tr.Final()
		last := tr.Times[len(tr.Times)-1]
		eq := m.Equilibrium(&tr.Level, final, src.Rate(last))
		ne := tr.Summary(ionchem.IElectron)
		Log.WithFields(logrus.Fields{
			"run":         tr.Label(),
			"ne_min":      ne.Min,
			"ne_max":      ne.Max,
			"ne_final":    ne.Final,
			"equilibrium": eq,
		}).Info("run summary")
		rec.Runs = append(rec.Runs, RunResult{
			Label:               tr.Label(),
			AltitudeIndex:       tr.AltitudeIndex,
			Altitude:            tr.Altitude,
			Regime:              tr.Regime.String(),
			Start:               tr.Times[0],
			End:                 last,
			Steps:               tr.Stats.Steps,
			Rejected:            tr.Stats.Rejected,
			MinElectron:         ne.Min,
			MaxElectron:         ne.Max,
			FinalElectron:       ne.Final,
			EquilibriumElectron: eq,
			Plot:                filepath.Base(plotFile),
		})
	}
	recFile := filepath.Join(outDir, "config.toml")
	if err := WriteRunRecord(recFile, rec); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"dir": outDir, "plots": len(trajectories)}).Info("output written")
	return nil
}

func adjustment(heated bool) ionochem.TemperatureAdjustment {
	if heated {
		return ionochem.Heated
	}
	return ionochem.Unheated
}

// newTable returns a tab-aligned writer in the layout used by the
// profile and rates commands.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}
