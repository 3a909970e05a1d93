// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/db47h/counter4/bench"
	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/internal/config"
	"github.com/db47h/counter4/internal/record"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
)

// recordAuto as the record path picks a fresh file name.
const recordAuto = "auto"

var (
	envFiles []string
	cfg      config.Config
	log      logr.Logger

	flagClearMode string
	flags         = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "counter4",
	Short: "Testbench for a 4-bit synchronous up-counter.",
	Long: `counter4 simulates a 4-bit synchronous up-counter with clear, load and ` +
		`enable controls, either as a behavioural model or as a gate-level ` +
		`netlist, and checks its output sequence against test scenarios.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&envFiles, "env", nil, "`.env` files to load (default .env if present)")
	pf.StringVar(&flagClearMode, "clear-mode", flags.ClearMode.String(), "CLR decoding: rising, none, low or high")
	pf.BoolVar(&flags.Netlist, "netlist", false, "simulate the gate-level netlist instead of the model")
	pf.BoolVar(&flags.LoadPort, "load-port", false, "wire uio_in as load data")
	pf.IntVar(&flags.ResetCycles, "reset-cycles", flags.ResetCycles, "clock cycles with rst_n held low")
	pf.UintVar(&flags.StepsPerCycle, "spc", flags.StepsPerCycle, "simulation steps per clock cycle")
	pf.IntVar(&flags.Workers, "workers", flags.Workers, "simulation workers (0: one per CPU)")
	pf.DurationVar(&flags.ClockPeriod, "clock-period", flags.ClockPeriod, "simulated clock period")
	pf.StringVar(&flags.RecordPath, "record", "", "record samples to an SQLite `file` (\"auto\" for a generated name)")
	pf.CountVarP(&flags.Verbosity, "verbose", "v", "increase log verbosity")
}

// setup loads the configuration and applies the flags set on the command line.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Load(envFiles...); err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("clear-mode") {
		if cfg.ClearMode, err = counter.ParseClearMode(flagClearMode); err != nil {
			return err
		}
	}
	if fs.Changed("netlist") {
		cfg.Netlist = flags.Netlist
	}
	if fs.Changed("load-port") {
		cfg.LoadPort = flags.LoadPort
	}
	if fs.Changed("reset-cycles") {
		cfg.ResetCycles = flags.ResetCycles
	}
	if fs.Changed("spc") {
		cfg.StepsPerCycle = flags.StepsPerCycle
	}
	if fs.Changed("workers") {
		cfg.Workers = flags.Workers
	}
	if fs.Changed("clock-period") {
		cfg.ClockPeriod = flags.ClockPeriod
	}
	if fs.Changed("record") {
		cfg.RecordPath = flags.RecordPath
	}
	if fs.Changed("verbose") {
		cfg.Verbosity = flags.Verbosity
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	log = funcr.New(func(prefix, args string) {
		fmt.Fprintln(os.Stderr, prefix, args)
	}, funcr.Options{Verbosity: cfg.Verbosity})
	return nil
}

// benchConfig returns the bench configuration, with a recorder attached if
// recording is enabled. The returned function closes the recorder.
func benchConfig() (bench.Config, func(), error) {
	var obs bench.Observer
	done := func() {}
	if p := cfg.RecordPath; p != "" {
		if p == recordAuto {
			p = ""
		}
		r, err := record.New(p)
		if err != nil {
			return bench.Config{}, nil, err
		}
		log.Info("recording samples", "file", r.Path(), "run", r.RunID())
		obs = r
		done = func() {
			if err := r.Close(); err != nil {
				log.Error(err, "close recorder", "file", r.Path())
			}
		}
	}
	return cfg.Bench(log, obs), done, nil
}

// signalContext returns a context canceled on interrupt or when the command
// context is done.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
