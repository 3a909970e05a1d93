// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the counter4 settings from .env files and COUNTER4_*
// environment variables.
//
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/db47h/counter4/bench"
	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/dut"
	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variable names.
//
const (
	EnvClockPeriod   = "COUNTER4_CLOCK_PERIOD"
	EnvResetCycles   = "COUNTER4_RESET_CYCLES"
	EnvStepsPerCycle = "COUNTER4_SPC"
	EnvWorkers       = "COUNTER4_WORKERS"
	EnvClearMode     = "COUNTER4_CLEAR_MODE"
	EnvControlWidth  = "COUNTER4_CONTROL_WIDTH"
	EnvLoadPort      = "COUNTER4_LOAD_PORT"
	EnvNetlist       = "COUNTER4_NETLIST"
	EnvRecord        = "COUNTER4_RECORD"
	EnvVerbosity     = "COUNTER4_VERBOSITY"
)

// MinResetCycles is the shortest reset accepted by Validate: rst_n must be
// held low for at least 10 clock periods.
//
const MinResetCycles = 10

// DefaultFile is loaded by Load when no file is given and it exists.
//
const DefaultFile = ".env"

// Config holds the settings shared by all commands.
//
type Config struct {
	ClockPeriod   time.Duration
	ResetCycles   int
	StepsPerCycle uint
	Workers       int
	ClearMode     counter.ClearMode
	ControlWidth  int
	LoadPort      bool
	Netlist       bool
	RecordPath    string // empty: no recording
	Verbosity     int
}

// Default returns the default configuration: a 10µs clock and rst_n held low
// for 10 cycles.
//
func Default() Config {
	return Config{
		ClockPeriod:   bench.DefaultClockPeriod,
		ResetCycles:   bench.DefaultResetCycles,
		StepsPerCycle: dut.MinSPC,
		Workers:       1,
		ClearMode:     counter.ClearRising,
		ControlWidth:  counter.Width,
	}
}

// Load reads the given .env files, or DefaultFile if none is given, then
// applies them on top of Default. Variables already set in the process
// environment take precedence over the files.
//
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultFile); err == nil {
			files = []string{DefaultFile}
		}
	}
	var fileEnv map[string]string
	if len(files) > 0 {
		var err error
		if fileEnv, err = godotenv.Read(files...); err != nil {
			return Config{}, errors.Wrap(err, "load env files")
		}
	}
	return Parse(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, ok
		}
		v, ok := fileEnv[key]
		return v, ok
	})
}

// Parse builds a Config from Default and the variables returned by lookup.
//
func Parse(lookup func(key string) (string, bool)) (Config, error) {
	cfg := Default()
	var err error
	set := func(key string, f func(v string) error) {
		v, ok := lookup(key)
		if !ok || err != nil {
			return
		}
		if e := f(v); e != nil {
			err = errors.Wrapf(e, "%s=%q", key, v)
		}
	}
	set(EnvClockPeriod, func(v string) (e error) {
		cfg.ClockPeriod, e = time.ParseDuration(v)
		if e == nil && cfg.ClockPeriod <= 0 {
			e = errors.New("clock period must be positive")
		}
		return e
	})
	set(EnvResetCycles, func(v string) (e error) {
		cfg.ResetCycles, e = strconv.Atoi(v)
		return e
	})
	set(EnvStepsPerCycle, func(v string) error {
		n, e := strconv.ParseUint(v, 10, 32)
		cfg.StepsPerCycle = uint(n)
		return e
	})
	set(EnvWorkers, func(v string) (e error) {
		cfg.Workers, e = strconv.Atoi(v)
		return e
	})
	set(EnvClearMode, func(v string) (e error) {
		cfg.ClearMode, e = counter.ParseClearMode(v)
		return e
	})
	set(EnvControlWidth, func(v string) (e error) {
		cfg.ControlWidth, e = strconv.Atoi(v)
		return e
	})
	set(EnvLoadPort, func(v string) (e error) {
		cfg.LoadPort, e = strconv.ParseBool(v)
		return e
	})
	set(EnvNetlist, func(v string) (e error) {
		cfg.Netlist, e = strconv.ParseBool(v)
		return e
	})
	set(EnvRecord, func(v string) error {
		cfg.RecordPath = v
		return nil
	})
	set(EnvVerbosity, func(v string) (e error) {
		cfg.Verbosity, e = strconv.Atoi(v)
		return e
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
//
func (c *Config) Validate() error {
	switch {
	case c.ResetCycles < MinResetCycles:
		return errors.Errorf("reset cycles must be at least %d, got %d", MinResetCycles, c.ResetCycles)
	case c.ControlWidth < 3 || c.ControlWidth > counter.Width:
		return errors.Errorf("control width must be 3 or 4, got %d", c.ControlWidth)
	case c.StepsPerCycle < dut.MinSPC:
		return errors.Errorf("steps per cycle must be at least %d, got %d", dut.MinSPC, c.StepsPerCycle)
	}
	return nil
}

// DUT returns the design configuration.
//
func (c *Config) DUT() dut.Config {
	return dut.Config{ClearMode: c.ClearMode, LoadPort: c.LoadPort, Netlist: c.Netlist}
}

// Bench returns a bench configuration.
//
func (c *Config) Bench(log logr.Logger, obs bench.Observer) bench.Config {
	return bench.Config{
		DUT:           c.DUT(),
		StepsPerCycle: c.StepsPerCycle,
		Workers:       c.Workers,
		ResetCycles:   c.ResetCycles,
		ClockPeriod:   c.ClockPeriod,
		ControlWidth:  c.ControlWidth,
		Logger:        log,
		Observer:      obs,
	}
}
