package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/internal/config"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParse_defaults(t *testing.T) {
	cfg, err := config.Parse(env(nil))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 10*time.Microsecond, cfg.ClockPeriod)
	assert.Equal(t, 10, cfg.ResetCycles)
	assert.Equal(t, counter.ClearRising, cfg.ClearMode)
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse(env(map[string]string{
		config.EnvClockPeriod:   "1ms",
		config.EnvResetCycles:   "12",
		config.EnvStepsPerCycle: "32",
		config.EnvWorkers:       "4",
		config.EnvClearMode:     "high",
		config.EnvControlWidth:  "3",
		config.EnvLoadPort:      "true",
		config.EnvNetlist:       "1",
		config.EnvRecord:        "run.sqlite3",
		config.EnvVerbosity:     "2",
	}))
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		ClockPeriod:   time.Millisecond,
		ResetCycles:   12,
		StepsPerCycle: 32,
		Workers:       4,
		ClearMode:     counter.ClearActiveHigh,
		ControlWidth:  3,
		LoadPort:      true,
		Netlist:       true,
		RecordPath:    "run.sqlite3",
		Verbosity:     2,
	}, cfg)

	bc := cfg.Bench(logr.Discard(), nil)
	assert.Equal(t, counter.ClearActiveHigh, bc.DUT.ClearMode)
	assert.True(t, bc.DUT.Netlist)
	assert.Equal(t, uint(32), bc.StepsPerCycle)
}

func TestParse_errors(t *testing.T) {
	for _, m := range []map[string]string{
		{config.EnvClockPeriod: "fast"},
		{config.EnvClockPeriod: "-1s"},
		{config.EnvResetCycles: "0"},
		{config.EnvResetCycles: "9"},
		{config.EnvClearMode: "sideways"},
		{config.EnvControlWidth: "8"},
		{config.EnvStepsPerCycle: "4"},
		{config.EnvLoadPort: "maybe"},
	} {
		_, err := config.Parse(env(m))
		assert.Error(t, err, "%v", m)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(fn, []byte("COUNTER4_RESET_CYCLES=15\nCOUNTER4_CLEAR_MODE=low\n"), 0o644))

	cfg, err := config.Load(fn)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.ResetCycles)
	assert.Equal(t, counter.ClearActiveLow, cfg.ClearMode)

	// process environment wins over files
	t.Setenv(config.EnvResetCycles, "20")
	cfg, err = config.Load(fn)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.ResetCycles)

	_, err = config.Load(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}
