package util

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRouterConfigDefaults(t *testing.T) {
	cfg, err := LoadRouterConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, float32(0.5), cfg.InitialPresentCongestionFactor)
	assert.Equal(t, float32(2), cfg.PresentCongestionMultiplier)
	assert.Equal(t, float32(1e6), cfg.MaxPresentCongestionFactor)
	assert.Equal(t, float32(1), cfg.HistoricalCongestionFactor)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.NumWorkers)
	assert.Equal(t, 1, cfg.NumBatches)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRouterConfigFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
initial_present_congestion_factor: 0.25
present_congestion_multiplier: 1.5
max_present_congestion_factor: 64
historical_congestion_factor: 0.75
num_workers: 3
num_batches: 4
log_level: debug
`)))

	cfg, err := LoadRouterConfig(v)
	require.NoError(t, err)
	assert.Equal(t, RouterConfig{
		InitialPresentCongestionFactor: 0.25,
		PresentCongestionMultiplier:    1.5,
		MaxPresentCongestionFactor:     64,
		HistoricalCongestionFactor:     0.75,
		NumWorkers:                     3,
		NumBatches:                     4,
		LogLevel:                       "debug",
	}, cfg)
}

func TestLoadRouterConfigInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value interface{}
	}{
		{name: "non positive initial factor", key: "initial_present_congestion_factor", value: 0},
		{name: "multiplier not growing", key: "present_congestion_multiplier", value: 1},
		{name: "max below initial", key: "max_present_congestion_factor", value: 0.1},
		{name: "no workers", key: "num_workers", value: 0},
		{name: "no batches", key: "num_batches", value: 0},
		{name: "unknown log level", key: "log_level", value: "verbose"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := LoadRouterConfig(v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadParamInput))
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("disk on fire")
	err := WrapErrorf(orig, ErrCorruptGraph, "reading node %d", 3)

	assert.Equal(t, "reading node 3", err.Error())
	assert.True(t, errors.Is(err, orig))
	assert.True(t, errors.Is(err, ErrCorruptGraph))
	assert.False(t, errors.Is(err, ErrUnsupportedVersion))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ErrCorruptGraph, e.Code())
}

func TestScalarMath(t *testing.T) {
	assert.InDelta(t, 2.718281828459045, Exp(1), 1e-12)
	assert.Equal(t, 3.0, Sqrt(9))
	assert.Equal(t, 2.5, Fabs(-2.5))
	assert.Equal(t, 4, Abs(-4))
	assert.Equal(t, int16(7), Abs(int16(7)))
}
