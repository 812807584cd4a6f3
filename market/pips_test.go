package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol string
		want   float64
	}{
		{"EURUSD", 0.0001},
		{"GBPUSD", 0.0001},
		{"USDJPY", 0.01},
		{"UNKNOWN", 0.0001},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.symbol, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, PipSize(tt.symbol), 1e-12)
		})
	}
}

func TestPips(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, Pips("EURUSD", 1.09500, 1.09600), 1e-9)
	assert.InDelta(t, 10.0, Pips("EURUSD", 1.09600, 1.09500), 1e-9)
	assert.InDelta(t, 50.0, Pips("USDJPY", 150.00, 150.50), 1e-9)
}

func TestPipsToPrice(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.09600, PipsToPrice("EURUSD", 1.09500, 10), 1e-9)
	assert.InDelta(t, 1.09400, PipsToPrice("EURUSD", 1.09500, -10), 1e-9)
	assert.InDelta(t, 149.50, PipsToPrice("USDJPY", 150.00, -50), 1e-9)
}

func TestNormalizePrice(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.09588, NormalizePrice("EURUSD", 1.0958849), 1e-9)
	assert.InDelta(t, 150.123, NormalizePrice("USDJPY", 150.12349), 1e-9)
}

func TestNormalizeVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
		in     float64
		want   float64
	}{
		{"snap_to_step", "EURUSD", 0.1049, 0.10},
		{"round_up", "EURUSD", 0.106, 0.11},
		{"clamp_min", "EURUSD", 0.001, 0.01},
		{"clamp_max", "XAUUSD", 75, 50},
		{"half_of_020", "EURUSD", 0.10, 0.10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, NormalizeVolume(tt.symbol, tt.in), 1e-9)
		})
	}
}
