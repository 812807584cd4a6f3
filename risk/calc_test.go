package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_OnePercentEURUSD(t *testing.T) {
	t.Parallel()

	got := Calculate(Inputs{
		Balance:     10000,
		RiskPercent: 1.0,
		StopPips:    20,
		Symbol:      "EURUSD",
	})

	assert.InDelta(t, 100.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 0.5, got.RawLots, 1e-9)
	assert.InDelta(t, 0.5, got.Lots, 1e-9)
}

func TestCalculate_NormalizesToStep(t *testing.T) {
	t.Parallel()

	got := Calculate(Inputs{
		Balance:     3000,
		RiskPercent: 1.0,
		StopPips:    23,
		Symbol:      "EURUSD",
	})

	// 30 / 230 = 0.1304... lots, snapped to the 0.01 step.
	assert.InDelta(t, 0.13, got.Lots, 1e-9)
}

func TestCalculate_RejectsBadInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"zero_balance", Inputs{Balance: 0, RiskPercent: 1, StopPips: 20, Symbol: "EURUSD"}},
		{"zero_risk", Inputs{Balance: 10000, RiskPercent: 0, StopPips: 20, Symbol: "EURUSD"}},
		{"zero_stop", Inputs{Balance: 10000, RiskPercent: 1, StopPips: 0, Symbol: "EURUSD"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, Outputs{}, Calculate(tt.in))
		})
	}
}

func TestRR(t *testing.T) {
	t.Parallel()

	// 20 pip stop, 40 pip target.
	got := RR("EURUSD", 1.1000, 1.0980, 1.1040)
	assert.InDelta(t, 2.0, got, 1e-9)

	assert.Zero(t, RR("EURUSD", 1.1000, 1.1000, 1.1040))
}
