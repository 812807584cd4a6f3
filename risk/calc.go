// Package risk holds the desk's pre-trade arithmetic: lot sizing from a
// risk budget and risk:reward ratios. Pure functions, no terminal access;
// pip values per standard lot come from the caller or the USD-quote
// default.
package risk

import (
	"github.com/rustyeddy/desk/market"
)

// PipValuePerLot is the account-currency value of one pip for one standard
// lot on USD-quoted symbols. Non-USD quotes need a conversion the desk does
// not perform; callers pass their own value through Inputs.PipValue.
const PipValuePerLot = 10.0

// Inputs to a lot-size calculation.
type Inputs struct {
	Balance     float64 // account balance, account currency
	RiskPercent float64 // e.g. 1.0 risks 1% of balance
	StopPips    float64 // stop distance in pips
	Symbol      string
	PipValue    float64 // per standard lot; 0 uses PipValuePerLot
}

// Outputs of a lot-size calculation.
type Outputs struct {
	RiskAmount float64 // account currency at risk
	RawLots    float64 // before volume normalization
	Lots       float64 // normalized to the symbol's volume step
}

// Calculate sizes a position so a stop-out loses RiskPercent of balance.
// Non-positive inputs yield zero lots rather than an error; the CLI treats
// that as "cannot size this trade".
func Calculate(in Inputs) Outputs {
	if in.Balance <= 0 || in.RiskPercent <= 0 || in.StopPips <= 0 {
		return Outputs{}
	}

	pipValue := in.PipValue
	if pipValue <= 0 {
		pipValue = PipValuePerLot
	}

	riskAmount := in.Balance * in.RiskPercent / 100.0
	rawLots := riskAmount / (in.StopPips * pipValue)

	return Outputs{
		RiskAmount: riskAmount,
		RawLots:    rawLots,
		Lots:       market.NormalizeVolume(in.Symbol, rawLots),
	}
}

// RR returns the reward:risk ratio for an entry/stop/target set, 0 when the
// stop distance is degenerate.
func RR(symbol string, entry, stop, target float64) float64 {
	riskPips := market.Pips(symbol, entry, stop)
	rewardPips := market.Pips(symbol, entry, target)
	if riskPips <= 0 {
		return 0
	}
	return rewardPips / riskPips
}
