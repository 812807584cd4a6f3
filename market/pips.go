package market

import "math"

// PipSize returns the price distance of one pip for a symbol.
// JPY-style 2/3 digit quotes pip at 0.01; everything else at 0.0001.
func PipSize(symbol string) float64 {
	d := Meta(symbol).Digits
	if d == 2 || d == 3 {
		return 0.01
	}
	return 0.0001
}

// Pips returns the absolute pip distance between two prices, rounded to a
// tenth of a pip.
func Pips(symbol string, a, b float64) float64 {
	return math.Round(math.Abs(a-b)/PipSize(symbol)*10) / 10
}

// PipsToPrice offsets base by the given number of pips. Positive pips move
// up, negative pips move down. The result is normalized to the symbol's
// digit precision.
func PipsToPrice(symbol string, base, pips float64) float64 {
	return NormalizePrice(symbol, base+pips*PipSize(symbol))
}

// NormalizePrice rounds a price to the symbol's digit precision.
func NormalizePrice(symbol string, price float64) float64 {
	pow := math.Pow(10, float64(Meta(symbol).Digits))
	return math.Round(price*pow) / pow
}

// NormalizeVolume snaps a lot size to the symbol's volume step and clamps
// it to the tradable range.
func NormalizeVolume(symbol string, volume float64) float64 {
	m := Meta(symbol)

	v := math.Round(volume/m.VolumeStep) * m.VolumeStep
	v = math.Max(m.VolumeMin, math.Min(v, m.VolumeMax))

	// Round away the float residue the step division leaves behind.
	switch {
	case m.VolumeStep >= 1.0:
		v = math.Round(v)
	case m.VolumeStep >= 0.1:
		v = math.Round(v*10) / 10
	default:
		v = math.Round(v*100) / 100
	}
	return v
}
