// market/instruments.go
package market

// InstrumentMeta carries the static symbol properties the desk needs for
// price and volume normalization. The trading terminal remains the source
// of truth for anything dynamic (margin, session state, spreads).
type InstrumentMeta struct {
	Name       string
	Digits     int     // price decimal places
	VolumeMin  float64 // smallest tradable lot
	VolumeMax  float64
	VolumeStep float64 // lot increment
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {
		Name:       "EURUSD",
		Digits:     5,
		VolumeMin:  0.01,
		VolumeMax:  100,
		VolumeStep: 0.01,
	},
	"GBPUSD": {
		Name:       "GBPUSD",
		Digits:     5,
		VolumeMin:  0.01,
		VolumeMax:  100,
		VolumeStep: 0.01,
	},
	"USDJPY": {
		Name:       "USDJPY",
		Digits:     3,
		VolumeMin:  0.01,
		VolumeMax:  100,
		VolumeStep: 0.01,
	},
	"XAUUSD": {
		Name:       "XAUUSD",
		Digits:     2,
		VolumeMin:  0.01,
		VolumeMax:  50,
		VolumeStep: 0.01,
	},
}

// Meta returns the metadata for symbol, falling back to 5-digit FX defaults
// for symbols the table does not know. A wrong pip size on an exotic still
// beats refusing to watch the position.
func Meta(symbol string) InstrumentMeta {
	if m, ok := Instruments[symbol]; ok {
		return m
	}
	return InstrumentMeta{
		Name:       symbol,
		Digits:     5,
		VolumeMin:  0.01,
		VolumeMax:  100,
		VolumeStep: 0.01,
	}
}
