package trigger

import "github.com/rustyeddy/desk/broker"

// Fired reports whether a trigger level has been reached. Longs fire at or
// above the level, shorts at or below it. Price must be the exit-side quote
// for the position (bid for long, ask for short), the side a close would
// actually fill on.
func Fired(side broker.Side, level, price float64) bool {
	if side == broker.Long {
		return price >= level
	}
	return price <= level
}
