package offchain

import "github.com/shopspring/decimal"

var tickBase = decimal.RequireFromString("1.01")

// TickToPriceString renders a tick as the price string the API expects,
// price = 1.01^tick, rounded half up to places decimals. Negative ticks
// divide rather than exponentiate so precision is not lost to the default
// division depth.
func TickToPriceString(tick int32, places int32) string {
	if tick >= 0 {
		return tickBase.Pow(decimal.NewFromInt32(tick)).StringFixed(places)
	}

	p := tickBase.Pow(decimal.NewFromInt32(-tick))
	return decimal.NewFromInt(1).DivRound(p, places+2).StringFixed(places)
}
