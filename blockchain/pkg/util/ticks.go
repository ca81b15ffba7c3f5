package util

import (
	"fmt"
	"math/big"
)

// MaxTick bounds the tick range usable by positions; the encoded tick must
// also fit in 24 signed bits on the position ID.
const MaxTick = 887272

// ValidateTickRange checks that a (lower, upper) pair forms a usable position
// range. The position-ID encoder itself masks silently, so callers that build
// ticks programmatically should validate here first.
func ValidateTickRange(tickLower, tickUpper int32) error {
	if tickLower < -MaxTick || tickLower > MaxTick {
		return fmt.Errorf("tickLower %d out of range [-%d, %d]", tickLower, MaxTick, MaxTick)
	}
	if tickUpper < -MaxTick || tickUpper > MaxTick {
		return fmt.Errorf("tickUpper %d out of range [-%d, %d]", tickUpper, MaxTick, MaxTick)
	}
	if tickLower >= tickUpper {
		return fmt.Errorf("tickLower (%d) must be < tickUpper (%d)", tickLower, tickUpper)
	}
	return nil
}

// ClampTick limits a tick to the valid range. Used when deriving bounds from a
// current tick plus a width near the extremes.
func ClampTick(tick int32) int32 {
	if tick < -MaxTick {
		return -MaxTick
	}
	if tick > MaxTick {
		return MaxTick
	}
	return tick
}

// MinAmountWithSlippage calculates the minimum acceptable amount for a desired
// amount and a slippage tolerance in percent.
// amountMin = amountDesired * (100 - slippagePct) / 100
func MinAmountWithSlippage(amountDesired *big.Int, slippagePct int) (*big.Int, error) {
	if amountDesired == nil {
		return nil, fmt.Errorf("amountDesired is nil")
	}
	if slippagePct < 0 || slippagePct > 50 {
		return nil, fmt.Errorf("slippage tolerance must be between 0 and 50 percent, got %d", slippagePct)
	}

	result := new(big.Int).Mul(amountDesired, big.NewInt(int64(100-slippagePct)))
	result.Div(result, big.NewInt(100))
	return result, nil
}
