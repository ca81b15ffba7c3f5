package util

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// QuadPrecision is the number of decimal places in the contract's Quad
// fixed-point type.
const QuadPrecision = 18

var quadScale = decimal.New(1, QuadPrecision)

// DecimalToQuad converts a decimal value to its Quad fixed-point integer
// representation. Rounding is toward zero, matching integer conversion on the
// contract side.
func DecimalToQuad(value decimal.Decimal) *big.Int {
	scaled := value.Mul(quadScale)
	if scaled.IsNegative() {
		return scaled.Ceil().BigInt()
	}
	return scaled.Floor().BigInt()
}

// QuadToDecimal converts a Quad fixed-point integer back to a decimal value.
func QuadToDecimal(value *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(value, -QuadPrecision)
}

// FormatQuad renders a Quad value for display with a fixed number of decimal
// places, trailing zeros included.
func FormatQuad(value *big.Int, displayDecimals int32) string {
	return QuadToDecimal(value).StringFixed(displayDecimals)
}

// DecimalToWei scales a token amount by the token's decimals, truncating
// toward zero.
func DecimalToWei(amount decimal.Decimal, tokenDecimals int32) *big.Int {
	scaled := amount.Mul(decimal.New(1, tokenDecimals))
	if scaled.IsNegative() {
		return scaled.Ceil().BigInt()
	}
	return scaled.Floor().BigInt()
}

// WeiToDecimal converts a raw token amount to a decimal using the token's
// decimals.
func WeiToDecimal(amount *big.Int, tokenDecimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -tokenDecimals)
}
