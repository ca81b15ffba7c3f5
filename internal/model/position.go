package model

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Bit layout of an LP position ID, matching the on-chain packing exactly:
// owner occupies bits 48-207, tickLower bits 24-47, tickUpper bits 0-23.
// Ticks are stored as 24-bit two's complement.
const (
	ownerBits      = 160
	tickBits       = 24
	tickMask       = (1 << tickBits) - 1
	tickSignBit    = 1 << (tickBits - 1)
	tickLowerShift = tickBits
	ownerShift     = tickLowerShift + tickBits
)

// ErrInvalidAddress is returned when an owner string cannot be parsed as a
// hexadecimal address.
var ErrInvalidAddress = fmt.Errorf("invalid owner address format")

// EncodePositionID packs (owner, tickLower, tickUpper) into a single uint256
// compatible position ID.
//
// Ticks are masked to their low 24 bits: values outside [-8388608, 8388607]
// silently wrap instead of failing. The chain masks the same way, so callers
// generating ticks outside the 24-bit signed range must validate beforehand.
func EncodePositionID(owner string, tickLower, tickUpper int32) (*big.Int, error) {
	ownerHex := strings.TrimPrefix(strings.TrimPrefix(owner, "0x"), "0X")
	ownerInt, ok := new(big.Int).SetString(ownerHex, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, owner)
	}
	if ownerInt.Sign() < 0 || ownerInt.BitLen() > ownerBits {
		return nil, fmt.Errorf("%w: %s does not fit in 160 bits", ErrInvalidAddress, owner)
	}

	lowerEncoded := uint32(tickLower) & tickMask
	upperEncoded := uint32(tickUpper) & tickMask

	id := new(big.Int).Lsh(ownerInt, ownerShift)
	id.Or(id, new(big.Int).Lsh(big.NewInt(int64(lowerEncoded)), tickLowerShift))
	id.Or(id, big.NewInt(int64(upperEncoded)))
	return id, nil
}

// DecodePositionID unpacks a position ID back into its owner address and tick
// boundaries. It accepts any non-negative integer and cannot fail.
func DecodePositionID(positionID *big.Int) (owner string, tickLower, tickUpper int32) {
	ownerInt := new(big.Int).Rsh(positionID, ownerShift)
	owner = fmt.Sprintf("0x%040x", ownerInt)

	mask := big.NewInt(tickMask)
	lowerEncoded := uint32(new(big.Int).And(new(big.Int).Rsh(positionID, tickLowerShift), mask).Uint64())
	upperEncoded := uint32(new(big.Int).And(positionID, mask).Uint64())

	return owner, signExtendTick(lowerEncoded), signExtendTick(upperEncoded)
}

func signExtendTick(encoded uint32) int32 {
	if encoded >= tickSignBit {
		return int32(encoded) - (1 << tickBits)
	}
	return int32(encoded)
}

// PositionType is the kind of position a periphery ERC721 token represents.
type PositionType uint8

const (
	LP PositionType = iota
	Swapper
)

func (p PositionType) String() string {
	switch p {
	case LP:
		return "LP"
	case Swapper:
		return "SWAPPER"
	default:
		return fmt.Sprintf("PositionType(%d)", uint8(p))
	}
}

// Periphery ERC721 token IDs pack
// uint8(positionType)<<248 | uint160(poolAddress)<<88 | uint88(lpOrSwapperNumber).
const (
	numberBits        = 88
	poolShift         = numberBits
	positionTypeShift = numberBits + ownerBits
)

// TokenIDParts is the decoded form of a periphery ERC721 token ID.
type TokenIDParts struct {
	PositionType PositionType
	PoolAddress  string
	Number       uint64 // LP number or swapper number depending on PositionType
}

// DecodeTokenID splits a periphery ERC721 token ID into its position type,
// pool address and LP/swapper number. Unknown position-type values fail.
func DecodeTokenID(tokenID *big.Int) (*TokenIDParts, error) {
	number := new(big.Int).And(tokenID, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), numberBits), big.NewInt(1)))

	poolMask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), ownerBits), big.NewInt(1))
	poolInt := new(big.Int).And(new(big.Int).Rsh(tokenID, poolShift), poolMask)

	typeInt := new(big.Int).Rsh(tokenID, positionTypeShift).Uint64()
	if typeInt > uint64(Swapper) {
		return nil, fmt.Errorf("token ID %s: invalid position type %d", tokenID, typeInt)
	}
	if !number.IsUint64() {
		return nil, fmt.Errorf("token ID %s: position number exceeds uint64", tokenID)
	}

	return &TokenIDParts{
		PositionType: PositionType(typeInt),
		PoolAddress:  fmt.Sprintf("0x%040x", poolInt),
		Number:       number.Uint64(),
	}, nil
}

// PositionInfo is the SDK-level view of an on-chain LP or swapper position.
type PositionInfo struct {
	TokenID      *big.Int        `json:"tokenId"`
	Owner        string          `json:"owner"`
	PoolAddress  string          `json:"poolAddress"`
	PositionType PositionType    `json:"positionType"`
	Number       uint64          `json:"number"`
	Token0       string          `json:"token0,omitempty"`
	Token1       string          `json:"token1,omitempty"`
	Liquidity    *big.Int        `json:"liquidity,omitempty"`
	Amount0      decimal.Decimal `json:"amount0"`
	Amount1      decimal.Decimal `json:"amount1"`
	Fees0Earned  decimal.Decimal `json:"fees0Earned"`
	Fees1Earned  decimal.Decimal `json:"fees1Earned"`
	StartEdge    int32           `json:"startEdge"`
	StopEdge     int32           `json:"stopEdge"`
}
