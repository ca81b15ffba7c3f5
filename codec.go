package infinitypools

import (
	"math/big"

	"infinitypools/internal/model"
)

// Re-exported position codec types so consumers can name what the SDK
// returns without reaching into internal packages.
type (
	PositionInfo = model.PositionInfo
	PositionType = model.PositionType
	TokenIDParts = model.TokenIDParts
)

const (
	LP      = model.LP
	Swapper = model.Swapper
)

// ErrInvalidAddress is returned by EncodePositionID for unparseable owners.
var ErrInvalidAddress = model.ErrInvalidAddress

// EncodePositionID packs (owner, tickLower, tickUpper) into the uint256
// position ID the chain uses.
func EncodePositionID(owner string, tickLower, tickUpper int32) (*big.Int, error) {
	return model.EncodePositionID(owner, tickLower, tickUpper)
}

// DecodePositionID unpacks a position ID into owner address and ticks.
func DecodePositionID(positionID *big.Int) (owner string, tickLower, tickUpper int32) {
	return model.DecodePositionID(positionID)
}

// DecodeTokenID splits a periphery ERC721 token ID into position type, pool
// and LP/swapper number.
func DecodeTokenID(tokenID *big.Int) (*TokenIDParts, error) {
	return model.DecodeTokenID(tokenID)
}
