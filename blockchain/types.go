package blockchain

import (
	"math/big"

	"infinitypools/blockchain/pkg/util"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Token addresses on the Base network.
var (
	WETH   = common.HexToAddress("0x4200000000000000000000000000000000000006")
	USDC   = common.HexToAddress("0x833589fcd6edb6e08f4c7c32d4f71b54bda02913")
	SUSDe  = common.HexToAddress("0x211Cc4DD073734dA055fbF44a2b4667d5E5fE5d2")
	WstETH = common.HexToAddress("0xc1cba3fcea344f92d9239c08c0568f6f2f0ee452")
)

// PeripheryProxy is the InfinityPoolsProxy address on Base.
var PeripheryProxy = common.HexToAddress("0xF8FAD01B2902fF57460552C920233682c7c011a7")

// AddLiquidityParams mirrors the periphery's AddLiquidityParams struct.
// Amounts are human units; conversion to raw token units happens against the
// tokens' decimals when the calldata is shaped.
type AddLiquidityParams struct {
	Token0          common.Address
	Token1          common.Address
	UseVaultDeposit bool
	StartEdge       int32 // lower tick boundary
	StopEdge        int32 // upper tick boundary
	Amount0Desired  decimal.Decimal
	Amount1Desired  decimal.Decimal
	Amount0Min      decimal.Decimal
	Amount1Min      decimal.Decimal
}

// addLiquidityCall is the exact tuple shape the ABI expects: field order and
// types must match the contract struct, with amounts already in raw units.
type addLiquidityCall struct {
	Token0          common.Address
	Token1          common.Address
	UseVaultDeposit bool
	StartEdge       *big.Int
	StopEdge        *big.Int
	Amount0Desired  *big.Int
	Amount1Desired  *big.Int
	Amount0Min      *big.Int
	Amount1Min      *big.Int
}

// toCall converts human-unit params to the on-chain tuple using the tokens'
// decimals.
func (p AddLiquidityParams) toCall(token0Decimals, token1Decimals int32) addLiquidityCall {
	return addLiquidityCall{
		Token0:          p.Token0,
		Token1:          p.Token1,
		UseVaultDeposit: p.UseVaultDeposit,
		StartEdge:       big.NewInt(int64(p.StartEdge)),
		StopEdge:        big.NewInt(int64(p.StopEdge)),
		Amount0Desired:  util.DecimalToWei(p.Amount0Desired, token0Decimals),
		Amount1Desired:  util.DecimalToWei(p.Amount1Desired, token1Decimals),
		Amount0Min:      util.DecimalToWei(p.Amount0Min, token0Decimals),
		Amount1Min:      util.DecimalToWei(p.Amount1Min, token1Decimals),
	}
}
