// Package infinitypools is the SDK entry point, combining the on-chain
// periphery client with the off-chain REST API behind one wallet-scoped
// surface.
package infinitypools

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"infinitypools/blockchain"
	contracttypes "infinitypools/blockchain/pkg/types"
	"infinitypools/internal/model"
	"infinitypools/offchain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// ErrNoSigner is returned by state-changing operations on a read-only SDK.
var ErrNoSigner = errors.New("no signing account configured")

type SDK struct {
	chain   onchain
	api     offchainAPI
	account *blockchain.Account
	wallet  common.Address
	lg      zerolog.Logger
}

type SDKConfig struct {
	Chain onchain
	API   offchainAPI

	// Account enables state-changing operations. When nil, Wallet alone
	// scopes the read-only queries.
	Account *blockchain.Account
	Wallet  common.Address
}

func NewSDK(conf SDKConfig) (*SDK, error) {
	if conf.Chain == nil {
		return nil, errors.New("chain client is required")
	}
	if conf.API == nil {
		return nil, errors.New("api client is required")
	}

	wallet := conf.Wallet
	if conf.Account != nil {
		wallet = conf.Account.Address
	}

	return &SDK{
		chain:   conf.Chain,
		api:     conf.API,
		account: conf.Account,
		wallet:  wallet,
		lg:      zerolog.New(os.Stdout).With().Str("Module", "SDK").Timestamp().Logger(),
	}, nil
}

// Wallet returns the address the SDK is scoped to.
func (s *SDK) Wallet() common.Address {
	return s.wallet
}

// AddLiquidity opens an LP position for the configured account.
func (s *SDK) AddLiquidity(ctx context.Context, params blockchain.AddLiquidityParams) (*contracttypes.TxReceipt, error) {
	if s.account == nil {
		return nil, ErrNoSigner
	}
	return s.chain.AddLiquidity(ctx, s.account, params)
}

// RemoveLiquidity drains a position NFT to the recipient. A zero recipient
// drains back to the configured account.
func (s *SDK) RemoveLiquidity(ctx context.Context, tokenID *big.Int, recipient common.Address) (*contracttypes.TxReceipt, error) {
	if s.account == nil {
		return nil, ErrNoSigner
	}
	if recipient == (common.Address{}) {
		recipient = s.account.Address
	}
	return s.chain.RemoveLiquidity(ctx, s.account, tokenID, recipient)
}

// Positions lists the wallet's position NFTs from chain state. Decode
// failures are reported via a blockchain.PositionDecodeErrors alongside the
// positions that did decode.
func (s *SDK) Positions(ctx context.Context, fromBlock uint64, toBlock *uint64) ([]*model.PositionInfo, error) {
	return s.chain.GetPositions(ctx, s.wallet, fromBlock, toBlock, nil)
}

// PositionsInPool is Positions restricted to a single pool.
func (s *SDK) PositionsInPool(ctx context.Context, pool common.Address, fromBlock uint64, toBlock *uint64) ([]*model.PositionInfo, error) {
	return s.chain.GetPositions(ctx, s.wallet, fromBlock, toBlock, &pool)
}

// Markets lists all pools known to the API.
func (s *SDK) Markets(ctx context.Context) ([]model.Market, error) {
	return s.api.Markets(ctx, true)
}

// System returns API deployment and contract address info.
func (s *SDK) System(ctx context.Context) (*model.SystemInfo, error) {
	return s.api.System(ctx)
}

// LiquidityPositions lists the wallet's LP positions as the API sees them,
// with sizes and accrued fees the chain-state scan cannot provide.
func (s *SDK) LiquidityPositions(ctx context.Context) ([]model.LiquidityPosition, error) {
	return s.api.LiquidityPositions(ctx, s.walletHex())
}

// TradingPositions lists the wallet's swapper positions.
func (s *SDK) TradingPositions(ctx context.Context) ([]model.TradingPosition, error) {
	return s.api.TradingPositions(ctx, s.walletHex())
}

// Orders lists the wallet's orders.
func (s *SDK) Orders(ctx context.Context) ([]model.Order, error) {
	return s.api.Orders(ctx, s.walletHex())
}

// PoolPriceBars fetches historical candles for a pool.
func (s *SDK) PoolPriceBars(ctx context.Context, q offchain.PriceBarsQuery) ([]model.PriceBar, error) {
	return s.api.PoolPriceBars(ctx, q)
}

// DepositRatio asks the API how much of each token a liquidity range between
// startEdge and stopEdge requires, given baseSize of the base asset.
func (s *SDK) DepositRatio(ctx context.Context, baseAsset, quoteAsset common.Address, startEdge, stopEdge int32, baseSize string) (*model.LiquidityRatio, error) {
	ratio, err := s.api.LiquidityRatio(ctx, offchain.LiquidityRatioQuery{
		BaseAsset:  strings.ToLower(baseAsset.Hex()),
		QuoteAsset: strings.ToLower(quoteAsset.Hex()),
		LowerTick:  &startEdge,
		UpperTick:  &stopEdge,
		BaseSize:   baseSize,
	})
	if err != nil {
		return nil, fmt.Errorf("deposit ratio: %w", err)
	}
	return ratio, nil
}

func (s *SDK) walletHex() string {
	return strings.ToLower(s.wallet.Hex())
}
