package infinitypools

import (
	"context"
	"math/big"

	"infinitypools/blockchain"
	contracttypes "infinitypools/blockchain/pkg/types"
	"infinitypools/internal/model"
	"infinitypools/offchain"

	"github.com/ethereum/go-ethereum/common"
)

// onchain is the periphery surface the SDK consumes.
type onchain interface {
	AddLiquidity(ctx context.Context, account *blockchain.Account, params blockchain.AddLiquidityParams) (*contracttypes.TxReceipt, error)
	RemoveLiquidity(ctx context.Context, account *blockchain.Account, tokenID *big.Int, recipient common.Address) (*contracttypes.TxReceipt, error)
	GetPositions(ctx context.Context, owner common.Address, fromBlock uint64, toBlock *uint64, poolFilter *common.Address) ([]*model.PositionInfo, error)
}

// offchainAPI is the REST surface the SDK consumes.
type offchainAPI interface {
	Markets(ctx context.Context, adjustPrice bool) ([]model.Market, error)
	System(ctx context.Context) (*model.SystemInfo, error)
	LiquidityPositions(ctx context.Context, wallet string) ([]model.LiquidityPosition, error)
	TradingPositions(ctx context.Context, wallet string) ([]model.TradingPosition, error)
	Orders(ctx context.Context, wallet string) ([]model.Order, error)
	PoolPriceBars(ctx context.Context, q offchain.PriceBarsQuery) ([]model.PriceBar, error)
	LiquidityRatio(ctx context.Context, q offchain.LiquidityRatioQuery) (*model.LiquidityRatio, error)
}
