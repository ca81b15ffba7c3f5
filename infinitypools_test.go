package infinitypools

import (
	"context"
	"math/big"
	"testing"

	"infinitypools/blockchain"
	contracttypes "infinitypools/blockchain/pkg/types"
	"infinitypools/internal/model"
	"infinitypools/offchain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	addCalls    []blockchain.AddLiquidityParams
	removeCalls []*big.Int
	recipient   common.Address
	positions   []*model.PositionInfo
	scanOwner   common.Address
	scanPool    *common.Address
}

func (f *fakeChain) AddLiquidity(_ context.Context, _ *blockchain.Account, params blockchain.AddLiquidityParams) (*contracttypes.TxReceipt, error) {
	f.addCalls = append(f.addCalls, params)
	return &contracttypes.TxReceipt{Status: "0x1"}, nil
}

func (f *fakeChain) RemoveLiquidity(_ context.Context, _ *blockchain.Account, tokenID *big.Int, recipient common.Address) (*contracttypes.TxReceipt, error) {
	f.removeCalls = append(f.removeCalls, tokenID)
	f.recipient = recipient
	return &contracttypes.TxReceipt{Status: "0x1"}, nil
}

func (f *fakeChain) GetPositions(_ context.Context, owner common.Address, _ uint64, _ *uint64, poolFilter *common.Address) ([]*model.PositionInfo, error) {
	f.scanOwner = owner
	f.scanPool = poolFilter
	return f.positions, nil
}

type fakeAPI struct {
	wallet    string
	ratioQ    offchain.LiquidityRatioQuery
	positions []model.LiquidityPosition
}

func (f *fakeAPI) Markets(context.Context, bool) ([]model.Market, error) { return nil, nil }
func (f *fakeAPI) System(context.Context) (*model.SystemInfo, error)    { return &model.SystemInfo{}, nil }

func (f *fakeAPI) LiquidityPositions(_ context.Context, wallet string) ([]model.LiquidityPosition, error) {
	f.wallet = wallet
	return f.positions, nil
}

func (f *fakeAPI) TradingPositions(_ context.Context, wallet string) ([]model.TradingPosition, error) {
	f.wallet = wallet
	return nil, nil
}

func (f *fakeAPI) Orders(_ context.Context, wallet string) ([]model.Order, error) {
	f.wallet = wallet
	return nil, nil
}

func (f *fakeAPI) PoolPriceBars(context.Context, offchain.PriceBarsQuery) ([]model.PriceBar, error) {
	return nil, nil
}

func (f *fakeAPI) LiquidityRatio(_ context.Context, q offchain.LiquidityRatioQuery) (*model.LiquidityRatio, error) {
	f.ratioQ = q
	return &model.LiquidityRatio{BaseSize: "1", QuoteSize: "3000"}, nil
}

func testAccount(t *testing.T) *blockchain.Account {
	t.Helper()
	account, err := blockchain.NewAccount("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	return account
}

func TestNewSDK(t *testing.T) {

	t.Run("requires_clients", func(t *testing.T) {
		_, err := NewSDK(SDKConfig{})
		assert.Error(t, err)

		_, err = NewSDK(SDKConfig{Chain: &fakeChain{}})
		assert.Error(t, err)
	})

	t.Run("wallet_from_account", func(t *testing.T) {
		account := testAccount(t)
		sdk, err := NewSDK(SDKConfig{Chain: &fakeChain{}, API: &fakeAPI{}, Account: account})
		require.NoError(t, err)
		assert.Equal(t, account.Address, sdk.Wallet())
	})
}

func TestReadOnlySDK(t *testing.T) {

	wallet := common.HexToAddress("0x9eAFc0c2b04D96a1C1edAdda8A474a4506752207")
	chain := &fakeChain{}
	api := &fakeAPI{}
	sdk, err := NewSDK(SDKConfig{Chain: chain, API: api, Wallet: wallet})
	require.NoError(t, err)

	t.Run("writes_rejected", func(t *testing.T) {
		_, err := sdk.AddLiquidity(context.Background(), blockchain.AddLiquidityParams{})
		assert.ErrorIs(t, err, ErrNoSigner)

		_, err = sdk.RemoveLiquidity(context.Background(), big.NewInt(1), common.Address{})
		assert.ErrorIs(t, err, ErrNoSigner)
	})

	t.Run("positions_scoped_to_wallet", func(t *testing.T) {
		_, err := sdk.Positions(context.Background(), 0, nil)
		require.NoError(t, err)
		assert.Equal(t, wallet, chain.scanOwner)
		assert.Nil(t, chain.scanPool)
	})

	t.Run("api_wallet_lowercased", func(t *testing.T) {
		_, err := sdk.LiquidityPositions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "0x9eafc0c2b04d96a1c1edadda8a474a4506752207", api.wallet)
	})
}

func TestSigningSDK(t *testing.T) {

	account := testAccount(t)
	chain := &fakeChain{}
	api := &fakeAPI{}
	sdk, err := NewSDK(SDKConfig{Chain: chain, API: api, Account: account})
	require.NoError(t, err)

	t.Run("add_liquidity_forwards_params", func(t *testing.T) {
		params := blockchain.AddLiquidityParams{
			Token0:    blockchain.SUSDe,
			Token1:    blockchain.WstETH,
			StartEdge: -100,
			StopEdge:  100,
		}
		receipt, err := sdk.AddLiquidity(context.Background(), params)
		require.NoError(t, err)
		assert.True(t, receipt.Succeeded())
		require.Len(t, chain.addCalls, 1)
		assert.Equal(t, params, chain.addCalls[0])
	})

	t.Run("remove_defaults_recipient_to_account", func(t *testing.T) {
		_, err := sdk.RemoveLiquidity(context.Background(), big.NewInt(42), common.Address{})
		require.NoError(t, err)
		assert.Equal(t, account.Address, chain.recipient)
	})

	t.Run("deposit_ratio_uses_ticks", func(t *testing.T) {
		ratio, err := sdk.DepositRatio(context.Background(), blockchain.SUSDe, blockchain.WstETH, -50, 50, "1.0")
		require.NoError(t, err)
		assert.Equal(t, "3000", ratio.QuoteSize)
		require.NotNil(t, api.ratioQ.LowerTick)
		assert.Equal(t, int32(-50), *api.ratioQ.LowerTick)
		assert.Equal(t, "1.0", api.ratioQ.BaseSize)
	})
}
