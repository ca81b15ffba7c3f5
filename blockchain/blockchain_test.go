package blockchain

import (
	"context"
	"math/big"
	"os"
	"testing"

	"infinitypools/blockchain/pkg/logfetcher"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {

	t.Run("derives_address", func(t *testing.T) {
		// Hardhat's well-known first dev key.
		account, err := NewAccount("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), account.Address)
	})

	t.Run("no_prefix", func(t *testing.T) {
		account, err := NewAccount("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), account.Address)
	})

	t.Run("invalid_key", func(t *testing.T) {
		_, err := NewAccount("not-a-key")
		assert.Error(t, err)
	})
}

func TestAddLiquidityParamsToCall(t *testing.T) {

	params := AddLiquidityParams{
		Token0:         WETH,
		Token1:         USDC,
		StartEdge:      -100,
		StopEdge:       200,
		Amount0Desired: decimal.RequireFromString("1.5"),
		Amount1Desired: decimal.RequireFromString("3000"),
		Amount0Min:     decimal.RequireFromString("1.4"),
		Amount1Min:     decimal.RequireFromString("2900"),
	}

	call := params.toCall(18, 6)

	assert.Equal(t, WETH, call.Token0)
	assert.Equal(t, USDC, call.Token1)
	assert.Equal(t, big.NewInt(-100), call.StartEdge)
	assert.Equal(t, big.NewInt(200), call.StopEdge)
	assert.Equal(t, "1500000000000000000", call.Amount0Desired.String())
	assert.Equal(t, "3000000000", call.Amount1Desired.String())
	assert.Equal(t, "1400000000000000000", call.Amount0Min.String())
	assert.Equal(t, "2900000000", call.Amount1Min.String())
}

func transferLog(block uint64, index uint, from, to common.Address, tokenID *big.Int) types.Log {
	transferSig := common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	return types.Log{
		BlockNumber: block,
		Index:       index,
		Topics: []common.Hash{
			transferSig,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
			common.BigToHash(tokenID),
		},
	}
}

func TestReplayTransfers(t *testing.T) {

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	zero := common.Address{}

	t.Run("mint_keeps_token", func(t *testing.T) {
		received := []types.Log{transferLog(10, 0, zero, owner, big.NewInt(7))}

		ids := replayTransfers(owner, received, nil)
		require.Len(t, ids, 1)
		assert.Equal(t, big.NewInt(7), ids[0])
	})

	t.Run("transferred_away", func(t *testing.T) {
		received := []types.Log{transferLog(10, 0, zero, owner, big.NewInt(7))}
		sent := []types.Log{transferLog(20, 0, owner, other, big.NewInt(7))}

		ids := replayTransfers(owner, received, sent)
		assert.Empty(t, ids)
	})

	t.Run("round_trip_returns", func(t *testing.T) {
		received := []types.Log{
			transferLog(10, 0, zero, owner, big.NewInt(7)),
			transferLog(30, 0, other, owner, big.NewInt(7)),
		}
		sent := []types.Log{transferLog(20, 0, owner, other, big.NewInt(7))}

		ids := replayTransfers(owner, received, sent)
		require.Len(t, ids, 1)
		assert.Equal(t, big.NewInt(7), ids[0])
	})

	t.Run("order_within_block", func(t *testing.T) {
		// Receipt and disposal in the same block resolve by log index.
		received := []types.Log{transferLog(10, 1, other, owner, big.NewInt(9))}
		sent := []types.Log{transferLog(10, 4, owner, other, big.NewInt(9))}

		ids := replayTransfers(owner, received, sent)
		assert.Empty(t, ids)
	})

	t.Run("first_acquired_order", func(t *testing.T) {
		received := []types.Log{
			transferLog(12, 0, zero, owner, big.NewInt(3)),
			transferLog(10, 0, zero, owner, big.NewInt(5)),
		}

		ids := replayTransfers(owner, received, nil)
		require.Len(t, ids, 2)
		assert.Equal(t, big.NewInt(5), ids[0])
		assert.Equal(t, big.NewInt(3), ids[1])
	})
}

func TestPositionDecodeErrorsMessage(t *testing.T) {
	errs := PositionDecodeErrors{
		{TokenID: big.NewInt(42), Err: assert.AnError},
	}
	assert.Contains(t, errs.Error(), "token 42")
	assert.Contains(t, errs.Error(), "1 position(s)")
}

// TestGetPositionsLive scans a real wallet on Base. Requires RPC_URL and
// WALLET_ADDR in env/.env.base.local.
func TestGetPositionsLive(t *testing.T) {
	if err := godotenv.Load("env/.env.base.local"); err != nil {
		t.Skip("env/.env.base.local not present, skipping live test")
	}
	rpcURL := os.Getenv("RPC_URL")
	wallet := os.Getenv("WALLET_ADDR")
	if rpcURL == "" || wallet == "" {
		t.Skip("RPC_URL or WALLET_ADDR not set, skipping live test")
	}

	client, err := ethclient.Dial(rpcURL)
	require.NoError(t, err)

	pc, err := NewPeripheryClient(client, PeripheryProxy,
		WithLogFetcher(logfetcher.NewFetcher(client, logfetcher.WithChunkSize(2000))))
	require.NoError(t, err)

	head, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	from := uint64(0)
	if head > 500_000 {
		from = head - 500_000
	}

	positions, err := pc.GetPositions(context.Background(), common.HexToAddress(wallet), from, nil, nil)
	if err != nil {
		var decodeErrs PositionDecodeErrors
		require.ErrorAs(t, err, &decodeErrs)
	}
	for _, p := range positions {
		t.Logf("position %s type=%s pool=%s number=%d", p.TokenID, p.PositionType, p.PoolAddress, p.Number)
	}
}
