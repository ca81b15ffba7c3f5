package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"infinitypools/blockchain/abis"
	"infinitypools/blockchain/pkg/contractclient"
	"infinitypools/blockchain/pkg/logfetcher"
	"infinitypools/blockchain/pkg/txlistener"
	contracttypes "infinitypools/blockchain/pkg/types"
	"infinitypools/blockchain/pkg/util"
	"infinitypools/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// PositionDecodeError records one token ID that could not be decoded while
// listing positions.
type PositionDecodeError struct {
	TokenID *big.Int
	Err     error
}

// PositionDecodeErrors aggregates decode failures from a position scan. The
// successfully decoded positions are still returned alongside it.
type PositionDecodeErrors []PositionDecodeError

func (e PositionDecodeErrors) Error() string {
	msgs := make([]string, len(e))
	for i, d := range e {
		msgs[i] = fmt.Sprintf("token %s: %v", d.TokenID, d.Err)
	}
	return fmt.Sprintf("failed to decode %d position(s): %s", len(e), strings.Join(msgs, "; "))
}

// PeripheryClient drives the InfinityPools periphery contract: liquidity
// provision, draining and position discovery via Transfer logs.
type PeripheryClient struct {
	cc       *contractclient.ContractClient
	erc20    *ERC20Helper
	erc721   *ERC721Helper
	fetcher  *logfetcher.Fetcher
	listener *txlistener.TxListener
	lg       zerolog.Logger
}

// PeripheryOption is a functional option for configuring PeripheryClient
type PeripheryOption func(*PeripheryClient)

// WithLogFetcher replaces the default log fetcher, e.g. to change chunk size
// for a provider with tighter eth_getLogs limits.
func WithLogFetcher(f *logfetcher.Fetcher) PeripheryOption {
	return func(pc *PeripheryClient) {
		pc.fetcher = f
	}
}

// WithTxListener replaces the default receipt poller.
func WithTxListener(l *txlistener.TxListener) PeripheryOption {
	return func(pc *PeripheryClient) {
		pc.listener = l
	}
}

// NewPeripheryClient creates a client for the periphery contract at the given
// address (PeripheryProxy for Base mainnet).
func NewPeripheryClient(client *ethclient.Client, peripheryAddress common.Address, opts ...PeripheryOption) (*PeripheryClient, error) {
	cc, err := contractclient.NewContractClient(client, peripheryAddress, abis.Periphery)
	if err != nil {
		return nil, fmt.Errorf("periphery client: %w", err)
	}

	pc := &PeripheryClient{
		cc:       cc,
		erc20:    NewERC20Helper(client),
		erc721:   NewERC721Helper(client),
		fetcher:  logfetcher.NewFetcher(client),
		listener: txlistener.NewTxListener(client),
		lg:       zerolog.New(os.Stdout).With().Str("Module", "Periphery").Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc, nil
}

// Address returns the periphery contract address.
func (pc *PeripheryClient) Address() common.Address {
	return *pc.cc.ContractAddress()
}

// ERC20 exposes the token helper sharing this client's connection.
func (pc *PeripheryClient) ERC20() *ERC20Helper {
	return pc.erc20
}

// ERC721 exposes the NFT helper sharing this client's connection.
func (pc *PeripheryClient) ERC721() *ERC721Helper {
	return pc.erc721
}

// AddLiquidity opens an LP position. Desired and minimum amounts are in human
// token units; both tokens are approved for the periphery first when the
// current allowance falls short. Blocks until the transaction is mined and
// returns its receipt.
func (pc *PeripheryClient) AddLiquidity(ctx context.Context, account *Account, params AddLiquidityParams) (*contracttypes.TxReceipt, error) {
	if err := util.ValidateTickRange(params.StartEdge, params.StopEdge); err != nil {
		return nil, fmt.Errorf("addLiquidity: %w", err)
	}

	token0Decimals, err := pc.erc20.Decimals(ctx, params.Token0)
	if err != nil {
		return nil, fmt.Errorf("addLiquidity: %w", err)
	}
	token1Decimals, err := pc.erc20.Decimals(ctx, params.Token1)
	if err != nil {
		return nil, fmt.Errorf("addLiquidity: %w", err)
	}

	if !params.UseVaultDeposit {
		if err := pc.ensureAllowances(ctx, account, params); err != nil {
			return nil, err
		}
	}

	txHash, err := pc.cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"addLiquidity", params.toCall(token0Decimals, token1Decimals))
	if err != nil {
		return nil, fmt.Errorf("addLiquidity send: %w", err)
	}
	pc.lg.Info().
		Str("txHash", txHash.Hex()).
		Str("token0", params.Token0.Hex()).
		Str("token1", params.Token1.Hex()).
		Int32("startEdge", params.StartEdge).
		Int32("stopEdge", params.StopEdge).
		Msg("addLiquidity sent")

	receipt, err := pc.listener.WaitForTransaction(ctx, txHash)
	if err != nil {
		return receipt, fmt.Errorf("addLiquidity %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

func (pc *PeripheryClient) ensureAllowances(ctx context.Context, account *Account, params AddLiquidityParams) error {
	periphery := pc.Address()

	hash0, err := pc.erc20.EnsureAllowance(ctx, account, params.Token0, periphery, params.Amount0Desired)
	if err != nil {
		return fmt.Errorf("addLiquidity approve token0: %w", err)
	}
	if hash0 != (common.Hash{}) {
		if _, err := pc.listener.WaitForTransaction(ctx, hash0); err != nil {
			return fmt.Errorf("addLiquidity approve token0 %s: %w", hash0.Hex(), err)
		}
	}

	hash1, err := pc.erc20.EnsureAllowance(ctx, account, params.Token1, periphery, params.Amount1Desired)
	if err != nil {
		return fmt.Errorf("addLiquidity approve token1: %w", err)
	}
	if hash1 != (common.Hash{}) {
		if _, err := pc.listener.WaitForTransaction(ctx, hash1); err != nil {
			return fmt.Errorf("addLiquidity approve token1 %s: %w", hash1.Hex(), err)
		}
	}
	return nil
}

// RemoveLiquidity drains a position NFT, sending its underlying assets to the
// recipient. The caller must own the token. Blocks until mined.
func (pc *PeripheryClient) RemoveLiquidity(ctx context.Context, account *Account, tokenID *big.Int, recipient common.Address) (*contracttypes.TxReceipt, error) {
	owner, err := pc.erc721.OwnerOf(ctx, pc.Address(), tokenID)
	if err != nil {
		return nil, fmt.Errorf("removeLiquidity: %w", err)
	}
	if owner != account.Address {
		return nil, fmt.Errorf("removeLiquidity: token %s is owned by %s, not %s", tokenID, owner.Hex(), account.Address.Hex())
	}

	txHash, err := pc.cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"drain", tokenID, recipient)
	if err != nil {
		return nil, fmt.Errorf("removeLiquidity send: %w", err)
	}
	pc.lg.Info().Str("txHash", txHash.Hex()).Str("tokenId", tokenID.String()).Msg("drain sent")

	receipt, err := pc.listener.WaitForTransaction(ctx, txHash)
	if err != nil {
		return receipt, fmt.Errorf("removeLiquidity %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// GetPositions lists the position NFTs the owner currently holds, derived by
// replaying Transfer logs over [fromBlock, toBlock] (nil toBlock means head).
// When poolFilter is non-nil only positions in that pool are returned.
//
// Token IDs that fail to decode do not abort the scan: the decoded positions
// are returned together with a PositionDecodeErrors detailing the failures.
func (pc *PeripheryClient) GetPositions(ctx context.Context, owner common.Address, fromBlock uint64, toBlock *uint64, poolFilter *common.Address) ([]*model.PositionInfo, error) {
	transferID := pc.cc.Abi().Events["Transfer"].ID
	ownerTopic := common.BytesToHash(owner.Bytes())
	periphery := pc.Address()

	// Two scans: transfers into the owner and transfers out. Both are needed
	// to compute the currently held set.
	received, err := pc.fetcher.FetchLogs(ctx, []common.Address{periphery},
		[][]common.Hash{{transferID}, nil, {ownerTopic}}, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("getPositions: fetch inbound transfers: %w", err)
	}
	sent, err := pc.fetcher.FetchLogs(ctx, []common.Address{periphery},
		[][]common.Hash{{transferID}, {ownerTopic}, nil}, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("getPositions: fetch outbound transfers: %w", err)
	}

	ownedIDs := replayTransfers(owner, received, sent)

	positions := make([]*model.PositionInfo, 0, len(ownedIDs))
	var decodeErrs PositionDecodeErrors
	for _, tokenID := range ownedIDs {
		parts, err := model.DecodeTokenID(tokenID)
		if err != nil {
			decodeErrs = append(decodeErrs, PositionDecodeError{TokenID: tokenID, Err: err})
			continue
		}
		if poolFilter != nil && common.HexToAddress(parts.PoolAddress) != *poolFilter {
			continue
		}

		positions = append(positions, &model.PositionInfo{
			TokenID:      tokenID,
			Owner:        strings.ToLower(owner.Hex()),
			PoolAddress:  parts.PoolAddress,
			PositionType: parts.PositionType,
			Number:       parts.Number,
		})
	}

	pc.lg.Debug().
		Str("owner", owner.Hex()).
		Int("positions", len(positions)).
		Int("decodeErrors", len(decodeErrs)).
		Msg("position scan complete")

	if len(decodeErrs) > 0 {
		return positions, decodeErrs
	}
	return positions, nil
}

// replayTransfers merges both transfer directions in chain order and replays
// them into the owner's current token set, returned in first-acquired order.
func replayTransfers(owner common.Address, received, sent []types.Log) []*big.Int {
	all := make([]types.Log, 0, len(received)+len(sent))
	all = append(all, received...)
	all = append(all, sent...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].BlockNumber != all[j].BlockNumber {
			return all[i].BlockNumber < all[j].BlockNumber
		}
		return all[i].Index < all[j].Index
	})

	type entry struct {
		id    *big.Int
		order int
	}
	owned := make(map[string]entry)
	next := 0
	for _, log := range all {
		// Transfer(from indexed, to indexed, tokenId indexed)
		if len(log.Topics) != 4 {
			continue
		}
		tokenID := new(big.Int).SetBytes(log.Topics[3].Bytes())
		to := common.BytesToAddress(log.Topics[2].Bytes())

		key := tokenID.String()
		if to == owner {
			if _, ok := owned[key]; !ok {
				owned[key] = entry{id: tokenID, order: next}
				next++
			}
		} else {
			delete(owned, key)
		}
	}

	result := make([]entry, 0, len(owned))
	for _, e := range owned {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].order < result[j].order })

	ids := make([]*big.Int, len(result))
	for i, e := range result {
		ids[i] = e.id
	}
	return ids
}
