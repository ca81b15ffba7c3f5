package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sync"

	"infinitypools/blockchain/abis"
	"infinitypools/blockchain/pkg/contractclient"
	contracttypes "infinitypools/blockchain/pkg/types"
	"infinitypools/blockchain/pkg/util"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// approveMultiplier pads approvals so minor dust does not force a second
// approve transaction.
var approveMultiplier = decimal.RequireFromString("1.5")

// ERC20Helper reads and moves ERC20 tokens, converting between raw units and
// decimals using each token's on-chain decimals.
type ERC20Helper struct {
	client *ethclient.Client

	mu       sync.Mutex
	clients  map[common.Address]*contractclient.ContractClient
	decimals map[common.Address]int32

	lg zerolog.Logger
}

func NewERC20Helper(client *ethclient.Client) *ERC20Helper {
	return &ERC20Helper{
		client:   client,
		clients:  make(map[common.Address]*contractclient.ContractClient),
		decimals: make(map[common.Address]int32),
		lg:       zerolog.New(os.Stdout).With().Str("Module", "ERC20").Timestamp().Logger(),
	}
}

func (h *ERC20Helper) contract(token common.Address) (*contractclient.ContractClient, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cc, ok := h.clients[token]; ok {
		return cc, nil
	}

	cc, err := contractclient.NewContractClient(h.client, token, abis.ERC20)
	if err != nil {
		return nil, fmt.Errorf("erc20 client for %s: %w", token.Hex(), err)
	}
	h.clients[token] = cc
	return cc, nil
}

// Decimals fetches (and caches) a token's decimals.
func (h *ERC20Helper) Decimals(ctx context.Context, token common.Address) (int32, error) {
	h.mu.Lock()
	cached, ok := h.decimals[token]
	h.mu.Unlock()
	if ok {
		return cached, nil
	}

	cc, err := h.contract(token)
	if err != nil {
		return 0, err
	}

	out, err := cc.Call(ctx, nil, "decimals")
	if err != nil {
		return 0, fmt.Errorf("decimals call for %s: %w", token.Hex(), err)
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals call for %s: unexpected return type %T", token.Hex(), out[0])
	}

	h.mu.Lock()
	h.decimals[token] = int32(d)
	h.mu.Unlock()
	return int32(d), nil
}

// BalanceOf returns the holder's balance in decimal token units.
func (h *ERC20Helper) BalanceOf(ctx context.Context, token, holder common.Address) (decimal.Decimal, error) {
	cc, err := h.contract(token)
	if err != nil {
		return decimal.Zero, err
	}

	out, err := cc.Call(ctx, nil, "balanceOf", holder)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balanceOf call for %s: %w", token.Hex(), err)
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("balanceOf call for %s: unexpected return type %T", token.Hex(), out[0])
	}

	d, err := h.Decimals(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}
	return util.WeiToDecimal(raw, d), nil
}

// Allowance returns the spender's remaining allowance in decimal token units.
func (h *ERC20Helper) Allowance(ctx context.Context, token, owner, spender common.Address) (decimal.Decimal, error) {
	cc, err := h.contract(token)
	if err != nil {
		return decimal.Zero, err
	}

	out, err := cc.Call(ctx, nil, "allowance", owner, spender)
	if err != nil {
		return decimal.Zero, fmt.Errorf("allowance call for %s: %w", token.Hex(), err)
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("allowance call for %s: unexpected return type %T", token.Hex(), out[0])
	}

	d, err := h.Decimals(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}
	return util.WeiToDecimal(raw, d), nil
}

// Approve grants the spender an allowance, returning the transaction hash.
func (h *ERC20Helper) Approve(ctx context.Context, account *Account, token, spender common.Address, amount decimal.Decimal) (common.Hash, error) {
	cc, err := h.contract(token)
	if err != nil {
		return common.Hash{}, err
	}

	d, err := h.Decimals(ctx, token)
	if err != nil {
		return common.Hash{}, err
	}

	return cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"approve", spender, util.DecimalToWei(amount, d))
}

// Transfer moves tokens to the recipient, returning the transaction hash.
func (h *ERC20Helper) Transfer(ctx context.Context, account *Account, token, recipient common.Address, amount decimal.Decimal) (common.Hash, error) {
	cc, err := h.contract(token)
	if err != nil {
		return common.Hash{}, err
	}

	d, err := h.Decimals(ctx, token)
	if err != nil {
		return common.Hash{}, err
	}

	return cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"transfer", recipient, util.DecimalToWei(amount, d))
}

// EnsureAllowance checks the current allowance and, if short of required,
// approves required * 1.5. Returns the approval transaction hash, or the zero
// hash when the allowance already suffices.
func (h *ERC20Helper) EnsureAllowance(ctx context.Context, account *Account, token, spender common.Address, required decimal.Decimal) (common.Hash, error) {
	current, err := h.Allowance(ctx, token, account.Address, spender)
	if err != nil {
		return common.Hash{}, err
	}

	if current.GreaterThanOrEqual(required) {
		return common.Hash{}, nil
	}

	toApprove := required.Mul(approveMultiplier)
	h.lg.Info().
		Str("token", token.Hex()).
		Str("spender", spender.Hex()).
		Str("amount", toApprove.String()).
		Msg("allowance insufficient, approving")

	return h.Approve(ctx, account, token, spender, toApprove)
}
