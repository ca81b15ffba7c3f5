package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"infinitypools/blockchain/abis"
	"infinitypools/blockchain/pkg/contractclient"
	contracttypes "infinitypools/blockchain/pkg/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC721Helper reads and moves ERC721 tokens. Position NFTs minted by the
// periphery go through this for ownership checks and transfers.
type ERC721Helper struct {
	client *ethclient.Client

	mu      sync.Mutex
	clients map[common.Address]*contractclient.ContractClient
}

func NewERC721Helper(client *ethclient.Client) *ERC721Helper {
	return &ERC721Helper{
		client:  client,
		clients: make(map[common.Address]*contractclient.ContractClient),
	}
}

func (h *ERC721Helper) contract(collection common.Address) (*contractclient.ContractClient, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cc, ok := h.clients[collection]; ok {
		return cc, nil
	}

	cc, err := contractclient.NewContractClient(h.client, collection, abis.ERC721)
	if err != nil {
		return nil, fmt.Errorf("erc721 client for %s: %w", collection.Hex(), err)
	}
	h.clients[collection] = cc
	return cc, nil
}

// OwnerOf returns the current owner of a token.
func (h *ERC721Helper) OwnerOf(ctx context.Context, collection common.Address, tokenId *big.Int) (common.Address, error) {
	cc, err := h.contract(collection)
	if err != nil {
		return common.Address{}, err
	}

	out, err := cc.Call(ctx, nil, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, fmt.Errorf("ownerOf call for %s: %w", collection.Hex(), err)
	}
	owner, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("ownerOf call for %s: unexpected return type %T", collection.Hex(), out[0])
	}
	return owner, nil
}

// BalanceOf returns the number of tokens the holder owns in the collection.
func (h *ERC721Helper) BalanceOf(ctx context.Context, collection, holder common.Address) (*big.Int, error) {
	cc, err := h.contract(collection)
	if err != nil {
		return nil, err
	}

	out, err := cc.Call(ctx, nil, "balanceOf", holder)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call for %s: %w", collection.Hex(), err)
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf call for %s: unexpected return type %T", collection.Hex(), out[0])
	}
	return balance, nil
}

// TokenURI returns the metadata URI of a token.
func (h *ERC721Helper) TokenURI(ctx context.Context, collection common.Address, tokenId *big.Int) (string, error) {
	cc, err := h.contract(collection)
	if err != nil {
		return "", err
	}

	out, err := cc.Call(ctx, nil, "tokenURI", tokenId)
	if err != nil {
		return "", fmt.Errorf("tokenURI call for %s: %w", collection.Hex(), err)
	}
	uri, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("tokenURI call for %s: unexpected return type %T", collection.Hex(), out[0])
	}
	return uri, nil
}

// Approve grants the spender permission to move a single token.
func (h *ERC721Helper) Approve(ctx context.Context, account *Account, collection, spender common.Address, tokenId *big.Int) (common.Hash, error) {
	cc, err := h.contract(collection)
	if err != nil {
		return common.Hash{}, err
	}
	return cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"approve", spender, tokenId)
}

// SetApprovalForAll grants or revokes an operator over all of the account's
// tokens in the collection.
func (h *ERC721Helper) SetApprovalForAll(ctx context.Context, account *Account, collection, operator common.Address, approved bool) (common.Hash, error) {
	cc, err := h.contract(collection)
	if err != nil {
		return common.Hash{}, err
	}
	return cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"setApprovalForAll", operator, approved)
}

// TransferFrom moves a token from the account to the recipient.
func (h *ERC721Helper) TransferFrom(ctx context.Context, account *Account, collection, recipient common.Address, tokenId *big.Int) (common.Hash, error) {
	cc, err := h.contract(collection)
	if err != nil {
		return common.Hash{}, err
	}
	return cc.Send(ctx, contracttypes.Normal, &account.Address, account.PrivateKey,
		"transferFrom", account.Address, recipient, tokenId)
}
