package contractclient

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	contracttypes "infinitypools/blockchain/pkg/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ContractClient wraps a single deployed contract: ABI packing, eth_call
// reads, EIP-1559 signed sends and receipt/event decoding.
type ContractClient struct {
	contractAddress common.Address
	abi             *abi.ABI
	client          *ethclient.Client
	chainId         *big.Int
	defaultGasLimit *big.Int
	gasTipCap       *big.Int
}

// Option is a functional option for configuring ContractClient
type Option func(*ContractClient)

// WithDefaultGasLimit sets the gas limit used when estimation fails.
func WithDefaultGasLimit(gasLimit *big.Int) Option {
	return func(cc *ContractClient) {
		cc.defaultGasLimit = gasLimit
	}
}

// WithGasTipCap overrides the default 1.5 Gwei priority fee.
func WithGasTipCap(tip *big.Int) Option {
	return func(cc *ContractClient) {
		cc.gasTipCap = tip
	}
}

func NewContractClient(client *ethclient.Client, contractAddress common.Address, contractABI *abi.ABI, opts ...Option) (*ContractClient, error) {
	chainID := big.NewInt(0)
	if client != nil {
		cid, err := client.ChainID(context.Background())
		if err != nil {
			return nil, errors.Join(errors.New("ChainID get error"), err)
		}
		chainID = cid
	}

	cc := &ContractClient{
		contractAddress: contractAddress,
		abi:             contractABI,
		client:          client,
		chainId:         chainID,
		gasTipCap:       big.NewInt(1500000000), // 1.5 Gwei
	}

	for _, opt := range opts {
		opt(cc)
	}

	return cc, nil
}

// Call performs a read-only eth_call against the contract and unpacks the
// method's return values.
func (cm *ContractClient) Call(ctx context.Context, from *common.Address, method string, args ...interface{}) ([]interface{}, error) {

	if from == nil {
		from = &common.Address{}
	}
	packed, err := cm.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%s call: abi pack error", method), err)
	}

	raw, err := cm.client.CallContract(ctx, ethereum.CallMsg{
		From: *from,
		To:   &cm.contractAddress,
		Data: packed,
	}, nil)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%s call: CallContract error", method), err)
	}

	rtn, err := cm.abi.Unpack(method, raw)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%s call: abi unpack error", method), err)
	}

	return rtn, nil
}

// Send packs, signs and broadcasts a state-changing method call.
func (cm *ContractClient) Send(ctx context.Context, priority contracttypes.Priority, from *common.Address, privateKey *ecdsa.PrivateKey, method string, args ...interface{}) (common.Hash, error) {
	return cm.send(ctx, priority, nil, from, privateKey, method, args...)
}

// SendWithValue is Send with an attached native-token value.
func (cm *ContractClient) SendWithValue(ctx context.Context, priority contracttypes.Priority, value *big.Int, from *common.Address, privateKey *ecdsa.PrivateKey, method string, args ...interface{}) (common.Hash, error) {
	return cm.send(ctx, priority, value, from, privateKey, method, args...)
}

func (cm *ContractClient) send(ctx context.Context, priority contracttypes.Priority, value *big.Int, from *common.Address, privateKey *ecdsa.PrivateKey, method string, args ...interface{}) (common.Hash, error) {
	if from == nil {
		from = &common.Address{}
	}
	packed, err := cm.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, errors.Join(fmt.Errorf("%s send: abi pack error", method), err)
	}

	nonce, err := cm.client.PendingNonceAt(ctx, *from)
	if err != nil {
		return common.Hash{}, errors.Join(fmt.Errorf("%s send: PendingNonceAt error", method), err)
	}

	gasPrice, err := cm.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, errors.Join(fmt.Errorf("%s send: SuggestGasPrice error", method), err)
	}

	gasLimit, err := cm.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  *from,
		To:    &cm.contractAddress,
		Data:  packed,
		Value: value,
	})
	if err != nil {
		if cm.defaultGasLimit != nil {
			gasLimit = cm.defaultGasLimit.Uint64()
		} else {
			return common.Hash{}, errors.Join(fmt.Errorf("%s send: EstimateGas error", method), err)
		}
	}
	if priority == contracttypes.High {
		gasLimit = gasLimit * 2
	}

	// maxFeePerGas = suggested base fee + 2 Gwei headroom; the base fee itself
	// is burned under EIP-1559, the tip goes to the validator.
	gasFeeCap := new(big.Int).Add(gasPrice, big.NewInt(2000000000))

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   cm.chainId,
		Nonce:     nonce,
		GasTipCap: cm.gasTipCap, // a.k.a. maxPriorityFeePerGas
		GasFeeCap: gasFeeCap,    // a.k.a. maxFeePerGas
		Gas:       gasLimit,
		To:        &cm.contractAddress,
		Value:     value,
		Data:      packed,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(cm.chainId), privateKey)
	if err != nil {
		return common.Hash{}, errors.Join(fmt.Errorf("%s send: SignTx error", method), err)
	}

	err = cm.client.SendTransaction(ctx, signedTx)
	if err != nil {
		return common.Hash{}, errors.Join(fmt.Errorf("%s send: SendTransaction error", method), err)
	}

	return signedTx.Hash(), nil
}

// GetReceipt fetches the raw receipt, preserving provider-specific fields the
// typed ethclient receipt drops.
func (cm *ContractClient) GetReceipt(ctx context.Context, txHash common.Hash) (*contracttypes.TxReceipt, error) {

	var r *contracttypes.TxReceipt

	err := cm.client.Client().CallContext(ctx, &r, "eth_getTransactionReceipt", txHash)
	if err == nil && r == nil {
		return nil, ethereum.NotFound
	}

	return r, err
}

// ParseReceiptEvents decodes every log in the receipt that was emitted by this
// contract, matching by event signature topic.
func (cm *ContractClient) ParseReceiptEvents(receipt *contracttypes.TxReceipt) ([]*contracttypes.EventInfo, error) {

	events := make([]*contracttypes.EventInfo, 0, len(receipt.Logs))
	for _, log := range receipt.Logs {

		if log.Address != cm.contractAddress || len(log.Topics) == 0 {
			continue
		}

		var abiEvent *abi.Event
		for _, event := range cm.abi.Events {
			if event.ID == log.Topics[0] {
				abiEvent = &event
				break
			}
		}
		if abiEvent == nil {
			continue
		}

		paramMap := make(map[string]interface{})
		if err := abiEvent.Inputs.UnpackIntoMap(paramMap, log.Data); err != nil {
			return nil, fmt.Errorf("unpack %s data: %w", abiEvent.Name, err)
		}

		// Topics past the signature carry the indexed inputs. Logs forwarded
		// from nested contract calls can have fewer topics than inputs, so
		// cap at what is actually present.
		indexed := make([]abi.Argument, 0, len(log.Topics)-1)
		for _, input := range abiEvent.Inputs {
			if input.Indexed && len(indexed) < len(log.Topics)-1 {
				indexed = append(indexed, input)
			}
		}
		if err := abi.ParseTopicsIntoMap(paramMap, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("parse %s topics: %w", abiEvent.Name, err)
		}

		events = append(events, &contracttypes.EventInfo{
			Address:   log.Address,
			EventName: abiEvent.Name,
			Index:     log.Index,
			Parameter: paramMap,
		})
	}

	return events, nil
}

// DecodeTransaction decodes raw transaction input data using the contract's ABI
func (cm *ContractClient) DecodeTransaction(data []byte) (*contracttypes.DecodedTransaction, error) {
	if len(data) < 4 {
		return nil, errors.New("transaction data too short: must be at least 4 bytes for method selector")
	}

	method, err := cm.abi.MethodById(data[:4])
	if err != nil {
		return nil, fmt.Errorf("failed to find method by selector %s: %w", hex.EncodeToString(data[:4]), err)
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to unpack arguments for method %s: %w", method.Name, err)
	}

	params := make([]contracttypes.DecodedParam, len(method.Inputs))
	for i, input := range method.Inputs {
		params[i] = contracttypes.DecodedParam{
			Name:  input.Name,
			Type:  input.Type.String(),
			Value: convertValueForJSON(args[i], input.Type),
		}
	}

	return &contracttypes.DecodedTransaction{
		ContractAddress: cm.contractAddress,
		MethodName:      method.Name,
		MethodSignature: buildMethodSignature(method),
		Parameters:      params,
		RawData:         data,
	}, nil
}

// DecodeByHash fetches a transaction by hash and decodes its input data
func (cm *ContractClient) DecodeByHash(ctx context.Context, txHash common.Hash) (*contracttypes.DecodedTransaction, error) {
	tx, _, err := cm.client.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", txHash.Hex(), err)
	}

	return cm.DecodeTransaction(tx.Data())
}

func (cm *ContractClient) ContractAddress() *common.Address {
	return &cm.contractAddress
}

func (cm *ContractClient) ChainId() *big.Int {
	return cm.chainId
}

func (cm *ContractClient) Abi() *abi.ABI {
	return cm.abi
}

func (cm *ContractClient) Client() *ethclient.Client {
	return cm.client
}

/*********************************** internal utils *********************************************/

// buildMethodSignature constructs the full method signature string
func buildMethodSignature(method *abi.Method) string {
	inputs := make([]string, len(method.Inputs))
	for i, input := range method.Inputs {
		inputs[i] = input.Type.String()
	}
	return fmt.Sprintf("%s(%s)", method.Name, strings.Join(inputs, ","))
}

// convertValueForJSON converts ABI values to JSON-friendly representations
func convertValueForJSON(value interface{}, abiType abi.Type) interface{} {
	switch abiType.T {
	case abi.AddressTy:
		if addr, ok := value.(common.Address); ok {
			return addr.Hex()
		}
	case abi.BytesTy, abi.FixedBytesTy:
		switch v := value.(type) {
		case []byte:
			return "0x" + hex.EncodeToString(v)
		case [4]byte:
			return "0x" + hex.EncodeToString(v[:])
		case [20]byte:
			return "0x" + hex.EncodeToString(v[:])
		case [32]byte:
			return "0x" + hex.EncodeToString(v[:])
		}
	case abi.IntTy, abi.UintTy:
		if bigInt, ok := value.(*big.Int); ok {
			return bigInt.String()
		}
	case abi.SliceTy, abi.ArrayTy:
		return convertSliceForJSON(value, abiType.Elem)
	}
	return value
}

// convertSliceForJSON converts slice/array values for JSON representation
func convertSliceForJSON(value interface{}, elemType *abi.Type) interface{} {
	if elemType == nil {
		return value
	}

	switch slice := value.(type) {
	case []common.Address:
		result := make([]string, len(slice))
		for i, addr := range slice {
			result[i] = addr.Hex()
		}
		return result
	case []*big.Int:
		result := make([]string, len(slice))
		for i, v := range slice {
			result[i] = v.String()
		}
		return result
	case [][]byte:
		result := make([]string, len(slice))
		for i, v := range slice {
			result[i] = "0x" + hex.EncodeToString(v)
		}
		return result
	}

	return value
}
