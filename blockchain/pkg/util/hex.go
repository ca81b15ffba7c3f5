package util

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func Hex2Bytes(str string) []byte {
	str = strings.TrimPrefix(str, "0x")
	return common.Hex2Bytes(str)
}

// HexToBig parses a hex quantity (with or without 0x prefix) the way the
// JSON-RPC API renders block numbers.
func HexToBig(str string) (*big.Int, error) {
	str = strings.TrimPrefix(str, "0x")
	v, ok := new(big.Int).SetString(str, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity: %s", str)
	}
	return v, nil
}
