package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// abiEnvelope covers artifact formats that wrap the ABI array in an object,
// e.g. Hardhat/Foundry compilation output.
type abiEnvelope struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
}

// ParseABI parses ABI JSON that is either a plain ABI array or an artifact
// object carrying an "abi" field.
func ParseABI(data []byte) (*abi.ABI, error) {
	var envelope abiEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.ABI) > 0 {
		data = envelope.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &parsed, nil
}

// LoadABI reads and parses an ABI JSON file.
func LoadABI(filePath string) (*abi.ABI, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ABI file: %w", err)
	}
	return ParseABI(data)
}

// MustParseABI parses embedded ABI JSON and panics on failure. Only for
// compile-time-bundled ABIs.
func MustParseABI(data []byte) *abi.ABI {
	parsed, err := ParseABI(data)
	if err != nil {
		panic(err)
	}
	return parsed
}
