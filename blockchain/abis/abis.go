// Package abis bundles the contract ABIs the SDK talks to. They are parsed
// once at init; a malformed embedded ABI is a build defect, hence the panic.
package abis

import (
	_ "embed"

	"infinitypools/blockchain/pkg/util"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed erc20.json
var erc20JSON []byte

//go:embed erc721.json
var erc721JSON []byte

//go:embed periphery.json
var peripheryJSON []byte

var (
	ERC20     *abi.ABI = util.MustParseABI(erc20JSON)
	ERC721    *abi.ABI = util.MustParseABI(erc721JSON)
	Periphery *abi.ABI = util.MustParseABI(peripheryJSON)
)
