package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"infinitypools"
	"infinitypools/blockchain"
	"infinitypools/config"
	"infinitypools/offchain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

func main() {

	wallet := flag.String("wallet", "", "wallet address to query (overrides config)")
	fromBlock := flag.Uint64("from-block", 0, "block to start the position scan from")
	flag.Parse()

	conf, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	level, err := conf.LogLevel()
	if err != nil {
		panic(err)
	}
	zerolog.SetGlobalLevel(level)

	walletAddr := conf.Wallet.Address
	if *wallet != "" {
		walletAddr = *wallet
	}
	if walletAddr == "" {
		fmt.Fprintln(os.Stderr, "no wallet: set wallet.address in config.yaml or pass -wallet")
		os.Exit(1)
	}

	client, err := ethclient.Dial(conf.Chain.RpcURL)
	if err != nil {
		panic(err)
	}

	periphery, err := blockchain.NewPeripheryClient(client, conf.PeripheryAddress())
	if err != nil {
		panic(err)
	}

	sdk, err := infinitypools.NewSDK(infinitypools.SDKConfig{
		Chain:  periphery,
		API:    offchain.NewClient(offchain.WithBaseURL(conf.Api.BaseURL), offchain.WithCacheTTL(conf.CacheTTL())),
		Wallet: common.HexToAddress(walletAddr),
	})
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	positions, err := sdk.Positions(ctx, *fromBlock, nil)
	if err != nil {
		var decodeErrs blockchain.PositionDecodeErrors
		if !errors.As(err, &decodeErrs) {
			panic(err)
		}
		fmt.Fprintln(os.Stderr, decodeErrs.Error())
	}

	out, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
}
