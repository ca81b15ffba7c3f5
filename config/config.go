package config

import (
	_ "embed"
	"fmt"
	"time"

	"infinitypools/internal/util"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configByte []byte

type Config struct {
	Log string `yaml:"log"`

	Chain struct {
		RpcURL    string `yaml:"rpc-url" validate:"required,url"`
		ChainID   int64  `yaml:"chain-id" validate:"required"`
		Periphery string `yaml:"periphery" validate:"required,eth_addr"`
		GasLimit  int64  `yaml:"gas-limit" validate:"gte=0"`
	} `yaml:"chain"`

	Api struct {
		BaseURL         string `yaml:"base-url" validate:"required,url"`
		CacheTTLSeconds int    `yaml:"cache-ttl-seconds" validate:"gte=0"`
	} `yaml:"api"`

	Wallet struct {
		Address      string `yaml:"address" validate:"omitempty,eth_addr"`
		EncryptedKey string `yaml:"encrypted-key"`
	} `yaml:"wallet"`

	Tokens map[string]string `yaml:"tokens" validate:"dive,eth_addr"`
}

func NewConfig() (*Config, error) {

	var conf Config

	if err := yaml.Unmarshal(configByte, &conf); err != nil {
		return nil, fmt.Errorf("config unmarshal error %w", err)
	}

	if err := validator.New().Struct(&conf); err != nil {
		return nil, fmt.Errorf("config validation error %w", err)
	}

	return &conf, nil
}

func (c Config) LogLevel() (zerolog.Level, error) {

	level, err := zerolog.ParseLevel(c.Log)
	if err != nil {
		return zerolog.InfoLevel, err
	}

	return level, nil
}

func (c Config) PeripheryAddress() common.Address {
	return common.HexToAddress(c.Chain.Periphery)
}

func (c Config) TokenAddress(symbol string) (common.Address, bool) {
	hexAddr, ok := c.Tokens[symbol]
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(hexAddr), true
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Api.CacheTTLSeconds) * time.Second
}

// PrivateKey decrypts the wallet key with the operator-supplied AES key.
func (c Config) PrivateKey(key string) (string, error) {
	if c.Wallet.EncryptedKey == "" {
		return "", fmt.Errorf("no encrypted wallet key configured")
	}
	return util.Decrypt([]byte(key), c.Wallet.EncryptedKey)
}
