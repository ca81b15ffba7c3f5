package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {

	conf, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, int64(8453), conf.Chain.ChainID)
	assert.Equal(t, common.HexToAddress("0xF8FAD01B2902fF57460552C920233682c7c011a7"), conf.PeripheryAddress())

	weth, ok := conf.TokenAddress("WETH")
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0x4200000000000000000000000000000000000006"), weth)

	_, ok = conf.TokenAddress("DOGE")
	assert.False(t, ok)

	level, err := conf.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, "info", level.String())
}
