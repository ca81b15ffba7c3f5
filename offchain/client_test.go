package offchain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickToPriceString(t *testing.T) {

	tests := []struct {
		name   string
		tick   int32
		places int32
		want   string
	}{
		{"zero_tick", 0, 2, "1.00"},
		{"one_tick", 1, 4, "1.0100"},
		{"two_ticks", 2, 4, "1.0201"},
		{"negative_tick", -1, 6, "0.990099"},
		{"negative_two", -2, 6, "0.980296"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TickToPriceString(tt.tick, tt.places))
		})
	}
}

func TestMarkets(t *testing.T) {

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("adjustPrice"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"chainId":8453,"tokens":["sUSDe","wstETH"],"address":"0xc3a51f01bc43b1a41b1a1ccaa64c0578cf40ba1f","price":2557.9,"tvl":1000000}]`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	markets, err := c.Markets(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, int64(8453), markets[0].ChainID)
	assert.Equal(t, []string{"sUSDe", "wstETH"}, markets[0].Tokens)

	// Second call is served from cache.
	_, err = c.Markets(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestMarketsCacheExpiry(t *testing.T) {

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithCacheTTL(10*time.Millisecond))

	_, err := c.Markets(context.Background(), false)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = c.Markets(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLiquidityPositions(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/liquidity_positions", r.URL.Path)
		cookie, err := r.Cookie("wallet")
		require.NoError(t, err)
		assert.Equal(t, "0x9eAFc0c2b04D96a1C1edAdda8A474a4506752207", cookie.Value)
		w.Write([]byte(`[{"lpNum":97,"baseAsset":"sUSDe","quoteAsset":"wstETH","status":"OPEN","canDrain":true}]`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	positions, err := c.LiquidityPositions(context.Background(), "0x9eAFc0c2b04D96a1C1edAdda8A474a4506752207")
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, int64(97), positions[0].LpNum)
	assert.Equal(t, "OPEN", positions[0].Status)
	assert.True(t, positions[0].CanDrain)
}

func TestPoolPriceBars(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pool_price_bars", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "CANDLE_1M", q.Get("barType"))
		assert.Equal(t, "1746996950000", q.Get("startTimeMillis"))
		assert.Equal(t, "false", q.Get("adjustPrice"))
		w.Write([]byte(`{"bars":[{"timestampMillis":1746996960000,"open":2403.7,"close":2403.7,"high":2403.7,"low":2403.7,"avg":2403.7}]}`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	bars, err := c.PoolPriceBars(context.Background(), PriceBarsQuery{
		BaseAsset:       "0xc1cba3fcea344f92d9239c08c0568f6f2f0ee452",
		QuoteAsset:      "0x211cc4dd073734da055fbf44a2b4667d5e5fe5d2",
		BarType:         "CANDLE_1M",
		StartTimeMillis: 1746996950000,
		StopTimeMillis:  1747589150000,
	})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, int64(1746996960000), bars[0].TimestampMillis)
}

func TestLiquidityRatio(t *testing.T) {

	t.Run("full_range", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/liquidityRatio/0xbase/0xquote/0/Infinity", r.URL.Path)
			assert.Equal(t, "1.0", r.URL.Query().Get("baseSize"))
			w.Write([]byte(`{"baseSize":"1.0","quoteSize":"0.0003909391093384665"}`))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))

		ratio, err := c.LiquidityRatio(context.Background(), LiquidityRatioQuery{
			BaseAsset:  "0xbase",
			QuoteAsset: "0xquote",
			BaseSize:   "1.0",
		})
		require.NoError(t, err)
		assert.Equal(t, "0.0003909391093384665", ratio.QuoteSize)
	})

	t.Run("tick_range", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t,
				"/liquidityRatio/0xbase/0xquote/"+TickToPriceString(-100, 64)+"/"+TickToPriceString(100, 63),
				r.URL.Path)
			w.Write([]byte(`{"baseSize":"1","quoteSize":"3000"}`))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))

		lower, upper := int32(-100), int32(100)
		ratio, err := c.LiquidityRatio(context.Background(), LiquidityRatioQuery{
			BaseAsset:  "0xbase",
			QuoteAsset: "0xquote",
			LowerTick:  &lower,
			UpperTick:  &upper,
		})
		require.NoError(t, err)
		assert.Equal(t, "1", ratio.BaseSize)
		assert.Equal(t, "3000", ratio.QuoteSize)
	})

	t.Run("explicit_prices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/liquidityRatio/0xbase/0xquote", r.URL.Path)
			assert.Equal(t, "1000", r.URL.Query().Get("lowerPrice"))
			assert.Equal(t, "2000", r.URL.Query().Get("upperPrice"))
			w.Write([]byte(`{"baseSize":"1","quoteSize":"2"}`))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))

		_, err := c.LiquidityRatio(context.Background(), LiquidityRatioQuery{
			BaseAsset:  "0xbase",
			QuoteAsset: "0xquote",
			LowerPrice: "1000",
			UpperPrice: "2000",
		})
		require.NoError(t, err)
	})
}

func TestErrorStatus(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	_, err := c.System(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
