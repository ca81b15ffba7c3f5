// Package offchain talks to the Infinity Pools REST API, which serves the
// market and position data that is too expensive to derive from chain state.
package offchain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"infinitypools/internal/model"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://prod.api.infinitypools.finance"

// The API sits behind the same gateway as the web app and expects
// browser-shaped requests.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:138.0) Gecko/20100101 Firefox/138.0",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-CA,en-US;q=0.7,en;q=0.3",
	"Origin":          "https://infinitypools.finance",
	"Referer":         "https://infinitypools.finance/",
	"DNT":             "1",
	"Sec-Fetch-Dest":  "empty",
	"Sec-Fetch-Mode":  "cors",
	"Sec-Fetch-Site":  "same-site",
}

// Client is the REST API client. Market and system responses are cached for a
// short TTL since they back frequent UI-style polling.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	lg         zerolog.Logger
}

// Option is a functional option for configuring Client
type Option func(*Client)

// WithBaseURL points the client at a different API host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCacheTTL overrides the default 30s cache for markets/system responses.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = gocache.New(ttl, 2*ttl)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      gocache.New(30*time.Second, time.Minute),
		lg:         zerolog.New(os.Stdout).With().Str("Module", "Offchain").Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sendRequest performs a GET against the API. A non-empty wallet is passed as
// the wallet cookie, which is how the API scopes position endpoints.
func (c *Client) sendRequest(ctx context.Context, path string, query url.Values, wallet string, response any) error {

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("error making request\n%w", err)
	}

	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	if wallet != "" {
		req.Header.Set("Cookie", "wallet="+wallet)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request\n%w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("api request %s: unexpected status %s", path, res.Status)
	}

	if err := json.NewDecoder(res.Body).Decode(response); err != nil {
		return fmt.Errorf("error decoding %s response\n%w", path, err)
	}
	return nil
}

// Markets lists all pools the API knows about. adjustPrice asks the API to
// normalize prices by token decimals.
func (c *Client) Markets(ctx context.Context, adjustPrice bool) ([]model.Market, error) {
	cacheKey := "markets:" + strconv.FormatBool(adjustPrice)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]model.Market), nil
	}

	query := url.Values{}
	if adjustPrice {
		query.Set("adjustPrice", "true")
	}

	var markets []model.Market
	if err := c.sendRequest(ctx, "/markets", query, "", &markets); err != nil {
		return nil, err
	}

	c.cache.SetDefault(cacheKey, markets)
	return markets, nil
}

// System returns API deployment info, contract addresses included.
func (c *Client) System(ctx context.Context) (*model.SystemInfo, error) {
	if cached, ok := c.cache.Get("system"); ok {
		return cached.(*model.SystemInfo), nil
	}

	var info model.SystemInfo
	if err := c.sendRequest(ctx, "/system", nil, "", &info); err != nil {
		return nil, err
	}

	c.cache.SetDefault("system", &info)
	return &info, nil
}

// LiquidityPositions lists the wallet's LP positions as the API sees them.
func (c *Client) LiquidityPositions(ctx context.Context, wallet string) ([]model.LiquidityPosition, error) {
	var positions []model.LiquidityPosition
	if err := c.sendRequest(ctx, "/liquidity_positions", nil, wallet, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// TradingPositions lists the wallet's swapper positions.
func (c *Client) TradingPositions(ctx context.Context, wallet string) ([]model.TradingPosition, error) {
	var positions []model.TradingPosition
	if err := c.sendRequest(ctx, "/trading_positions", nil, wallet, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// Orders lists the wallet's open and historical orders.
func (c *Client) Orders(ctx context.Context, wallet string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.sendRequest(ctx, "/orders", nil, wallet, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PriceBarsQuery selects a candle series for a pool.
type PriceBarsQuery struct {
	BaseAsset       string
	QuoteAsset      string
	BarType         string // e.g. CANDLE_1M
	StartTimeMillis int64
	StopTimeMillis  int64
	AdjustPrice     bool
}

type priceBarsResponse struct {
	Bars []model.PriceBar `json:"bars"`
}

// PoolPriceBars fetches historical candles for a pool.
func (c *Client) PoolPriceBars(ctx context.Context, q PriceBarsQuery) ([]model.PriceBar, error) {
	query := url.Values{}
	query.Set("baseAsset", q.BaseAsset)
	query.Set("quoteAsset", q.QuoteAsset)
	query.Set("barType", q.BarType)
	query.Set("startTimeMillis", strconv.FormatInt(q.StartTimeMillis, 10))
	query.Set("stopTimeMillis", strconv.FormatInt(q.StopTimeMillis, 10))
	query.Set("adjustPrice", strconv.FormatBool(q.AdjustPrice))

	var resp priceBarsResponse
	if err := c.sendRequest(ctx, "/pool_price_bars", query, "", &resp); err != nil {
		return nil, err
	}
	return resp.Bars, nil
}

// LiquidityRatioQuery selects the price range and input size for a ratio
// request. When LowerTick/UpperTick are set they take precedence and are
// rendered as 1.01^tick price path segments; otherwise LowerPrice/UpperPrice
// are used ("0" and "Infinity" select the full-range endpoint).
type LiquidityRatioQuery struct {
	BaseAsset  string
	QuoteAsset string
	LowerTick  *int32
	UpperTick  *int32
	LowerPrice string
	UpperPrice string
	BaseSize   string
	QuoteSize  string
}

const (
	fullRangeLowerPrice = "0"
	fullRangeUpperPrice = "Infinity"

	// Decimal places the API accepts for tick-derived price path segments.
	lowerPricePlaces = 64
	upperPricePlaces = 63
)

// LiquidityRatio returns the deposit ratio required for a liquidity range.
// Only one of BaseSize/QuoteSize should be set.
func (c *Client) LiquidityRatio(ctx context.Context, q LiquidityRatioQuery) (*model.LiquidityRatio, error) {
	query := url.Values{}
	if q.BaseSize != "" {
		query.Set("baseSize", q.BaseSize)
	}
	if q.QuoteSize != "" {
		query.Set("quoteSize", q.QuoteSize)
	}

	lowerPrice := q.LowerPrice
	if lowerPrice == "" {
		lowerPrice = fullRangeLowerPrice
	}
	upperPrice := q.UpperPrice
	if upperPrice == "" {
		upperPrice = fullRangeUpperPrice
	}

	var path string
	switch {
	case q.LowerTick != nil && q.UpperTick != nil:
		path = fmt.Sprintf("/liquidityRatio/%s/%s/%s/%s", q.BaseAsset, q.QuoteAsset,
			TickToPriceString(*q.LowerTick, lowerPricePlaces),
			TickToPriceString(*q.UpperTick, upperPricePlaces))

	case lowerPrice == fullRangeLowerPrice && upperPrice == fullRangeUpperPrice:
		path = fmt.Sprintf("/liquidityRatio/%s/%s/0/Infinity", q.BaseAsset, q.QuoteAsset)

	default:
		path = fmt.Sprintf("/liquidityRatio/%s/%s", q.BaseAsset, q.QuoteAsset)
		if lowerPrice != fullRangeLowerPrice {
			query.Set("lowerPrice", lowerPrice)
		}
		if upperPrice != fullRangeUpperPrice {
			query.Set("upperPrice", upperPrice)
		}
	}

	var ratio model.LiquidityRatio
	if err := c.sendRequest(ctx, path, query, "", &ratio); err != nil {
		return nil, err
	}
	return &ratio, nil
}
