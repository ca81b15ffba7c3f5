package model

// Response models for the Infinity Pools REST API.

type Market struct {
	ChainID       int64    `json:"chainId"`
	GoodTillBlkno int64    `json:"goodTillBlkno"`
	Tokens        []string `json:"tokens"`
	DefaultBase   string   `json:"defaultBase"`
	DefaultQuote  string   `json:"defaultQuote"`
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	Volume24H     float64  `json:"volume24H"`
	Change24H     float64  `json:"change24H"`
	OpenInterest  float64  `json:"openInterest"`
	Tvl           float64  `json:"tvl"`
	Apr7D         float64  `json:"apr7D"`
	Utilization   float64  `json:"utilization"`
}

type SystemInfo struct {
	CurrentSystemTimestampMillis int64             `json:"currentSystemTimestampMillis"`
	UpSinceTimestampMillis       int64             `json:"upSinceTimestampMillis"`
	ChainID                      int64             `json:"chainId"`
	LatestBlockInfo              LatestBlockInfo   `json:"latestBlockInfo"`
	ReleaseInfo                  ReleaseInfo       `json:"releaseInfo"`
	ContractAddresses            map[string]string `json:"contractAddresses"`
	ExternalAddresses            map[string]string `json:"externalAddresses"`
	SystemAccounts               map[string]string `json:"systemAccounts"`
}

type LatestBlockInfo struct {
	BlockNumber int64 `json:"blockNumber"`
}

type ReleaseInfo struct {
	GitHash  string `json:"gitHash"`
	ImageTag string `json:"imageTag"`
}

type LiquidityPosition struct {
	ID                 string   `json:"id"`
	LpNum              int64    `json:"lpNum"`
	BaseAsset          string   `json:"baseAsset"`
	QuoteAsset         string   `json:"quoteAsset"`
	Status             string   `json:"status"`
	LowerPrice         float64  `json:"lowerPrice"`
	UpperPrice         float64  `json:"upperPrice"`
	OriginalBaseSize   float64  `json:"originalBaseSize"`
	OriginalQuoteSize  float64  `json:"originalQuoteSize"`
	LockedBaseSize     float64  `json:"lockedBaseSize"`
	AvailableBaseSize  float64  `json:"availableBaseSize"`
	BaseUnclaimedFees  float64  `json:"baseUnclaimedFees"`
	BaseClaimedFees    float64  `json:"baseClaimedFees"`
	LockedQuoteSize    float64  `json:"lockedQuoteSize"`
	AvailableQuoteSize float64  `json:"availableQuoteSize"`
	QuoteUnclaimedFees float64  `json:"quoteUnclaimedFees"`
	QuoteClaimedFees   float64  `json:"quoteClaimedFees"`
	CanDrain           bool     `json:"canDrain"`
	OpenedAt           int64    `json:"openedAt"`
	ClosedAt           *int64   `json:"closedAt"`
	DepletedAt         *int64   `json:"depletedAt"`
	WithdrawnAt        *int64   `json:"withdrawnAt"`
	AggregatedApr      float64  `json:"aggregatedApr"`
	AggregatedApr7D    *float64 `json:"aggregatedApr7D"`
}

type TradingPosition struct {
	BaseAsset          string   `json:"baseAsset"`
	QuoteAsset         string   `json:"quoteAsset"`
	Status             string   `json:"status"`
	Side               string   `json:"side"`
	TargetSize         float64  `json:"targetSize"`
	CurrentSize        float64  `json:"currentSize"`
	HourlyInterestRate float64  `json:"hourlyInterestRate"`
	InterestPaid       float64  `json:"interestPaid"`
	TotalFundingPaid   float64  `json:"totalFundingPaid"`
	UnrealizedPnl      float64  `json:"unrealizedPnl"`
	RealizedPnl        float64  `json:"realizedPnl"`
	Leverage           float64  `json:"leverage"`
	EntryPrice         float64  `json:"entryPrice"`
	ClosePrice         *float64 `json:"closePrice"`
	OpenedAt           int64    `json:"openedAt"`
	ClosedAt           *int64   `json:"closedAt"`
}

type Order struct {
	ID               string   `json:"id"`
	Status           string   `json:"status"`
	BaseAsset        string   `json:"baseAsset"`
	QuoteAsset       string   `json:"quoteAsset"`
	Side             string   `json:"side"`
	Price            float64  `json:"price"`
	Size             float64  `json:"size"`
	FilledPrice      *float64 `json:"filledPrice"`
	CollateralToken  string   `json:"collateralToken"`
	CollateralAmount float64  `json:"collateralAmount"`
	FilledAt         *int64   `json:"filledAt"`
	Expiration       int64    `json:"expiration"`
	Type             string   `json:"type"`
	CancelReason     *string  `json:"cancelReason"`
}

type PriceBar struct {
	TimestampMillis int64   `json:"timestampMillis"`
	Open            float64 `json:"open"`
	Close           float64 `json:"close"`
	High            float64 `json:"high"`
	Low             float64 `json:"low"`
	Avg             float64 `json:"avg"`
}

// LiquidityRatio is the required deposit ratio for a liquidity range that
// crosses the pool price. Sizes come back as decimal strings.
type LiquidityRatio struct {
	BaseSize  string `json:"baseSize"`
	QuoteSize string `json:"quoteSize"`
}
