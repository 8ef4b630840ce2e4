package domain

import "time"

// MarketSnapshot is one point-in-time observation of a token pair.
// Produced by a market data provider and never mutated by consumers.
type MarketSnapshot struct {
	AssetID           string    `json:"asset_id"`
	PriceUSD          float64   `json:"price_usd"`
	Volume24hUSD      float64   `json:"volume_24h_usd"`
	LiquidityUSD      float64   `json:"liquidity_usd"`
	PriceChange24hPct float64   `json:"price_change_24h_pct"`
	BuyCount24h       int       `json:"buy_count_24h"`
	SellCount24h      int       `json:"sell_count_24h"`
	PairCreatedAt     time.Time `json:"pair_created_at"`
	CapturedAt        time.Time `json:"captured_at"`
}

// Candle is one OHLCV bar of price history.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PricePoint is one sample of a pair's price and pool liquidity,
// used by the health analyzer's history heuristics.
type PricePoint struct {
	Time         time.Time `json:"time"`
	Price        float64   `json:"price"`
	LiquidityUSD float64   `json:"liquidity_usd"`
}
