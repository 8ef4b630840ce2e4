package domain

import "context"

// MarketDataProvider supplies point-in-time pair data. A partial or
// malformed upstream payload yields a *ProviderError, never a
// zero-filled snapshot.
type MarketDataProvider interface {
	GetSnapshot(ctx context.Context, assetID string) (*MarketSnapshot, error)
	GetCandles(ctx context.Context, assetID string, limit int) ([]Candle, error)
	GetPriceHistory(ctx context.Context, assetID string, limit int) ([]PricePoint, error)
}

// SocialProvider supplies aggregated social signal for a ticker.
// A provider without configured credentials is a valid "disabled"
// state that returns NeutralSentiment(), not an error.
type SocialProvider interface {
	GetSentiment(ctx context.Context, ticker string) (*SentimentSummary, error)
	GetMetrics(ctx context.Context, ticker string) (*SocialMetrics, error)
}

// TradeExecutor submits a single transfer/swap. Signing and broadcast
// are behind this boundary. The scheduler calls it at most once per
// triggered level and never retries.
type TradeExecutor interface {
	Execute(ctx context.Context, assetID string, side Side, amount float64) (*TradeResult, error)
}

// LevelRepository persists auto-levels so pending orders survive a
// restart.
type LevelRepository interface {
	SaveLevel(ctx context.Context, level *AutoLevel) error
	UpdateLevelStatus(ctx context.Context, id string, status LevelStatus) error
	ListLevels(ctx context.Context) ([]*AutoLevel, error)
	GetLevelsByAsset(ctx context.Context, assetID string) ([]*AutoLevel, error)
	DeleteLevel(ctx context.Context, id string) error
}

// TradeLedger is the append-only record of execution attempts.
type TradeLedger interface {
	Append(ctx context.Context, record *TradeRecord) error
	History(ctx context.Context, assetID string, limit int) ([]*TradeRecord, error)
}
