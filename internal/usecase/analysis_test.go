package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/domain"
	"github.com/solwatch/memetrader/internal/scoring"
)

type MockMarket struct {
	Snap       *domain.MarketSnapshot
	SnapErr    error
	Candles    []domain.Candle
	CandlesErr error
	History    []domain.PricePoint
	HistoryErr error
}

func (m *MockMarket) GetSnapshot(ctx context.Context, assetID string) (*domain.MarketSnapshot, error) {
	return m.Snap, m.SnapErr
}

func (m *MockMarket) GetCandles(ctx context.Context, assetID string, limit int) ([]domain.Candle, error) {
	return m.Candles, m.CandlesErr
}

func (m *MockMarket) GetPriceHistory(ctx context.Context, assetID string, limit int) ([]domain.PricePoint, error) {
	return m.History, m.HistoryErr
}

type MockSocial struct {
	Sentiment    *domain.SentimentSummary
	SentimentErr error
	Metrics      *domain.SocialMetrics
	MetricsErr   error
}

func (m *MockSocial) GetSentiment(ctx context.Context, ticker string) (*domain.SentimentSummary, error) {
	return m.Sentiment, m.SentimentErr
}

func (m *MockSocial) GetMetrics(ctx context.Context, ticker string) (*domain.SocialMetrics, error) {
	return m.Metrics, m.MetricsErr
}

func newAnalysis(market domain.MarketDataProvider, social domain.SocialProvider) *AnalysisService {
	cfg := config.DefaultScoring()
	return NewAnalysisService(
		market,
		social,
		scoring.NewRiskScorer(cfg),
		scoring.NewHealthAnalyzer(),
		scoring.NewRecommendationEngine(cfg),
		zap.NewNop(),
	)
}

func testSnapshot() *domain.MarketSnapshot {
	now := time.Now()
	return &domain.MarketSnapshot{
		AssetID:       "SOLMEME",
		PriceUSD:      0.002,
		LiquidityUSD:  200_000,
		Volume24hUSD:  60_000,
		BuyCount24h:   150,
		SellCount24h:  120,
		PairCreatedAt: now.Add(-20 * 24 * time.Hour),
		CapturedAt:    now,
	}
}

func testCandles(n int) []domain.Candle {
	candles := make([]domain.Candle, n)
	for i := range candles {
		candles[i] = domain.Candle{
			Time:   int64(i * 300),
			Open:   0.002,
			High:   0.002,
			Low:    0.002,
			Close:  0.002,
			Volume: 5000,
		}
	}
	return candles
}

func TestAnalyzeFullPipeline(t *testing.T) {
	market := &MockMarket{
		Snap:    testSnapshot(),
		Candles: testCandles(24),
	}
	social := &MockSocial{
		Sentiment: &domain.SentimentSummary{AverageSentiment: 0.2, SentimentVolatility: 0.1, SampleCount: 40},
		Metrics:   &domain.SocialMetrics{TweetVolume: 40, TweetSentiment: 0.2, EngagementRate: 0.3},
	}

	report, err := newAnalysis(market, social).Analyze(context.Background(), "SOLMEME", "MEME")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Risk == nil || report.Health == nil || report.Sentiment == nil {
		t.Fatal("Report missing sections")
	}
	if report.Recommendation == nil {
		t.Fatal("Expected a recommendation with full candle history")
	}
	if report.Risk.RiskScore < 0 || report.Risk.RiskScore > 100 {
		t.Errorf("Risk score %f out of range", report.Risk.RiskScore)
	}
}

func TestAnalyzeMarketFailureSurfaces(t *testing.T) {
	market := &MockMarket{
		SnapErr: &domain.ProviderError{Provider: "dexscreener", Err: context.DeadlineExceeded},
	}

	_, err := newAnalysis(market, &MockSocial{}).Analyze(context.Background(), "SOLMEME", "MEME")
	if err == nil {
		t.Fatal("Expected market provider failure to surface")
	}
}

func TestAnalyzeSocialFailureDegradesToNeutral(t *testing.T) {
	market := &MockMarket{
		Snap:    testSnapshot(),
		Candles: testCandles(24),
	}
	social := &MockSocial{
		SentimentErr: &domain.ProviderError{Provider: "twitter", Err: context.DeadlineExceeded},
		MetricsErr:   &domain.ProviderError{Provider: "twitter", Err: context.DeadlineExceeded},
	}

	report, err := newAnalysis(market, social).Analyze(context.Background(), "SOLMEME", "MEME")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Sentiment.HasData() {
		t.Error("Expected the neutral sentiment fallback")
	}
	// Recommendation still produced; social sub-score reads zero.
	if report.Recommendation == nil {
		t.Fatal("Expected a recommendation")
	}
	if report.Recommendation.Detail.SocialScore != 0 {
		t.Errorf("Social score = %f, want 0", report.Recommendation.Detail.SocialScore)
	}
}

func TestAnalyzeWithholdsRecommendationWithoutCandles(t *testing.T) {
	market := &MockMarket{
		Snap:       testSnapshot(),
		CandlesErr: &domain.ProviderError{Provider: "dexscreener", Err: context.DeadlineExceeded},
	}

	report, err := newAnalysis(market, &MockSocial{Sentiment: domain.NeutralSentiment()}).Analyze(context.Background(), "SOLMEME", "MEME")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Recommendation != nil {
		t.Error("Expected recommendation withheld when candles are unavailable")
	}
	if report.Risk == nil || report.Health == nil {
		t.Error("Risk and health must still be scored")
	}
}

func TestAnalyzeEmptyHistoryWithholdsRecommendation(t *testing.T) {
	market := &MockMarket{Snap: testSnapshot(), Candles: nil}

	report, err := newAnalysis(market, &MockSocial{Sentiment: domain.NeutralSentiment()}).Analyze(context.Background(), "SOLMEME", "MEME")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Recommendation != nil {
		t.Error("Expected recommendation withheld on empty history")
	}
}
