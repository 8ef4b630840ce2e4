package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/domain"
	"github.com/solwatch/memetrader/internal/scoring"
)

const historyWindow = 24

// AssetReport bundles the advisory scoring pipeline's output for one
// asset. Recommendation is nil when the price history was too short to
// produce one.
type AssetReport struct {
	Snapshot       *domain.MarketSnapshot   `json:"snapshot"`
	Sentiment      *domain.SentimentSummary `json:"sentiment"`
	Risk           *domain.RiskAssessment   `json:"risk"`
	Health         *domain.HealthAssessment `json:"health"`
	Recommendation *domain.Recommendation   `json:"recommendation,omitempty"`
}

// AnalysisService runs the stateless scoring pipeline: snapshot and
// social signal in, risk/health/recommendation out. Social provider
// failures degrade to the explicit neutral summary; market provider
// failures surface, since without a snapshot there is nothing to score.
type AnalysisService struct {
	market domain.MarketDataProvider
	social domain.SocialProvider
	risk   *scoring.RiskScorer
	health *scoring.HealthAnalyzer
	engine *scoring.RecommendationEngine
	logger *zap.Logger
}

func NewAnalysisService(
	market domain.MarketDataProvider,
	social domain.SocialProvider,
	risk *scoring.RiskScorer,
	health *scoring.HealthAnalyzer,
	engine *scoring.RecommendationEngine,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		market: market,
		social: social,
		risk:   risk,
		health: health,
		engine: engine,
		logger: logger,
	}
}

// Analyze scores one asset. ticker is the symbol used for the social
// lookup (it may differ from the pair id the market provider uses).
func (s *AnalysisService) Analyze(ctx context.Context, assetID, ticker string) (*AssetReport, error) {
	snap, err := s.market.GetSnapshot(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", assetID, err)
	}

	sentiment, err := s.social.GetSentiment(ctx, ticker)
	if err != nil {
		s.logger.Warn("social signal unavailable, scoring with neutral sentiment",
			zap.String("asset", assetID),
			zap.String("kind", "provider_error"),
			zap.String("message", err.Error()))
		sentiment = domain.NeutralSentiment()
	}

	risk, err := s.risk.Score(snap, sentiment)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", assetID, err)
	}

	history, err := s.market.GetPriceHistory(ctx, assetID, historyWindow)
	if err != nil {
		s.logger.Warn("price history unavailable, history heuristics disabled",
			zap.String("asset", assetID),
			zap.String("kind", "provider_error"),
			zap.String("message", err.Error()))
		history = nil
	}

	health, err := s.health.Assess(snap, history)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", assetID, err)
	}

	report := &AssetReport{
		Snapshot:  snap,
		Sentiment: sentiment,
		Risk:      risk,
		Health:    health,
	}

	candles, err := s.market.GetCandles(ctx, assetID, historyWindow)
	if err != nil {
		s.logger.Warn("candles unavailable, recommendation withheld",
			zap.String("asset", assetID),
			zap.String("kind", "provider_error"),
			zap.String("message", err.Error()))
		return report, nil
	}

	metrics, err := s.social.GetMetrics(ctx, ticker)
	if err != nil {
		metrics = nil
	}

	rec, err := s.engine.Recommend(candles, snap, metrics)
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if errors.As(err, &insufficient) {
			s.logger.Info("recommendation withheld",
				zap.String("asset", assetID),
				zap.String("reason", insufficient.Reason))
			return report, nil
		}
		return nil, fmt.Errorf("analyze %s: %w", assetID, err)
	}
	report.Recommendation = rec
	return report, nil
}
