package scoring

import (
	"math"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/domain"
)

// Risk factor weights. These are design constants, not runtime
// configuration: changing them changes what the score means.
const (
	weightLiquidity    = 30.0
	weightVolume       = 20.0
	weightVolatility   = 25.0
	weightSentiment    = 15.0
	weightSocialVolume = 10.0

	// Sample count at which social volume stops reducing risk.
	socialSampleCeiling = 1000.0
)

// Factor names used in RiskAssessment.FactorBreakdown.
const (
	FactorLiquidity    = "liquidity"
	FactorVolume       = "volume"
	FactorVolatility   = "volatility"
	FactorSentimentVol = "sentiment_volatility"
	FactorSocialVolume = "social_volume"
)

// RiskScorer converts a market snapshot plus a sentiment summary into a
// bounded composite risk score. Pure: no side effects, no clock.
type RiskScorer struct {
	liquidityCeiling float64
	volumeCeiling    float64
}

func NewRiskScorer(cfg config.Scoring) *RiskScorer {
	return &RiskScorer{
		liquidityCeiling: cfg.LiquidityCeiling,
		volumeCeiling:    cfg.VolumeCeiling,
	}
}

// Score returns a RiskAssessment in [0, 100], higher = riskier.
// Negative liquidity or volume is malformed input and fails with an
// InvalidInputError naming the field; clamping is only applied to
// valid inputs as normalization.
func (s *RiskScorer) Score(snap *domain.MarketSnapshot, sentiment *domain.SentimentSummary) (*domain.RiskAssessment, error) {
	if snap == nil {
		return nil, &domain.InvalidInputError{Field: "snapshot", Reason: "missing"}
	}
	if sentiment == nil {
		return nil, &domain.InvalidInputError{Field: "sentiment", Reason: "missing; pass NeutralSentiment() for no data"}
	}
	if snap.LiquidityUSD < 0 {
		return nil, &domain.InvalidInputError{Field: "liquidity_usd", Reason: "negative"}
	}
	if snap.Volume24hUSD < 0 {
		return nil, &domain.InvalidInputError{Field: "volume_24h_usd", Reason: "negative"}
	}
	if sentiment.SampleCount < 0 {
		return nil, &domain.InvalidInputError{Field: "sample_count", Reason: "negative"}
	}

	liquidityNorm := clamp01(snap.LiquidityUSD / s.liquidityCeiling)
	volumeNorm := clamp01(snap.Volume24hUSD / s.volumeCeiling)
	volatility := clamp01(math.Abs(snap.PriceChange24hPct) / 100)
	sentimentRisk := clamp01(math.Abs(sentiment.SentimentVolatility))
	socialNorm := clamp01(float64(sentiment.SampleCount) / socialSampleCeiling)

	breakdown := map[string]float64{
		FactorLiquidity:    weightLiquidity * (1 - liquidityNorm),
		FactorVolume:       weightVolume * (1 - volumeNorm),
		FactorVolatility:   weightVolatility * volatility,
		FactorSentimentVol: weightSentiment * sentimentRisk,
		FactorSocialVolume: weightSocialVolume * (1 - socialNorm),
	}

	score := 0.0
	for _, contribution := range breakdown {
		score += contribution
	}

	return &domain.RiskAssessment{
		RiskScore:       score,
		FactorBreakdown: breakdown,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
