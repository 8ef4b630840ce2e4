package scoring

import (
	"math"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/domain"
)

// Composite weights and the social platform blend. Fixed by design.
const (
	compositeSocialWeight   = 0.3
	compositePriceWeight    = 0.3
	compositeVolumeWeight   = 0.2
	compositeMomentumWeight = 0.2

	// 0.6 twitter / 0.4 video between platforms, 0.6/0.4 within each.
	platformPrimaryWeight = 0.6
	platformSecondary     = 0.4

	tweetVolumeCeiling = 1000.0
	viewCountCeiling   = 1_000_000.0
)

// RecommendationEngine combines price-action, volume-profile and social
// sub-scores into one 0-100 composite with a discrete label and
// heuristic entry/stop/target prices.
type RecommendationEngine struct {
	cfg config.Scoring
}

func NewRecommendationEngine(cfg config.Scoring) *RecommendationEngine {
	return &RecommendationEngine{cfg: cfg}
}

// Recommend requires a non-empty price history; it fails with an
// InsufficientDataError otherwise. Suggested prices are deterministic
// offsets off the window's low/high: heuristic defaults, not
// guarantees.
func (e *RecommendationEngine) Recommend(history []domain.Candle, market *domain.MarketSnapshot, social *domain.SocialMetrics) (*domain.Recommendation, error) {
	if len(history) == 0 {
		return nil, &domain.InsufficientDataError{Reason: "empty price history"}
	}
	if market == nil {
		return nil, &domain.InvalidInputError{Field: "market_data", Reason: "missing"}
	}

	priceScore, momentumScore, windowLow, windowHigh := e.priceAction(history)
	volumeScore := e.volumeProfile(history, market)
	socialScore := e.socialScore(social)

	composite := 100 * (socialScore*compositeSocialWeight +
		priceScore*compositePriceWeight +
		volumeScore*compositeVolumeWeight +
		momentumScore*compositeMomentumWeight)

	return &domain.Recommendation{
		CompositeScore:    composite,
		Label:             e.Label(composite),
		SuggestedEntry:    windowLow * (1 - e.cfg.Offsets.Entry),
		SuggestedStopLoss: windowLow * (1 - e.cfg.Offsets.StopLoss),
		SuggestedTarget:   windowHigh * (1 + e.cfg.Offsets.Target),
		Detail: domain.RecommendationDetail{
			SocialScore:   socialScore,
			PriceScore:    priceScore,
			VolumeScore:   volumeScore,
			MomentumScore: momentumScore,
		},
	}, nil
}

// Label maps a composite score to its recommendation bucket. Boundary
// values take the higher bucket (70.0 is a Strong Buy).
func (e *RecommendationEngine) Label(composite float64) domain.RecommendationLabel {
	b := e.cfg.Buckets
	switch {
	case composite >= b.StrongBuy:
		return domain.StrongBuy
	case composite >= b.Buy:
		return domain.Buy
	case composite >= b.Hold:
		return domain.Hold
	case composite >= b.Sell:
		return domain.Sell
	default:
		return domain.StrongSell
	}
}

// priceAction scores the trend and volatility of the window.
// Volatility is the high/low ratio minus one; momentum is the price
// change divided by that volatility (raw change when volatility is 0).
// Both are squashed into [0, 1] so the composite stays bounded.
func (e *RecommendationEngine) priceAction(history []domain.Candle) (priceScore, momentumScore, low, high float64) {
	first, last := history[0].Close, history[len(history)-1].Close
	low, high = history[0].Low, history[0].High
	for _, c := range history {
		if c.Low < low {
			low = c.Low
		}
		if c.High > high {
			high = c.High
		}
	}

	priceChange := 0.0
	if first > 0 {
		priceChange = (last - first) / first
	}

	volatility := 0.0
	if low > 0 {
		volatility = high/low - 1
	}
	volatilityScore := math.Max(0, 1-volatility)

	momentum := priceChange
	if volatility > 0 {
		momentum = priceChange / volatility
	}

	trendScore := clamp01(0.5 + priceChange)
	priceScore = 0.5*trendScore + 0.5*volatilityScore
	// Momentum of ±1 (move equal to the window's volatility) saturates.
	momentumScore = clamp01(0.5 + 0.5*momentum)
	return priceScore, momentumScore, low, high
}

// volumeProfile blends volume trend, liquidity depth and volume
// stability. Stability is 1 - stdev/mean, defined as 0 when the mean
// is 0.
func (e *RecommendationEngine) volumeProfile(history []domain.Candle, market *domain.MarketSnapshot) float64 {
	mean := 0.0
	for _, c := range history {
		mean += c.Volume
	}
	mean /= float64(len(history))

	variance := 0.0
	for _, c := range history {
		d := c.Volume - mean
		variance += d * d
	}
	variance /= float64(len(history))

	volumeTrend := 0.0
	stability := 0.0
	if mean > 0 {
		volumeTrend = history[len(history)-1].Volume / mean
		stability = clamp01(1 - math.Sqrt(variance)/mean)
	}

	liquidityScore := clamp01(market.LiquidityUSD / e.cfg.LiquidityCeiling)

	// A volume trend of 2x the window average saturates.
	return clamp01(0.4*clamp01(volumeTrend/2) + 0.3*liquidityScore + 0.3*stability)
}

// socialScore blends normalized tweet volume/sentiment with normalized
// views/engagement. A nil metrics value scores zero confidence.
func (e *RecommendationEngine) socialScore(social *domain.SocialMetrics) float64 {
	if social == nil {
		return 0
	}

	tweetVolNorm := clamp01(float64(social.TweetVolume) / tweetVolumeCeiling)
	sentimentNorm := clamp01((social.TweetSentiment + 1) / 2)
	twitter := platformPrimaryWeight*tweetVolNorm + platformSecondary*sentimentNorm

	viewsNorm := clamp01(float64(social.ViewCount) / viewCountCeiling)
	engagement := clamp01(social.EngagementRate)
	video := platformPrimaryWeight*viewsNorm + platformSecondary*engagement

	return platformPrimaryWeight*twitter + platformSecondary*video
}
