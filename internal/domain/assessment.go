package domain

import (
	"encoding/json"
	"math"
)

// RiskAssessment is the risk scorer's output: a composite score in
// [0, 100] (higher = riskier) and the contribution of each factor.
type RiskAssessment struct {
	RiskScore       float64            `json:"risk_score"`
	FactorBreakdown map[string]float64 `json:"factor_breakdown"`
}

// HealthMetrics is the raw material behind a HealthAssessment.
type HealthMetrics struct {
	LiquidityUSD      float64 `json:"liquidity_usd"`
	PairAgeDays       float64 `json:"pair_age_days"`
	TxCount24h        int     `json:"tx_count_24h"`
	BuySellRatio      float64 `json:"buy_sell_ratio"` // +Inf when sells == 0 and buys > 0
	SuddenDrops       int     `json:"sudden_drops"`
	LiquidityRemovals int     `json:"liquidity_removals"`
}

// MarshalJSON renders the infinite zero-sell ratio as null, since JSON
// has no representation for +Inf and the metrics must stay serializable
// for exactly that case.
func (m HealthMetrics) MarshalJSON() ([]byte, error) {
	type metrics HealthMetrics
	out := struct {
		metrics
		BuySellRatio *float64 `json:"buy_sell_ratio"`
	}{metrics: metrics(m)}
	if !math.IsInf(m.BuySellRatio, 0) {
		out.BuySellRatio = &m.BuySellRatio
	}
	return json.Marshal(out)
}

// HealthAssessment estimates rug-pull/abandonment risk in [0, 1].
// RiskFactors lists the triggered heuristics in evaluation order.
type HealthAssessment struct {
	RiskScore   float64       `json:"risk_score"`
	RiskFactors []string      `json:"risk_factors"`
	Metrics     HealthMetrics `json:"metrics"`
}

type RecommendationLabel string

const (
	StrongSell RecommendationLabel = "Strong Sell"
	Sell       RecommendationLabel = "Sell"
	Hold       RecommendationLabel = "Hold"
	Buy        RecommendationLabel = "Buy"
	StrongBuy  RecommendationLabel = "Strong Buy"
)

// RecommendationDetail carries the sub-scores behind the composite,
// each in [0, 1].
type RecommendationDetail struct {
	SocialScore   float64 `json:"social_score"`
	PriceScore    float64 `json:"price_score"`
	VolumeScore   float64 `json:"volume_score"`
	MomentumScore float64 `json:"momentum_score"`
}

// Recommendation is the engine's advisory output. Suggested prices are
// heuristic defaults off the window's low/high, not guarantees.
type Recommendation struct {
	CompositeScore    float64              `json:"composite_score"` // [0, 100]
	Label             RecommendationLabel  `json:"label"`
	SuggestedEntry    float64              `json:"suggested_entry"`
	SuggestedStopLoss float64              `json:"suggested_stop_loss"`
	SuggestedTarget   float64              `json:"suggested_target"`
	Detail            RecommendationDetail `json:"detail"`
}
