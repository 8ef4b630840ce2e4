package scoring

import (
	"fmt"
	"math"

	"github.com/solwatch/memetrader/internal/domain"
)

// Health heuristic thresholds and contributions. Contributions sum to
// exactly 1.0 so a pair that trips everything scores maximal risk.
const (
	newPairMaxAgeDays       = 7.0
	lowTxCountThreshold     = 50
	lowLiquidityThreshold   = 10_000.0
	suspiciousRatio         = 10.0
	suddenDropThreshold     = 0.30 // fall between consecutive price points
	liquidityRemovalPct     = 0.40 // drop between consecutive liquidity samples
	contribNewPair          = 0.20
	contribLowTx            = 0.15
	contribLowLiquidity     = 0.25
	contribSuspiciousRatio  = 0.20
	contribSuddenDrops      = 0.10
	contribLiquidityRemoval = 0.10
)

// HealthAnalyzer estimates rug-pull/abandonment risk for a pair.
// Pure function of the pair snapshot and its price history.
type HealthAnalyzer struct{}

func NewHealthAnalyzer() *HealthAnalyzer {
	return &HealthAnalyzer{}
}

// Assess runs the heuristics in a fixed order and accumulates their
// contributions, capped at 1.0. Fewer than 2 history points disables
// the history-based heuristics instead of failing the assessment.
func (a *HealthAnalyzer) Assess(pair *domain.MarketSnapshot, history []domain.PricePoint) (*domain.HealthAssessment, error) {
	if pair == nil {
		return nil, &domain.InvalidInputError{Field: "pair", Reason: "missing"}
	}

	ageDays := pair.CapturedAt.Sub(pair.PairCreatedAt).Hours() / 24
	txCount := pair.BuyCount24h + pair.SellCount24h

	ratio := 0.0
	switch {
	case pair.SellCount24h > 0:
		ratio = float64(pair.BuyCount24h) / float64(pair.SellCount24h)
	case pair.BuyCount24h > 0:
		// Buys with zero sells looks like a honeypot.
		ratio = math.Inf(1)
	}

	drops, removals := scanHistory(history)

	metrics := domain.HealthMetrics{
		LiquidityUSD:      pair.LiquidityUSD,
		PairAgeDays:       ageDays,
		TxCount24h:        txCount,
		BuySellRatio:      ratio,
		SuddenDrops:       drops,
		LiquidityRemovals: removals,
	}

	score := 0.0
	var factors []string
	trip := func(contribution float64, format string, args ...any) {
		score += contribution
		factors = append(factors, fmt.Sprintf(format, args...))
	}

	if ageDays < newPairMaxAgeDays {
		trip(contribNewPair, "pair is only %.1f days old", ageDays)
	}
	if txCount < lowTxCountThreshold {
		trip(contribLowTx, "low activity: %d transactions in 24h", txCount)
	}
	if pair.LiquidityUSD < lowLiquidityThreshold {
		trip(contribLowLiquidity, "low liquidity: $%.0f", pair.LiquidityUSD)
	}
	// A pair with no buys and no sells is inactive, not a honeypot;
	// the low-activity heuristic above already carries that risk.
	if math.IsInf(ratio, 1) || ratio > suspiciousRatio {
		trip(contribSuspiciousRatio, "suspicious buy/sell ratio: %.1f buys per sell", ratio)
	}
	if drops > 0 {
		trip(contribSuddenDrops, "%d sudden price drops (>%.0f%%) in history", drops, suddenDropThreshold*100)
	}
	if removals > 0 {
		trip(contribLiquidityRemoval, "%d liquidity removals (>%.0f%%) in history", removals, liquidityRemovalPct*100)
	}

	if score > 1.0 {
		score = 1.0
	}

	return &domain.HealthAssessment{
		RiskScore:   score,
		RiskFactors: factors,
		Metrics:     metrics,
	}, nil
}

// scanHistory counts sudden price drops and liquidity removals between
// consecutive samples. History shorter than 2 points yields zero for
// both.
func scanHistory(history []domain.PricePoint) (drops, removals int) {
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1], history[i]
		if prev.Price > 0 && (prev.Price-curr.Price)/prev.Price > suddenDropThreshold {
			drops++
		}
		if prev.LiquidityUSD > 0 && (prev.LiquidityUSD-curr.LiquidityUSD)/prev.LiquidityUSD > liquidityRemovalPct {
			removals++
		}
	}
	return drops, removals
}
