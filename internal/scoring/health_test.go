package scoring

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solwatch/memetrader/internal/domain"
)

func healthyPair() *domain.MarketSnapshot {
	now := time.Now()
	return &domain.MarketSnapshot{
		AssetID:       "PAIR",
		PriceUSD:      0.002,
		LiquidityUSD:  50_000,
		Volume24hUSD:  80_000,
		BuyCount24h:   120,
		SellCount24h:  100,
		PairCreatedAt: now.Add(-30 * 24 * time.Hour),
		CapturedAt:    now,
	}
}

func TestHealthNoFactors(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	got, err := analyzer.Assess(healthyPair(), nil)
	require.NoError(t, err)

	assert.Zero(t, got.RiskScore)
	assert.Empty(t, got.RiskFactors)
	assert.Equal(t, 220, got.Metrics.TxCount24h)
	assert.InDelta(t, 1.2, got.Metrics.BuySellRatio, 1e-9)
}

func TestHealthAllFactorsCapAtOne(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	now := time.Now()
	pair := &domain.MarketSnapshot{
		AssetID:       "PAIR",
		PriceUSD:      0.002,
		LiquidityUSD:  2_000,
		BuyCount24h:   30,
		SellCount24h:  0,
		PairCreatedAt: now.Add(-24 * time.Hour),
		CapturedAt:    now,
	}
	history := []domain.PricePoint{
		{Time: now.Add(-2 * time.Hour), Price: 0.010, LiquidityUSD: 10_000},
		{Time: now.Add(-1 * time.Hour), Price: 0.004, LiquidityUSD: 2_000},
	}

	got, err := analyzer.Assess(pair, history)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, got.RiskScore, 1e-9)
	require.Len(t, got.RiskFactors, 6)
	assert.True(t, math.IsInf(got.Metrics.BuySellRatio, 1))
	assert.Equal(t, 1, got.Metrics.SuddenDrops)
	assert.Equal(t, 1, got.Metrics.LiquidityRemovals)
}

// The factor list reads in evaluation order so downstream consumers can
// rely on stable positions.
func TestHealthFactorOrder(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	now := time.Now()
	pair := healthyPair()
	pair.PairCreatedAt = now.Add(-2 * 24 * time.Hour)
	pair.LiquidityUSD = 5_000

	got, err := analyzer.Assess(pair, nil)
	require.NoError(t, err)

	require.Len(t, got.RiskFactors, 2)
	assert.Contains(t, got.RiskFactors[0], "days old")
	assert.Contains(t, got.RiskFactors[1], "low liquidity")
	assert.InDelta(t, 0.45, got.RiskScore, 1e-9)
}

func TestHealthInactivePairIsNotHoneypot(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	pair := healthyPair()
	pair.BuyCount24h = 0
	pair.SellCount24h = 0

	got, err := analyzer.Assess(pair, nil)
	require.NoError(t, err)

	// Low activity trips, the ratio heuristic does not.
	require.Len(t, got.RiskFactors, 1)
	assert.Contains(t, got.RiskFactors[0], "low activity")
	assert.Zero(t, got.Metrics.BuySellRatio)
}

func TestHealthShortHistoryDisablesHistoryHeuristics(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	history := []domain.PricePoint{
		{Time: time.Now(), Price: 0.010, LiquidityUSD: 50_000},
	}
	got, err := analyzer.Assess(healthyPair(), history)
	require.NoError(t, err)

	assert.Zero(t, got.Metrics.SuddenDrops)
	assert.Zero(t, got.Metrics.LiquidityRemovals)
	assert.Empty(t, got.RiskFactors)
}

func TestHealthBoundaryDropIsNotSudden(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	now := time.Now()
	history := []domain.PricePoint{
		{Time: now.Add(-2 * time.Hour), Price: 100, LiquidityUSD: 50_000},
		{Time: now.Add(-1 * time.Hour), Price: 70, LiquidityUSD: 30_000},
	}

	got, err := analyzer.Assess(healthyPair(), history)
	require.NoError(t, err)

	// Exactly 30% price fall and 40% liquidity fall do not trip the
	// strictly-greater-than thresholds.
	assert.Zero(t, got.Metrics.SuddenDrops)
	assert.Zero(t, got.Metrics.LiquidityRemovals)
}

func TestHealthZeroSellAssessmentSerializes(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	pair := healthyPair()
	pair.BuyCount24h = 80
	pair.SellCount24h = 0

	got, err := analyzer.Assess(pair, nil)
	require.NoError(t, err)
	require.True(t, math.IsInf(got.Metrics.BuySellRatio, 1))

	// The honeypot case must still render on the JSON surface; the
	// infinite ratio reads as null.
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"buy_sell_ratio":null`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
}

func TestHealthFiniteRatioSerializesAsNumber(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	got, err := analyzer.Assess(healthyPair(), nil)
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"buy_sell_ratio":1.2`)
}

func TestHealthNilPair(t *testing.T) {
	analyzer := NewHealthAnalyzer()

	_, err := analyzer.Assess(nil, nil)
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}
