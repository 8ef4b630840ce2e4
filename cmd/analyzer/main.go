package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/infrastructure/logger"
	"github.com/solwatch/memetrader/internal/infrastructure/provider"
	"github.com/solwatch/memetrader/internal/scoring"
	"github.com/solwatch/memetrader/internal/usecase"
)

// One-shot scoring run for a single pair: fetch, score, print. Useful
// for vetting a token before adding it to the bot's config.
func main() {
	var (
		assetID    = flag.String("asset", "", "pair address to score (required)")
		ticker     = flag.String("ticker", "", "symbol for the social lookup (defaults to asset)")
		configPath = flag.String("config", "config/config.yaml", "config file path")
		asJSON     = flag.Bool("json", false, "emit the full report as JSON")
	)
	flag.Parse()

	if *assetID == "" {
		fmt.Println("Usage: analyzer -asset <pair-address> [-ticker SYM] [-json]")
		os.Exit(1)
	}
	if *ticker == "" {
		*ticker = *assetID
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger("warn")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	market := provider.NewDexScreenerProvider(cfg.Providers.DexScreenerURL)
	social := provider.NewTwitterProvider("", cfg.Providers.TwitterBearerToken)

	analysis := usecase.NewAnalysisService(
		market,
		social,
		scoring.NewRiskScorer(cfg.Scoring),
		scoring.NewHealthAnalyzer(),
		scoring.NewRecommendationEngine(cfg.Scoring),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := analysis.Analyze(ctx, *assetID, *ticker)
	if err != nil {
		fmt.Printf("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Printf("Encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(*assetID, report)
}

func printReport(assetID string, report *usecase.AssetReport) {
	snap := report.Snapshot
	fmt.Printf("Asset:      %s\n", assetID)
	fmt.Printf("Price:      $%.8f\n", snap.PriceUSD)
	fmt.Printf("Liquidity:  $%.0f\n", snap.LiquidityUSD)
	fmt.Printf("Volume 24h: $%.0f\n", snap.Volume24hUSD)
	fmt.Printf("Change 24h: %+.2f%%\n", snap.PriceChange24hPct)

	fmt.Printf("\nRisk score: %.1f / 100\n", report.Risk.RiskScore)
	factors := make([]string, 0, len(report.Risk.FactorBreakdown))
	for name := range report.Risk.FactorBreakdown {
		factors = append(factors, name)
	}
	sort.Strings(factors)
	for _, name := range factors {
		fmt.Printf("  %-12s %6.2f\n", name, report.Risk.FactorBreakdown[name])
	}

	fmt.Printf("\nHealth:     %.2f / 1.00\n", report.Health.RiskScore)
	if len(report.Health.RiskFactors) == 0 {
		fmt.Println("  no risk factors triggered")
	}
	for _, f := range report.Health.RiskFactors {
		fmt.Printf("  - %s\n", f)
	}
	if math.IsInf(report.Health.Metrics.BuySellRatio, 1) {
		fmt.Println("  buy/sell ratio: no sells registered")
	}

	if rec := report.Recommendation; rec != nil {
		fmt.Printf("\nRecommendation: %s (%.1f / 100)\n", rec.Label, rec.CompositeScore)
		fmt.Printf("  entry  $%.8f\n", rec.SuggestedEntry)
		fmt.Printf("  stop   $%.8f\n", rec.SuggestedStopLoss)
		fmt.Printf("  target $%.8f\n", rec.SuggestedTarget)
	} else {
		fmt.Println("\nRecommendation: withheld (insufficient price history)")
	}
}
