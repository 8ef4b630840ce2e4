package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/config"
)

// SnapshotWorker periodically runs the advisory scoring pipeline over
// every configured asset and logs the result. It caches the latest
// report per asset for the API.
type SnapshotWorker struct {
	analysis *AnalysisService
	assets   []config.AssetConfig
	logger   *zap.Logger
	cron     *cron.Cron
	passes   sync.WaitGroup

	mu      sync.RWMutex
	reports map[string]*AssetReport
}

func NewSnapshotWorker(analysis *AnalysisService, assets []config.AssetConfig, logger *zap.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		analysis: analysis,
		assets:   assets,
		logger:   logger,
		cron:     cron.New(),
		reports:  make(map[string]*AssetReport),
	}
}

// Start schedules the scoring pass on the given cron spec and runs one
// pass immediately.
func (w *SnapshotWorker) Start(spec string) error {
	if _, err := w.cron.AddFunc(spec, func() { w.runPass(context.Background()) }); err != nil {
		return fmt.Errorf("schedule snapshot pass: %w", err)
	}
	w.cron.Start()

	w.passes.Add(1)
	go func() {
		defer w.passes.Done()
		w.runPass(context.Background())
	}()
	return nil
}

// Stop halts the schedule and waits for any running pass, including
// the immediate one from Start, to finish.
func (w *SnapshotWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.passes.Wait()
}

// Latest returns the most recent report for the asset, if any pass has
// produced one.
func (w *SnapshotWorker) Latest(assetID string) (*AssetReport, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	report, ok := w.reports[assetID]
	return report, ok
}

func (w *SnapshotWorker) runPass(ctx context.Context) {
	start := time.Now()
	for _, asset := range w.assets {
		report, err := w.analysis.Analyze(ctx, asset.ID, asset.Ticker)
		if err != nil {
			w.logger.Warn("scoring pass skipped asset",
				zap.String("asset", asset.ID),
				zap.String("kind", "provider_error"),
				zap.String("message", err.Error()))
			continue
		}

		w.mu.Lock()
		w.reports[asset.ID] = report
		w.mu.Unlock()

		fields := []zap.Field{
			zap.String("asset", asset.ID),
			zap.Float64("price_usd", report.Snapshot.PriceUSD),
			zap.Float64("risk_score", report.Risk.RiskScore),
			zap.Float64("health_risk", report.Health.RiskScore),
			zap.Strings("health_factors", report.Health.RiskFactors),
		}
		if report.Recommendation != nil {
			fields = append(fields,
				zap.Float64("composite", report.Recommendation.CompositeScore),
				zap.String("label", string(report.Recommendation.Label)))
		}
		w.logger.Info("advisory scores", fields...)
	}
	w.logger.Info("scoring pass complete",
		zap.Int("assets", len(w.assets)),
		zap.Duration("duration", time.Since(start)))
}
