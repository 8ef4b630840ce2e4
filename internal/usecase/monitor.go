package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/domain"
)

// AssetMonitor runs one cancellable polling loop per watched asset,
// feeding price ticks into the scheduler and the target monitor. A
// provider failure is "no tick this cycle": logged and skipped, never
// fatal to the loop and never forwarded as a zero price.
type AssetMonitor struct {
	provider  domain.MarketDataProvider
	scheduler *AutoLevelScheduler
	targets   *TargetMonitor
	logger    *zap.Logger
	interval  time.Duration
}

func NewAssetMonitor(
	provider domain.MarketDataProvider,
	scheduler *AutoLevelScheduler,
	targets *TargetMonitor,
	interval time.Duration,
	logger *zap.Logger,
) *AssetMonitor {
	return &AssetMonitor{
		provider:  provider,
		scheduler: scheduler,
		targets:   targets,
		logger:    logger,
		interval:  interval,
	}
}

// Watch polls the asset until ctx is cancelled. It blocks; callers run
// one goroutine per asset.
func (m *AssetMonitor) Watch(ctx context.Context, assetID string) {
	m.logger.Info("watching asset", zap.String("asset", assetID))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.poll(ctx, assetID)
		select {
		case <-ctx.Done():
			m.logger.Info("stopped watching asset", zap.String("asset", assetID))
			return
		case <-ticker.C:
		}
	}
}

func (m *AssetMonitor) poll(ctx context.Context, assetID string) {
	snap, err := m.provider.GetSnapshot(ctx, assetID)
	if err != nil {
		m.logger.Warn("no tick this cycle",
			zap.String("asset", assetID),
			zap.String("kind", "provider_error"),
			zap.String("message", err.Error()))
		return
	}
	if snap.PriceUSD <= 0 {
		m.logger.Warn("no tick this cycle",
			zap.String("asset", assetID),
			zap.String("kind", "provider_error"),
			zap.String("message", "snapshot has non-positive price"))
		return
	}

	m.scheduler.OnPriceTick(ctx, assetID, snap.PriceUSD)
	m.targets.OnPriceTick(ctx, assetID, snap.PriceUSD)
}
