package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/domain"
)

// TargetMonitor is the simple two-state watch layered on the same tick
// source as the scheduler: sell the whole position once price reaches
// the target or falls to the stop loss, then stop watching the asset.
type TargetMonitor struct {
	trades *TradeService
	logger *zap.Logger

	mu      sync.Mutex
	watches map[string]*domain.TargetWatch
}

func NewTargetMonitor(trades *TradeService, logger *zap.Logger) *TargetMonitor {
	return &TargetMonitor{
		trades:  trades,
		logger:  logger,
		watches: make(map[string]*domain.TargetWatch),
	}
}

// Arm starts (or replaces) the fixed-target watch for an asset.
func (m *TargetMonitor) Arm(assetID string, targetPrice, stopLoss, amount float64) error {
	if targetPrice <= 0 {
		return &domain.InvalidInputError{Field: "target_price", Reason: "must be positive"}
	}
	if stopLoss < 0 {
		return &domain.InvalidInputError{Field: "stop_loss", Reason: "must not be negative"}
	}
	if stopLoss >= targetPrice {
		return &domain.InvalidInputError{Field: "stop_loss", Reason: "must be below target price"}
	}
	if amount <= 0 {
		return &domain.InvalidInputError{Field: "amount", Reason: "must be positive"}
	}

	m.mu.Lock()
	m.watches[assetID] = &domain.TargetWatch{
		AssetID:     assetID,
		TargetPrice: targetPrice,
		StopLoss:    stopLoss,
		Amount:      amount,
		Status:      domain.WatchActive,
	}
	m.mu.Unlock()

	m.logger.Info("fixed target armed",
		zap.String("asset", assetID),
		zap.Float64("target", targetPrice),
		zap.Float64("stop_loss", stopLoss))
	return nil
}

// Cancel stops watching the asset and reports whether an active watch
// was cancelled. Once Cancel returns, no further dispatch can
// originate from this watch.
func (m *TargetMonitor) Cancel(assetID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.watches[assetID]; ok && w.Status == domain.WatchActive {
		w.Status = domain.WatchDone
		return true
	}
	return false
}

// Status returns the watch for the asset, if one was armed.
func (m *TargetMonitor) Status(assetID string) (domain.TargetWatch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.watches[assetID]; ok {
		return *w, true
	}
	return domain.TargetWatch{}, false
}

// OnPriceTick checks an active watch against the tick. The Done mark
// is applied under the lock before the execution is dispatched, so the
// watch fires at most once.
func (m *TargetMonitor) OnPriceTick(ctx context.Context, assetID string, price float64) {
	if price <= 0 {
		return
	}

	m.mu.Lock()
	w, ok := m.watches[assetID]
	if !ok || w.Status != domain.WatchActive {
		m.mu.Unlock()
		return
	}
	if price < w.TargetPrice && price > w.StopLoss {
		m.mu.Unlock()
		return
	}
	w.Status = domain.WatchDone
	amount := w.Amount
	reason := "target reached"
	if price <= w.StopLoss {
		reason = "stop loss hit"
	}
	m.mu.Unlock()

	m.logger.Info("fixed target fired",
		zap.String("asset", assetID),
		zap.String("reason", reason),
		zap.Float64("price", price))
	m.trades.ExecuteAndRecord(ctx, assetID, domain.SideSell, amount)
}
