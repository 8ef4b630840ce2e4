package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/domain"
)

// TradeService submits executions through the wallet boundary and
// records every attempt in the append-only ledger. The scheduler calls
// it exactly once per triggered level; failed attempts are recorded,
// never retried.
type TradeService struct {
	executor domain.TradeExecutor
	ledger   domain.TradeLedger
	logger   *zap.Logger
}

func NewTradeService(executor domain.TradeExecutor, ledger domain.TradeLedger, logger *zap.Logger) *TradeService {
	return &TradeService{
		executor: executor,
		ledger:   ledger,
		logger:   logger,
	}
}

// ExecuteAndRecord runs one execution attempt and appends the outcome
// to the ledger. The returned record reports Success or Failed; the
// ledger write itself failing is logged but does not alter the record.
func (s *TradeService) ExecuteAndRecord(ctx context.Context, assetID string, side domain.Side, amount float64) *domain.TradeRecord {
	record := &domain.TradeRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		AssetID:   assetID,
		Side:      side,
		Amount:    amount,
	}

	result, err := s.executor.Execute(ctx, assetID, side, amount)
	if err != nil {
		record.Status = domain.TradeFailed
		record.Reference = err.Error()
		s.logger.Warn("trade execution failed",
			zap.String("asset", assetID),
			zap.String("kind", "execution_error"),
			zap.String("message", err.Error()))
	} else {
		record.Status = domain.TradeSuccess
		record.Reference = result.Reference
		s.logger.Info("trade executed",
			zap.String("asset", assetID),
			zap.String("side", string(side)),
			zap.Float64("amount", amount),
			zap.String("reference", result.Reference))
	}

	if err := s.ledger.Append(ctx, record); err != nil {
		s.logger.Error("failed to append trade record",
			zap.String("asset", assetID),
			zap.Error(err))
	}

	return record
}
