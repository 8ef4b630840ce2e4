package wallet

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/solwatch/memetrader/internal/domain"
)

// PaperExecutor records executions without touching the chain. Used
// when no signer service is configured, so the level and target logic
// can run against live prices with simulated fills.
type PaperExecutor struct {
	seq atomic.Int64
}

func NewPaperExecutor() *PaperExecutor {
	return &PaperExecutor{}
}

func (e *PaperExecutor) Execute(ctx context.Context, assetID string, side domain.Side, amount float64) (*domain.TradeResult, error) {
	if amount <= 0 {
		return nil, &domain.ExecutionError{Reason: "non-positive amount"}
	}
	n := e.seq.Add(1)
	return &domain.TradeResult{
		Reference: fmt.Sprintf("paper-%d-%s", n, uuid.NewString()),
	}, nil
}
