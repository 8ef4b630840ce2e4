package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/domain"
)

const dispatchWorkers = 4

// dispatch is one triggered level handed off to the executor workers.
// The level's Triggered mark is already applied when a dispatch is
// enqueued, so no later tick can re-trigger it.
type dispatch struct {
	level domain.AutoLevel
	price float64
}

// assetBook holds one asset's pending levels. All mutation happens
// under its mutex, which also serializes tick evaluation per asset:
// a tick runs all level checks to completion before the next tick for
// the same asset starts.
type assetBook struct {
	mu    sync.Mutex
	buys  []*domain.AutoLevel // pending, sorted trigger price descending
	sells []*domain.AutoLevel // pending, sorted trigger price ascending
	all   map[string]*domain.AutoLevel
}

// AutoLevelScheduler owns the pending conditional orders per asset and
// evaluates them on every price tick. A level transitions to Triggered
// exactly once; execution is handed off to worker goroutines so
// network I/O never holds the per-asset lock.
type AutoLevelScheduler struct {
	trades *TradeService
	repo   domain.LevelRepository
	logger *zap.Logger

	mu    sync.RWMutex
	books map[string]*assetBook

	dispatches chan dispatch
}

func NewAutoLevelScheduler(trades *TradeService, repo domain.LevelRepository, logger *zap.Logger) *AutoLevelScheduler {
	return &AutoLevelScheduler{
		trades:     trades,
		repo:       repo,
		logger:     logger,
		books:      make(map[string]*assetBook),
		dispatches: make(chan dispatch, 64),
	}
}

// Run starts the executor workers and blocks until ctx is cancelled.
func (s *AutoLevelScheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < dispatchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d := <-s.dispatches:
					s.trades.ExecuteAndRecord(ctx, d.level.AssetID, d.level.Side, d.level.Amount)
				}
			}
		}()
	}
	wg.Wait()
}

// LoadLevels rebuilds the in-memory books from the repository, picking
// up pending levels from a previous run.
func (s *AutoLevelScheduler) LoadLevels(ctx context.Context) error {
	levels, err := s.repo.ListLevels(ctx)
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}
	for _, l := range levels {
		book := s.book(l.AssetID)
		book.mu.Lock()
		book.insert(l)
		book.mu.Unlock()
	}
	return nil
}

// AddLevel validates and registers a new pending level.
func (s *AutoLevelScheduler) AddLevel(ctx context.Context, level *domain.AutoLevel) error {
	if level.AssetID == "" {
		return &domain.InvalidInputError{Field: "asset_id", Reason: "empty"}
	}
	if level.Side != domain.SideBuy && level.Side != domain.SideSell {
		return &domain.InvalidInputError{Field: "side", Reason: "must be BUY or SELL"}
	}
	if level.TriggerPrice <= 0 {
		return &domain.InvalidInputError{Field: "trigger_price", Reason: "must be positive"}
	}
	if level.Amount <= 0 {
		return &domain.InvalidInputError{Field: "amount", Reason: "must be positive"}
	}

	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	level.Status = domain.LevelPending
	if level.CreatedAt.IsZero() {
		level.CreatedAt = time.Now()
	}

	if err := s.repo.SaveLevel(ctx, level); err != nil {
		return fmt.Errorf("save level: %w", err)
	}

	book := s.book(level.AssetID)
	book.mu.Lock()
	book.insert(level)
	book.mu.Unlock()

	s.logger.Info("level added",
		zap.String("asset", level.AssetID),
		zap.String("level", level.ID),
		zap.String("side", string(level.Side)),
		zap.Float64("trigger", level.TriggerPrice))
	return nil
}

// CancelLevel withdraws a pending level. Cancel only succeeds on
// levels still Pending at the moment of the attempt: a concurrently
// triggered level stays Triggered, and the call reports the terminal
// status it found.
func (s *AutoLevelScheduler) CancelLevel(ctx context.Context, assetID, levelID string) (domain.LevelStatus, error) {
	book := s.book(assetID)

	book.mu.Lock()
	level, ok := book.all[levelID]
	if !ok {
		book.mu.Unlock()
		return "", fmt.Errorf("level %s not found for asset %s", levelID, assetID)
	}
	if level.Status != domain.LevelPending {
		status := level.Status
		book.mu.Unlock()
		return status, fmt.Errorf("level %s is %s, not pending", levelID, status)
	}
	level.Status = domain.LevelCancelled
	book.removePending(level)
	book.mu.Unlock()

	if err := s.repo.UpdateLevelStatus(ctx, levelID, domain.LevelCancelled); err != nil {
		s.logger.Error("failed to persist cancelled status",
			zap.String("level", levelID), zap.Error(err))
	}
	s.logger.Info("level cancelled",
		zap.String("asset", assetID), zap.String("level", levelID))
	return domain.LevelCancelled, nil
}

// Levels returns a copy of every level known for the asset this
// session.
func (s *AutoLevelScheduler) Levels(assetID string) []domain.AutoLevel {
	book := s.book(assetID)
	book.mu.Lock()
	defer book.mu.Unlock()

	out := make([]domain.AutoLevel, 0, len(book.all))
	for _, l := range book.all {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// OnPriceTick evaluates the asset's pending levels against the tick.
// Buy levels are checked highest trigger first, sell levels lowest
// first, so the level nearest the market executes before looser ones.
// Triggered levels are marked under the book lock and handed off;
// dispatch and the ledger write happen on the worker side.
func (s *AutoLevelScheduler) OnPriceTick(ctx context.Context, assetID string, price float64) {
	if price <= 0 {
		return
	}
	book := s.book(assetID)

	book.mu.Lock()
	var triggered []*domain.AutoLevel

	// buys: sorted descending, so once a trigger is below the price
	// every remaining one is too.
	for _, l := range book.buys {
		if l.TriggerPrice < price {
			break
		}
		l.Status = domain.LevelTriggered
		triggered = append(triggered, l)
	}
	// sells: sorted ascending.
	for _, l := range book.sells {
		if l.TriggerPrice > price {
			break
		}
		l.Status = domain.LevelTriggered
		triggered = append(triggered, l)
	}
	for _, l := range triggered {
		book.removePending(l)
	}
	book.mu.Unlock()

	for _, l := range triggered {
		if err := s.repo.UpdateLevelStatus(ctx, l.ID, domain.LevelTriggered); err != nil {
			s.logger.Error("failed to persist triggered status",
				zap.String("level", l.ID), zap.Error(err))
		}
		s.logger.Info("level triggered",
			zap.String("asset", assetID),
			zap.String("level", l.ID),
			zap.String("side", string(l.Side)),
			zap.Float64("trigger", l.TriggerPrice),
			zap.Float64("price", price))
		s.dispatches <- dispatch{level: *l, price: price}
	}
}

func (s *AutoLevelScheduler) book(assetID string) *assetBook {
	s.mu.RLock()
	book, ok := s.books[assetID]
	s.mu.RUnlock()
	if ok {
		return book
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if book, ok = s.books[assetID]; ok {
		return book
	}
	book = &assetBook{all: make(map[string]*domain.AutoLevel)}
	s.books[assetID] = book
	return book
}

// insert registers a level in the book; only pending levels join the
// evaluation lists. Caller holds the book mutex.
func (b *assetBook) insert(level *domain.AutoLevel) {
	b.all[level.ID] = level
	if level.Status != domain.LevelPending {
		return
	}
	if level.Side == domain.SideBuy {
		b.buys = append(b.buys, level)
		sort.Slice(b.buys, func(i, j int) bool { return b.buys[i].TriggerPrice > b.buys[j].TriggerPrice })
	} else {
		b.sells = append(b.sells, level)
		sort.Slice(b.sells, func(i, j int) bool { return b.sells[i].TriggerPrice < b.sells[j].TriggerPrice })
	}
}

// removePending drops a level from the evaluation lists; it stays in
// b.all with its terminal status. Caller holds the book mutex.
func (b *assetBook) removePending(level *domain.AutoLevel) {
	filter := func(levels []*domain.AutoLevel) []*domain.AutoLevel {
		out := levels[:0]
		for _, l := range levels {
			if l.ID != level.ID {
				out = append(out, l)
			}
		}
		return out
	}
	if level.Side == domain.SideBuy {
		b.buys = filter(b.buys)
	} else {
		b.sells = filter(b.sells)
	}
}
