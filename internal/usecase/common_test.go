package usecase

import (
	"context"
	"sync"

	"github.com/solwatch/memetrader/internal/domain"
)

// MockExecutor records every execution attempt and can be told to fail
// for specific assets.
type MockExecutor struct {
	mu      sync.Mutex
	Calls   []MockCall
	FailFor map[string]error
}

type MockCall struct {
	AssetID string
	Side    domain.Side
	Amount  float64
}

func (m *MockExecutor) Execute(ctx context.Context, assetID string, side domain.Side, amount float64) (*domain.TradeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{AssetID: assetID, Side: side, Amount: amount})
	if err, ok := m.FailFor[assetID]; ok {
		return nil, err
	}
	return &domain.TradeResult{Reference: "sig-mock"}, nil
}

func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MemoryRepo is an in-memory LevelRepository.
type MemoryRepo struct {
	mu            sync.Mutex
	levels        map[string]*domain.AutoLevel
	StatusUpdates []string // level IDs in update order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{levels: make(map[string]*domain.AutoLevel)}
}

func (r *MemoryRepo) SaveLevel(ctx context.Context, level *domain.AutoLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *level
	r.levels[level.ID] = &copied
	return nil
}

func (r *MemoryRepo) UpdateLevelStatus(ctx context.Context, id string, status domain.LevelStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.levels[id]; ok {
		l.Status = status
	}
	r.StatusUpdates = append(r.StatusUpdates, id)
	return nil
}

func (r *MemoryRepo) ListLevels(ctx context.Context) ([]*domain.AutoLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.AutoLevel, 0, len(r.levels))
	for _, l := range r.levels {
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemoryRepo) GetLevelsByAsset(ctx context.Context, assetID string) ([]*domain.AutoLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AutoLevel
	for _, l := range r.levels {
		if l.AssetID == assetID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MemoryRepo) DeleteLevel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.levels, id)
	return nil
}

func (r *MemoryRepo) Status(id string) domain.LevelStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.levels[id]; ok {
		return l.Status
	}
	return ""
}

// MemoryLedger is an in-memory TradeLedger.
type MemoryLedger struct {
	mu      sync.Mutex
	Records []*domain.TradeRecord
}

func (l *MemoryLedger) Append(ctx context.Context, record *domain.TradeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *record
	l.Records = append(l.Records, &copied)
	return nil
}

func (l *MemoryLedger) History(ctx context.Context, assetID string, limit int) ([]*domain.TradeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.TradeRecord
	for i := len(l.Records) - 1; i >= 0 && len(out) < limit; i-- {
		if l.Records[i].AssetID == assetID {
			copied := *l.Records[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (l *MemoryLedger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Records)
}

func (l *MemoryLedger) ByStatus(status domain.TradeStatus) []*domain.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.TradeRecord
	for _, r := range l.Records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
