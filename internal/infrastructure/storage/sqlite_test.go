package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/solwatch/memetrader/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLevelRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	level := &domain.AutoLevel{
		ID:           "lvl-1",
		AssetID:      "SOLMEME",
		Side:         domain.SideBuy,
		TriggerPrice: 0.0015,
		Amount:       250,
		Status:       domain.LevelPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.SaveLevel(ctx, level); err != nil {
		t.Fatalf("Failed to save level: %v", err)
	}

	levels, err := store.GetLevelsByAsset(ctx, "SOLMEME")
	if err != nil {
		t.Fatalf("Failed to get levels: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("Levels = %d, want 1", len(levels))
	}
	got := levels[0]
	if got.ID != level.ID || got.Side != level.Side || got.TriggerPrice != level.TriggerPrice || got.Status != domain.LevelPending {
		t.Errorf("Loaded level = %+v, want %+v", got, level)
	}
}

func TestUpdateLevelStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	level := &domain.AutoLevel{
		ID:           "lvl-1",
		AssetID:      "SOLMEME",
		Side:         domain.SideSell,
		TriggerPrice: 2.0,
		Amount:       100,
		Status:       domain.LevelPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.SaveLevel(ctx, level); err != nil {
		t.Fatalf("Failed to save level: %v", err)
	}

	if err := store.UpdateLevelStatus(ctx, "lvl-1", domain.LevelTriggered); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	levels, err := store.ListLevels(ctx)
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}
	if levels[0].Status != domain.LevelTriggered {
		t.Errorf("Status = %s, want TRIGGERED", levels[0].Status)
	}

	if err := store.UpdateLevelStatus(ctx, "missing", domain.LevelCancelled); err == nil {
		t.Error("Expected error updating unknown level")
	}
}

func TestDeleteLevel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	level := &domain.AutoLevel{
		ID:           "lvl-1",
		AssetID:      "SOLMEME",
		Side:         domain.SideBuy,
		TriggerPrice: 1.0,
		Amount:       10,
		Status:       domain.LevelPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.SaveLevel(ctx, level); err != nil {
		t.Fatalf("Failed to save level: %v", err)
	}
	if err := store.DeleteLevel(ctx, "lvl-1"); err != nil {
		t.Fatalf("Failed to delete level: %v", err)
	}

	levels, err := store.ListLevels(ctx)
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}
	if len(levels) != 0 {
		t.Errorf("Levels = %d, want 0", len(levels))
	}
}

func TestTradeLedgerHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		record := &domain.TradeRecord{
			ID:        "trade-" + string(rune('a'+i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			AssetID:   "SOLMEME",
			Side:      domain.SideBuy,
			Amount:    float64(i + 1),
			Status:    domain.TradeSuccess,
			Reference: "sig",
		}
		if err := store.Append(ctx, record); err != nil {
			t.Fatalf("Failed to append record: %v", err)
		}
	}
	other := &domain.TradeRecord{
		ID:        "trade-other",
		Timestamp: base,
		AssetID:   "OTHER",
		Side:      domain.SideSell,
		Amount:    1,
		Status:    domain.TradeFailed,
		Reference: "execution failed: rpc error",
	}
	if err := store.Append(ctx, other); err != nil {
		t.Fatalf("Failed to append record: %v", err)
	}

	history, err := store.History(ctx, "SOLMEME", 3)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History = %d records, want 3", len(history))
	}
	// Newest first.
	if history[0].ID != "trade-e" || history[2].ID != "trade-c" {
		t.Errorf("History order = [%s .. %s], want [trade-e .. trade-c]", history[0].ID, history[2].ID)
	}
	for _, r := range history {
		if r.AssetID != "SOLMEME" {
			t.Errorf("History leaked record for %s", r.AssetID)
		}
	}
}
