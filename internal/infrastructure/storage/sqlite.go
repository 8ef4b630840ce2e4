package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/solwatch/memetrader/internal/domain"
)

// SQLiteStore persists auto-levels and the append-only trade ledger.
// It implements domain.LevelRepository and domain.TradeLedger.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS auto_levels (
			id TEXT PRIMARY KEY,
			asset_id TEXT NOT NULL,
			side TEXT NOT NULL,
			trigger_price REAL NOT NULL,
			amount REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_auto_levels_asset ON auto_levels(asset_id);`,
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			asset_id TEXT NOT NULL,
			side TEXT NOT NULL,
			amount REAL NOT NULL,
			status TEXT NOT NULL,
			reference TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_asset_time ON trades(asset_id, created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

// LevelRepository implementation

func (s *SQLiteStore) SaveLevel(ctx context.Context, level *domain.AutoLevel) error {
	query := `INSERT INTO auto_levels (id, asset_id, side, trigger_price, amount, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		level.ID, level.AssetID, level.Side, level.TriggerPrice, level.Amount, level.Status, level.CreatedAt)
	return err
}

func (s *SQLiteStore) UpdateLevelStatus(ctx context.Context, id string, status domain.LevelStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE auto_levels SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("level %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) ListLevels(ctx context.Context) ([]*domain.AutoLevel, error) {
	query := `SELECT id, asset_id, side, trigger_price, amount, status, created_at FROM auto_levels ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLevels(rows)
}

func (s *SQLiteStore) GetLevelsByAsset(ctx context.Context, assetID string) ([]*domain.AutoLevel, error) {
	query := `SELECT id, asset_id, side, trigger_price, amount, status, created_at FROM auto_levels WHERE asset_id = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLevels(rows)
}

func (s *SQLiteStore) DeleteLevel(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auto_levels WHERE id = ?`, id)
	return err
}

func scanLevels(rows *sql.Rows) ([]*domain.AutoLevel, error) {
	var levels []*domain.AutoLevel
	for rows.Next() {
		var l domain.AutoLevel
		if err := rows.Scan(&l.ID, &l.AssetID, &l.Side, &l.TriggerPrice, &l.Amount, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, &l)
	}
	return levels, rows.Err()
}

// TradeLedger implementation

func (s *SQLiteStore) Append(ctx context.Context, record *domain.TradeRecord) error {
	query := `INSERT INTO trades (id, asset_id, side, amount, status, reference, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.AssetID, record.Side, record.Amount, record.Status, record.Reference, record.Timestamp)
	return err
}

func (s *SQLiteStore) History(ctx context.Context, assetID string, limit int) ([]*domain.TradeRecord, error) {
	query := `SELECT id, asset_id, side, amount, status, reference, created_at
			  FROM trades WHERE asset_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, assetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TradeRecord
	for rows.Next() {
		var r domain.TradeRecord
		if err := rows.Scan(&r.ID, &r.AssetID, &r.Side, &r.Amount, &r.Status, &r.Reference, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}
