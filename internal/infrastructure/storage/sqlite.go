package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/trade_journal/internal/domain"
	"github.com/vitos/trade_journal/internal/stream"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPureGo is modernc.org/sqlite.
	DriverPureGo = "sqlite"
)

const tradeColumns = `id, position_type, asset_name,
	entry_date, entry_time, entry_price, entry_quantity, entry_fees,
	exit_date, exit_time, exit_price, exit_quantity, exit_fees,
	note`

// SQLiteStore keeps the journal in a local SQLite file and publishes the full
// trade list after every committed write.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	trades *stream.Value[[]*domain.TradeSave]

	// refreshMu keeps reload-and-publish atomic so an older list is never
	// published after a newer one.
	refreshMu sync.Mutex
}

func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	return NewSQLiteStoreWithDriver(DriverCGO, dbPath, logger)
}

func NewSQLiteStoreWithDriver(driver, dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if driver != DriverCGO && driver != DriverPureGo {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, err
	}
	// One connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{
		db:     db,
		logger: logger,
		trades: stream.NewValue[[]*domain.TradeSave](),
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	if err := store.refresh(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			position_type INTEGER NOT NULL,
			asset_name TEXT NOT NULL,
			entry_date TEXT,
			entry_time TEXT,
			entry_price TEXT,
			entry_quantity TEXT,
			entry_fees TEXT,
			exit_date TEXT,
			exit_time TEXT,
			exit_price TEXT,
			exit_quantity TEXT,
			exit_fees TEXT,
			note TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_exit_date ON trades(exit_date);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

// TradeRepository Implementation

// SaveTrade upserts by ID. An updated trade keeps its place in the list.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *domain.TradeSave) error {
	rec := EncodeTrade(trade)
	query := `INSERT INTO trades (` + tradeColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
			  position_type=excluded.position_type,
			  asset_name=excluded.asset_name,
			  entry_date=excluded.entry_date,
			  entry_time=excluded.entry_time,
			  entry_price=excluded.entry_price,
			  entry_quantity=excluded.entry_quantity,
			  entry_fees=excluded.entry_fees,
			  exit_date=excluded.exit_date,
			  exit_time=excluded.exit_time,
			  exit_price=excluded.exit_price,
			  exit_quantity=excluded.exit_quantity,
			  exit_fees=excluded.exit_fees,
			  note=excluded.note`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.PositionType, rec.AssetName,
		rec.EntryDate, rec.EntryTime, rec.EntryPrice, rec.EntryQuantity, rec.EntryFees,
		rec.ExitDate, rec.ExitTime, rec.ExitPrice, rec.ExitQuantity, rec.ExitFees,
		rec.Note)
	if err != nil {
		return fmt.Errorf("failed to save trade %s: %w", trade.ID, err)
	}
	s.changed(ctx)
	return nil
}

func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*domain.TradeSave, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTradeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) ListTrades(ctx context.Context) ([]*domain.TradeSave, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY rowid DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trades := make([]*domain.TradeSave, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trades, nil
}

func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", id, err)
	}
	s.changed(ctx)
	return nil
}

func (s *SQLiteStore) DeleteAllTrades(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM trades"); err != nil {
		return fmt.Errorf("failed to delete trades: %w", err)
	}
	s.changed(ctx)
	return nil
}

// TradeFeed Implementation

func (s *SQLiteStore) WatchTrades(ctx context.Context) <-chan []*domain.TradeSave {
	return s.trades.Subscribe(ctx)
}

func (s *SQLiteStore) WatchTrade(ctx context.Context, id string) <-chan *domain.TradeSave {
	out := make(chan *domain.TradeSave, 1)
	in := s.trades.Subscribe(ctx)

	go func() {
		defer close(out)
		var last *domain.TradeSave
		first := true
		for list := range in {
			cur := findTrade(list, id)
			if !first && cur.Equal(last) {
				continue
			}
			first = false
			last = cur
			select {
			case out <- cur:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *SQLiteStore) Close() error {
	s.trades.Close()
	return s.db.Close()
}

// changed republishes the list after a write. The write itself already
// succeeded, so a failed reload is only logged.
func (s *SQLiteStore) changed(ctx context.Context) {
	if err := s.refresh(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("Failed to reload trades", zap.Error(err))
	}
}

func (s *SQLiteStore) refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	trades, err := s.ListTrades(ctx)
	if err != nil {
		return err
	}
	s.trades.Publish(trades)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (*domain.TradeSave, error) {
	var r TradeRecord
	err := row.Scan(&r.ID, &r.PositionType, &r.AssetName,
		&r.EntryDate, &r.EntryTime, &r.EntryPrice, &r.EntryQuantity, &r.EntryFees,
		&r.ExitDate, &r.ExitTime, &r.ExitPrice, &r.ExitQuantity, &r.ExitFees,
		&r.Note)
	if err != nil {
		return nil, err
	}
	return DecodeTrade(r)
}

func findTrade(list []*domain.TradeSave, id string) *domain.TradeSave {
	for _, t := range list {
		if t.ID == id {
			return t
		}
	}
	return nil
}
