package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

const (
	changeAdded   = "added"
	changeRemoved = "removed"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS insights (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  insight_id TEXT NOT NULL,
  algorithm TEXT NOT NULL,
  symbol TEXT NOT NULL,
  type TEXT NOT NULL,
  direction INTEGER NOT NULL,
  period_ms INTEGER NOT NULL,
  magnitude REAL,
  confidence REAL,
  weight REAL,
  source_model TEXT NOT NULL,
  generated_ts_ms INTEGER NOT NULL,
  close_ts_ms INTEGER NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_insights_algo_ts ON insights(algorithm, ts_ms);
CREATE INDEX IF NOT EXISTS idx_insights_symbol ON insights(symbol);

CREATE TABLE IF NOT EXISTS target_batches (
  id TEXT PRIMARY KEY,
  algorithm TEXT NOT NULL,
  model TEXT NOT NULL,
  insight_count INTEGER NOT NULL,
  target_count INTEGER NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batches_algo_ts ON target_batches(algorithm, ts_ms);

CREATE TABLE IF NOT EXISTS portfolio_targets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batch_id TEXT NOT NULL REFERENCES target_batches(id),
  symbol TEXT NOT NULL,
  quantity REAL NOT NULL,
  tag TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_targets_batch ON portfolio_targets(batch_id);

CREATE TABLE IF NOT EXISTS security_changes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  algorithm TEXT NOT NULL,
  symbol TEXT NOT NULL,
  market TEXT NOT NULL,
  kind TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_algo_ts ON security_changes(algorithm, ts_ms);
`)
	return err
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func (r *Repo) InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO insights(
			insight_id, algorithm, symbol, type, direction, period_ms,
			magnitude, confidence, weight, source_model,
			generated_ts_ms, close_ts_ms, ts_ms, created_at
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for i := range insights {
		in := &insights[i]
		_, err := stmt.ExecContext(ctx,
			in.ID, algorithm, in.Symbol, string(in.Type), int(in.Direction), in.PeriodMs,
			nullFloat(in.Magnitude), nullFloat(in.Confidence), nullFloat(in.Weight), in.SourceModel,
			in.GeneratedTime, in.CloseTime, ts, now)
		if err != nil {
			return fmt.Errorf("insert insight %s: %w", in.ID, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO target_batches(id, algorithm, model, insight_count, target_count, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, batch.ID, batch.Algorithm, batch.Model, batch.InsightCount, len(batch.Targets), batch.Timestamp, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	for _, t := range batch.Targets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO portfolio_targets(batch_id, symbol, quantity, tag) VALUES(?, ?, ?, ?)
		`, batch.ID, t.Symbol, t.Quantity, t.Tag)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) InsertSecurityChanges(ctx context.Context, algorithm string, ts int64, changes model.SecurityChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()
	insert := func(kind string, secs []model.Security) error {
		for _, s := range secs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO security_changes(algorithm, symbol, market, kind, ts_ms, created_at)
				VALUES(?, ?, ?, ?, ?, ?)
			`, algorithm, s.Symbol, s.Market, kind, ts, now)
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(changeRemoved, changes.Removed); err != nil {
		return err
	}
	if err := insert(changeAdded, changes.Added); err != nil {
		return err
	}
	return tx.Commit()
}

var _ port.Repository = (*Repo)(nil)
