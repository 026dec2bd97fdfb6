package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS target_batches (
  id TEXT PRIMARY KEY,
  algorithm TEXT NOT NULL,
  model TEXT NOT NULL,
  insight_count INTEGER NOT NULL,
  target_count INTEGER NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batches_algo_ts ON target_batches(algorithm, ts_ms);

CREATE TABLE IF NOT EXISTS portfolio_targets (
  id BIGSERIAL PRIMARY KEY,
  batch_id TEXT NOT NULL REFERENCES target_batches(id),
  symbol TEXT NOT NULL,
  quantity DOUBLE PRECISION NOT NULL,
  tag TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS security_changes (
  id BIGSERIAL PRIMARY KEY,
  algorithm TEXT NOT NULL,
  symbol TEXT NOT NULL,
  market TEXT NOT NULL,
  kind TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_algo_ts ON security_changes(algorithm, ts_ms);
`)
	return err
}

func (r *Repo) InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error {
	// insights are kept in sqlite/redis only
	return nil
}

func (r *Repo) InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO target_batches(id, algorithm, model, insight_count, target_count, ts_ms)
		VALUES($1, $2, $3, $4, $5, $6)
	`, batch.ID, batch.Algorithm, batch.Model, batch.InsightCount, len(batch.Targets), batch.Timestamp)
	if err != nil {
		return err
	}
	for _, t := range batch.Targets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO portfolio_targets(batch_id, symbol, quantity, tag) VALUES($1, $2, $3, $4)
		`, batch.ID, t.Symbol, t.Quantity, t.Tag); err != nil {
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

	for _, s := range changes.Removed {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO security_changes(algorithm, symbol, market, kind, ts_ms) VALUES($1, $2, $3, 'removed', $4)
		`, algorithm, s.Symbol, s.Market, ts); err != nil {
			return err
		}
	}
	for _, s := range changes.Added {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO security_changes(algorithm, symbol, market, kind, ts_ms) VALUES($1, $2, $3, 'added', $4)
		`, algorithm, s.Symbol, s.Market, ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

var _ port.Repository = (*Repo)(nil)
