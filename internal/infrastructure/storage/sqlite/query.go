package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

// ChangeRecord one persisted universe change
type ChangeRecord struct {
	Algorithm string
	Symbol    string
	Market    string
	Kind      string // added, removed
	Timestamp int64
}

// LatestTargetBatch returns the most recent batch for algorithm, or nil when there is none.
func (r *Repo) LatestTargetBatch(ctx context.Context, algorithm string) (*model.TargetBatch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, algorithm, model, insight_count, ts_ms
		FROM target_batches
		WHERE algorithm = ?
		ORDER BY ts_ms DESC, created_at DESC, rowid DESC
		LIMIT 1
	`, algorithm)

	var b model.TargetBatch
	err := row.Scan(&b.ID, &b.Algorithm, &b.Model, &b.InsightCount, &b.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, quantity, tag FROM portfolio_targets WHERE batch_id = ? ORDER BY id
	`, b.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b.Targets = []model.PortfolioTarget{}
	for rows.Next() {
		var t model.PortfolioTarget
		if err := rows.Scan(&t.Symbol, &t.Quantity, &t.Tag); err != nil {
			return nil, err
		}
		b.Targets = append(b.Targets, t)
	}
	return &b, rows.Err()
}

func (r *Repo) CountTargetBatches(ctx context.Context, algorithm string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM target_batches WHERE algorithm = ?`, algorithm).Scan(&n)
	return n, err
}

func (r *Repo) CountInsights(ctx context.Context, algorithm string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insights WHERE algorithm = ?`, algorithm).Scan(&n)
	return n, err
}

// ListSecurityChanges in insertion order
func (r *Repo) ListSecurityChanges(ctx context.Context, algorithm string) ([]ChangeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT algorithm, symbol, market, kind, ts_ms
		FROM security_changes
		WHERE algorithm = ?
		ORDER BY id
	`, algorithm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChangeRecord
	for rows.Next() {
		var c ChangeRecord
		if err := rows.Scan(&c.Algorithm, &c.Symbol, &c.Market, &c.Kind, &c.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
