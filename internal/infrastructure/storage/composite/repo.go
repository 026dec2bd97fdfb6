package composite

import (
	"context"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	// nil repos are dropped
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Len() int { return len(r.repos) }

func (r *Repo) InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertInsights(ctx, algorithm, ts, insights); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertTargetBatch(ctx, batch); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertSecurityChanges(ctx context.Context, algorithm string, ts int64, changes model.SecurityChanges) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSecurityChanges(ctx, algorithm, ts, changes); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Repository = (*Repo)(nil)
