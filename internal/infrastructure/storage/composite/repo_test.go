package composite

import (
	"context"
	"errors"
	"testing"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

type countingRepo struct {
	insights, batches, changes, closed int
	err                                error
}

func (c *countingRepo) InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error {
	c.insights++
	return c.err
}

func (c *countingRepo) InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error {
	c.batches++
	return c.err
}

func (c *countingRepo) InsertSecurityChanges(ctx context.Context, algorithm string, ts int64, changes model.SecurityChanges) error {
	c.changes++
	return c.err
}

func (c *countingRepo) Close() error {
	c.closed++
	return c.err
}

func TestCompositeFiltersNil(t *testing.T) {
	r := New(nil, &countingRepo{}, nil)
	if r.Len() != 1 {
		t.Errorf("expected 1 repo, got %d", r.Len())
	}
}

func TestCompositeFanOutFirstError(t *testing.T) {
	first := errors.New("first")
	a := &countingRepo{err: first}
	b := &countingRepo{err: errors.New("second")}
	c := &countingRepo{}
	r := New(a, b, c)

	ctx := context.Background()
	batch := &model.TargetBatch{ID: "x", Targets: []model.PortfolioTarget{}}

	if err := r.InsertTargetBatch(ctx, batch); !errors.Is(err, first) {
		t.Errorf("expected first error, got %v", err)
	}
	if err := r.InsertInsights(ctx, "algo", 1, []model.Insight{{Symbol: "SPY"}}); !errors.Is(err, first) {
		t.Errorf("expected first error, got %v", err)
	}
	if err := r.InsertSecurityChanges(ctx, "algo", 1, model.NoSecurityChanges()); !errors.Is(err, first) {
		t.Errorf("expected first error, got %v", err)
	}
	if err := r.Close(); !errors.Is(err, first) {
		t.Errorf("expected first error, got %v", err)
	}

	for i, repo := range []*countingRepo{a, b, c} {
		if repo.batches != 1 || repo.insights != 1 || repo.changes != 1 || repo.closed != 1 {
			t.Errorf("repo %d not called for every operation: %+v", i, repo)
		}
	}
}

func TestCompositeEmpty(t *testing.T) {
	r := New()
	if err := r.InsertTargetBatch(context.Background(), &model.TargetBatch{}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
