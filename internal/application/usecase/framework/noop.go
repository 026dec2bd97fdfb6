package framework

import (
	"context"
	"time"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

type noopRepo struct{}

func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error {
	return nil
}
func (n *noopRepo) InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error {
	return nil
}
func (n *noopRepo) InsertSecurityChanges(ctx context.Context, algorithm string, ts int64, changes model.SecurityChanges) error {
	return nil
}
func (n *noopRepo) Close() error { return nil }

type noopSink struct{}

func (noopSink) WriteLine(ts time.Time, line string) error { return nil }
func (noopSink) NewLine() error                            { return nil }

type noopMetrics struct{}

func (noopMetrics) InsightsReceived(n int)               {}
func (noopMetrics) TargetsCreated(model string, n int)   {}
func (noopMetrics) SecuritiesChanged(added, removed int) {}
