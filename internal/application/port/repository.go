package port

import (
	"context"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

type Repository interface {
	// Insights received by the framework, keyed by algorithm
	InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error

	// Targets produced by one CreateTargets call
	InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error

	// Universe changes forwarded to the model
	InsertSecurityChanges(ctx context.Context, algorithm string, ts int64, changes model.SecurityChanges) error

	// Connection management
	Close() error
}
