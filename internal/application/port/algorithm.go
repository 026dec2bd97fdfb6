package port

import (
	"time"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

// Algorithm host context handed to framework models. Models treat it as opaque.
type Algorithm interface {
	Name() string
	UtcTime() time.Time
}

// PortfolioConstructionModel turns insights into portfolio targets and tracks universe changes.
// Implementations must not fail: an empty result is a valid answer.
type PortfolioConstructionModel interface {
	CreateTargets(algorithm Algorithm, insights []model.Insight) []model.PortfolioTarget
	OnSecuritiesChanged(algorithm Algorithm, changes model.SecurityChanges)
}
