package portfolio

import (
	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

// NullModelName registry key of NullPortfolioConstructionModel
const NullModelName = "null"

// NullPortfolioConstructionModel is a PortfolioConstructionModel that does nothing.
// It never produces targets and ignores universe changes.
type NullPortfolioConstructionModel struct{}

func NewNullPortfolioConstructionModel() NullPortfolioConstructionModel {
	return NullPortfolioConstructionModel{}
}

// CreateTargets always returns an empty, non-nil slice.
func (NullPortfolioConstructionModel) CreateTargets(algorithm port.Algorithm, insights []model.Insight) []model.PortfolioTarget {
	return []model.PortfolioTarget{}
}

func (NullPortfolioConstructionModel) OnSecuritiesChanged(algorithm port.Algorithm, changes model.SecurityChanges) {
}

var _ port.PortfolioConstructionModel = NullPortfolioConstructionModel{}

func init() {
	Register(NullModelName, func() port.PortfolioConstructionModel {
		return NewNullPortfolioConstructionModel()
	})
}
