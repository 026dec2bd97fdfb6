package port

import (
	"context"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

type EventKind int

const (
	EventInsights EventKind = iota + 1
	EventSecuritiesChanged
)

func (k EventKind) String() string {
	switch k {
	case EventInsights:
		return "insights"
	case EventSecuritiesChanged:
		return "securities_changed"
	default:
		return "unknown"
	}
}

// Event one message from an insight feed: either an insight batch or a universe change
type Event struct {
	Kind     EventKind
	Source   string // feed name
	Ts       int64  // unix ms
	Insights []model.Insight
	Changes  model.SecurityChanges
}

type InsightFeed interface {
	Name() string
	Subscribe(ctx context.Context) (<-chan Event, error)
}
