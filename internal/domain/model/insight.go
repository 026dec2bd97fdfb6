package model

import (
	"errors"
	"fmt"
	"strings"
)

// InsightDirection predicted movement of a symbol
type InsightDirection int

const (
	InsightDirectionDown InsightDirection = -1
	InsightDirectionFlat InsightDirection = 0
	InsightDirectionUp   InsightDirection = +1
)

func (d InsightDirection) String() string {
	switch d {
	case InsightDirectionDown:
		return "down"
	case InsightDirectionFlat:
		return "flat"
	case InsightDirectionUp:
		return "up"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the three known directions.
func (d InsightDirection) Valid() bool {
	return d >= InsightDirectionDown && d <= InsightDirectionUp
}

// ParseInsightDirection accepts "up"/"down"/"flat" in any case.
func ParseInsightDirection(s string) (InsightDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return InsightDirectionUp, nil
	case "down":
		return InsightDirectionDown, nil
	case "flat", "":
		return InsightDirectionFlat, nil
	default:
		return InsightDirectionFlat, fmt.Errorf("unknown insight direction %q", s)
	}
}

type InsightType string

const (
	InsightTypePrice      InsightType = "price"
	InsightTypeVolatility InsightType = "volatility"
)

// Insight alpha model prediction
type Insight struct {
	ID            string           `json:"id"`
	Symbol        string           `json:"symbol"`
	Type          InsightType      `json:"type"`
	Direction     InsightDirection `json:"direction"`
	PeriodMs      int64            `json:"period_ms"`
	Magnitude     *float64         `json:"magnitude,omitempty"`
	Confidence    *float64         `json:"confidence,omitempty"` // 0-1
	Weight        *float64         `json:"weight,omitempty"`
	SourceModel   string           `json:"source_model,omitempty"`
	GeneratedTime int64            `json:"generated_ts_ms"`
	CloseTime     int64            `json:"close_ts_ms,omitempty"`
}

var ErrInvalidInsight = errors.New("invalid insight")

func (i *Insight) Validate() error {
	if strings.TrimSpace(i.Symbol) == "" {
		return fmt.Errorf("%w: symbol empty", ErrInvalidInsight)
	}
	if !i.Direction.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidInsight, i.Direction)
	}
	if i.Confidence != nil && (*i.Confidence < 0 || *i.Confidence > 1) {
		return fmt.Errorf("%w: confidence %.4f outside [0,1]", ErrInvalidInsight, *i.Confidence)
	}
	if i.PeriodMs < 0 {
		return fmt.Errorf("%w: negative period", ErrInvalidInsight)
	}
	return nil
}
