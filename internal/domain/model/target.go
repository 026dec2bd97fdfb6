package model

// PortfolioTarget desired holding for a symbol, in units
type PortfolioTarget struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Tag      string  `json:"tag,omitempty"`
}

// TargetBatch one CreateTargets invocation as recorded by the framework
type TargetBatch struct {
	ID           string            `json:"id"`
	Algorithm    string            `json:"algorithm"`
	Model        string            `json:"model"`
	InsightCount int               `json:"insight_count"`
	Targets      []PortfolioTarget `json:"targets"`
	Timestamp    int64             `json:"ts_ms"`
}
