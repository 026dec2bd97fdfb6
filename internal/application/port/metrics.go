package port

type Metrics interface {
	InsightsReceived(n int)
	TargetsCreated(model string, n int)
	SecuritiesChanged(added, removed int)
}
