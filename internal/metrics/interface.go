package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesSubmitted()
	IncMatchesSimulated()
	ObserveProcessingDuration(duration float64)
	IncVersionConflicts()
	IncUnknownPlayers()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
