package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_matches_submitted_total",
			Help: "The total number of match submissions folded into player records.",
		}),
		MatchesSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_matches_simulated_total",
			Help: "The total number of simulated matches generated.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_match_processing_duration_seconds",
			Help:    "The duration of individual match submissions, ranking through aggregation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		VersionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_player_version_conflicts_total",
			Help: "The total number of conditional player writes that hit a version conflict and were retried.",
		}),
		UnknownPlayers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_unknown_players_total",
			Help: "The total number of submitted player ids that were not on the roster.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesSubmitted,
		s.MatchesSimulated,
		s.ProcessingDuration,
		s.VersionConflicts,
		s.UnknownPlayers,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesSubmitted() {
	s.MatchesSubmitted.Inc()
}

func (s *Service) IncMatchesSimulated() {
	s.MatchesSimulated.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncVersionConflicts() {
	s.VersionConflicts.Inc()
}

func (s *Service) IncUnknownPlayers() {
	s.UnknownPlayers.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
