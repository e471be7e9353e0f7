package http

import (
	"net/http"

	"github.com/conquest-league/stats-tracker/internal/config"
	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/metrics"
	"github.com/conquest-league/stats-tracker/internal/notifier"
	"github.com/conquest-league/stats-tracker/internal/processor"
	"github.com/conquest-league/stats-tracker/internal/pubsub"
)

func NewServer(store league.LeagueStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/player", Chain(s.PlayerHandler(), paramsMiddleware))
	s.Router.Handle("/player-stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/player-history", Chain(s.PlayerHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/match", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("/start-match", Chain(s.StartMatchHandler(), paramsMiddleware))
	s.Router.Handle("/complete-match", Chain(s.CompleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("/cancel-match", Chain(s.CancelMatchHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/tournament-stats", Chain(s.TournamentStatsHandler(), paramsMiddleware))
	s.Router.Handle("/simulate-match", Chain(s.SimulateMatchHandler(), paramsMiddleware))
	s.Router.Handle("/notify-leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/match-recorded", Chain(s.MatchRecordedHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/notify-leaderboard", Chain(s.NotifyLeadersHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
