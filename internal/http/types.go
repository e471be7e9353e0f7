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

type Server struct {
	Store          league.LeagueStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
