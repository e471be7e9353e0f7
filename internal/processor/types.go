package processor

import (
	"time"

	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/metrics"
	"github.com/conquest-league/stats-tracker/internal/pubsub"
	"github.com/conquest-league/stats-tracker/internal/scoring"
)

// Processor handles the business logic of recording matches: ranking,
// per-player aggregation, history and event publishing.
type Processor struct {
	store        Store
	notifier     Notifier
	metrics      metrics.Metrics
	pubsub       pubsub.PubSubClient
	bounds       scoring.Bounds
	historyLimit int
}

// Submission is one raw match submission.
type Submission struct {
	MatchID         string                 `json:"match_id"`
	Date            time.Time              `json:"date"`
	Duration        string                 `json:"duration"`
	MapName         string                 `json:"map_name"`
	GameMode        league.GameMode        `json:"game_mode"`
	Notes           string                 `json:"notes"`
	TournamentPhase string                 `json:"tournament_phase"`
	Players         []scoring.PlayerScores `json:"players"`
}

// PlayerFailure reports a participant whose aggregate update could not be
// persisted even after retries.
type PlayerFailure struct {
	PlayerID string `json:"player_id"`
	Error    string `json:"error"`
}

// SubmitResult is the full per-player outcome of one submission. Unknown and
// failed participants are reported explicitly, never silently dropped.
type SubmitResult struct {
	Match          *league.Match    `json:"match"`
	UpdatedPlayers []*league.Player `json:"updated_players"`
	UnknownPlayers []string         `json:"unknown_players,omitempty"`
	Failures       []PlayerFailure  `json:"failures,omitempty"`
}
