package processor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/conquest-league/stats-tracker/internal/config"
	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/metrics"
	"github.com/conquest-league/stats-tracker/internal/pubsub"
	"github.com/conquest-league/stats-tracker/internal/scoring"
)

// maxSaveAttempts bounds the re-read/re-apply loop on version conflicts.
const maxSaveAttempts = 3

func New(store Store, notifier Notifier, metricsSvc metrics.Metrics, ps pubsub.PubSubClient, cfg config.ScoringConfig) *Processor {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = league.DefaultHistoryLimit
	}
	return &Processor{
		store:        store,
		notifier:     notifier,
		metrics:      metricsSvc,
		pubsub:       ps,
		bounds:       scoring.Bounds{Min: cfg.MinScore, Max: cfg.MaxScore},
		historyLimit: historyLimit,
	}
}

// SubmitMatch validates and ranks a finished match, records it, and folds the
// result into every participant's aggregates. The match row is written before
// any player is touched so a crash mid-way can be detected via stats_applied.
func (p *Processor) SubmitMatch(sub Submission) (*SubmitResult, error) {
	start := time.Now()
	ranked, err := scoring.ComputeResult(sub.Players, p.bounds)
	if err != nil {
		return nil, err
	}

	match := p.buildMatch(sub, ranked)
	match.Status = league.MatchCompleted
	if err := p.store.CreateMatch(match); err != nil {
		return nil, fmt.Errorf("creating match %s: %w", match.ID, err)
	}

	result, err := p.applyMatch(match)
	if err != nil {
		return nil, err
	}
	p.metrics.IncMatchesSubmitted()
	p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())
	return result, nil
}

// StartMatch records a match in progress. Scores are captured as submitted
// but no aggregates change until CompleteMatch.
func (p *Processor) StartMatch(sub Submission) (*league.Match, error) {
	ranked, err := scoring.ComputeResult(sub.Players, p.bounds)
	if err != nil {
		return nil, err
	}
	match := p.buildMatch(sub, ranked)
	match.Status = league.MatchInProgress
	match.Winner = ""
	if err := p.store.CreateMatch(match); err != nil {
		return nil, fmt.Errorf("creating match %s: %w", match.ID, err)
	}
	log.Info("Match started", "match_id", match.ID, "players", len(match.Players))
	return match, nil
}

// CompleteMatch transitions an in-progress match to completed and applies its
// stats exactly once. Completed and cancelled matches are terminal.
func (p *Processor) CompleteMatch(matchID string) (*SubmitResult, error) {
	start := time.Now()
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != league.MatchInProgress {
		return nil, league.Validationf("match %s is %s and cannot be completed", matchID, match.Status)
	}
	if err := p.store.UpdateMatchStatus(matchID, league.MatchCompleted); err != nil {
		return nil, err
	}
	match.Status = league.MatchCompleted
	if len(match.Players) > 0 {
		match.Winner = winnerName(match.Players)
		if err := p.store.SetMatchWinner(matchID, match.Winner); err != nil {
			return nil, err
		}
	}

	result, err := p.applyMatch(match)
	if err != nil {
		return nil, err
	}
	p.metrics.IncMatchesSubmitted()
	p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())
	return result, nil
}

// CancelMatch transitions an in-progress match to cancelled. No stats change.
func (p *Processor) CancelMatch(matchID string) (*league.Match, error) {
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != league.MatchInProgress {
		return nil, league.Validationf("match %s is %s and cannot be cancelled", matchID, match.Status)
	}
	if err := p.store.UpdateMatchStatus(matchID, league.MatchCancelled); err != nil {
		return nil, err
	}
	match.Status = league.MatchCancelled
	log.Info("Match cancelled", "match_id", matchID)
	return match, nil
}

// HandleMatchRecorded reacts to a match-recorded event by sending the Slack
// result notification.
func (p *Processor) HandleMatchRecorded(match *league.Match, dryRun bool) error {
	_, err := p.notifier.SendResultNotification(match, dryRun)
	return err
}

// applyMatch flips the stats_applied guard and folds the match into every
// participant. A match whose guard was already flipped is never applied again.
func (p *Processor) applyMatch(match *league.Match) (*SubmitResult, error) {
	if err := p.store.MarkStatsApplied(match.ID); err != nil {
		if errors.Is(err, league.ErrConflict) {
			return nil, league.Validationf("stats for match %s were already applied", match.ID)
		}
		return nil, err
	}
	match.StatsApplied = true

	result := &SubmitResult{Match: match}
	for _, mp := range match.Players {
		player, err := p.applyToPlayer(match, mp)
		if err != nil {
			if errors.Is(err, league.ErrNotFound) {
				log.Warn("Match references unknown player", "match_id", match.ID, "player_id", mp.PlayerID)
				p.metrics.IncUnknownPlayers()
				result.UnknownPlayers = append(result.UnknownPlayers, mp.PlayerID)
				continue
			}
			log.Error("Failed to update player stats", "match_id", match.ID, "player_id", mp.PlayerID, "error", err)
			result.Failures = append(result.Failures, PlayerFailure{PlayerID: mp.PlayerID, Error: err.Error()})
			continue
		}
		result.UpdatedPlayers = append(result.UpdatedPlayers, player)
	}

	if p.pubsub != nil {
		if err := p.pubsub.SendMessage(pubsub.EventMatchRecorded, match); err != nil {
			log.Error("Failed to publish match recorded event", "match_id", match.ID, "error", err)
		}
	}
	log.Info("Match stats applied", "match_id", match.ID, "updated", len(result.UpdatedPlayers), "unknown", len(result.UnknownPlayers))
	return result, nil
}

// applyToPlayer updates a single participant's aggregates under optimistic
// concurrency, re-reading the record and re-applying on version conflicts.
func (p *Processor) applyToPlayer(match *league.Match, mp league.MatchPlayer) (*league.Player, error) {
	outcome := league.MatchOutcome{
		Result: resultFor(mp.Position),
		Scores: mp.Scores,
		Points: mp.Points,
		Date:   match.Date,
	}
	entry := league.HistoryEntryFor(match, mp, opponentNames(match.Players, mp.PlayerID))

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		player, err := p.store.GetPlayer(mp.PlayerID)
		if err != nil {
			return nil, err
		}
		player.ApplyMatchOutcome(outcome)
		player.AppendHistory(entry, p.historyLimit)

		err = p.store.SavePlayer(player)
		if err == nil {
			return player, nil
		}
		if errors.Is(err, league.ErrConflict) {
			p.metrics.IncVersionConflicts()
			log.Warn("Version conflict saving player, retrying", "player_id", mp.PlayerID, "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("saving player %s: %w", mp.PlayerID, league.ErrConflict)
}

// buildMatch assembles the match record from a submission and its ranking.
func (p *Processor) buildMatch(sub Submission, ranked []scoring.Ranked) *league.Match {
	id := sub.MatchID
	if id == "" {
		id = "match_" + uuid.NewString()
	}
	date := sub.Date
	if date.IsZero() {
		date = time.Now()
	}
	mode := sub.GameMode
	if mode == "" {
		mode = league.ModeFFA
	}

	players := make([]league.MatchPlayer, 0, len(ranked))
	for _, r := range ranked {
		players = append(players, league.MatchPlayer{
			PlayerID:   league.NormalizeID(r.PlayerID),
			PlayerName: p.playerName(r.PlayerID),
			Scores:     r.Scores,
			TotalScore: r.TotalScore,
			Position:   r.Position,
			Points:     r.Points,
		})
	}

	return &league.Match{
		ID:              id,
		Date:            date,
		Duration:        sub.Duration,
		MapName:         sub.MapName,
		GameMode:        mode,
		Winner:          winnerName(players),
		Notes:           sub.Notes,
		TournamentPhase: sub.TournamentPhase,
		Players:         players,
	}
}

// playerName resolves the display name for an id, falling back to the raw id
// for players not on the roster.
func (p *Processor) playerName(id string) string {
	player, err := p.store.GetPlayer(league.NormalizeID(id))
	if err != nil {
		return id
	}
	return player.Name
}

func resultFor(position int) league.Result {
	if position == 1 {
		return league.ResultWin
	}
	return league.ResultLoss
}

func winnerName(players []league.MatchPlayer) string {
	for _, mp := range players {
		if mp.Position == 1 {
			return mp.PlayerName
		}
	}
	return ""
}

func opponentNames(players []league.MatchPlayer, selfID string) string {
	names := make([]string, 0, len(players)-1)
	for _, mp := range players {
		if mp.PlayerID == selfID {
			continue
		}
		names = append(names, mp.PlayerName)
	}
	return strings.Join(names, ", ")
}
