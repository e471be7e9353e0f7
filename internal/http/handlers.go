package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/processor"
	"github.com/conquest-league/stats-tracker/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// PlayersHandler lists the roster on GET and registers a player on POST.
func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var player league.Player
			if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if err := s.Store.CreatePlayer(&player); err != nil {
				respondWithError(w, "Failed to create player", err)
				return
			}
			log.Info("Player registered", "player_id", player.ID)
			writeJSON(w, http.StatusCreated, player)
		default:
			status := league.PlayerStatus(r.URL.Query().Get("status"))
			search := r.URL.Query().Get("search")
			players, err := s.Store.ListPlayers(status, search)
			if err != nil {
				respondWithError(w, "Failed to list players", err)
				return
			}
			writeJSON(w, http.StatusOK, players)
		}
	}
}

// PlayerHandler serves a single player record: GET to read, PUT to update the
// profile fields, DELETE to remove.
func (s *Server) PlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Player id is required", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPut:
			player, err := s.Store.GetPlayer(id)
			if err != nil {
				respondWithError(w, "Failed to get player", err)
				return
			}
			var update league.Player
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			applyProfileUpdate(player, &update)
			if err := s.Store.UpdatePlayerProfile(player); err != nil {
				respondWithError(w, "Failed to update player", err)
				return
			}
			writeJSON(w, http.StatusOK, player)
		case http.MethodDelete:
			if err := s.Store.RemovePlayer(id); err != nil {
				respondWithError(w, "Failed to remove player", err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Removed player %s", id)
		default:
			player, err := s.Store.GetPlayer(id)
			if err != nil {
				respondWithError(w, "Failed to get player", err)
				return
			}
			writeJSON(w, http.StatusOK, player)
		}
	}
}

// applyProfileUpdate copies the editable profile fields onto an existing
// record. Aggregates and identity are never touched here.
func applyProfileUpdate(player, update *league.Player) {
	if update.Name != "" {
		player.Name = update.Name
	}
	if update.Avatar != "" {
		player.Avatar = update.Avatar
	}
	if update.Status != "" {
		player.Status = update.Status
	}
	if update.FavoriteStrategy != "" {
		player.FavoriteStrategy = update.FavoriteStrategy
	}
	if update.FavoriteCivilization != "" {
		player.FavoriteCivilization = update.FavoriteCivilization
	}
}

// PlayerStatsHandler posts a player's stats card to Slack, or a not-found
// message when the query matches nobody.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			http.Error(w, "Player query is required", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		player, err := s.Store.GetPlayer(query)
		if errors.Is(err, league.ErrNotFound) {
			matches, listErr := s.Store.ListPlayers("", query)
			if listErr == nil && len(matches) == 1 {
				player, err = matches[0], nil
			}
		}
		if err != nil {
			log.Warn("Could not find player stats", "query", query, "error", err)
			if err := s.Notifier.SendPlayerNotFound(query, isDryRun); err != nil {
				respondWithError(w, "Failed to send player not found", err)
				return
			}
			w.Write([]byte("OK"))
			return
		}

		if err := s.Notifier.SendPlayerStats(player, query, isDryRun); err != nil {
			respondWithError(w, "Failed to send player stats", err)
			return
		}
		w.Write([]byte("OK"))
	}
}

// PlayerHistoryHandler serves a player's recorded match history, newest first.
func (s *Server) PlayerHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Player id is required", http.StatusBadRequest)
			return
		}
		player, err := s.Store.GetPlayer(id)
		if err != nil {
			respondWithError(w, "Failed to get player", err)
			return
		}

		history := player.MatchHistory
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(history) {
				history = history[:limit]
			}
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// MatchesHandler lists matches on GET and submits a finished match on POST.
func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var sub processor.Submission
			if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			result, err := s.Processor.SubmitMatch(sub)
			if err != nil {
				respondWithError(w, "Failed to submit match", err)
				return
			}
			writeJSON(w, http.StatusCreated, result)
		default:
			filter := league.MatchFilter{
				Status:   league.MatchStatus(r.URL.Query().Get("status")),
				PlayerID: r.URL.Query().Get("player"),
			}
			if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
				if limit, err := strconv.Atoi(limitStr); err == nil {
					filter.Limit = limit
				}
			}
			if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
				if offset, err := strconv.Atoi(offsetStr); err == nil {
					filter.Offset = offset
				}
			}
			matches, err := s.Store.ListMatches(filter)
			if err != nil {
				respondWithError(w, "Failed to list matches", err)
				return
			}
			writeJSON(w, http.StatusOK, matches)
		}
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Match id is required", http.StatusBadRequest)
			return
		}
		match, err := s.Store.GetMatch(id)
		if err != nil {
			respondWithError(w, "Failed to get match", err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

// StartMatchHandler records a match in progress without touching aggregates.
func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub processor.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		match, err := s.Processor.StartMatch(sub)
		if err != nil {
			respondWithError(w, "Failed to start match", err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) CompleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Match id is required", http.StatusBadRequest)
			return
		}
		result, err := s.Processor.CompleteMatch(id)
		if err != nil {
			respondWithError(w, "Failed to complete match", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Match id is required", http.StatusBadRequest)
			return
		}
		match, err := s.Processor.CancelMatch(id)
		if err != nil {
			respondWithError(w, "Failed to cancel match", err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

// LeaderboardHandler serves the current tournament leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers("", "")
		if err != nil {
			respondWithError(w, "Failed to get players", err)
			return
		}

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil {
				limit = parsed
			}
		}
		writeJSON(w, http.StatusOK, league.BuildLeaderboard(players, limit))
	}
}

// TournamentStats is the aggregate tournament summary served by
// /tournament-stats.
type TournamentStats struct {
	TotalPlayers     int                               `json:"total_players"`
	ActivePlayers    int                               `json:"active_players"`
	CompletedMatches int                               `json:"completed_matches"`
	Leader           *league.LeaderboardEntry          `json:"leader,omitempty"`
	BestPerformers   map[league.Category]BestPerformer `json:"best_performers"`
	BestWinRate      *BestWinRate                      `json:"best_win_rate,omitempty"`
	RecentMatches    []*league.Match                   `json:"recent_matches"`
}

// BestPerformer is the player with the highest average in one category.
type BestPerformer struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Average    float64 `json:"average"`
}

// BestWinRate is the highest win rate among players with at least 3 matches.
type BestWinRate struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	WinRate    float64 `json:"win_rate"`
	Matches    int     `json:"matches"`
}

func (s *Server) TournamentStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers("", "")
		if err != nil {
			respondWithError(w, "Failed to get players", err)
			return
		}
		completed, err := s.Store.CountCompletedMatches()
		if err != nil {
			respondWithError(w, "Failed to count matches", err)
			return
		}
		recent, err := s.Store.RecentMatches(5)
		if err != nil {
			respondWithError(w, "Failed to get recent matches", err)
			return
		}

		stats := TournamentStats{
			TotalPlayers:     len(players),
			CompletedMatches: completed,
			BestPerformers:   make(map[league.Category]BestPerformer),
			RecentMatches:    recent,
		}
		for _, p := range players {
			if p.Status == league.StatusActive {
				stats.ActivePlayers++
			}
			for _, c := range league.Categories() {
				stat := p.CategoryStats.Get(c)
				if stat.Matches == 0 {
					continue
				}
				if best, ok := stats.BestPerformers[c]; !ok || stat.Average > best.Average {
					stats.BestPerformers[c] = BestPerformer{PlayerID: p.ID, PlayerName: p.Name, Average: stat.Average}
				}
			}
			if p.Matches >= 3 {
				if stats.BestWinRate == nil || p.WinRate() > stats.BestWinRate.WinRate {
					stats.BestWinRate = &BestWinRate{PlayerID: p.ID, PlayerName: p.Name, WinRate: p.WinRate(), Matches: p.Matches}
				}
			}
		}
		if leaderboard := league.BuildLeaderboard(players, 1); len(leaderboard) > 0 {
			stats.Leader = &leaderboard[0]
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// SimulateMatchHandler runs a randomized match through the full pipeline.
// Players are passed as a comma-separated 'players' query parameter.
func (s *Server) SimulateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playersParam := r.URL.Query().Get("players")
		if playersParam == "" {
			http.Error(w, "Players parameter is required", http.StatusBadRequest)
			return
		}
		playerIDs := strings.Split(playersParam, ",")

		result, err := s.Processor.SimulateMatch(playerIDs, r.URL.Query().Get("map"))
		if err != nil {
			respondWithError(w, "Failed to simulate match", err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

// leaderboardNotifySize is how many entries the Slack leaderboard shows.
const leaderboardNotifySize = 10

// LeaderboardTrigger is the payload carried on the notify-leaderboard topic.
type LeaderboardTrigger struct {
	Limit  int  `json:"limit" msgpack:"limit"`
	DryRun bool `json:"dry_run" msgpack:"dry_run"`
}

// NotifyLeaderboardHandler queues a leaderboard notification on the
// notify-leaderboard topic. Without a Pub/Sub client it posts to Slack
// directly.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		if s.pubsub != nil {
			trigger := LeaderboardTrigger{Limit: leaderboardNotifySize, DryRun: isDryRun}
			if err := s.pubsub.SendMessage(pubsub.EventNotifyLeaders, trigger); err != nil {
				respondWithError(w, "Failed to queue leaderboard notification", err)
				return
			}
			w.Write([]byte("queued"))
			return
		}

		if err := s.sendLeaderboard(leaderboardNotifySize, isDryRun); err != nil {
			respondWithError(w, "Failed to send leaderboard", err)
			return
		}
		w.Write([]byte("OK"))
	}
}

// NotifyLeadersHandler consumes the Pub/Sub push for the notify-leaderboard
// topic and posts the standings to Slack.
func (s *Server) NotifyLeadersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		rawData, err := pushPayload(bodyBytes)
		if err != nil {
			log.Error("Failed to decode push envelope", "error", err)
			http.Error(w, "Invalid push envelope", http.StatusBadRequest)
			return
		}
		trigger := LeaderboardTrigger{}
		if err := s.pubsub.ProcessMessage(rawData, &trigger); err != nil {
			log.Error("Failed to decode leaderboard trigger", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if trigger.Limit <= 0 {
			trigger.Limit = leaderboardNotifySize
		}
		if err := s.sendLeaderboard(trigger.Limit, trigger.DryRun || isDryRunFromContext(r)); err != nil {
			respondWithError(w, "Failed to send leaderboard", err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) sendLeaderboard(limit int, dryRun bool) error {
	players, err := s.Store.ListPlayers("", "")
	if err != nil {
		return err
	}
	return s.Notifier.SendLeaderboard(league.BuildLeaderboard(players, limit), dryRun)
}

// MatchRecordedHandler consumes the Pub/Sub push for a recorded match and
// triggers the Slack result notification.
func (s *Server) MatchRecordedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match recorded message", "body", string(bodyBytes))
		rawData, err := pushPayload(bodyBytes)
		if err != nil {
			log.Error("Failed to decode push envelope", "error", err)
			http.Error(w, "Invalid push envelope", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		match := league.Match{}
		if err := s.pubsub.ProcessMessage(rawData, &match); err != nil {
			log.Error("Failed to decode match payload", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Processor.HandleMatchRecorded(&match, isDryRun); err != nil {
			log.Error("Failed to notify match result", "error", err)
			http.Error(w, "Failed to notify match result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// pushPayload unwraps a Pub/Sub push envelope and returns the raw
// MessagePack message bytes from its base64 `data` field.
func pushPayload(body []byte) ([]byte, error) {
	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &pubsubMsg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wrapper JSON: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return rawData, nil
}

// writeJSON is a helper to encode a JSON response with a status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondWithError maps domain errors onto HTTP status codes.
func respondWithError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case league.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, league.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, league.ErrConflict):
		status = http.StatusConflict
	}
	log.Error(msg, "error", err)
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}
