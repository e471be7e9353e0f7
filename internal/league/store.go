package league

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// NormalizeID lowercases and trims a player identifier. Every lookup and
// write goes through this, so "Stokker " and "stokker" are the same player.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func (s *store) CreatePlayer(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = NormalizeID(p.ID)
	if p.ID == "" {
		return Validationf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("player name is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	now := time.Now()
	if p.JoinDate.IsZero() {
		p.JoinDate = now
	}
	if p.LastActive.IsZero() {
		p.LastActive = now
	}

	var existing int
	err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE id = ? OR name = ?", p.ID, p.Name).Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to check for existing player: %w", err)
	}
	if existing > 0 {
		return Validationf("player %q already exists", p.ID)
	}

	statsJSON, err := json.Marshal(p.CategoryStats)
	if err != nil {
		return fmt.Errorf("failed to marshal category stats: %w", err)
	}
	historyJSON, err := json.Marshal(historyOrEmpty(p.MatchHistory))
	if err != nil {
		return fmt.Errorf("failed to marshal match history: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO players (id, name, avatar, status, favorite_strategy, favorite_civilization, join_date, last_active, matches, wins, losses, draws, points, category_stats_json, match_history_json, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		p.ID, p.Name, p.Avatar, p.Status, p.FavoriteStrategy, p.FavoriteCivilization,
		p.JoinDate.Unix(), p.LastActive.Unix(),
		p.Matches, p.Wins, p.Losses, p.Draws, p.Points,
		string(statsJSON), string(historyJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	p.Version = 0
	return nil
}

func (s *store) GetPlayer(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, avatar, status, favorite_strategy, favorite_civilization, join_date, last_active, matches, wins, losses, draws, points, category_stats_json, match_history_json, version
		FROM players WHERE id = ?`, NormalizeID(id))
	return s.scanPlayer(row)
}

func (s *store) ListPlayers(status PlayerStatus, search string) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, avatar, status, favorite_strategy, favorite_civilization, join_date, last_active, matches, wins, losses, draws, points, category_stats_json, match_history_json, version
		FROM players`
	var clauses []string
	var args []any
	if status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		clauses = append(clauses, "(name LIKE ? OR favorite_strategy LIKE ? OR favorite_civilization LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY points DESC, wins DESC, matches ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p, err := s.scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) UpdatePlayerProfile(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE players SET name = ?, avatar = ?, status = ?, favorite_strategy = ?, favorite_civilization = ?
		WHERE id = ?`,
		p.Name, p.Avatar, p.Status, p.FavoriteStrategy, p.FavoriteCivilization, NormalizeID(p.ID))
	if err != nil {
		return fmt.Errorf("failed to update player profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("player %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *store) RemovePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", NormalizeID(id))
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return nil
}

// SavePlayer writes the aggregate fields of a player record. The WHERE clause
// pins the version read by the caller, so two concurrent load-mutate-save
// cycles for the same player cannot silently overwrite each other.
func (s *store) SavePlayer(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	statsJSON, err := json.Marshal(p.CategoryStats)
	if err != nil {
		return fmt.Errorf("failed to marshal category stats: %w", err)
	}
	historyJSON, err := json.Marshal(historyOrEmpty(p.MatchHistory))
	if err != nil {
		return fmt.Errorf("failed to marshal match history: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE players
		SET matches = ?, wins = ?, losses = ?, draws = ?, points = ?,
		    category_stats_json = ?, match_history_json = ?, last_active = ?,
		    version = version + 1
		WHERE id = ? AND version = ?`,
		p.Matches, p.Wins, p.Losses, p.Draws, p.Points,
		string(statsJSON), string(historyJSON), p.LastActive.Unix(),
		p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE id = ?", p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check player existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("player %s: %w", p.ID, ErrNotFound)
		}
		return fmt.Errorf("player %s: %w", p.ID, ErrConflict)
	}
	p.Version++
	return nil
}

func (s *store) CreateMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		return Validationf("match id is required")
	}
	if m.GameMode == "" {
		m.GameMode = ModeFFA
	}
	if m.Status == "" {
		m.Status = MatchCompleted
	}
	if m.TournamentPhase == "" {
		m.TournamentPhase = "regular_season"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	var existing int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE id = ?", m.ID).Scan(&existing); err != nil {
		return fmt.Errorf("failed to check for existing match: %w", err)
	}
	if existing > 0 {
		return Validationf("match %q already exists", m.ID)
	}

	playersJSON, err := json.Marshal(m.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal match players: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO matches (id, date, duration, map_name, game_mode, status, winner, notes, tournament_phase, players_json, stats_applied, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Date.Unix(), m.Duration, m.MapName, m.GameMode, m.Status,
		m.Winner, m.Notes, m.TournamentPhase, string(playersJSON),
		boolToInt(m.StatsApplied), m.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (s *store) GetMatch(id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, date, duration, map_name, game_mode, status, winner, notes, tournament_phase, players_json, stats_applied, created_at
		FROM matches WHERE id = ?`, id)
	return s.scanMatch(row)
}

func (s *store) ListMatches(filter MatchFilter) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, duration, map_name, game_mode, status, winner, notes, tournament_phase, players_json, stats_applied, created_at
		FROM matches`
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.PlayerID != "" {
		conds = append(conds, "players_json LIKE ?")
		args = append(args, `%"player_id":"`+NormalizeID(filter.PlayerID)+`"%`)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		if filter.PlayerID != "" && !matchHasPlayer(m, filter.PlayerID) {
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) UpdateMatchStatus(matchID string, status MatchStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET status = ? WHERE id = ?", status, matchID)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

func (s *store) SetMatchWinner(matchID string, winner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET winner = ? WHERE id = ?", winner, matchID)
	if err != nil {
		return fmt.Errorf("failed to set match winner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

// MarkStatsApplied flips the aggregation guard exactly once. The conditional
// update is what guarantees a completed match is folded into player records
// a single time even if two submissions race.
func (s *store) MarkStatsApplied(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET stats_applied = 1 WHERE id = ? AND stats_applied = 0", matchID)
	if err != nil {
		return fmt.Errorf("failed to mark stats applied: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE id = ?", matchID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check match existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
		}
		return fmt.Errorf("match %s stats already applied: %w", matchID, ErrConflict)
	}
	return nil
}

func (s *store) RecentMatches(limit int) ([]*Match, error) {
	return s.ListMatches(MatchFilter{Status: MatchCompleted, Limit: limit})
}

func (s *store) CountCompletedMatches() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE status = ?", MatchCompleted).Scan(&count)
	return count, err
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		log.Error("Failed to clear matches", "error", err)
	}
	if _, err := s.db.Exec("DELETE FROM players"); err != nil {
		log.Error("Failed to clear players", "error", err)
	}
}

// scanPlayer is a helper to scan a single player row.
func (s *store) scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var statsJSON, historyJSON string
	var joinDate, lastActive int64

	err := scanner.Scan(
		&p.ID, &p.Name, &p.Avatar, &p.Status, &p.FavoriteStrategy, &p.FavoriteCivilization,
		&joinDate, &lastActive,
		&p.Matches, &p.Wins, &p.Losses, &p.Draws, &p.Points,
		&statsJSON, &historyJSON, &p.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	p.JoinDate = time.Unix(joinDate, 0)
	p.LastActive = time.Unix(lastActive, 0)
	if err := json.Unmarshal([]byte(statsJSON), &p.CategoryStats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category stats: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &p.MatchHistory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match history: %w", err)
	}
	return &p, nil
}

// scanMatch is a helper to scan a single match row.
func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var playersJSON string
	var date, createdAt int64
	var statsApplied int

	err := scanner.Scan(
		&m.ID, &date, &m.Duration, &m.MapName, &m.GameMode, &m.Status,
		&m.Winner, &m.Notes, &m.TournamentPhase, &playersJSON, &statsApplied, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	m.Date = time.Unix(date, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	m.StatsApplied = statsApplied != 0
	if err := json.Unmarshal([]byte(playersJSON), &m.Players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match players: %w", err)
	}
	return &m, nil
}

func matchHasPlayer(m *Match, playerID string) bool {
	id := NormalizeID(playerID)
	for _, mp := range m.Players {
		if mp.PlayerID == id {
			return true
		}
	}
	return false
}

func historyOrEmpty(history []HistoryEntry) []HistoryEntry {
	if history == nil {
		return []HistoryEntry{}
	}
	return history
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
