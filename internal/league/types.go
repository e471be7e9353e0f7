package league

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Category is one of the four per-match performance measures. Modelling the
// set as a closed enum keeps missing-key states unrepresentable.
type Category string

const (
	CategoryMilitary   Category = "military"
	CategoryEconomy    Category = "economy"
	CategoryTechnology Category = "technology"
	CategorySociety    Category = "society"
)

// Categories returns the fixed category set in canonical order.
func Categories() [4]Category {
	return [4]Category{CategoryMilitary, CategoryEconomy, CategoryTechnology, CategorySociety}
}

// Scores holds one player's four category scores for a single match.
type Scores struct {
	Military   int `json:"military"`
	Economy    int `json:"economy"`
	Technology int `json:"technology"`
	Society    int `json:"society"`
}

// Total is the player's total score for the match.
func (s Scores) Total() int {
	return s.Military + s.Economy + s.Technology + s.Society
}

// Get returns the score for a single category.
func (s Scores) Get(c Category) int {
	switch c {
	case CategoryMilitary:
		return s.Military
	case CategoryEconomy:
		return s.Economy
	case CategoryTechnology:
		return s.Technology
	case CategorySociety:
		return s.Society
	}
	return 0
}

// CategoryStat is a player's running aggregate for a single category.
// Matches == 0 means the stat has never been fed a score, so Best and Worst
// carry no meaning until then. No zero sentinel.
type CategoryStat struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	Matches int     `json:"matches"`
	Best    int     `json:"best"`
	Worst   int     `json:"worst"`
}

// CategoryStats maps the closed category set to per-category aggregates.
type CategoryStats struct {
	Military   CategoryStat `json:"military"`
	Economy    CategoryStat `json:"economy"`
	Technology CategoryStat `json:"technology"`
	Society    CategoryStat `json:"society"`
}

func (cs *CategoryStats) stat(c Category) *CategoryStat {
	switch c {
	case CategoryMilitary:
		return &cs.Military
	case CategoryEconomy:
		return &cs.Economy
	case CategoryTechnology:
		return &cs.Technology
	case CategorySociety:
		return &cs.Society
	}
	return nil
}

// Get returns a copy of the aggregate for a single category.
func (cs *CategoryStats) Get(c Category) CategoryStat {
	if s := cs.stat(c); s != nil {
		return *s
	}
	return CategoryStat{}
}

// Result is a player's outcome in one match.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// HistoryEntry is an immutable snapshot of one match from one player's
// perspective. Later changes to the match or the opponents never propagate
// back into a recorded entry.
type HistoryEntry struct {
	MatchID      string    `json:"match_id"`
	Date         time.Time `json:"date"`
	MapName      string    `json:"map_name"`
	Duration     string    `json:"duration"`
	Opponent     string    `json:"opponent"`
	Result       Result    `json:"result"`
	Position     int       `json:"position"`
	TotalPlayers int       `json:"total_players"`
	Scores       Scores    `json:"scores"`
	TotalScore   int       `json:"total_score"`
}

// PlayerStatus is the roster state of a player.
type PlayerStatus string

const (
	StatusActive    PlayerStatus = "active"
	StatusInactive  PlayerStatus = "inactive"
	StatusSuspended PlayerStatus = "suspended"
)

// Player is a durable aggregate record, mutated once per completed match the
// player participated in.
type Player struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Avatar               string         `json:"avatar"`
	Status               PlayerStatus   `json:"status"`
	FavoriteStrategy     string         `json:"favorite_strategy"`
	FavoriteCivilization string         `json:"favorite_civilization"`
	JoinDate             time.Time      `json:"join_date"`
	LastActive           time.Time      `json:"last_active"`
	Matches              int            `json:"matches"`
	Wins                 int            `json:"wins"`
	Losses               int            `json:"losses"`
	Draws                int            `json:"draws"`
	Points               int            `json:"points"`
	CategoryStats        CategoryStats  `json:"category_stats"`
	MatchHistory         []HistoryEntry `json:"match_history"`

	// Version backs the conditional write in SavePlayer. It is managed by the
	// store and must not be touched by callers.
	Version int64 `json:"-"`
}

// MatchStatus is the lifecycle state of a match. Completed and cancelled are
// terminal.
type MatchStatus string

const (
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCancelled  MatchStatus = "cancelled"
)

// GameMode mirrors the modes the community actually plays.
type GameMode string

const (
	ModeFFA  GameMode = "FFA"
	ModeTeam GameMode = "Team"
	ModeDuel GameMode = "1v1"
)

// MatchPlayer is one participant's line in a match record.
type MatchPlayer struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Scores     Scores `json:"scores"`
	TotalScore int    `json:"total_score"`
	Position   int    `json:"position"`
	Points     int    `json:"points"`
}

// Match is one recorded match.
type Match struct {
	ID              string        `json:"id"`
	Date            time.Time     `json:"date"`
	Duration        string        `json:"duration"`
	MapName         string        `json:"map_name"`
	GameMode        GameMode      `json:"game_mode"`
	Status          MatchStatus   `json:"status"`
	Winner          string        `json:"winner"`
	Notes           string        `json:"notes"`
	TournamentPhase string        `json:"tournament_phase"`
	Players         []MatchPlayer `json:"players"`
	StatsApplied    bool          `json:"stats_applied"`
	CreatedAt       time.Time     `json:"created_at"`
}

// MatchFilter narrows ListMatches.
type MatchFilter struct {
	Status   MatchStatus
	PlayerID string
	Limit    int
	Offset   int
}
