package league

import "time"

// DefaultHistoryLimit caps the per-player match history length.
const DefaultHistoryLimit = 20

// MatchOutcome is one player's slice of a completed match, ready to be folded
// into that player's aggregate record. Display details live in the
// HistoryEntry snapshot instead.
type MatchOutcome struct {
	Date   time.Time
	Scores Scores
	Points int
	Result Result
}

// ApplyMatchOutcome folds one match outcome into the player's aggregate
// record. Exactly one record is mutated per call; the ranking pipeline only
// ever produces win or loss, but a draw leaves both counters untouched.
func (p *Player) ApplyMatchOutcome(o MatchOutcome) {
	p.Matches++
	switch o.Result {
	case ResultWin:
		p.Wins++
	case ResultDraw:
		p.Draws++
	default:
		p.Losses++
	}
	p.Points += o.Points

	for _, c := range Categories() {
		p.CategoryStats.stat(c).apply(o.Scores.Get(c))
	}

	p.LastActive = o.Date
}

// apply feeds one score into a running category aggregate. The average is
// recomputed from the totals every time, so it equals total/matches exactly.
func (cs *CategoryStat) apply(score int) {
	if cs.Matches == 0 {
		cs.Best = score
		cs.Worst = score
	} else {
		if score > cs.Best {
			cs.Best = score
		}
		if score < cs.Worst {
			cs.Worst = score
		}
	}
	cs.Total += score
	cs.Matches++
	cs.Average = float64(cs.Total) / float64(cs.Matches)
}

// AppendHistory prepends a history entry, newest first, and truncates the
// tail beyond limit. A limit of zero falls back to DefaultHistoryLimit.
func (p *Player) AppendHistory(entry HistoryEntry, limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	history := make([]HistoryEntry, 0, len(p.MatchHistory)+1)
	history = append(history, entry)
	history = append(history, p.MatchHistory...)
	if len(history) > limit {
		history = history[:limit]
	}
	p.MatchHistory = history
}

// HistoryEntryFor builds the immutable snapshot recorded for one player.
func HistoryEntryFor(m *Match, mp MatchPlayer, opponent string) HistoryEntry {
	result := ResultLoss
	if mp.Position == 1 {
		result = ResultWin
	}
	return HistoryEntry{
		MatchID:      m.ID,
		Date:         m.Date,
		MapName:      m.MapName,
		Duration:     m.Duration,
		Opponent:     opponent,
		Result:       result,
		Position:     mp.Position,
		TotalPlayers: len(m.Players),
		Scores:       mp.Scores,
		TotalScore:   mp.TotalScore,
	}
}
