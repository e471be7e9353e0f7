package processor

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/scoring"
)

var simulationMaps = []string{"Arabia", "Arena", "Black Forest", "Nomad", "Islands", "Gold Rush"}

// SimulateMatch generates random scores for the given roster players and runs
// the full submission pipeline on them. Every player must exist.
func (p *Processor) SimulateMatch(playerIDs []string, mapName string) (*SubmitResult, error) {
	if len(playerIDs) < 2 {
		return nil, league.Validationf("a simulated match needs at least 2 players, got %d", len(playerIDs))
	}

	var missing []string
	for _, id := range playerIDs {
		if _, err := p.store.GetPlayer(league.NormalizeID(id)); err != nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, league.Validationf("unknown players: %s", strings.Join(missing, ", "))
	}

	if mapName == "" {
		mapName = simulationMaps[rand.Intn(len(simulationMaps))]
	}

	players := make([]scoring.PlayerScores, 0, len(playerIDs))
	for _, id := range playerIDs {
		players = append(players, scoring.PlayerScores{
			PlayerID: id,
			Scores: league.Scores{
				Military:   randomScore(),
				Economy:    randomScore(),
				Technology: randomScore(),
				Society:    randomScore(),
			},
		})
	}

	sub := Submission{
		Date:     time.Now(),
		Duration: fmt.Sprintf("%d:%02d", 20+rand.Intn(60), rand.Intn(60)),
		MapName:  mapName,
		GameMode: league.ModeFFA,
		Notes:    "Simulated match",
		Players:  players,
	}

	result, err := p.SubmitMatch(sub)
	if err != nil {
		return nil, err
	}
	p.metrics.IncMatchesSimulated()
	log.Info("Simulated match", "match_id", result.Match.ID, "map", mapName, "winner", result.Match.Winner)
	return result, nil
}

// randomScore biases simulations towards competitive games.
func randomScore() int {
	return 60 + rand.Intn(41)
}
