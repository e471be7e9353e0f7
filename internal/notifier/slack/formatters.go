package slack

import (
	"fmt"
	"strings"

	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/slack-go/slack"
)

// FormatResultNotification creates the Slack message for a completed match using Block Kit.
func (s *Notifier) FormatResultNotification(match *league.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Match finished! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Map: %s\nDate: %s\nDuration: %s", match.MapName, match.Date.Format("Monday 02 Jan, 15:04"), match.Duration)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Ranking, positions are already 1..N in order.
	var lines []string
	for _, mp := range match.Players {
		var medal string
		switch mp.Position {
		case 1:
			medal = " 🥇"
		case 2:
			medal = " 🥈"
		case 3:
			medal = " 🥉"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s — %d pts (total score %d)", mp.Position, mp.PlayerName, medal, mp.Points, mp.TotalScore))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	if match.Winner != "" {
		winnerText := fmt.Sprintf("🏆 %s takes the match!", match.Winner)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", winnerText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatLeaderboard creates a Slack message to display the league leaderboard.
func (s *Notifier) FormatLeaderboard(entries []league.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 League Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}

		entryText := fmt.Sprintf("%d. %s%s\n> Points: %d | Win %%: %.1f%% (%d/%d) | Avg Score: %.1f",
			entry.Rank,
			medal,
			entry.PlayerName,
			entry.Points,
			entry.WinRate,
			entry.Wins,
			entry.Matches,
			entry.TotalAverage,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", entryText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) FormatPlayerStats(player *league.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", player.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	statsText := fmt.Sprintf("> *Points*: %d\n> *Win %%*: %.1f%% (%d/%d)\n> *Avg Score*: %.1f",
		player.Points,
		player.WinRate(),
		player.Wins,
		player.Matches,
		player.TotalAverage(),
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", statsText, false, false), nil, nil))

	var categoryLines []string
	for _, c := range league.Categories() {
		stat := player.CategoryStats.Get(c)
		if stat.Matches == 0 {
			continue
		}
		categoryLines = append(categoryLines, fmt.Sprintf("> %s: avg %.1f (best %d, worst %d)", c, stat.Average, stat.Best, stat.Worst))
	}
	if len(categoryLines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(categoryLines, "\n"), false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) FormatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	block := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil)
	return slack.NewBlockMessage(block)
}
