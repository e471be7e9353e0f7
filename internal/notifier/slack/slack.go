package slack

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/metrics"
	"github.com/conquest-league/stats-tracker/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", err
	}

	s.metrics.IncSlackNotifSent()
	log.Debug("Sent Slack message", "channel", channelID, "ts", timestamp)
	return channelID, timestamp, nil
}

// SendResultNotification announces a completed match and its ranking.
func (s *Notifier) SendResultNotification(match *league.Match, dryRun bool) (string, error) {
	message := s.FormatResultNotification(match)
	_, ts, err := s.sendMessage(message, dryRun)
	return ts, err
}

// SendLeaderboard posts the current leaderboard to the configured channel.
func (s *Notifier) SendLeaderboard(entries []league.LeaderboardEntry, dryRun bool) error {
	message := s.FormatLeaderboard(entries)
	_, _, err := s.sendMessage(message, dryRun)
	return err
}

// SendPlayerStats posts a single player's aggregate stats.
func (s *Notifier) SendPlayerStats(player *league.Player, query string, dryRun bool) error {
	message := s.FormatPlayerStats(player)
	_, _, err := s.sendMessage(message, dryRun)
	return err
}

// SendPlayerNotFound tells the channel a stats query matched nobody.
func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	message := s.FormatPlayerNotFound(query)
	_, _, err := s.sendMessage(message, dryRun)
	return err
}
