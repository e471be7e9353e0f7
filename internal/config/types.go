package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Scoring       ScoringConfig
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// ScoringConfig bounds the per-category scores accepted in a submission and
// caps the per-player match history length.
type ScoringConfig struct {
	MinScore     int
	MaxScore     int
	HistoryLimit int
}
