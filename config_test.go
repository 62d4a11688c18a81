package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv keeps the caller's environment out of the config under test.
func clearEnv(t *testing.T) {
	for _, k := range []string{"ACCESS_TOKEN", "ELOBOT_CHANNEL", "ELOBOT_NAME", "ELOBOT_METRICS_ADDRESS", "ELOBOT_MIN_STREAK_LENGTH", "ELOBOT_UNIQUE_PENDING"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(body), 0600))
	return filename
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database)
	assert.Equal(t, "elo.db", cfg.Filename)
	assert.Equal(t, 3, cfg.MinStreakLength)
	assert.Equal(t, 25, cfg.LeaderboardLimit)
	assert.False(t, cfg.UniquePending)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	filename := writeConfig(t, `
slack_token: xoxb-file
channel: pingpong
bot_name: Ponger
database: boltdb
filename: ladder.db
min_streak_length: 5
unique_pending: true
metrics_address: ":9090"
`)

	cfg, err := loadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, Config{
		SlackToken:        "xoxb-file",
		Channel:           "pingpong",
		BotName:           "Ponger",
		Database:          "boltdb",
		Filename:          "ladder.db",
		MinStreakLength:   5,
		LeaderboardLimit:  25,
		UniquePending:     true,
		MetricsAddress:    ":9090",
		MessagesPerSecond: 1,
	}, cfg)
	assert.NoError(t, cfg.validate())
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearEnv(t)
	filename := writeConfig(t, "slack_token: xoxb-file\nchannel: pingpong\n")

	t.Setenv("ACCESS_TOKEN", "xoxb-env")
	t.Setenv("ELOBOT_MIN_STREAK_LENGTH", "4")
	t.Setenv("ELOBOT_UNIQUE_PENDING", "true")

	cfg, err := loadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, "xoxb-env", cfg.SlackToken)
	assert.Equal(t, "pingpong", cfg.Channel)
	assert.Equal(t, 4, cfg.MinStreakLength)
	assert.True(t, cfg.UniquePending)
}

func TestLoadConfigErrors(t *testing.T) {
	clearEnv(t)
	_, err := loadConfig(writeConfig(t, "min_streak_length: [nope"))
	assert.Error(t, err)

	t.Setenv("ELOBOT_MIN_STREAK_LENGTH", "lots")
	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := defaultConfig()
	assert.Error(t, cfg.validate())

	cfg.SlackToken = "xoxb"
	assert.Error(t, cfg.validate())

	cfg.Channel = "pingpong"
	assert.NoError(t, cfg.validate())
}
