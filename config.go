package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SlackToken        string  `yaml:"slack_token"`
	Channel           string  `yaml:"channel"`
	BotName           string  `yaml:"bot_name"`
	Database          string  `yaml:"database"`
	Filename          string  `yaml:"filename"`
	MinStreakLength   int     `yaml:"min_streak_length"`
	LeaderboardLimit  int     `yaml:"leaderboard_limit"`
	UniquePending     bool    `yaml:"unique_pending"`
	MetricsAddress    string  `yaml:"metrics_address"`
	MessagesPerSecond float64 `yaml:"messages_per_second"`
}

func defaultConfig() Config {
	return Config{
		BotName:           "elobot",
		Database:          "sqlite",
		Filename:          "elo.db",
		MinStreakLength:   3,
		LeaderboardLimit:  defaultLimit,
		MessagesPerSecond: 1,
	}
}

// loadConfig reads filename if it exists, then lets the environment (and a
// .env file beside the bot) override it.
func loadConfig(filename string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "unable to parse %s", filename)
		}
	case !os.IsNotExist(err):
		return cfg, errors.Wrapf(err, "unable to read %s", filename)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, errors.Wrap(err, "unable to load .env")
	}

	if err := cfg.fromEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) fromEnv() error {
	if t := os.Getenv("ACCESS_TOKEN"); t != "" {
		c.SlackToken = t
	}
	if ch := os.Getenv("ELOBOT_CHANNEL"); ch != "" {
		c.Channel = ch
	}
	if n := os.Getenv("ELOBOT_NAME"); n != "" {
		c.BotName = n
	}
	if a := os.Getenv("ELOBOT_METRICS_ADDRESS"); a != "" {
		c.MetricsAddress = a
	}
	if s := os.Getenv("ELOBOT_MIN_STREAK_LENGTH"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrap(err, "invalid ELOBOT_MIN_STREAK_LENGTH")
		}
		c.MinStreakLength = n
	}
	if u := os.Getenv("ELOBOT_UNIQUE_PENDING"); u != "" {
		b, err := strconv.ParseBool(u)
		if err != nil {
			return errors.Wrap(err, "invalid ELOBOT_UNIQUE_PENDING")
		}
		c.UniquePending = b
	}

	return nil
}

func (c Config) validate() error {
	if c.SlackToken == "" {
		return errors.New("no slack token, set slack_token or ACCESS_TOKEN")
	}
	if c.Channel == "" {
		return errors.New("no channel configured")
	}

	return nil
}
