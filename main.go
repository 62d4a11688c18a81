package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nlopes/slack"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type options struct {
	config   string
	debug    bool
	database string
	filename string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts options
		cfg  Config
	)

	rootCmd := &cobra.Command{
		Use:   "elobot",
		Short: "Slack bot that keeps Elo ratings for one channel",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setLogger(os.Stderr, opts.debug)

			var err error
			if cfg, err = loadConfig(opts.config); err != nil {
				return err
			}
			if opts.database != "" {
				cfg.Database = opts.database
			}
			if opts.filename != "" {
				cfg.Filename = opts.filename
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runBot(ctx, cfg)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debugging")
	rootCmd.PersistentFlags().StringVar(&opts.database, "database", "", "[sqlite, boltdb]")
	rootCmd.PersistentFlags().StringVar(&opts.filename, "filename", "", "filename for file based databases")

	rootCmd.AddCommand(newTransferCmd(&cfg))
	rootCmd.AddCommand(newLeaderboardCmd(&cfg))

	return rootCmd
}

func newLeaderboardCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Rebuild the ratings from the database and print the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cfg.Database, cfg.Filename, ledgerOptions{})
			if err != nil {
				return err
			}
			defer db.Close()

			ladder, err := NewLadder(db, nil)
			if err != nil {
				return err
			}

			board, err := ladder.Leaderboard(cfg.LeaderboardLimit, cfg.MinStreakLength)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatLeaderboard(board))
			return err
		},
	}
}

func runBot(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	db, err := openDatabase(cfg.Database, cfg.Filename, ledgerOptions{uniquePending: cfg.UniquePending})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("%+v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	if cfg.MetricsAddress != "" {
		go func() {
			if err := serveMetrics(cfg.MetricsAddress, reg); err != nil {
				log.Printf("%+v", err)
			}
		}()
	}

	ladder, err := NewLadder(db, m)
	if err != nil {
		return err
	}

	api := slack.New(cfg.SlackToken)
	auth, err := api.AuthTest()
	if err != nil {
		return errors.Wrap(err, "unable to authenticate with slack")
	}
	botID := auth.UserID

	channel, err := channelID(api, cfg.Channel)
	if err != nil {
		return err
	}

	rtm := api.NewRTM()
	go rtm.ManageConnection()
	defer rtm.Disconnect()

	out := newSlackNotifier(rtm, channel, cfg.MessagesPerSecond)
	b := &bot{
		ladder:    ladder,
		out:       out,
		limit:     cfg.LeaderboardLimit,
		minStreak: cfg.MinStreakLength,
	}

	slog.Info("started", "bot", os.Args[0], "database", cfg.Database, "channel", channel)
	if err := out.talk(cfg.BotName + " online!"); err != nil {
		log.Printf("%+v", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case e := <-rtm.IncomingEvents:
			switch evt := e.Data.(type) {
			case *slack.MessageEvent:
				if evt.Channel != channel || evt.BotID != "" || evt.User == botID {
					continue
				}

				cmd := parseCommand(evt.Text)
				if cmd == nil {
					continue
				}

				Debugf("%s: %#v", evt.User, cmd)
				if err := b.runCommand(evt.User, cmd); err != nil {
					log.Printf("%+v", err)
				}
			case *slack.InvalidAuthEvent:
				return errors.New("invalid slack credentials")
			default:
				Debug(e.Type)
			}
		}
	}
}
