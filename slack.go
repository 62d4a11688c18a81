package main

import (
	"context"

	"github.com/nlopes/slack"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// poster is the part of the slack client the notifier needs. Both *slack.RTM
// and *slack.Client satisfy it.
type poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// slackNotifier posts as the bot user itself, so Slack shows the app's own
// name and ignores any username override.
type slackNotifier struct {
	api     poster
	channel string
	limiter *rate.Limiter
}

func newSlackNotifier(api poster, channel string, perSecond float64) *slackNotifier {
	if perSecond <= 0 {
		perSecond = 1
	}

	return &slackNotifier{
		api:     api,
		channel: channel,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 5),
	}
}

func (s *slackNotifier) talk(text string) error {
	var err error
	for i := 0; i < 5; i++ {
		if err = s.limiter.Wait(context.Background()); err != nil {
			break
		}

		_, _, err = s.api.PostMessage(s.channel,
			slack.MsgOptionText(text, false),
			slack.MsgOptionAsUser(true),
		)
		if err == nil {
			break
		}
		Debugf("post attempt %d failed: %v", i+1, err)
	}

	return errors.Wrap(err, "unable to send message")
}

// channelID resolves a channel, given by name or id, to its id.
func channelID(api *slack.Client, name string) (string, error) {
	params := &slack.GetConversationsParameters{
		Types: []string{"public_channel", "private_channel"},
		Limit: 200,
	}

	for {
		channels, cursor, err := api.GetConversations(params)
		if err != nil {
			return "", errors.Wrap(err, "unable to list channels")
		}

		for _, ch := range channels {
			if ch.Name == name || ch.ID == name {
				return ch.ID, nil
			}
		}

		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	return "", errors.Wrapf(errNotFound{}, "unable to find channel %s", name)
}
