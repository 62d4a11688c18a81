package main

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// notifier delivers a message to the channel the bot lives in.
type notifier interface {
	talk(text string) error
}

type bot struct {
	ladder    *Ladder
	out       notifier
	limit     int
	minStreak int
}

func mention(handle string) string {
	return "<@" + handle + ">"
}

func (b *bot) runCommand(user string, cmd command) error {
	switch c := cmd.(type) {
	case signUpCommand:
		return b.signUp(user)
	case reportCommand:
		return b.report(user, c)
	case confirmCommand:
		return b.confirm(user, c.ID)
	case confirmAllCommand:
		return b.confirmAll(user)
	case deleteCommand:
		return b.delete(user, c.ID)
	case leaderboardCommand:
		return b.leaderboard()
	case unconfirmedCommand:
		return b.unconfirmed()
	case helpCommand:
		return b.out.talk(cmds.Print())
	}

	return nil
}

func (b *bot) signUp(user string) error {
	if b.ladder.SignUp(user) {
		return b.out.talk(mention(user) + ": You're all signed up. Good luck!")
	}

	return b.out.talk(mention(user) + ": You're already signed up!")
}

func (b *bot) report(user string, c reportCommand) error {
	for _, r := range b.ladder.Report(user, c.Loser, c.Games) {
		var message string
		if r.Err != nil {
			Debugf("unable to save %d-%d: %+v", r.Game.WinnerScore, r.Game.LoserScore, r.Err)
			message = fmt.Sprintf("Unable to save match %d-%d. %s", r.Game.WinnerScore, r.Game.LoserScore, describe(r.Err))
		} else {
			message = fmt.Sprintf("%s: Please type \"Confirm %d\" to confirm the above match or ignore it if it is incorrect", mention(r.Match.LoserHandle), r.Match.ID)
		}

		if err := b.out.talk(message); err != nil {
			return err
		}
	}

	return nil
}

func (b *bot) announce(c *Confirmation) error {
	if err := b.out.talk(fmt.Sprintf("%s your new ELO is: %v You won %v ELO", mention(c.Winner.Handle), c.Winner.Rating, c.WinnerDelta)); err != nil {
		return err
	}

	return b.out.talk(fmt.Sprintf("%s your new ELO is: %v You lost %v ELO", mention(c.Loser.Handle), c.Loser.Rating, -c.LoserDelta))
}

func (b *bot) confirm(user string, id int64) error {
	c, err := b.ladder.Confirm(user, id)
	if err != nil {
		Debugf("unable to confirm %d: %+v", id, err)
		return b.out.talk(fmt.Sprintf("Unable to confirm %d. %s", id, describe(err)))
	}

	return b.announce(c)
}

func (b *bot) confirmAll(user string) error {
	results, err := b.ladder.ConfirmAll(user)
	if err != nil {
		Debugf("unable to confirm all for %s: %+v", user, err)
		return b.out.talk(mention(user) + ": Unable to confirm your matches. " + describe(err))
	}

	if len(results) == 0 {
		return b.out.talk(mention(user) + ": You have no matches to confirm.")
	}

	for _, r := range results {
		if r.Err != nil {
			Debugf("unable to confirm %d: %+v", r.ID, r.Err)
			if err := b.out.talk(fmt.Sprintf("Unable to confirm %d. %s", r.ID, describe(r.Err))); err != nil {
				return err
			}
			continue
		}

		if err := b.announce(r.Confirmation); err != nil {
			return err
		}
	}

	return nil
}

func (b *bot) delete(user string, id int64) error {
	if err := b.ladder.Delete(user, id); err != nil {
		Debugf("unable to delete %d: %+v", id, err)
		return b.out.talk(fmt.Sprintf("Unable to delete %d. %s", id, describe(err)))
	}

	return b.out.talk(fmt.Sprintf("Deleted match %d.", id))
}

func (b *bot) leaderboard() error {
	board, err := b.ladder.Leaderboard(b.limit, b.minStreak)
	if err != nil {
		Debugf("unable to build leaderboard: %+v", err)
		return b.out.talk("Unable to print the leaderboard. " + describe(err))
	}

	return b.out.talk(formatLeaderboard(board))
}

func (b *bot) unconfirmed() error {
	matches, err := b.ladder.Unconfirmed(b.limit)
	if err != nil {
		Debugf("unable to list unconfirmed matches: %+v", err)
		return b.out.talk("Unable to print unconfirmed matches. " + describe(err))
	}

	return b.out.talk(formatUnconfirmed(matches))
}

// table renders rows under headers as a code block so Slack keeps the columns.
func table(headers []string, rows [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	line := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, c)
		}
		fmt.Fprintln(w)
	}

	line(headers)
	for _, r := range rows {
		line(r)
	}
	w.Flush()

	return "```" + buf.String() + "```"
}

func formatLeaderboard(board []Standing) string {
	rows := make([][]string, 0, len(board))
	for _, s := range board {
		streak := ""
		if s.Streak > 0 {
			streak = fmt.Sprintf("%d in a row", s.Streak)
		}
		rows = append(rows, []string{mention(s.Handle), s.Rating.String(), fmt.Sprint(s.Wins), fmt.Sprint(s.Losses), streak})
	}

	return table([]string{"Name", "ELO", "Wins", "Losses", "Streak"}, rows)
}

func formatUnconfirmed(matches []Match) string {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			fmt.Sprint(m.ID),
			mention(m.WinnerHandle),
			fmt.Sprintf("%d-%d", m.WinnerScore, m.LoserScore),
			mention(m.LoserHandle),
			m.Played.Format("2006-01-02 15:04"),
		})
	}

	return table([]string{"Match", "Winner", "Score", "Loser", "Played"}, rows)
}
