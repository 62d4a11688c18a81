package main

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	signUpRegex      = regexp.MustCompile(`(?i)^sign me up\b`)
	reportRegex      = regexp.MustCompile(`(?i)^I crushed <@([A-Za-z0-9]+)(?:\|[^>]*)?>((?:\s+\d+\s*-\s*\d+)+)`)
	gameRegex        = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	confirmAllRegex  = regexp.MustCompile(`(?i)^confirm all\b`)
	confirmRegex     = regexp.MustCompile(`(?i)^confirm (\d+)`)
	deleteRegex      = regexp.MustCompile(`(?i)^delete (\d+)`)
	leaderboardRegex = regexp.MustCompile(`(?i)^print leaderboard\b`)
	unconfirmedRegex = regexp.MustCompile(`(?i)^print unconfirmed\b`)
	helpRegex        = regexp.MustCompile(`(?i)^(?:<@[A-Za-z0-9]+(?:\|[^>]*)?>:?\s*)?help\b`)
)

// command is a parsed chat message. runCommand switches on its concrete type.
type command interface {
	isCommand()
}

type signUpCommand struct{}

type reportCommand struct {
	Loser string
	Games []Game
}

type confirmCommand struct{ ID int64 }

type confirmAllCommand struct{}

type deleteCommand struct{ ID int64 }

type leaderboardCommand struct{}

type unconfirmedCommand struct{}

type helpCommand struct{}

func (signUpCommand) isCommand()      {}
func (reportCommand) isCommand()      {}
func (confirmCommand) isCommand()     {}
func (confirmAllCommand) isCommand()  {}
func (deleteCommand) isCommand()      {}
func (leaderboardCommand) isCommand() {}
func (unconfirmedCommand) isCommand() {}
func (helpCommand) isCommand()        {}

type commands map[string]string

var cmds = commands{
	"Sign me up":              "join the ladder",
	"I crushed @someone 11-5": "report that you beat @someone, add more scores for more games",
	"Confirm <id>":            "confirm a match you lost",
	"Confirm all":             "confirm every match you lost",
	"Delete <id>":             "delete a pending match you reported",
	"Print leaderboard":       "show the ratings",
	"Print unconfirmed":       "show matches waiting for confirmation",
	"help":                    "a list of available commands",
}

func (c commands) Print() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmds := "Available commands\n"
	for _, k := range keys {
		cmds += fmt.Sprintf("%q - %v\n", k, c[k])
	}

	return cmds
}

// parseCommand recognises a command at the start of text, or returns nil.
func parseCommand(text string) command {
	text = strings.TrimSpace(text)

	switch {
	case signUpRegex.MatchString(text):
		return signUpCommand{}
	case confirmAllRegex.MatchString(text):
		return confirmAllCommand{}
	case leaderboardRegex.MatchString(text):
		return leaderboardCommand{}
	case unconfirmedRegex.MatchString(text):
		return unconfirmedCommand{}
	case helpRegex.MatchString(text):
		return helpCommand{}
	}

	if v := reportRegex.FindStringSubmatch(text); v != nil {
		return parseReport(v[1], v[2])
	}

	if v := confirmRegex.FindStringSubmatch(text); v != nil {
		if id, err := strconv.ParseInt(v[1], 10, 64); err == nil {
			return confirmCommand{ID: id}
		}
	}

	if v := deleteRegex.FindStringSubmatch(text); v != nil {
		if id, err := strconv.ParseInt(v[1], 10, 64); err == nil {
			return deleteCommand{ID: id}
		}
	}

	return nil
}

func parseReport(loser, scores string) command {
	var games []Game
	for _, s := range gameRegex.FindAllStringSubmatch(scores, -1) {
		w, werr := strconv.Atoi(s[1])
		l, lerr := strconv.Atoi(s[2])
		if werr != nil || lerr != nil {
			return nil
		}
		games = append(games, Game{WinnerScore: w, LoserScore: l})
	}

	return reportCommand{Loser: loser, Games: games}
}
