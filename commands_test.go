package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected command
	}{
		{"sign up", "Sign me up", signUpCommand{}},
		{"sign up any case", "sign ME up please", signUpCommand{}},
		{"report", "I crushed <@U2ABC> 11-5", reportCommand{Loser: "U2ABC", Games: []Game{{11, 5}}}},
		{"report with display name", "I crushed <@U2ABC|bob> 21-19", reportCommand{Loser: "U2ABC", Games: []Game{{21, 19}}}},
		{"report several games", "i crushed <@U2ABC> 11-5 11-7, 11 - 9 gg", reportCommand{Loser: "U2ABC", Games: []Game{{11, 5}, {11, 7}}}},
		{"report without score", "I crushed <@U2ABC>", nil},
		{"report mid sentence", "I think I crushed <@U2ABC> 11-5", nil},
		{"confirm", "Confirm 12", confirmCommand{ID: 12}},
		{"confirm lower case", "confirm 7 thanks", confirmCommand{ID: 7}},
		{"confirm all", "Confirm all", confirmAllCommand{}},
		{"confirm nothing", "Confirm it", nil},
		{"delete", "Delete 3", deleteCommand{ID: 3}},
		{"leaderboard", "Print leaderboard", leaderboardCommand{}},
		{"unconfirmed", "print Unconfirmed", unconfirmedCommand{}},
		{"help", "help", helpCommand{}},
		{"help with mention", "<@UBOT>: help", helpCommand{}},
		{"chatter", "good game everyone", nil},
		{"empty", "", nil},
		{"id too large", "Confirm 99999999999999999999", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, parseCommand(test.text))
		})
	}
}

func TestCommandsPrint(t *testing.T) {
	out := cmds.Print()

	assert.Contains(t, out, "Available commands\n")
	for k := range cmds {
		assert.Contains(t, out, k)
	}
	// sorted, so the output is stable
	assert.Equal(t, out, cmds.Print())
}
