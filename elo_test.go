package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankRₙ(t *testing.T) {
	tests := []struct {
		name     string
		r        Rank
		expected float64
	}{{
		"should be 1",
		0,
		1,
	}, {
		"should be 10",
		400,
		10,
	}, {
		"should be 100",
		800,
		100,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.r.rₙ())
		})
	}
}

func TestRankEₙ(t *testing.T) {
	tests := []struct {
		name     string
		r        Rank
		m        float64
		expected float64
	}{{
		"should be 1",
		0,
		0,
		1,
	}, {
		"should also be 1",
		1000,
		0,
		1,
	}, {
		"should be a draw",
		1000,
		Rank(1000).rₙ(),
		0.5,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.r.eₙ(test.m))
		})
	}
}

func TestRankKFactor(t *testing.T) {
	tests := []struct {
		name     string
		r        Rank
		expected float64
	}{
		{"newcomer", 1500, 32},
		{"just under 2100", 2099.999, 32},
		{"exactly 2100", 2100, 24},
		{"just under 2400", 2399.999, 24},
		{"exactly 2400", 2400, 24},
		{"just over 2400", 2400.001, 16},
		{"master", 2700, 16},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.r.kFactor())
		})
	}
}

func TestRankWon(t *testing.T) {
	tests := []struct {
		name     string
		r        Rank
		m        Rank
		expected Rank
	}{{
		"should be 1016",
		1000,
		1000,
		1016,
	}, {
		"should be 1032",
		1000,
		2000,
		1032,
	}, {
		"should be 1112",
		1100,
		1000,
		1112,
	}, {
		"should be 2000",
		2000,
		1000,
		2000,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.r.won(test.m, 32))
		})
	}
}

func TestRankLost(t *testing.T) {
	tests := []struct {
		name     string
		r        Rank
		m        Rank
		expected Rank
	}{{
		"should be 984",
		1000,
		1000,
		984,
	}, {
		"should be 1000",
		1000,
		2000,
		1000,
	}, {
		"should be 1080",
		1100,
		1000,
		1080,
	}, {
		"should be 1968",
		2000,
		1000,
		1968,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.r.lost(test.m, 32))
		})
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		winner   Rank
		loser    Rank
		expected outcome
	}{{
		"two newcomers",
		1500,
		1500,
		outcome{Winner: 1516, Loser: 1484, WinnerDelta: 16, LoserDelta: -16},
	}, {
		"two experts",
		2200,
		2200,
		outcome{Winner: 2212, Loser: 2188, WinnerDelta: 12, LoserDelta: -12},
	}, {
		"two masters",
		2500,
		2500,
		outcome{Winner: 2508, Loser: 2492, WinnerDelta: 8, LoserDelta: -8},
	}, {
		"master beats newcomer",
		2450,
		2050,
		outcome{Winner: 2451, Loser: 2047, WinnerDelta: 1, LoserDelta: -3},
	}, {
		"upset",
		1500,
		1900,
		outcome{Winner: 1529, Loser: 1871, WinnerDelta: 29, LoserDelta: -29},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := rank(test.winner, test.loser, test.winner.kFactor(), test.loser.kFactor())
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestRankSymmetry(t *testing.T) {
	for a := Rank(1000); a <= 2800; a += 100 {
		for b := Rank(1000); b <= 2800; b += 100 {
			assert.InDelta(t, 1, a.eₙ(b.rₙ())+b.eₙ(a.rₙ()), 1e-9)

			ab := rank(a, b, 32, 32)
			ba := rank(b, a, 32, 32)

			// equal K means whatever the winner gains the loser gives up
			assert.Equal(t, ab.WinnerDelta, -ab.LoserDelta, "%v beats %v", a, b)
			// relabelling swaps the expectations, so the two gains add up to K
			assert.InDelta(t, 32, float64(ab.WinnerDelta+ba.WinnerDelta), 1, "%v vs %v", a, b)
		}
	}
}
