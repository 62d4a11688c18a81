package main

import (
	"math"
	"strconv"
)

const deviation = 400

// defaultRank is the rating every player starts at.
const defaultRank Rank = 1500

// Rank is an Elo rating.
type Rank float64

func (r Rank) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

func (r Rank) rₙ() float64 {
	return math.Pow(10, float64(r)/deviation)
}

// eₙ is the expected score of r against an opponent with transformed rating m.
func (r Rank) eₙ(m float64) float64 {
	n := r.rₙ()
	return n / (n + m)
}

// kFactor is the swing factor for a player at this rating. Masters move
// slowest, everyone under 2100 moves fastest.
func (r Rank) kFactor() float64 {
	switch {
	case r > 2400:
		return 16
	case r < 2100:
		return 32
	}

	return 24
}

func (r Rank) won(m Rank, k float64) Rank {
	// r + k * (1 - E)
	return Rank(math.Round(float64(r) + k*(1-r.eₙ(m.rₙ()))))
}

func (r Rank) lost(m Rank, k float64) Rank {
	// r + k * (0 - E)
	return Rank(math.Round(float64(r) + k*(0-r.eₙ(m.rₙ()))))
}

type outcome struct {
	Winner      Rank
	Loser       Rank
	WinnerDelta Rank
	LoserDelta  Rank
}

// rank computes both players' new ratings after winner beat loser. Ratings
// are rounded half away from zero; the game score never enters into it.
func rank(winner, loser Rank, winnerK, loserK float64) outcome {
	w := winner.won(loser, winnerK)
	l := loser.lost(winner, loserK)

	return outcome{
		Winner:      w,
		Loser:       l,
		WinnerDelta: w - winner,
		LoserDelta:  l - loser,
	}
}
