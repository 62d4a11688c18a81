package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	p := r.get("U1")
	assert.Equal(t, Player{Handle: "U1", Rating: 1500}, *p)

	p.Wins = 3
	assert.Same(t, p, r.get("U1"), "get should hand back the same player")
	assert.Equal(t, 3, r.get("U1").Wins)
	assert.Len(t, r.list(), 1)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.register("U1"))
	assert.False(t, r.register("U1"))
	r.get("U2")
	assert.False(t, r.register("U2"))
}

func TestRegistryApply(t *testing.T) {
	r := NewRegistry()

	res, err := r.apply("U1", "U2")
	require.NoError(t, err)

	assert.Equal(t, Player{Handle: "U1", Rating: 1516, Wins: 1}, res.Winner)
	assert.Equal(t, Player{Handle: "U2", Rating: 1484, Losses: 1}, res.Loser)
	assert.Equal(t, Rank(16), res.WinnerDelta)
	assert.Equal(t, Rank(-16), res.LoserDelta)

	assert.Equal(t, Rank(1516), r.get("U1").Rating)
	assert.Equal(t, Rank(1484), r.get("U2").Rating)
}

func TestRegistryApplySelf(t *testing.T) {
	r := NewRegistry()

	_, err := r.apply("U1", "U1")
	assert.True(t, isInvalidMatch(err), "%+v", err)
	assert.Empty(t, r.list(), "a rejected result shouldn't create players")
}

func TestRegistryApplyUsesEachPlayersK(t *testing.T) {
	r := NewRegistry()
	r.get("master").Rating = 2450
	r.get("novice").Rating = 2050

	res, err := r.apply("master", "novice")
	require.NoError(t, err)

	// K 16 for the winner, K 32 for the loser
	assert.Equal(t, Rank(1), res.WinnerDelta)
	assert.Equal(t, Rank(-3), res.LoserDelta)
}

func TestRegistryRebuild(t *testing.T) {
	r := NewRegistry()
	r.get("stale").Rating = 9000

	history := []Match{
		{ID: 1, WinnerHandle: "U1", LoserHandle: "U2"},
		{ID: 2, WinnerHandle: "U3", LoserHandle: "U1", Pending: true},
		{ID: 3, WinnerHandle: "U2", LoserHandle: "U3"},
	}
	require.NoError(t, r.rebuild(history))

	live := NewRegistry()
	_, err := live.apply("U1", "U2")
	require.NoError(t, err)
	_, err = live.apply("U2", "U3")
	require.NoError(t, err)

	assert.Equal(t, live.list(), r.list())
	assert.NotContains(t, r.players, "stale")
}

func TestRegistryRebuildRejectsSelfPlay(t *testing.T) {
	r := NewRegistry()

	err := r.rebuild([]Match{{ID: 7, WinnerHandle: "U1", LoserHandle: "U1"}})
	assert.True(t, isInvalidMatch(err))
	assert.Contains(t, err.Error(), "match 7")
}
