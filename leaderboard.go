package main

import (
	"sort"

	"github.com/pkg/errors"
)

const defaultLimit = 25

// Standing is one leaderboard row. Streak is zero unless it reached the
// threshold the board was asked for.
type Standing struct {
	Player
	Streak int
}

// Leaderboard ranks everyone with at least one confirmed game by rating.
// Equal ratings keep the order players first appeared in.
func (l *Ladder) Leaderboard(limit, minStreak int) ([]Standing, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	confirmed, err := l.db.getConfirmed()
	if err != nil {
		return nil, errors.Wrap(err, "unable to load confirmed matches")
	}
	streaks := winStreaks(confirmed)

	board := make([]Standing, 0)
	for _, p := range l.players.list() {
		if p.games() == 0 {
			continue
		}

		s := Standing{Player: p}
		if minStreak > 0 && streaks[p.Handle] >= minStreak {
			s.Streak = streaks[p.Handle]
		}
		board = append(board, s)
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Rating > board[j].Rating
	})

	if len(board) > limit {
		board = board[:limit]
	}

	return board, nil
}

// winStreaks counts, per handle, the confirmed wins since that handle's most
// recent loss. Matches are walked newest first by played time, then id.
func winStreaks(confirmed []Match) map[string]int {
	ms := make([]Match, len(confirmed))
	copy(ms, confirmed)
	sort.SliceStable(ms, func(i, j int) bool {
		if !ms[i].Played.Equal(ms[j].Played) {
			return ms[i].Played.After(ms[j].Played)
		}
		return ms[i].ID > ms[j].ID
	})

	streaks := make(map[string]int)
	ended := make(map[string]bool)
	for _, m := range ms {
		if !ended[m.WinnerHandle] {
			streaks[m.WinnerHandle]++
		}
		ended[m.LoserHandle] = true
	}

	return streaks
}

// Unconfirmed lists pending matches, newest first.
func (l *Ladder) Unconfirmed(limit int) ([]Match, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, err := l.db.getPending(limit)
	return m, errors.Wrap(err, "unable to load unconfirmed matches")
}
