package main

import (
	"sync"

	"github.com/pkg/errors"
)

// Game is one game's score, winner first.
type Game struct {
	WinnerScore int
	LoserScore  int
}

type ReportResult struct {
	Game  Game
	Match *Match
	Err   error
}

// Confirmation is what a confirmed match did to both players.
type Confirmation struct {
	Match       Match
	Winner      Player
	WinnerDelta Rank
	Loser       Player
	LoserDelta  Rank
}

type ConfirmResult struct {
	ID           int64
	Confirmation *Confirmation
	Err          error
}

// Ladder moves matches from pending to confirmed or deleted and keeps the
// player registry in step with the ledger. Every mutating call runs to
// completion before the next one starts.
type Ladder struct {
	mu      sync.Mutex
	db      Ledger
	players *Registry
	metrics *metrics
}

// NewLadder rebuilds the ratings from db before returning.
func NewLadder(db Ledger, m *metrics) (*Ladder, error) {
	l := &Ladder{
		db:      db,
		players: NewRegistry(),
		metrics: m,
	}

	if err := l.Rebuild(); err != nil {
		return nil, err
	}

	return l, nil
}

// Rebuild throws the registry away and replays every confirmed match.
func (l *Ladder) Rebuild() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	confirmed, err := l.db.getConfirmed()
	if err != nil {
		return errors.Wrap(err, "unable to load match history")
	}

	players := NewRegistry()
	if err := players.rebuild(confirmed); err != nil {
		return err
	}
	l.players = players

	Debugf("rebuilt %d players from %d confirmed matches", len(players.order), len(confirmed))
	return nil
}

// SignUp registers handle and reports whether it was new.
func (l *Ladder) SignUp(handle string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.players.register(handle)
}

// Report records one pending match per game with reporter as the winner.
// Games are saved independently; one failing doesn't stop the rest.
func (l *Ladder) Report(reporter, loser string, games []Game) []ReportResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make([]ReportResult, 0, len(games))
	for _, g := range games {
		m, err := l.db.createMatch(reporter, loser, g.WinnerScore, g.LoserScore)
		if err != nil {
			l.metrics.failure("report", err)
			results = append(results, ReportResult{Game: g, Err: err})
			continue
		}

		l.players.get(reporter)
		l.players.get(loser)
		l.metrics.transition("reported")
		results = append(results, ReportResult{Game: g, Match: m})
	}

	return results
}

// Confirm applies pending match id to the ratings. Only its loser may do so.
func (l *Ladder) Confirm(requester string, id int64) (*Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.confirm(requester, id)
	l.metrics.failure("confirm", err)
	return c, err
}

func (l *Ladder) confirm(requester string, id int64) (*Confirmation, error) {
	// the ledger write is the commit; the registry can always be replayed
	m, err := l.db.confirmMatch(id, requester)
	if err != nil {
		return nil, err
	}

	r, err := l.players.apply(m.WinnerHandle, m.LoserHandle)
	if err != nil {
		return nil, err
	}
	l.metrics.transition("confirmed")

	return &Confirmation{
		Match:       *m,
		Winner:      r.Winner,
		WinnerDelta: r.WinnerDelta,
		Loser:       r.Loser,
		LoserDelta:  r.LoserDelta,
	}, nil
}

// ConfirmAll confirms every pending match requester lost, oldest first.
func (l *Ladder) ConfirmAll(requester string) ([]ConfirmResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending, err := l.db.getPendingForLoser(requester)
	if err != nil {
		l.metrics.failure("confirm", err)
		return nil, err
	}

	results := make([]ConfirmResult, 0, len(pending))
	for _, m := range pending {
		c, err := l.confirm(requester, m.ID)
		l.metrics.failure("confirm", err)
		results = append(results, ConfirmResult{ID: m.ID, Confirmation: c, Err: err})
	}

	return results, nil
}

// Delete removes pending match id. Only its winner may do so.
func (l *Ladder) Delete(requester string, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.db.deleteMatch(id, requester); err != nil {
		l.metrics.failure("delete", err)
		return err
	}
	l.metrics.transition("deleted")

	return nil
}

// Player returns the current state of handle, if it has been seen.
func (l *Ladder) Player(handle string) (Player, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players.players[handle]
	if !ok {
		return Player{}, false
	}

	return *p, true
}
