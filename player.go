package main

import (
	"github.com/pkg/errors"
)

// Player is the rating state for one handle. It is never stored; it is
// whatever replaying the confirmed matches produces.
type Player struct {
	Handle string
	Rating Rank
	Wins   int
	Losses int
}

func (p Player) games() int { return p.Wins + p.Losses }

type result struct {
	Winner      Player
	Loser       Player
	WinnerDelta Rank
	LoserDelta  Rank
}

// Registry holds every player seen so far, in order of first appearance.
type Registry struct {
	players map[string]*Player
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

func (r *Registry) get(handle string) *Player {
	if p, ok := r.players[handle]; ok {
		return p
	}

	p := &Player{Handle: handle, Rating: defaultRank}
	r.players[handle] = p
	r.order = append(r.order, handle)

	return p
}

// register adds handle and reports whether it wasn't known yet.
func (r *Registry) register(handle string) bool {
	if _, ok := r.players[handle]; ok {
		return false
	}

	r.get(handle)
	return true
}

func (r *Registry) apply(winner, loser string) (result, error) {
	if winner == loser {
		return result{}, errors.Wrapf(errInvalidMatch{}, "unable to apply result for %s", winner)
	}

	w, l := r.get(winner), r.get(loser)
	o := rank(w.Rating, l.Rating, w.Rating.kFactor(), l.Rating.kFactor())

	w.Rating, l.Rating = o.Winner, o.Loser
	w.Wins++
	l.Losses++

	return result{Winner: *w, Loser: *l, WinnerDelta: o.WinnerDelta, LoserDelta: o.LoserDelta}, nil
}

// rebuild forgets everything and replays the confirmed matches in the order
// given. Order matters: K depends on the rating at the time of each match.
func (r *Registry) rebuild(confirmed []Match) error {
	r.players = make(map[string]*Player)
	r.order = nil

	for _, m := range confirmed {
		if m.Pending {
			continue
		}
		if _, err := r.apply(m.WinnerHandle, m.LoserHandle); err != nil {
			return errors.Wrapf(err, "unable to replay match %d", m.ID)
		}
	}

	return nil
}

func (r *Registry) list() []Player {
	l := make([]Player, 0, len(r.order))
	for _, h := range r.order {
		l = append(l, *r.players[h])
	}

	return l
}
