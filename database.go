package main

import (
	"time"

	"github.com/pkg/errors"
)

// Match is one reported game. It stays pending until the loser confirms it.
type Match struct {
	ID           int64     `db:"id" json:"id"`
	WinnerHandle string    `db:"winner_handle" json:"winner_handle"`
	WinnerScore  int       `db:"winner_score" json:"winner_score"`
	LoserHandle  string    `db:"loser_handle" json:"loser_handle"`
	LoserScore   int       `db:"loser_score" json:"loser_score"`
	Pending      bool      `db:"pending" json:"pending"`
	Played       time.Time `db:"played" json:"played"`
	// ConfirmedSeq orders confirmations; ratings are replayed in this order.
	ConfirmedSeq int64     `db:"confirmed_seq" json:"confirmed_seq,omitempty"`
}

// Ledger is the durable log of matches. The player registry is derived from it.
type Ledger interface {
	Close() error
	createMatch(winner, loser string, winnerScore, loserScore int) (*Match, error)
	getPendingForLoser(handle string) ([]Match, error)
	getPending(limit int) ([]Match, error)
	confirmMatch(id int64, requester string) (*Match, error)
	deleteMatch(id int64, requester string) error
	// getConfirmed returns confirmed matches in the order they were confirmed.
	getConfirmed() ([]Match, error)
	getMatches() ([]Match, error)
	importMatches(m []Match) error
}

type ledgerOptions struct {
	// uniquePending rejects a second pending match for the same winner and loser.
	uniquePending bool
	now           func() time.Time
}

func (o ledgerOptions) played() time.Time {
	if o.now == nil {
		return time.Now().UTC()
	}

	return o.now().UTC()
}

func openDatabase(database, filename string, opts ledgerOptions) (Ledger, error) {
	switch database {
	case "sqlite":
		return NewSqlite(filename, opts)
	case "boltdb":
		return NewBoltDB(filename, opts)
	}

	return nil, errors.Errorf("invalid database argument %q", database)
}
