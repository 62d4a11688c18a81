package main

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const matchColumns = `id, winner_handle, winner_score, loser_handle, loser_score, pending, played, confirmed_seq`

type sqlite struct {
	db   *sqlx.DB
	opts ledgerOptions
}

func NewSqlite(filename string, opts ledgerOptions) (Ledger, error) {
	db, err := sqlx.Connect("sqlite3", filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", filename)
	}

	// one writer, and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	s := sqlite{db: db, opts: opts}

	if err := s.createMatchTable(); err != nil {
		db.Close()
		return nil, err
	}

	return &s, nil
}

func (s *sqlite) Close() error {
	return errors.Wrap(s.db.Close(), "unable to close database")
}

func (s *sqlite) createMatchTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS matches (
		id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		winner_handle TEXT NOT NULL,
		winner_score INTEGER NOT NULL DEFAULT 0,
		loser_handle TEXT NOT NULL,
		loser_score INTEGER NOT NULL DEFAULT 0,
		pending BOOLEAN NOT NULL DEFAULT 1,
		played DATETIME NOT NULL,
		confirmed_seq INTEGER NOT NULL DEFAULT 0,
		CHECK (winner_handle <> loser_handle)
	)`)

	return errors.Wrap(err, "unable to create table matches")
}

func (s *sqlite) createMatch(winner, loser string, winnerScore, loserScore int) (*Match, error) {
	if winner == loser {
		return nil, errors.Wrap(errInvalidMatch{}, "unable to create match")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback()

	if s.opts.uniquePending {
		var n int
		err := tx.Get(&n, `SELECT COUNT(*) FROM matches WHERE winner_handle=? AND loser_handle=? AND pending=1`, winner, loser)
		if err != nil {
			return nil, errors.Wrap(err, "unable to count pending matches")
		}
		if n > 0 {
			return nil, errors.Wrap(errDuplicate{}, "unable to create match")
		}
	}

	m := Match{
		WinnerHandle: winner,
		WinnerScore:  winnerScore,
		LoserHandle:  loser,
		LoserScore:   loserScore,
		Pending:      true,
		Played:       s.opts.played(),
	}
	res, err := tx.NamedExec(`INSERT INTO matches (winner_handle, winner_score, loser_handle, loser_score, pending, played)
		VALUES (:winner_handle, :winner_score, :loser_handle, :loser_score, :pending, :played)`, &m)
	if err != nil {
		return nil, errors.Wrap(err, "unable to insert into matches")
	}

	if m.ID, err = res.LastInsertId(); err != nil {
		return nil, errors.Wrap(err, "unable to get match id")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "unable to commit match")
	}

	return &m, nil
}

func (s *sqlite) getPendingForLoser(handle string) ([]Match, error) {
	m := []Match{}
	err := s.db.Select(&m, `SELECT `+matchColumns+` FROM matches WHERE loser_handle=? AND pending=1 ORDER BY id`, handle)
	return m, errors.Wrap(err, "unable to select pending matches for loser")
}

func (s *sqlite) getPending(limit int) ([]Match, error) {
	m := []Match{}
	err := s.db.Select(&m, `SELECT `+matchColumns+` FROM matches WHERE pending=1 ORDER BY played DESC, id DESC LIMIT ?`, limit)
	return m, errors.Wrap(err, "unable to select pending matches")
}

// getPendingTx fetches a pending match and checks that owner(m) is requester.
func (s *sqlite) getPendingTx(tx *sqlx.Tx, id int64, requester string, owner func(Match) string) (*Match, error) {
	var m Match
	err := tx.Get(&m, `SELECT `+matchColumns+` FROM matches WHERE id=? AND pending=1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errNotFound{}, "no pending match %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to select match %d", id)
	}

	if owner(m) != requester {
		return nil, errors.Wrapf(errUnauthorized{}, "%s does not own match %d", requester, id)
	}

	return &m, nil
}

func (s *sqlite) confirmMatch(id int64, requester string) (*Match, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback()

	m, err := s.getPendingTx(tx, id, requester, func(m Match) string { return m.LoserHandle })
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`UPDATE matches SET pending=0, confirmed_seq=(SELECT COALESCE(MAX(confirmed_seq), 0)+1 FROM matches) WHERE id=?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to confirm match %d", id)
	}
	if err := tx.Get(&m.ConfirmedSeq, `SELECT confirmed_seq FROM matches WHERE id=?`, id); err != nil {
		return nil, errors.Wrapf(err, "unable to read back match %d", id)
	}
	m.Pending = false

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "unable to commit confirmation")
	}

	return m, nil
}

func (s *sqlite) deleteMatch(id int64, requester string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback()

	if _, err := s.getPendingTx(tx, id, requester, func(m Match) string { return m.WinnerHandle }); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM matches WHERE id=? AND pending=1`, id); err != nil {
		return errors.Wrapf(err, "unable to delete match %d", id)
	}

	return errors.Wrap(tx.Commit(), "unable to commit deletion")
}

func (s *sqlite) getConfirmed() ([]Match, error) {
	m := []Match{}
	err := s.db.Select(&m, `SELECT `+matchColumns+` FROM matches WHERE pending=0 ORDER BY confirmed_seq, id`)
	return m, errors.Wrap(err, "unable to select confirmed matches")
}

func (s *sqlite) getMatches() ([]Match, error) {
	m := []Match{}
	err := s.db.Select(&m, `SELECT `+matchColumns+` FROM matches ORDER BY id`)
	return m, errors.Wrap(err, "unable to select matches")
}

func (s *sqlite) importMatches(l []Match) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback()

	for _, m := range l {
		if m.WinnerHandle == m.LoserHandle {
			return errors.Wrapf(errInvalidMatch{}, "unable to import match %d", m.ID)
		}

		_, err := tx.NamedExec(`INSERT OR REPLACE INTO matches (`+matchColumns+`)
			VALUES (:id, :winner_handle, :winner_score, :loser_handle, :loser_score, :pending, :played, :confirmed_seq)`, &m)
		if err != nil {
			return errors.Wrapf(err, "unable to import match %d", m.ID)
		}
	}

	// confirmations without a sequence go after every explicit one
	_, err = tx.Exec(`UPDATE matches SET confirmed_seq=(SELECT MAX(confirmed_seq) FROM matches)+id
		WHERE pending=0 AND confirmed_seq=0`)
	if err != nil {
		return errors.Wrap(err, "unable to sequence imported confirmations")
	}

	return errors.Wrap(tx.Commit(), "unable to commit import")
}
