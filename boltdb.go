package main

import (
	"encoding/binary"
	"encoding/json"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

var (
	matchesBucket = []byte("matches")
	// confirmations maps confirmation sequence to match id.
	confirmationsBucket = []byte("confirmations")
)

type boltdb struct {
	db   *bolt.DB
	opts ledgerOptions
}

func NewBoltDB(filename string, opts ledgerOptions) (Ledger, error) {
	db, err := bolt.Open(filename, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", filename)
	}

	b := &boltdb{db: db, opts: opts}
	if err := b.createMatchBucket(); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

func (b *boltdb) Close() error {
	return errors.Wrap(b.db.Close(), "unable to close database")
}

func (b *boltdb) createMatchBucket() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{matchesBucket, confirmationsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})

	return errors.Wrap(err, "unable to create bucket")
}

// itob keys matches by id, big endian so the cursor walks them in id order.
func itob(id int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

func (b *boltdb) put(bucket *bolt.Bucket, m Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "unable to marshal match into json")
	}

	return errors.Wrapf(bucket.Put(itob(m.ID), data), "error putting match %d", m.ID)
}

// forEach walks every match in id order, or reverse id order.
func (b *boltdb) forEach(reverse bool, fn func(Match) (bool, error)) error {
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(matchesBucket).Cursor()

		first, next := c.First, c.Next
		if reverse {
			first, next = c.Last, c.Prev
		}

		for k, v := first(); k != nil; k, v = next() {
			var m Match
			if err := json.Unmarshal(v, &m); err != nil {
				return errors.Wrap(err, "unable to unmarshal match")
			}

			more, err := fn(m)
			if err != nil || !more {
				return err
			}
		}

		return nil
	})

	return errors.Wrap(err, "unable to get bucket contents")
}

func (b *boltdb) createMatch(winner, loser string, winnerScore, loserScore int) (*Match, error) {
	if winner == loser {
		return nil, errors.Wrap(errInvalidMatch{}, "unable to create match")
	}

	m := Match{
		WinnerHandle: winner,
		WinnerScore:  winnerScore,
		LoserHandle:  loser,
		LoserScore:   loserScore,
		Pending:      true,
		Played:       b.opts.played(),
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(matchesBucket)

		if b.opts.uniquePending {
			c := bucket.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var o Match
				if err := json.Unmarshal(v, &o); err != nil {
					return errors.Wrap(err, "unable to unmarshal match")
				}
				if o.Pending && o.WinnerHandle == winner && o.LoserHandle == loser {
					return errDuplicate{}
				}
			}
		}

		id, err := bucket.NextSequence()
		if err != nil {
			return errors.Wrap(err, "unable to get next match id")
		}
		m.ID = int64(id)

		return b.put(bucket, m)
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to create match")
	}

	return &m, nil
}

func (b *boltdb) getPendingForLoser(handle string) ([]Match, error) {
	l := make([]Match, 0)
	err := b.forEach(false, func(m Match) (bool, error) {
		if m.Pending && m.LoserHandle == handle {
			l = append(l, m)
		}
		return true, nil
	})

	return l, err
}

func (b *boltdb) getPending(limit int) ([]Match, error) {
	l := make([]Match, 0)
	if limit <= 0 {
		return l, nil
	}

	err := b.forEach(true, func(m Match) (bool, error) {
		if m.Pending {
			l = append(l, m)
		}
		return len(l) < limit, nil
	})

	return l, err
}

// updatePending loads a pending match inside tx, checks owner(m) against
// requester and hands it to fn for the actual write.
func (b *boltdb) updatePending(id int64, requester string, owner func(Match) string, fn func(*bolt.Bucket, *Match) error) (*Match, error) {
	var m Match
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(matchesBucket)

		v := bucket.Get(itob(id))
		if v == nil {
			return errors.Wrapf(errNotFound{}, "no pending match %d", id)
		}
		if err := json.Unmarshal(v, &m); err != nil {
			return errors.Wrap(err, "unable to unmarshal match")
		}
		if !m.Pending {
			return errors.Wrapf(errNotFound{}, "match %d is already confirmed", id)
		}
		if owner(m) != requester {
			return errors.Wrapf(errUnauthorized{}, "%s does not own match %d", requester, id)
		}

		return fn(bucket, &m)
	})
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (b *boltdb) confirmMatch(id int64, requester string) (*Match, error) {
	return b.updatePending(id, requester, func(m Match) string { return m.LoserHandle }, func(bucket *bolt.Bucket, m *Match) error {
		m.Pending = false
		if err := b.logConfirmation(bucket.Tx(), m); err != nil {
			return err
		}
		return b.put(bucket, *m)
	})
}

func (b *boltdb) deleteMatch(id int64, requester string) error {
	_, err := b.updatePending(id, requester, func(m Match) string { return m.WinnerHandle }, func(bucket *bolt.Bucket, m *Match) error {
		return errors.Wrapf(bucket.Delete(itob(m.ID)), "unable to delete match %d", m.ID)
	})

	return err
}

// logConfirmation gives m the next confirmation sequence and records it.
func (b *boltdb) logConfirmation(tx *bolt.Tx, m *Match) error {
	bucket := tx.Bucket(confirmationsBucket)

	seq, err := bucket.NextSequence()
	if err != nil {
		return errors.Wrap(err, "unable to get next confirmation")
	}
	m.ConfirmedSeq = int64(seq)

	return errors.Wrapf(bucket.Put(itob(m.ConfirmedSeq), itob(m.ID)), "unable to log confirmation of %d", m.ID)
}

func (b *boltdb) getConfirmed() ([]Match, error) {
	l := make([]Match, 0)
	err := b.db.View(func(tx *bolt.Tx) error {
		matches := tx.Bucket(matchesBucket)

		return tx.Bucket(confirmationsBucket).ForEach(func(_, id []byte) error {
			v := matches.Get(id)
			if v == nil {
				return errors.Errorf("confirmed match %d is missing", binary.BigEndian.Uint64(id))
			}

			var m Match
			if err := json.Unmarshal(v, &m); err != nil {
				return errors.Wrap(err, "unable to unmarshal match")
			}
			l = append(l, m)
			return nil
		})
	})

	return l, errors.Wrap(err, "unable to get confirmed matches")
}

func (b *boltdb) getMatches() ([]Match, error) {
	l := make([]Match, 0)
	err := b.forEach(false, func(m Match) (bool, error) {
		l = append(l, m)
		return true, nil
	})

	return l, err
}

func (b *boltdb) importMatches(l []Match) error {
	tx, err := b.db.Begin(true)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback()

	bucket := tx.Bucket(matchesBucket)
	confirmations := tx.Bucket(confirmationsBucket)
	var unsequenced []Match
	for _, m := range l {
		if m.WinnerHandle == m.LoserHandle {
			return errors.Wrapf(errInvalidMatch{}, "unable to import match %d", m.ID)
		}

		if !m.Pending && m.ConfirmedSeq == 0 {
			unsequenced = append(unsequenced, m)
			continue
		}

		if !m.Pending {
			if err := confirmations.Put(itob(m.ConfirmedSeq), itob(m.ID)); err != nil {
				return errors.Wrapf(err, "unable to log confirmation of %d", m.ID)
			}
			if uint64(m.ConfirmedSeq) > confirmations.Sequence() {
				if err := confirmations.SetSequence(uint64(m.ConfirmedSeq)); err != nil {
					return errors.Wrap(err, "unable to set sequence")
				}
			}
		}

		if err := b.importMatch(bucket, m); err != nil {
			return err
		}
	}

	// confirmations without a sequence go after every explicit one
	for _, m := range unsequenced {
		if err := b.logConfirmation(tx, &m); err != nil {
			return err
		}
		if err := b.importMatch(bucket, m); err != nil {
			return err
		}
	}

	return errors.Wrap(tx.Commit(), "unable to commit transaction")
}

func (b *boltdb) importMatch(bucket *bolt.Bucket, m Match) error {
	if err := b.put(bucket, m); err != nil {
		return err
	}

	// keep NextSequence ahead of every imported id
	if uint64(m.ID) > bucket.Sequence() {
		return errors.Wrap(bucket.SetSequence(uint64(m.ID)), "unable to set sequence")
	}

	return nil
}
