// Package runstore journals completed airdrop runs in a local bbolt
// database. An airdrop that needs several funding rounds is executed as
// several runs against fresh UTXO snapshots; the journal records which
// addresses were already covered so a later round never pays twice.
package runstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var (
	bucketRuns = []byte("runs")
	bucketPaid = []byte("paid")
)

// Payment is one recipient covered by a run.
type Payment struct {
	Address string
	Amount  uint64
}

// Run records one built transaction: its id, serialized form and the
// recipients it covers. The transaction is unsigned when recorded; the
// journal tracks construction, not confirmation.
type Run struct {
	ID          string
	TxID        string
	CborHex     string
	Description string
	CreatedAt   time.Time
	Payments    []Payment
}

// Store wraps a bbolt database holding the run journal.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the journal database at dbPath. The parent
// directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("runstore: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("runstore: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketPaid} {
			if _, err := btx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("runstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// RecordRun journals a built transaction and marks every recipient paid.
// A zero ID and CreatedAt are filled in. Recording a recipient that an
// earlier run already covers fails with ErrAlreadyPaid: the caller should
// have filtered the payout list first.
func (s *Store) RecordRun(run Run) (string, error) {
	if run.TxID == "" {
		return "", fmt.Errorf("%w: txid", ErrEmptyField)
	}
	if len(run.Payments) == 0 {
		return "", fmt.Errorf("%w: payments", ErrEmptyField)
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := s.db.Update(func(btx *bbolt.Tx) error {
		paid := btx.Bucket(bucketPaid)
		for _, p := range run.Payments {
			if prior := paid.Get([]byte(p.Address)); prior != nil {
				return fmt.Errorf("%w: %s in run %s", ErrAlreadyPaid, p.Address, prior)
			}
		}

		data, err := encodeGob(run)
		if err != nil {
			return fmt.Errorf("encode run: %w", err)
		}
		if err := btx.Bucket(bucketRuns).Put([]byte(run.ID), data); err != nil {
			return fmt.Errorf("runstore: put run: %w", err)
		}
		for _, p := range run.Payments {
			if err := paid.Put([]byte(p.Address), []byte(run.ID)); err != nil {
				return fmt.Errorf("runstore: mark paid: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// Run fetches a journaled run by id.
func (s *Store) Run(id string) (*Run, error) {
	var run Run
	err := s.db.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: run %s", ErrNotFound, id)
		}
		return decodeGob(data, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Runs returns every journaled run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketRuns).ForEach(func(_, data []byte) error {
			var run Run
			if err := decodeGob(data, &run); err != nil {
				return fmt.Errorf("decode run: %w", err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortRunsByTime(runs)
	return runs, nil
}

// IsPaid reports whether any earlier run covers the address, and the id of
// that run.
func (s *Store) IsPaid(address string) (bool, string, error) {
	var runID string
	err := s.db.View(func(btx *bbolt.Tx) error {
		if data := btx.Bucket(bucketPaid).Get([]byte(address)); data != nil {
			runID = string(data)
		}
		return nil
	})
	if err != nil {
		return false, "", err
	}
	return runID != "", runID, nil
}

// PaidAddresses returns the address -> run id mapping across all runs.
func (s *Store) PaidAddresses() (map[string]string, error) {
	paid := make(map[string]string)
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketPaid).ForEach(func(addr, runID []byte) error {
			paid[string(addr)] = string(runID)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

func sortRunsByTime(runs []Run) {
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
