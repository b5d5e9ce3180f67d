package runstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRun(txid string, addresses ...string) Run {
	run := Run{
		TxID:        txid,
		CborHex:     "84a300818258",
		Description: "test batch",
	}
	for _, addr := range addresses {
		run.Payments = append(run.Payments, Payment{Address: addr, Amount: 1_000_000})
	}
	return run
}

func TestRecordRun(t *testing.T) {
	s := testStore(t)

	id, err := s.RecordRun(testRun("aa11", "addr1alice", "addr1bob"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Run(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "aa11", got.TxID)
	assert.Equal(t, "test batch", got.Description)
	assert.Len(t, got.Payments, 2)
	assert.False(t, got.CreatedAt.IsZero())

	paid, runID, err := s.IsPaid("addr1alice")
	require.NoError(t, err)
	assert.True(t, paid)
	assert.Equal(t, id, runID)

	paid, _, err = s.IsPaid("addr1carol")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestRecordRun_Validation(t *testing.T) {
	s := testStore(t)

	_, err := s.RecordRun(Run{Payments: []Payment{{Address: "addr1x", Amount: 1}}})
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = s.RecordRun(Run{TxID: "aa11"})
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestRecordRun_AlreadyPaid(t *testing.T) {
	s := testStore(t)

	first, err := s.RecordRun(testRun("aa11", "addr1alice"))
	require.NoError(t, err)

	_, err = s.RecordRun(testRun("bb22", "addr1bob", "addr1alice"))
	require.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Contains(t, err.Error(), first)

	// The rejected run must leave no trace: bob stays unpaid.
	paid, _, err := s.IsPaid("addr1bob")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestRuns_OldestFirst(t *testing.T) {
	s := testStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, txid := range []string{"cc33", "aa11", "bb22"} {
		run := testRun(txid, "addr1"+txid)
		run.CreatedAt = base.Add(time.Duration(2-i) * time.Hour)
		_, err := s.RecordRun(run)
		require.NoError(t, err)
	}

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "bb22", runs[0].TxID)
	assert.Equal(t, "aa11", runs[1].TxID)
	assert.Equal(t, "cc33", runs[2].TxID)
}

func TestPaidAddresses(t *testing.T) {
	s := testStore(t)

	id1, err := s.RecordRun(testRun("aa11", "addr1alice"))
	require.NoError(t, err)
	id2, err := s.RecordRun(testRun("bb22", "addr1bob", "addr1carol"))
	require.NoError(t, err)

	paid, err := s.PaidAddresses()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"addr1alice": id1,
		"addr1bob":   id2,
		"addr1carol": id2,
	}, paid)
}

func TestRun_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Run("no-such-run")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.RecordRun(testRun("aa11", "addr1alice"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Run(id)
	require.NoError(t, err)
	assert.Equal(t, "aa11", got.TxID)

	paid, _, err := s.IsPaid("addr1alice")
	require.NoError(t, err)
	assert.True(t, paid)
}
