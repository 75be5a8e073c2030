package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/circulation/memstore"
)

func seedCopy(t *testing.T, s *memstore.Store) *circulation.Copy {
	t.Helper()

	ctx := context.Background()
	cp := &circulation.Copy{
		ID:              uuid.New(),
		LibraryID:       uuid.New(),
		EditionID:       uuid.New(),
		CopyNumber:      1,
		Status:          circulation.CopyStatusActive,
		TotalCopies:     1,
		AvailableCopies: 1,
		Version:         1,
	}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertCopies(ctx, []*circulation.Copy{cp}))
	require.NoError(t, tx.Commit())

	return cp
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	cp := seedCopy(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	locked, err := tx.LockCopy(ctx, cp.ID)
	require.NoError(t, err)

	locked.AvailableCopies = 0
	require.NoError(t, tx.UpdateCopy(ctx, locked, 1))
	assert.Equal(t, int64(2), locked.Version)
	require.NoError(t, tx.Rollback())

	got, err := s.GetCopy(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
	assert.Equal(t, int64(1), got.Version)
}

func TestTx_UpdateCopyVersionMismatch(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	cp := seedCopy(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	err = tx.UpdateCopy(ctx, cp, 7)
	assert.ErrorIs(t, err, circulation.ErrConflict)

	cp.AvailableCopies = 2
	err = tx.UpdateCopy(ctx, cp, 1)
	assert.ErrorIs(t, err, circulation.ErrConflict, "availability above total is rejected")
}

func TestBegin_WaitsForWriter(t *testing.T) {
	s := memstore.New()

	first, err := s.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.Begin(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, first.Commit())

	second, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Rollback())
}

func TestEventsAreSequenced(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	txnID := uuid.New()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	events := []circulation.Event{
		{TransactionID: txnID, Type: circulation.EventCreated},
		{TransactionID: txnID, Type: circulation.EventCheckedOut},
	}
	require.NoError(t, tx.AppendEvents(ctx, events))
	require.NoError(t, tx.Commit())

	got, err := s.ListEvents(ctx, txnID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Sequence)
	assert.Equal(t, int64(2), got[1].Sequence)
}

func TestHoldQueueOrder(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	cp := seedCopy(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	second := &circulation.Hold{ID: uuid.New(), CopyID: cp.ID, MemberID: uuid.New(), Status: circulation.HoldStatusPending, Position: 2}
	first := &circulation.Hold{ID: uuid.New(), CopyID: cp.ID, MemberID: uuid.New(), Status: circulation.HoldStatusPending, Position: 1}
	require.NoError(t, tx.InsertHold(ctx, second))
	require.NoError(t, tx.InsertHold(ctx, first))
	assert.ErrorIs(t, tx.InsertHold(ctx, &circulation.Hold{
		ID: uuid.New(), CopyID: cp.ID, MemberID: first.MemberID, Status: circulation.HoldStatusPending,
	}), circulation.ErrConflict)
	require.NoError(t, tx.Commit())

	got, err := s.GetCopy(ctx, cp.ID)
	require.NoError(t, err)
	require.Len(t, got.HoldQueue, 2)
	assert.Equal(t, first.ID, got.HoldQueue[0].ID)

	next, ok := got.NextHold()
	require.True(t, ok)
	assert.Equal(t, first.MemberID, next.MemberID)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	_, err := s.GetCopy(ctx, uuid.New())
	assert.ErrorIs(t, err, circulation.ErrNotFound)

	_, err = s.GetLibrary(ctx, uuid.New())
	assert.ErrorIs(t, err, circulation.ErrNotFound)

	_, err = s.GetTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, circulation.ErrNotFound)
}
