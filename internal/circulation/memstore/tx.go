package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

// Tx holds the store's writer slot until Commit or Rollback.
type Tx struct {
	store *Store
	state state
	done  bool
}

var _ circulation.Tx = (*Tx)(nil)

func (tx *Tx) Commit() error {
	if tx.done {
		return fmt.Errorf("transaction already finished")
	}

	tx.store.mu.Lock()
	tx.store.state = tx.state
	tx.store.mu.Unlock()

	tx.finish()

	return nil
}

func (tx *Tx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.finish()

	return nil
}

func (tx *Tx) finish() {
	tx.done = true
	<-tx.store.writer
}

func (tx *Tx) LockCopy(_ context.Context, id uuid.UUID) (*circulation.Copy, error) {
	cp, ok := tx.state.copies[id]
	if !ok {
		return nil, notFound("copy")
	}

	return withHolds(tx.state, cp), nil
}

func (tx *Tx) LockEditionNumbering(_ context.Context, libraryID, editionID uuid.UUID) (int, error) {
	highest := 0

	for _, cp := range tx.state.copies {
		if cp.LibraryID == libraryID && cp.EditionID == editionID {
			highest = max(highest, cp.CopyNumber)
		}
	}

	return highest, nil
}

func (tx *Tx) InsertCopies(_ context.Context, copies []*circulation.Copy) error {
	for _, cp := range copies {
		if _, exists := tx.state.copies[cp.ID]; exists {
			return fmt.Errorf("%w: copy %s already exists", circulation.ErrConflict, cp.ID)
		}

		for _, other := range tx.state.copies {
			if other.LibraryID == cp.LibraryID && other.EditionID == cp.EditionID && other.CopyNumber == cp.CopyNumber {
				return fmt.Errorf("%w: copy number %d already issued", circulation.ErrConflict, cp.CopyNumber)
			}

			if cp.Barcode != nil && other.Barcode != nil && *other.Barcode == *cp.Barcode {
				return fmt.Errorf("%w: barcode %q already in use", circulation.ErrConflict, *cp.Barcode)
			}
		}

		row := *cp
		row.HoldQueue = nil
		tx.state.copies[cp.ID] = row
	}

	return nil
}

func (tx *Tx) UpdateCopy(_ context.Context, cp *circulation.Copy, expectedVersion int64) error {
	current, ok := tx.state.copies[cp.ID]
	if !ok {
		return notFound("copy")
	}

	if current.Version != expectedVersion {
		return fmt.Errorf("%w: copy %s was modified concurrently", circulation.ErrConflict, cp.ID)
	}

	if cp.AvailableCopies < 0 || cp.AvailableCopies > cp.TotalCopies {
		return fmt.Errorf("%w: available copies %d outside [0, %d]", circulation.ErrConflict, cp.AvailableCopies, cp.TotalCopies)
	}

	cp.Version = expectedVersion + 1

	row := *cp
	row.HoldQueue = nil
	tx.state.copies[cp.ID] = row

	return nil
}

func (tx *Tx) GetMember(_ context.Context, id uuid.UUID) (*circulation.Member, error) {
	m, ok := tx.state.members[id]
	if !ok {
		return nil, notFound("member")
	}

	return &m, nil
}

func (tx *Tx) UpdateMember(_ context.Context, m *circulation.Member) error {
	return putMember(&tx.state, m, false)
}

func (tx *Tx) GetTransaction(_ context.Context, id uuid.UUID) (*circulation.Transaction, error) {
	t, ok := tx.state.transactions[id]
	if !ok {
		return nil, notFound("transaction")
	}

	return &t, nil
}

func (tx *Tx) CountOpenTransactionsByCopy(_ context.Context, copyID uuid.UUID) (int, error) {
	return len(filterTransactions(tx.state, func(t circulation.Transaction) bool {
		return t.CopyID == copyID && t.Status.Open()
	})), nil
}

func (tx *Tx) CountOpenTransactionsByMember(_ context.Context, memberID uuid.UUID) (int, error) {
	return len(filterTransactions(tx.state, func(t circulation.Transaction) bool {
		return t.MemberID == memberID && t.Status.Open()
	})), nil
}

func (tx *Tx) InsertTransaction(_ context.Context, t *circulation.Transaction) error {
	if _, exists := tx.state.transactions[t.ID]; exists {
		return fmt.Errorf("%w: transaction %s already exists", circulation.ErrConflict, t.ID)
	}

	tx.state.transactions[t.ID] = *t

	return nil
}

func (tx *Tx) UpdateTransaction(_ context.Context, t *circulation.Transaction) error {
	if _, exists := tx.state.transactions[t.ID]; !exists {
		return notFound("transaction")
	}

	tx.state.transactions[t.ID] = *t

	return nil
}

// AppendEvents assigns sequence numbers in append order.
func (tx *Tx) AppendEvents(_ context.Context, events []circulation.Event) error {
	for i := range events {
		tx.state.seq++
		events[i].Sequence = tx.state.seq
		tx.state.events = append(tx.state.events, events[i])
	}

	return nil
}

func (tx *Tx) InsertHold(_ context.Context, h *circulation.Hold) error {
	for _, other := range tx.state.holds {
		if other.CopyID == h.CopyID && other.MemberID == h.MemberID && other.Status == circulation.HoldStatusPending {
			return fmt.Errorf("%w: member already holds this copy", circulation.ErrConflict)
		}
	}

	tx.state.holds[h.ID] = *h

	return nil
}

func (tx *Tx) UpdateHoldStatus(_ context.Context, id uuid.UUID, status circulation.HoldStatus) error {
	h, ok := tx.state.holds[id]
	if !ok {
		return notFound("hold")
	}

	h.Status = status
	tx.state.holds[id] = h

	return nil
}

func (tx *Tx) ListPendingHoldsByMember(_ context.Context, memberID uuid.UUID) ([]circulation.Hold, error) {
	return pendingHolds(tx.state, func(h circulation.Hold) bool { return h.MemberID == memberID }), nil
}
