// Package memstore is an in-memory transactional implementation of the circulation
// repository. Writers are serialised; each transaction works on a private copy of the
// state that replaces the shared state on commit.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

type state struct {
	libraries    map[uuid.UUID]circulation.Library
	copies       map[uuid.UUID]circulation.Copy
	members      map[uuid.UUID]circulation.Member
	transactions map[uuid.UUID]circulation.Transaction
	holds        map[uuid.UUID]circulation.Hold
	events       []circulation.Event
	seq          int64
}

func newState() state {
	return state{
		libraries:    map[uuid.UUID]circulation.Library{},
		copies:       map[uuid.UUID]circulation.Copy{},
		members:      map[uuid.UUID]circulation.Member{},
		transactions: map[uuid.UUID]circulation.Transaction{},
		holds:        map[uuid.UUID]circulation.Hold{},
	}
}

func (s state) clone() state {
	return state{
		libraries:    maps.Clone(s.libraries),
		copies:       maps.Clone(s.copies),
		members:      maps.Clone(s.members),
		transactions: maps.Clone(s.transactions),
		holds:        maps.Clone(s.holds),
		events:       slices.Clone(s.events),
		seq:          s.seq,
	}
}

type Store struct {
	mu    sync.RWMutex
	state state

	// writer is a one-slot semaphore held for the lifetime of a Tx.
	writer chan struct{}
}

var _ circulation.Repository = (*Store)(nil)

func New() *Store {
	return &Store{state: newState(), writer: make(chan struct{}, 1)}
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, circulation.ErrNotFound)
}

func (s *Store) read() state {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Store) GetLibrary(_ context.Context, id uuid.UUID) (*circulation.Library, error) {
	lib, ok := s.read().libraries[id]
	if !ok {
		return nil, notFound("library")
	}

	return &lib, nil
}

func (s *Store) ListLibraries(_ context.Context) ([]*circulation.Library, error) {
	st := s.read()

	libs := make([]*circulation.Library, 0, len(st.libraries))
	for _, lib := range st.libraries {
		libs = append(libs, &lib)
	}

	slices.SortFunc(libs, func(a, b *circulation.Library) int { return cmp.Compare(a.Name, b.Name) })

	return libs, nil
}

func (s *Store) UpsertLibrary(ctx context.Context, lib *circulation.Library) error {
	return s.write(ctx, func(st *state) error {
		if existing, ok := st.libraries[lib.ID]; ok {
			lib.CreatedAt = existing.CreatedAt
		}

		st.libraries[lib.ID] = *lib

		return nil
	})
}

func (s *Store) GetCopy(_ context.Context, id uuid.UUID) (*circulation.Copy, error) {
	st := s.read()

	cp, ok := st.copies[id]
	if !ok {
		return nil, notFound("copy")
	}

	return withHolds(st, cp), nil
}

func (s *Store) ListCopies(_ context.Context, libraryID, editionID uuid.UUID) ([]*circulation.Copy, error) {
	st := s.read()

	var copies []*circulation.Copy

	for _, cp := range st.copies {
		if cp.LibraryID == libraryID && cp.EditionID == editionID {
			copies = append(copies, withHolds(st, cp))
		}
	}

	slices.SortFunc(copies, func(a, b *circulation.Copy) int { return cmp.Compare(a.CopyNumber, b.CopyNumber) })

	return copies, nil
}

func (s *Store) GetMember(_ context.Context, id uuid.UUID) (*circulation.Member, error) {
	m, ok := s.read().members[id]
	if !ok {
		return nil, notFound("member")
	}

	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, m *circulation.Member) error {
	return s.write(ctx, func(st *state) error {
		return putMember(st, m, true)
	})
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*circulation.Transaction, error) {
	t, ok := s.read().transactions[id]
	if !ok {
		return nil, notFound("transaction")
	}

	return &t, nil
}

func (s *Store) ListTransactionsByCopy(_ context.Context, copyID uuid.UUID, limit int) ([]*circulation.Transaction, error) {
	txs := filterTransactions(s.read(), func(t circulation.Transaction) bool { return t.CopyID == copyID })

	slices.SortStableFunc(txs, func(a, b *circulation.Transaction) int {
		return b.TransactionDate.Compare(a.TransactionDate)
	})

	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}

	return txs, nil
}

func (s *Store) ListOpenTransactionsByCopy(_ context.Context, copyID uuid.UUID) ([]*circulation.Transaction, error) {
	return filterTransactions(s.read(), func(t circulation.Transaction) bool {
		return t.CopyID == copyID && t.Status.Open()
	}), nil
}

func (s *Store) ListOpenTransactionsByMember(_ context.Context, memberID uuid.UUID) ([]*circulation.Transaction, error) {
	return filterTransactions(s.read(), func(t circulation.Transaction) bool {
		return t.MemberID == memberID && t.Status.Open()
	}), nil
}

func (s *Store) ListOverdueCandidates(_ context.Context, libraryID uuid.UUID, asOf time.Time) ([]*circulation.Transaction, error) {
	txs := filterTransactions(s.read(), func(t circulation.Transaction) bool {
		return t.LibraryID == libraryID && t.Status == circulation.StatusActive &&
			t.DueDate != nil && t.DueDate.Before(asOf)
	})

	slices.SortFunc(txs, func(a, b *circulation.Transaction) int { return a.DueDate.Compare(*b.DueDate) })

	return txs, nil
}

func (s *Store) ListEvents(_ context.Context, transactionID uuid.UUID) ([]circulation.Event, error) {
	var events []circulation.Event

	for _, ev := range s.read().events {
		if ev.TransactionID == transactionID {
			events = append(events, ev)
		}
	}

	return events, nil
}

func (s *Store) ListPendingHoldsByMember(_ context.Context, memberID uuid.UUID) ([]circulation.Hold, error) {
	return pendingHolds(s.read(), func(h circulation.Hold) bool { return h.MemberID == memberID }), nil
}

// Begin waits for the writer slot or for ctx to end.
func (s *Store) Begin(ctx context.Context) (circulation.Tx, error) {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for writer: %w", ctx.Err())
	}

	return &Tx{store: s, state: s.read().clone()}, nil
}

func (s *Store) write(ctx context.Context, fn func(*state) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&tx.(*Tx).state); err != nil {
		return err
	}

	return tx.Commit()
}

func withHolds(st state, cp circulation.Copy) *circulation.Copy {
	cp.HoldQueue = pendingHolds(st, func(h circulation.Hold) bool { return h.CopyID == cp.ID })

	return &cp
}

func pendingHolds(st state, match func(circulation.Hold) bool) []circulation.Hold {
	var holds []circulation.Hold

	for _, h := range st.holds {
		if h.Status == circulation.HoldStatusPending && match(h) {
			holds = append(holds, h)
		}
	}

	slices.SortFunc(holds, func(a, b circulation.Hold) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), a.CreatedAt.Compare(b.CreatedAt))
	})

	return holds
}

func filterTransactions(st state, match func(circulation.Transaction) bool) []*circulation.Transaction {
	var txs []*circulation.Transaction

	for _, t := range st.transactions {
		if match(t) {
			txs = append(txs, &t)
		}
	}

	return txs
}

func putMember(st *state, m *circulation.Member, insert bool) error {
	if _, exists := st.members[m.ID]; exists == insert {
		if insert {
			return fmt.Errorf("%w: member %s already exists", circulation.ErrConflict, m.ID)
		}

		return notFound("member")
	}

	if m.ExternalUserID != nil {
		for _, other := range st.members {
			if other.ID != m.ID && other.LibraryID == m.LibraryID && other.ExternalUserID != nil &&
				*other.ExternalUserID == *m.ExternalUserID && !other.Deleted() {
				return fmt.Errorf("%w: external user already registered in this library", circulation.ErrConflict)
			}
		}
	}

	st.members[m.ID] = *m

	return nil
}
