package circulation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the read side plus the entry point for atomic units of work.
// Getters return entities regardless of owner and soft-delete state; tenant and
// deletion checks are made by the callers in this package.
//
//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=circulation
type Repository interface {
	GetLibrary(ctx context.Context, id uuid.UUID) (*Library, error)
	ListLibraries(ctx context.Context) ([]*Library, error)
	UpsertLibrary(ctx context.Context, lib *Library) error

	GetCopy(ctx context.Context, id uuid.UUID) (*Copy, error)
	ListCopies(ctx context.Context, libraryID, editionID uuid.UUID) ([]*Copy, error)

	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	CreateMember(ctx context.Context, m *Member) error

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactionsByCopy(ctx context.Context, copyID uuid.UUID, limit int) ([]*Transaction, error)
	ListOpenTransactionsByCopy(ctx context.Context, copyID uuid.UUID) ([]*Transaction, error)
	ListOpenTransactionsByMember(ctx context.Context, memberID uuid.UUID) ([]*Transaction, error)
	ListOverdueCandidates(ctx context.Context, libraryID uuid.UUID, asOf time.Time) ([]*Transaction, error)
	ListEvents(ctx context.Context, transactionID uuid.UUID) ([]Event, error)
	ListPendingHoldsByMember(ctx context.Context, memberID uuid.UUID) ([]Hold, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit. Copies read through LockCopy stay locked until Commit or Rollback.
type Tx interface {
	LockCopy(ctx context.Context, id uuid.UUID) (*Copy, error)
	// LockEditionNumbering serialises copy registration for the pair and returns the
	// highest copy number ever issued for it, soft-deleted copies included.
	LockEditionNumbering(ctx context.Context, libraryID, editionID uuid.UUID) (int, error)
	InsertCopies(ctx context.Context, copies []*Copy) error
	// UpdateCopy writes the row only if its version still equals expectedVersion,
	// returning ErrConflict otherwise. On success copy.Version is advanced.
	UpdateCopy(ctx context.Context, copy *Copy, expectedVersion int64) error

	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	UpdateMember(ctx context.Context, m *Member) error

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	CountOpenTransactionsByCopy(ctx context.Context, copyID uuid.UUID) (int, error)
	CountOpenTransactionsByMember(ctx context.Context, memberID uuid.UUID) (int, error)
	InsertTransaction(ctx context.Context, t *Transaction) error
	UpdateTransaction(ctx context.Context, t *Transaction) error
	AppendEvents(ctx context.Context, events []Event) error

	InsertHold(ctx context.Context, h *Hold) error
	UpdateHoldStatus(ctx context.Context, id uuid.UUID, status HoldStatus) error
	ListPendingHoldsByMember(ctx context.Context, memberID uuid.UUID) ([]Hold, error)

	Commit() error
	Rollback() error
}
