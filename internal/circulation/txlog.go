package circulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Log is the read side of the transaction log. Writes go through append inside
// the state machine's atomic unit.
type Log struct {
	repo Repository
	now  func() time.Time
}

func NewLog(repo Repository, opts ...Option) *Log {
	o := buildOptions(opts)

	return &Log{repo: repo, now: o.now}
}

// appendLog writes the transaction row and its events in the caller's atomic unit.
// A status change without an event is never written.
func appendLog(ctx context.Context, tx Tx, t *Transaction, insert bool, events ...Event) error {
	if len(events) == 0 {
		return fmt.Errorf("appending transaction %s: no events", t.ID)
	}

	if insert {
		if err := tx.InsertTransaction(ctx, t); err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
	} else {
		if err := tx.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}
	}

	if err := tx.AppendEvents(ctx, events); err != nil {
		return fmt.Errorf("appending events: %w", err)
	}

	return nil
}

func newEvent(t *Transaction, typ EventType, actor *uuid.UUID, at time.Time, payload map[string]any) (Event, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	payload["status"] = t.Status

	raw, err := jsoniter.ConfigFastest.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encoding %s payload: %w", typ, err)
	}

	return Event{
		TransactionID: t.ID,
		LibraryID:     t.LibraryID,
		Type:          typ,
		ActorID:       actor,
		Payload:       raw,
		OccurredAt:    at,
	}, nil
}

// GetTransaction returns a transaction owned by libraryID with the overdue label derived.
func (l *Log) GetTransaction(ctx context.Context, libraryID, transactionID uuid.UUID) (*Transaction, error) {
	t, err := l.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := checkTenant(libraryID, t.LibraryID, "transaction"); err != nil {
		return nil, err
	}

	t.Status = t.EffectiveStatus(l.now())

	return t, nil
}

// History returns the copy's transactions, newest first.
func (l *Log) History(ctx context.Context, libraryID, copyID uuid.UUID, limit int) ([]*Transaction, error) {
	if err := l.ownCopy(ctx, libraryID, copyID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	limit = min(limit, maxHistoryLimit)

	txs, err := l.repo.ListTransactionsByCopy(ctx, copyID, limit)
	if err != nil {
		return nil, err
	}

	now := l.now()
	for _, t := range txs {
		t.Status = t.EffectiveStatus(now)
	}

	return txs, nil
}

// FindActive returns the copy's transactions that still hold a unit of availability.
func (l *Log) FindActive(ctx context.Context, libraryID, copyID uuid.UUID) ([]*Transaction, error) {
	if err := l.ownCopy(ctx, libraryID, copyID); err != nil {
		return nil, err
	}

	txs, err := l.repo.ListOpenTransactionsByCopy(ctx, copyID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	for _, t := range txs {
		t.Status = t.EffectiveStatus(now)
	}

	return txs, nil
}

// Events returns the audit trail of one transaction in sequence order.
func (l *Log) Events(ctx context.Context, libraryID, transactionID uuid.UUID) ([]Event, error) {
	t, err := l.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := checkTenant(libraryID, t.LibraryID, "transaction"); err != nil {
		return nil, err
	}

	return l.repo.ListEvents(ctx, transactionID)
}

// History stays readable for soft-deleted copies; ownership is still enforced.
func (l *Log) ownCopy(ctx context.Context, libraryID, copyID uuid.UUID) error {
	cp, err := l.repo.GetCopy(ctx, copyID)
	if err != nil {
		return err
	}

	return checkTenant(libraryID, cp.LibraryID, "copy")
}
