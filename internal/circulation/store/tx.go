package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

// pgTx locks rows with SELECT ... FOR UPDATE. Locks are taken transaction row first,
// then copy row, then member row.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Commit() error   { return t.tx.Commit() }
func (t *pgTx) Rollback() error { return t.tx.Rollback() }

func (t *pgTx) LockCopy(ctx context.Context, id uuid.UUID) (*circulation.Copy, error) {
	cp, err := scanCopy(t.tx.QueryRowContext(ctx, `SELECT `+selectCopyColumns+` FROM copies WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("copy")
		}

		return nil, fmt.Errorf("locking copy: %w", err)
	}

	if err := loadHoldQueue(ctx, t.tx, cp); err != nil {
		return nil, err
	}

	return cp, nil
}

func numberingLockKey(libraryID, editionID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(libraryID[:])
	h.Write([]byte{0})
	h.Write(editionID[:])

	return int64(h.Sum64())
}

func (t *pgTx) LockEditionNumbering(ctx context.Context, libraryID, editionID uuid.UUID) (int, error) {
	if _, err := t.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", numberingLockKey(libraryID, editionID)); err != nil {
		return 0, fmt.Errorf("acquiring numbering lock: %w", err)
	}

	var highest int
	if err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(copy_number), 0) FROM copies WHERE library_id = $1 AND edition_id = $2`,
		libraryID, editionID,
	).Scan(&highest); err != nil {
		return 0, fmt.Errorf("reading highest copy number: %w", err)
	}

	return highest, nil
}

func (t *pgTx) InsertCopies(ctx context.Context, copies []*circulation.Copy) error {
	query := `
		INSERT INTO copies (
			id, library_id, edition_id, copy_number, barcode, status, condition, location,
			total_copies, available_copies, version, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, cp := range copies {
		if _, err := t.tx.ExecContext(ctx, query,
			cp.ID, cp.LibraryID, cp.EditionID, cp.CopyNumber, cp.Barcode, cp.Status, cp.Condition, cp.Location,
			cp.TotalCopies, cp.AvailableCopies, cp.Version, cp.CreatedAt,
		); err != nil {
			return mapError("inserting copy", err)
		}
	}

	return nil
}

// UpdateCopy is a compare-and-swap on the version column.
func (t *pgTx) UpdateCopy(ctx context.Context, cp *circulation.Copy, expectedVersion int64) error {
	query := `
		UPDATE copies
		SET status = $1, condition = $2, location = $3, total_copies = $4, available_copies = $5,
			current_borrower_id = $6, due_date = $7, updated_at = $8, deleted_at = $9, deleted_by = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING version
	`

	var next int64

	err := t.tx.QueryRowContext(ctx, query,
		cp.Status, cp.Condition, cp.Location, cp.TotalCopies, cp.AvailableCopies,
		cp.CurrentBorrowerID, cp.DueDate, cp.UpdatedAt, cp.DeletedAt, cp.DeletedBy,
		cp.ID, expectedVersion,
	).Scan(&next)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: copy %s was modified concurrently", circulation.ErrConflict, cp.ID)
		}

		return mapError("updating copy", err)
	}

	cp.Version = next

	return nil
}

func (t *pgTx) GetMember(ctx context.Context, id uuid.UUID) (*circulation.Member, error) {
	return getMember(ctx, t.tx, id, true)
}

func (t *pgTx) UpdateMember(ctx context.Context, m *circulation.Member) error {
	query := `
		UPDATE members
		SET display_name = $1, external_user_id = $2, status = $3, updated_at = $4, deleted_at = $5, deleted_by = $6
		WHERE id = $7
	`

	res, err := t.tx.ExecContext(ctx, query,
		m.DisplayName, m.ExternalUserID, m.Status, m.UpdatedAt, m.DeletedAt, m.DeletedBy, m.ID,
	)
	if err != nil {
		return mapError("updating member", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("member")
	}

	return nil
}

func (t *pgTx) GetTransaction(ctx context.Context, id uuid.UUID) (*circulation.Transaction, error) {
	return getTransaction(ctx, t.tx, id, true)
}

func (t *pgTx) CountOpenTransactionsByCopy(ctx context.Context, copyID uuid.UUID) (int, error) {
	var n int
	if err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE copy_id = $1 AND status IN ('active', 'overdue')`, copyID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting open transactions: %w", err)
	}

	return n, nil
}

func (t *pgTx) CountOpenTransactionsByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	var n int
	if err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE member_id = $1 AND status IN ('active', 'overdue')`, memberID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting open transactions: %w", err)
	}

	return n, nil
}

func (t *pgTx) InsertTransaction(ctx context.Context, tr *circulation.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, library_id, copy_id, member_id, staff_id, type, status, transaction_date, due_date, return_date,
			renewal_count, late_fee, damage_fee, processing_fee, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	if _, err := t.tx.ExecContext(ctx, query,
		tr.ID, tr.LibraryID, tr.CopyID, tr.MemberID, tr.StaffID, tr.Type, tr.Status,
		tr.TransactionDate, tr.DueDate, tr.ReturnDate,
		tr.RenewalCount, tr.Fees.Late, tr.Fees.Damage, tr.Fees.Processing, tr.Notes, tr.CreatedAt,
	); err != nil {
		return mapError("inserting transaction", err)
	}

	return nil
}

func (t *pgTx) UpdateTransaction(ctx context.Context, tr *circulation.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $1, due_date = $2, return_date = $3, renewal_count = $4,
			late_fee = $5, damage_fee = $6, processing_fee = $7, notes = $8, updated_at = $9
		WHERE id = $10
	`

	res, err := t.tx.ExecContext(ctx, query,
		tr.Status, tr.DueDate, tr.ReturnDate, tr.RenewalCount,
		tr.Fees.Late, tr.Fees.Damage, tr.Fees.Processing, tr.Notes, tr.UpdatedAt, tr.ID,
	)
	if err != nil {
		return mapError("updating transaction", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("transaction")
	}

	return nil
}

func (t *pgTx) AppendEvents(ctx context.Context, events []circulation.Event) error {
	query := `
		INSERT INTO transaction_events (transaction_id, library_id, type, actor_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sequence
	`

	for i := range events {
		ev := &events[i]

		if err := t.tx.QueryRowContext(ctx, query,
			ev.TransactionID, ev.LibraryID, ev.Type, ev.ActorID, ev.Payload, ev.OccurredAt,
		).Scan(&ev.Sequence); err != nil {
			return mapError("appending event", err)
		}
	}

	return nil
}

func (t *pgTx) InsertHold(ctx context.Context, h *circulation.Hold) error {
	query := `
		INSERT INTO copy_holds (id, library_id, copy_id, member_id, status, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := t.tx.ExecContext(ctx, query,
		h.ID, h.LibraryID, h.CopyID, h.MemberID, h.Status, h.Position, h.CreatedAt,
	); err != nil {
		return mapError("inserting hold", err)
	}

	return nil
}

func (t *pgTx) UpdateHoldStatus(ctx context.Context, id uuid.UUID, status circulation.HoldStatus) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE copy_holds SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return mapError("updating hold", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("hold")
	}

	return nil
}

func (t *pgTx) ListPendingHoldsByMember(ctx context.Context, memberID uuid.UUID) ([]circulation.Hold, error) {
	return queryHolds(ctx, t.tx, `SELECT `+selectHoldColumns+`
		FROM copy_holds
		WHERE member_id = $1 AND status = 'pending'
		ORDER BY created_at
		FOR UPDATE`, memberID)
}
