package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

type Store struct {
	db *sql.DB
}

var _ circulation.Repository = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// mapError turns constraint violations into circulation.ErrConflict.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514":
			return fmt.Errorf("%w: %s: %s", circulation.ErrConflict, op, pgErr.Message)
		case "40001", "40P01":
			return fmt.Errorf("%w: %s: concurrent update", circulation.ErrConflict, op)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, circulation.ErrNotFound)
}

// settingsDoc is the JSONB shape of libraries.settings.
type settingsDoc struct {
	LoanPeriodDays    int   `json:"loan_period_days"`
	MaxRenewals       int   `json:"max_renewals"`
	LateFeePerDay     int64 `json:"late_fee_per_day"`
	MaxLateFee        int64 `json:"max_late_fee"`
	LostItemFee       int64 `json:"lost_item_fee"`
	LostProcessingFee int64 `json:"lost_processing_fee"`
	MaxActiveLoans    int   `json:"max_active_loans"`
}

func encodeSettings(s circulation.Settings) ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(settingsDoc{
		LoanPeriodDays:    int(s.DefaultLoanPeriod / (24 * time.Hour)),
		MaxRenewals:       s.MaxRenewals,
		LateFeePerDay:     s.LateFeePerDay,
		MaxLateFee:        s.MaxLateFee,
		LostItemFee:       s.LostItemFee,
		LostProcessingFee: s.LostProcessingFee,
		MaxActiveLoans:    s.MaxActiveLoans,
	})
}

// decodeSettings overlays the stored document on the defaults so missing keys keep their default.
func decodeSettings(raw []byte) (circulation.Settings, error) {
	s := circulation.DefaultSettings()

	doc := settingsDoc{
		LoanPeriodDays:    int(s.DefaultLoanPeriod / (24 * time.Hour)),
		MaxRenewals:       s.MaxRenewals,
		LateFeePerDay:     s.LateFeePerDay,
		MaxLateFee:        s.MaxLateFee,
		LostItemFee:       s.LostItemFee,
		LostProcessingFee: s.LostProcessingFee,
		MaxActiveLoans:    s.MaxActiveLoans,
	}

	if len(raw) > 0 {
		if err := jsoniter.ConfigFastest.Unmarshal(raw, &doc); err != nil {
			return s, fmt.Errorf("decoding library settings: %w", err)
		}
	}

	return circulation.Settings{
		DefaultLoanPeriod: time.Duration(doc.LoanPeriodDays) * 24 * time.Hour,
		MaxRenewals:       doc.MaxRenewals,
		LateFeePerDay:     doc.LateFeePerDay,
		MaxLateFee:        doc.MaxLateFee,
		LostItemFee:       doc.LostItemFee,
		LostProcessingFee: doc.LostProcessingFee,
		MaxActiveLoans:    doc.MaxActiveLoans,
	}, nil
}

const selectLibraryColumns = `id, name, status, settings, created_at, updated_at`

func scanLibrary(s scanner) (*circulation.Library, error) {
	var lib circulation.Library

	var status string

	var settings []byte

	if err := s.Scan(&lib.ID, &lib.Name, &status, &settings, &lib.CreatedAt, &lib.UpdatedAt); err != nil {
		return nil, err
	}

	lib.Status = circulation.LibraryStatus(status)

	parsed, err := decodeSettings(settings)
	if err != nil {
		return nil, err
	}

	lib.Settings = parsed

	return &lib, nil
}

const selectCopyColumns = `
	id, library_id, edition_id, copy_number, barcode, status, condition, location,
	total_copies, available_copies, current_borrower_id, due_date, version,
	created_at, updated_at, deleted_at, deleted_by
`

func scanCopy(s scanner) (*circulation.Copy, error) {
	var cp circulation.Copy

	var status string

	var barcode sql.NullString

	if err := s.Scan(
		&cp.ID, &cp.LibraryID, &cp.EditionID, &cp.CopyNumber, &barcode, &status, &cp.Condition, &cp.Location,
		&cp.TotalCopies, &cp.AvailableCopies, &cp.CurrentBorrowerID, &cp.DueDate, &cp.Version,
		&cp.CreatedAt, &cp.UpdatedAt, &cp.DeletedAt, &cp.DeletedBy,
	); err != nil {
		return nil, err
	}

	cp.Status = circulation.CopyStatus(status)

	if barcode.Valid {
		cp.Barcode = &barcode.String
	}

	return &cp, nil
}

const selectMemberColumns = `
	id, library_id, display_name, external_user_id, status, created_at, updated_at, deleted_at, deleted_by
`

func scanMember(s scanner) (*circulation.Member, error) {
	var m circulation.Member

	var status string

	var external sql.NullString

	if err := s.Scan(
		&m.ID, &m.LibraryID, &m.DisplayName, &external, &status,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt, &m.DeletedBy,
	); err != nil {
		return nil, err
	}

	m.Status = circulation.MemberStatus(status)

	if external.Valid {
		m.ExternalUserID = &external.String
	}

	return &m, nil
}

const selectTransactionColumns = `
	id, library_id, copy_id, member_id, staff_id, type, status, transaction_date, due_date, return_date,
	renewal_count, late_fee, damage_fee, processing_fee, notes, created_at, updated_at
`

func scanTransaction(s scanner) (*circulation.Transaction, error) {
	var t circulation.Transaction

	var typeStr, statusStr string

	if err := s.Scan(
		&t.ID, &t.LibraryID, &t.CopyID, &t.MemberID, &t.StaffID, &typeStr, &statusStr,
		&t.TransactionDate, &t.DueDate, &t.ReturnDate,
		&t.RenewalCount, &t.Fees.Late, &t.Fees.Damage, &t.Fees.Processing, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Type = circulation.Type(typeStr)
	t.Status = circulation.Status(statusStr)

	return &t, nil
}

const selectHoldColumns = `id, library_id, copy_id, member_id, status, position, created_at, updated_at`

func scanHold(s scanner) (circulation.Hold, error) {
	var h circulation.Hold

	var status string

	if err := s.Scan(&h.ID, &h.LibraryID, &h.CopyID, &h.MemberID, &status, &h.Position, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return circulation.Hold{}, err
	}

	h.Status = circulation.HoldStatus(status)

	return h, nil
}

func queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]*circulation.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*circulation.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func queryHolds(ctx context.Context, q querier, query string, args ...any) ([]circulation.Hold, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing holds: %w", err)
	}
	defer rows.Close()

	var holds []circulation.Hold

	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning hold: %w", err)
		}

		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holds: %w", err)
	}

	return holds, nil
}

func loadHoldQueue(ctx context.Context, q querier, cp *circulation.Copy) error {
	holds, err := queryHolds(ctx, q, `SELECT `+selectHoldColumns+`
		FROM copy_holds
		WHERE copy_id = $1 AND status = 'pending'
		ORDER BY position, created_at`, cp.ID)
	if err != nil {
		return err
	}

	cp.HoldQueue = holds

	return nil
}

func getMember(ctx context.Context, q querier, id uuid.UUID, lock bool) (*circulation.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	m, err := scanMember(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("member")
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func getTransaction(ctx context.Context, q querier, id uuid.UUID, lock bool) (*circulation.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	t, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("transaction")
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

func (s *Store) GetLibrary(ctx context.Context, id uuid.UUID) (*circulation.Library, error) {
	lib, err := scanLibrary(s.db.QueryRowContext(ctx, `SELECT `+selectLibraryColumns+` FROM libraries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("library")
		}

		return nil, fmt.Errorf("getting library: %w", err)
	}

	return lib, nil
}

func (s *Store) ListLibraries(ctx context.Context) ([]*circulation.Library, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectLibraryColumns+` FROM libraries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing libraries: %w", err)
	}
	defer rows.Close()

	var libs []*circulation.Library

	for rows.Next() {
		lib, err := scanLibrary(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning library: %w", err)
		}

		libs = append(libs, lib)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating libraries: %w", err)
	}

	return libs, nil
}

func (s *Store) UpsertLibrary(ctx context.Context, lib *circulation.Library) error {
	settings, err := encodeSettings(lib.Settings)
	if err != nil {
		return fmt.Errorf("encoding library settings: %w", err)
	}

	query := `
		INSERT INTO libraries (id, name, status, settings, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, status = EXCLUDED.status, settings = EXCLUDED.settings, updated_at = NOW()
		RETURNING created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, lib.ID, lib.Name, lib.Status, settings).
		Scan(&lib.CreatedAt, &lib.UpdatedAt); err != nil {
		return mapError("upserting library", err)
	}

	return nil
}

func (s *Store) GetCopy(ctx context.Context, id uuid.UUID) (*circulation.Copy, error) {
	cp, err := scanCopy(s.db.QueryRowContext(ctx, `SELECT `+selectCopyColumns+` FROM copies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("copy")
		}

		return nil, fmt.Errorf("getting copy: %w", err)
	}

	if err := loadHoldQueue(ctx, s.db, cp); err != nil {
		return nil, err
	}

	return cp, nil
}

func (s *Store) ListCopies(ctx context.Context, libraryID, editionID uuid.UUID) ([]*circulation.Copy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectCopyColumns+`
		FROM copies
		WHERE library_id = $1 AND edition_id = $2
		ORDER BY copy_number`, libraryID, editionID)
	if err != nil {
		return nil, fmt.Errorf("listing copies: %w", err)
	}
	defer rows.Close()

	var copies []*circulation.Copy

	for rows.Next() {
		cp, err := scanCopy(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning copy: %w", err)
		}

		copies = append(copies, cp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating copies: %w", err)
	}

	return copies, nil
}

func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (*circulation.Member, error) {
	return getMember(ctx, s.db, id, false)
}

func (s *Store) CreateMember(ctx context.Context, m *circulation.Member) error {
	query := `
		INSERT INTO members (id, library_id, display_name, external_user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := s.db.ExecContext(ctx, query,
		m.ID, m.LibraryID, m.DisplayName, m.ExternalUserID, m.Status, m.CreatedAt,
	); err != nil {
		return mapError("creating member", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*circulation.Transaction, error) {
	return getTransaction(ctx, s.db, id, false)
}

func (s *Store) ListTransactionsByCopy(ctx context.Context, copyID uuid.UUID, limit int) ([]*circulation.Transaction, error) {
	return queryTransactions(ctx, s.db, `SELECT `+selectTransactionColumns+`
		FROM transactions
		WHERE copy_id = $1
		ORDER BY transaction_date DESC
		LIMIT $2`, copyID, limit)
}

func (s *Store) ListOpenTransactionsByCopy(ctx context.Context, copyID uuid.UUID) ([]*circulation.Transaction, error) {
	return queryTransactions(ctx, s.db, `SELECT `+selectTransactionColumns+`
		FROM transactions
		WHERE copy_id = $1 AND status IN ('active', 'overdue')
		ORDER BY transaction_date`, copyID)
}

func (s *Store) ListOpenTransactionsByMember(ctx context.Context, memberID uuid.UUID) ([]*circulation.Transaction, error) {
	return queryTransactions(ctx, s.db, `SELECT `+selectTransactionColumns+`
		FROM transactions
		WHERE member_id = $1 AND status IN ('active', 'overdue')
		ORDER BY transaction_date`, memberID)
}

func (s *Store) ListOverdueCandidates(ctx context.Context, libraryID uuid.UUID, asOf time.Time) ([]*circulation.Transaction, error) {
	return queryTransactions(ctx, s.db, `SELECT `+selectTransactionColumns+`
		FROM transactions
		WHERE library_id = $1 AND status = 'active' AND due_date < $2
		ORDER BY due_date`, libraryID, asOf)
}

func (s *Store) ListEvents(ctx context.Context, transactionID uuid.UUID) ([]circulation.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence, transaction_id, library_id, type, actor_id, payload, occurred_at
		FROM transaction_events
		WHERE transaction_id = $1
		ORDER BY sequence`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []circulation.Event

	for rows.Next() {
		var ev circulation.Event

		var typ string

		if err := rows.Scan(&ev.Sequence, &ev.TransactionID, &ev.LibraryID, &typ, &ev.ActorID, &ev.Payload, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		ev.Type = circulation.EventType(typ)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

func (s *Store) ListPendingHoldsByMember(ctx context.Context, memberID uuid.UUID) ([]circulation.Hold, error) {
	return queryHolds(ctx, s.db, `SELECT `+selectHoldColumns+`
		FROM copy_holds
		WHERE member_id = $1 AND status = 'pending'
		ORDER BY created_at`, memberID)
}

func (s *Store) Begin(ctx context.Context) (circulation.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}

	return &pgTx{tx: dbTx}, nil
}
