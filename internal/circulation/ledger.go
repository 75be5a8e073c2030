package circulation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ledger owns physical-copy existence, availability counts and hold queues.
type Ledger struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewLedger(repo Repository, opts ...Option) *Ledger {
	o := buildOptions(opts)

	return &Ledger{repo: repo, notifier: o.notifier, now: o.now}
}

// RegisterCopies creates count copies numbered after the highest number ever issued for the pair.
func (l *Ledger) RegisterCopies(ctx context.Context, libraryID, editionID uuid.UUID, count int, placement Placement) (copies []*Copy, err error) {
	defer func(start time.Time) { observe("register_copies", start, err) }(time.Now())

	if count < 1 {
		return nil, validationf("copy count must be at least 1, got %d", count)
	}

	if editionID == uuid.Nil {
		return nil, validationf("edition id is required")
	}

	if len(placement.Barcodes) > 0 && len(placement.Barcodes) != count {
		return nil, validationf("got %d barcodes for %d copies", len(placement.Barcodes), count)
	}

	for _, b := range placement.Barcodes {
		if strings.TrimSpace(b) == "" {
			return nil, validationf("barcodes must not be blank")
		}
	}

	if _, err := loadLibrary(ctx, l.repo, libraryID, true); err != nil {
		return nil, err
	}

	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback()

	highest, err := tx.LockEditionNumbering(ctx, libraryID, editionID)
	if err != nil {
		return nil, fmt.Errorf("lock edition numbering: %w", err)
	}

	now := l.now()
	condition := placement.Condition
	if condition == "" {
		condition = "good"
	}

	copies = make([]*Copy, count)
	for i := range copies {
		cp := &Copy{
			ID:              uuid.New(),
			LibraryID:       libraryID,
			EditionID:       editionID,
			CopyNumber:      highest + i + 1,
			Status:          CopyStatusActive,
			Condition:       condition,
			Location:        placement.Location,
			TotalCopies:     1,
			AvailableCopies: 1,
			Version:         1,
			CreatedAt:       now,
		}

		if len(placement.Barcodes) > 0 {
			cp.Barcode = new(strings.TrimSpace(placement.Barcodes[i]))
		}

		copies[i] = cp
	}

	if err := tx.InsertCopies(ctx, copies); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register: %w", err)
	}

	slog.Info("copies registered",
		"library_id", libraryID, "edition_id", editionID, "count", count, "first_number", highest+1)

	return copies, nil
}

// GetCopy returns a non-deleted copy owned by libraryID.
func (l *Ledger) GetCopy(ctx context.Context, libraryID, copyID uuid.UUID) (*Copy, error) {
	cp, err := l.repo.GetCopy(ctx, copyID)
	if err != nil {
		return nil, err
	}

	if err := checkTenant(libraryID, cp.LibraryID, "copy"); err != nil {
		return nil, err
	}

	if cp.Deleted() {
		return nil, notFound("copy")
	}

	return cp, nil
}

// GetAvailability aggregates all non-deleted copies of the edition in the library.
// Only active copies contribute to Available.
func (l *Ledger) GetAvailability(ctx context.Context, libraryID, editionID uuid.UUID) (Availability, error) {
	if _, err := loadLibrary(ctx, l.repo, libraryID, false); err != nil {
		return Availability{}, err
	}

	copies, err := l.repo.ListCopies(ctx, libraryID, editionID)
	if err != nil {
		return Availability{}, err
	}

	a := Availability{LibraryID: libraryID, EditionID: editionID}

	for _, cp := range copies {
		if cp.LibraryID != libraryID || cp.Deleted() {
			continue
		}

		a.Total += cp.TotalCopies
		if cp.Status == CopyStatusActive {
			a.Available += cp.AvailableCopies
		}
	}

	return a, nil
}

// AdjustAvailability is the only mutator of AvailableCopies. It writes the copy row,
// including any other field changes already made on cp, with a version check.
// Results outside [0, TotalCopies] are rejected with ErrConflict, never clamped.
func (l *Ledger) AdjustAvailability(ctx context.Context, tx Tx, cp *Copy, delta int) (*Copy, error) {
	next := cp.AvailableCopies + delta
	if next < 0 {
		return nil, conflictf("no copies available")
	}

	if next > cp.TotalCopies {
		return nil, conflictf("available copies would exceed total (%d > %d)", next, cp.TotalCopies)
	}

	cp.AvailableCopies = next

	return cp, l.writeCopy(ctx, tx, cp)
}

func (l *Ledger) writeCopy(ctx context.Context, tx Tx, cp *Copy) error {
	cp.UpdatedAt = new(l.now())

	return tx.UpdateCopy(ctx, cp, cp.Version)
}

var copyTransitions = map[CopyStatus][]CopyStatus{
	CopyStatusActive:      {CopyStatusInactive, CopyStatusDamaged, CopyStatusMaintenance, CopyStatusLost},
	CopyStatusInactive:    {CopyStatusActive, CopyStatusDamaged, CopyStatusMaintenance, CopyStatusLost},
	CopyStatusDamaged:     {CopyStatusActive, CopyStatusInactive, CopyStatusMaintenance, CopyStatusLost},
	CopyStatusMaintenance: {CopyStatusActive, CopyStatusInactive, CopyStatusDamaged, CopyStatusLost},
	CopyStatusLost:        {CopyStatusInactive},
}

func canTransition(from, to CopyStatus) bool {
	for _, s := range copyTransitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// MarkCopyStatus changes a copy's physical status. A lost copy can only be retired (inactive),
// and only once no loan on it is open.
func (l *Ledger) MarkCopyStatus(ctx context.Context, libraryID, copyID uuid.UUID, status CopyStatus) (cp *Copy, err error) {
	defer func(start time.Time) { observe("mark_copy_status", start, err) }(time.Now())

	if !status.Valid() {
		return nil, validationf("unknown copy status %q", status)
	}

	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin mark status: %w", err)
	}
	defer tx.Rollback()

	cp, err = lockCopy(ctx, tx, libraryID, copyID)
	if err != nil {
		return nil, err
	}

	if cp.Status == status {
		return cp, nil
	}

	if !canTransition(cp.Status, status) {
		return nil, ineligiblef("copy cannot move from %s to %s", cp.Status, status)
	}

	if cp.Status == CopyStatusLost {
		open, err := tx.CountOpenTransactionsByCopy(ctx, copyID)
		if err != nil {
			return nil, fmt.Errorf("counting open loans: %w", err)
		}

		if open > 0 {
			return nil, conflictf("lost copy still has %d open loan(s)", open)
		}
	}

	var notices []HoldNotice

	if status == CopyStatusLost {
		notices, err = l.markLost(ctx, tx, cp)
		if err != nil {
			return nil, err
		}
	} else {
		cp.Status = status
		if err := l.writeCopy(ctx, tx, cp); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mark status: %w", err)
	}

	notifyReassignment(ctx, l.notifier, notices)

	slog.Info("copy status changed", "library_id", libraryID, "copy_id", copyID, "status", status)

	return cp, nil
}

// markLost moves the copy to lost, zeroes its availability and releases its hold queue.
// The returned notices must be sent after commit.
func (l *Ledger) markLost(ctx context.Context, tx Tx, cp *Copy) ([]HoldNotice, error) {
	notices, err := releaseHolds(ctx, tx, cp, ReasonCopyLost)
	if err != nil {
		return nil, err
	}

	cp.Status = CopyStatusLost
	if _, err := l.AdjustAvailability(ctx, tx, cp, -cp.AvailableCopies); err != nil {
		return nil, err
	}

	return notices, nil
}

func releaseHolds(ctx context.Context, tx Tx, cp *Copy, reason string) ([]HoldNotice, error) {
	notices := make([]HoldNotice, 0, len(cp.HoldQueue))

	for _, h := range cp.HoldQueue {
		if err := tx.UpdateHoldStatus(ctx, h.ID, HoldStatusNeedsReassignment); err != nil {
			return nil, fmt.Errorf("releasing hold %s: %w", h.ID, err)
		}

		notices = append(notices, HoldNotice{
			LibraryID: cp.LibraryID,
			CopyID:    cp.ID,
			HoldID:    h.ID,
			MemberID:  h.MemberID,
			Reason:    reason,
		})
	}

	cp.HoldQueue = nil

	return notices, nil
}

// SoftDeleteCopy re-checks for open loans at mutation time so a stale safety check cannot
// delete a copy that was checked out in between.
func (l *Ledger) SoftDeleteCopy(ctx context.Context, libraryID, copyID, actorID uuid.UUID) (err error) {
	defer func(start time.Time) { observe("soft_delete_copy", start, err) }(time.Now())

	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin soft delete: %w", err)
	}
	defer tx.Rollback()

	cp, err := lockCopy(ctx, tx, libraryID, copyID)
	if err != nil {
		return err
	}

	open, err := tx.CountOpenTransactionsByCopy(ctx, copyID)
	if err != nil {
		return fmt.Errorf("counting open loans: %w", err)
	}

	if open > 0 {
		return conflictf("copy has %d active loan(s)", open)
	}

	notices, err := releaseHolds(ctx, tx, cp, ReasonCopyDeleted)
	if err != nil {
		return err
	}

	cp.DeletedAt = new(l.now())
	cp.DeletedBy = new(actorID)

	if err := l.writeCopy(ctx, tx, cp); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit soft delete: %w", err)
	}

	notifyReassignment(ctx, l.notifier, notices)

	slog.Info("copy soft-deleted", "library_id", libraryID, "copy_id", copyID, "actor_id", actorID)

	return nil
}

// PlaceHold appends the member to the copy's hold queue.
func (l *Ledger) PlaceHold(ctx context.Context, libraryID, copyID, memberID uuid.UUID) (h *Hold, err error) {
	defer func(start time.Time) { observe("place_hold", start, err) }(time.Now())

	if _, err := loadLibrary(ctx, l.repo, libraryID, true); err != nil {
		return nil, err
	}

	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin hold: %w", err)
	}
	defer tx.Rollback()

	cp, err := lockCopy(ctx, tx, libraryID, copyID)
	if err != nil {
		return nil, err
	}

	member, err := loadMember(ctx, tx, libraryID, memberID)
	if err != nil {
		return nil, err
	}

	if member.Status != MemberStatusActive {
		return nil, ineligiblef("member is %s", member.Status)
	}

	if cp.Status == CopyStatusLost {
		return nil, ineligiblef("copy is lost")
	}

	if cp.CurrentBorrowerID != nil && *cp.CurrentBorrowerID == memberID {
		return nil, ineligiblef("member already has this copy checked out")
	}

	if _, held := cp.holdFor(memberID); held {
		return nil, conflictf("member already holds this copy")
	}

	position := 1
	if n := len(cp.HoldQueue); n > 0 {
		position = cp.HoldQueue[n-1].Position + 1
	}

	h = &Hold{
		ID:        uuid.New(),
		LibraryID: libraryID,
		CopyID:    copyID,
		MemberID:  memberID,
		Status:    HoldStatusPending,
		Position:  position,
		CreatedAt: l.now(),
	}

	if err := tx.InsertHold(ctx, h); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit hold: %w", err)
	}

	return h, nil
}

// CancelHold removes the member's pending hold from the copy's queue.
func (l *Ledger) CancelHold(ctx context.Context, libraryID, copyID, memberID uuid.UUID) (err error) {
	defer func(start time.Time) { observe("cancel_hold", start, err) }(time.Now())

	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel hold: %w", err)
	}
	defer tx.Rollback()

	cp, err := lockCopy(ctx, tx, libraryID, copyID)
	if err != nil {
		return err
	}

	h, ok := cp.holdFor(memberID)
	if !ok {
		return notFound("hold")
	}

	if err := tx.UpdateHoldStatus(ctx, h.ID, HoldStatusCancelled); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel hold: %w", err)
	}

	return nil
}
