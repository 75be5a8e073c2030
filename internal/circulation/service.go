package circulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service is the circulation state machine. It is the only component that changes a
// transaction's status together with its copy's availability.
type Service struct {
	repo     Repository
	ledger   *Ledger
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, ledger *Ledger, opts ...Option) *Service {
	o := buildOptions(opts)

	return &Service{repo: repo, ledger: ledger, notifier: o.notifier, now: o.now}
}

type CheckoutParams struct {
	LibraryID  uuid.UUID
	CopyID     uuid.UUID
	MemberID   uuid.UUID
	StaffID    *uuid.UUID
	LoanPeriod time.Duration // zero or less uses the library default
}

type ReturnParams struct {
	LibraryID      uuid.UUID
	TransactionID  uuid.UUID
	StaffID        *uuid.UUID
	ConditionNotes string
}

type RenewParams struct {
	LibraryID     uuid.UUID
	TransactionID uuid.UUID
	StaffID       *uuid.UUID
	Extension     time.Duration // zero or less uses the library default loan period
}

type DeclareLostParams struct {
	LibraryID     uuid.UUID
	TransactionID uuid.UUID
	StaffID       *uuid.UUID
	FeeOverride   *int64
}

// Result pairs the transaction with the copy state after the command.
type Result struct {
	Transaction *Transaction
	Copy        *Copy
}

func (s *Service) Checkout(ctx context.Context, p CheckoutParams) (res *Result, err error) {
	defer func(start time.Time) { observe("checkout", start, err) }(time.Now())

	lib, err := loadLibrary(ctx, s.repo, p.LibraryID, true)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	cp, err := lockCopy(ctx, tx, p.LibraryID, p.CopyID)
	if err != nil {
		return nil, err
	}

	member, err := loadMember(ctx, tx, p.LibraryID, p.MemberID)
	if err != nil {
		return nil, err
	}

	if member.Status != MemberStatusActive {
		return nil, ineligiblef("member is %s", member.Status)
	}

	if cp.Status != CopyStatusActive {
		return nil, ineligiblef("copy is %s", cp.Status)
	}

	if cp.AvailableCopies <= 0 {
		return nil, conflictf("no copies available")
	}

	if limit := lib.Settings.MaxActiveLoans; limit > 0 {
		loans, err := tx.CountOpenTransactionsByMember(ctx, member.ID)
		if err != nil {
			return nil, fmt.Errorf("counting member loans: %w", err)
		}

		if loans >= limit {
			return nil, ineligiblef("member already has %d active loan(s), limit is %d", loans, limit)
		}
	}

	if hold, ok := cp.holdFor(member.ID); ok {
		if err := tx.UpdateHoldStatus(ctx, hold.ID, HoldStatusFulfilled); err != nil {
			return nil, fmt.Errorf("fulfilling hold: %w", err)
		}

		cp.HoldQueue = withoutHold(cp.HoldQueue, hold.ID)
	}

	loan := p.LoanPeriod
	if loan <= 0 {
		loan = lib.Settings.DefaultLoanPeriod
	}

	now := s.now()
	due := now.Add(loan)

	cp.CurrentBorrowerID = new(member.ID)
	cp.DueDate = new(due)

	if _, err := s.ledger.AdjustAvailability(ctx, tx, cp, -1); err != nil {
		return nil, err
	}

	t := &Transaction{
		ID:              uuid.New(),
		LibraryID:       p.LibraryID,
		CopyID:          cp.ID,
		MemberID:        member.ID,
		StaffID:         p.StaffID,
		Type:            TypeCheckout,
		Status:          StatusActive,
		TransactionDate: now,
		DueDate:         new(due),
		CreatedAt:       now,
	}

	created, err := newEvent(t, EventCreated, p.StaffID, now, map[string]any{"type": t.Type})
	if err != nil {
		return nil, err
	}

	checkedOut, err := newEvent(t, EventCheckedOut, p.StaffID, now, map[string]any{
		"copy_id":   cp.ID,
		"member_id": member.ID,
		"due_date":  due,
	})
	if err != nil {
		return nil, err
	}

	if err := appendLog(ctx, tx, t, true, created, checkedOut); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	slog.Info("copy checked out",
		"library_id", p.LibraryID, "copy_id", cp.ID, "member_id", member.ID, "transaction_id", t.ID)

	return &Result{Transaction: t, Copy: cp}, nil
}

func (s *Service) Return(ctx context.Context, p ReturnParams) (res *Result, err error) {
	defer func(start time.Time) { observe("return", start, err) }(time.Now())

	lib, err := loadLibrary(ctx, s.repo, p.LibraryID, false)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin return: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTransaction(ctx, tx, p.LibraryID, p.TransactionID)
	if err != nil {
		return nil, err
	}

	cp, err := tx.LockCopy(ctx, t.CopyID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var late int64
	if t.DueDate != nil {
		// The rate in effect now applies, not the one at checkout.
		late = LateFee(*t.DueDate, now, lib.Settings)
	}

	if p.ConditionNotes != "" {
		cp.Condition = p.ConditionNotes
	}

	if cp.Status == CopyStatusLost {
		// Lost copies stay unavailable until retired and replaced.
		slog.Warn("return accepted for a copy marked lost", "library_id", p.LibraryID, "copy_id", cp.ID)

		if err := s.ledger.writeCopy(ctx, tx, cp); err != nil {
			return nil, err
		}
	} else {
		if cp.AvailableCopies+1 == cp.TotalCopies {
			cp.CurrentBorrowerID = nil
			cp.DueDate = nil
		}

		if _, err := s.ledger.AdjustAvailability(ctx, tx, cp, +1); err != nil {
			return nil, err
		}
	}

	t.Status = StatusReturned
	t.ReturnDate = new(now)
	t.Fees.Late = late
	t.Notes = p.ConditionNotes
	t.UpdatedAt = new(now)

	returned, err := newEvent(t, EventReturned, p.StaffID, now, map[string]any{
		"days_late":       DaysLate(derefTime(t.DueDate, now), now),
		"condition_notes": p.ConditionNotes,
	})
	if err != nil {
		return nil, err
	}

	events := []Event{returned}

	if late > 0 {
		fee, err := newEvent(t, EventFeeAssessed, p.StaffID, now, map[string]any{
			"kind":   "late",
			"amount": late,
		})
		if err != nil {
			return nil, err
		}

		events = append(events, fee)
	}

	if err := appendLog(ctx, tx, t, false, events...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit return: %w", err)
	}

	recordFees(t.Fees)

	// The next holder is told the copy is back; they still have to check it out.
	if next, ok := cp.NextHold(); ok && cp.Status != CopyStatusLost {
		notifyHoldAvailable(ctx, s.notifier, HoldNotice{
			LibraryID: cp.LibraryID,
			CopyID:    cp.ID,
			HoldID:    next.ID,
			MemberID:  next.MemberID,
			Reason:    ReasonCopyReturned,
		})
	}

	slog.Info("copy returned",
		"library_id", p.LibraryID, "copy_id", cp.ID, "transaction_id", t.ID, "late_fee", late)

	return &Result{Transaction: t, Copy: cp}, nil
}

func (s *Service) Renew(ctx context.Context, p RenewParams) (res *Result, err error) {
	defer func(start time.Time) { observe("renew", start, err) }(time.Now())

	lib, err := loadLibrary(ctx, s.repo, p.LibraryID, true)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin renew: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTransaction(ctx, tx, p.LibraryID, p.TransactionID)
	if err != nil {
		return nil, err
	}

	if t.RenewalCount >= lib.Settings.MaxRenewals {
		return nil, fmt.Errorf("%w: renewed %d of %d times", ErrRenewalLimit, t.RenewalCount, lib.Settings.MaxRenewals)
	}

	cp, err := tx.LockCopy(ctx, t.CopyID)
	if err != nil {
		return nil, err
	}

	if n := len(cp.HoldQueue); n > 0 {
		return nil, fmt.Errorf("%w: %d member(s) waiting", ErrHoldConflict, n)
	}

	ext := p.Extension
	if ext <= 0 {
		ext = lib.Settings.DefaultLoanPeriod
	}

	now := s.now()
	previous := derefTime(t.DueDate, now)
	due := previous.Add(ext)

	t.DueDate = new(due)
	t.RenewalCount++
	t.Status = StatusActive
	t.UpdatedAt = new(now)

	if cp.CurrentBorrowerID != nil && *cp.CurrentBorrowerID == t.MemberID {
		cp.DueDate = new(due)
		if err := s.ledger.writeCopy(ctx, tx, cp); err != nil {
			return nil, err
		}
	}

	renewed, err := newEvent(t, EventRenewed, p.StaffID, now, map[string]any{
		"previous_due_date": previous,
		"due_date":          due,
		"renewal_count":     t.RenewalCount,
	})
	if err != nil {
		return nil, err
	}

	if err := appendLog(ctx, tx, t, false, renewed); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit renew: %w", err)
	}

	slog.Info("loan renewed",
		"library_id", p.LibraryID, "transaction_id", t.ID, "renewal_count", t.RenewalCount, "due_date", due)

	return &Result{Transaction: t, Copy: cp}, nil
}

// DeclareLost closes the loan as lost. Availability is not restored; the copy becomes lost.
func (s *Service) DeclareLost(ctx context.Context, p DeclareLostParams) (res *Result, err error) {
	defer func(start time.Time) { observe("declare_lost", start, err) }(time.Now())

	if p.FeeOverride != nil && *p.FeeOverride < 0 {
		return nil, validationf("fee override must not be negative")
	}

	lib, err := loadLibrary(ctx, s.repo, p.LibraryID, false)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin declare lost: %w", err)
	}
	defer tx.Rollback()

	t, err := lockTransaction(ctx, tx, p.LibraryID, p.TransactionID)
	if err != nil {
		return nil, err
	}

	cp, err := tx.LockCopy(ctx, t.CopyID)
	if err != nil {
		return nil, err
	}

	var notices []HoldNotice

	if cp.Status != CopyStatusLost {
		notices, err = s.ledger.markLost(ctx, tx, cp)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()

	t.Status = StatusLost
	t.Fees.Damage = lib.Settings.LostItemFee
	if p.FeeOverride != nil {
		t.Fees.Damage = *p.FeeOverride
	}

	t.Fees.Processing = lib.Settings.LostProcessingFee
	t.UpdatedAt = new(now)

	if err := validateFees(t.Fees); err != nil {
		return nil, err
	}

	lost, err := newEvent(t, EventLostDeclared, p.StaffID, now, map[string]any{"copy_id": cp.ID})
	if err != nil {
		return nil, err
	}

	fee, err := newEvent(t, EventFeeAssessed, p.StaffID, now, map[string]any{
		"kind":       "lost",
		"damage":     t.Fees.Damage,
		"processing": t.Fees.Processing,
	})
	if err != nil {
		return nil, err
	}

	if err := appendLog(ctx, tx, t, false, lost, fee); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit declare lost: %w", err)
	}

	recordFees(t.Fees)
	notifyReassignment(ctx, s.notifier, notices)

	slog.Info("loan declared lost",
		"library_id", p.LibraryID, "copy_id", cp.ID, "transaction_id", t.ID, "fees", t.Fees.Total())

	return &Result{Transaction: t, Copy: cp}, nil
}

func withoutHold(queue []Hold, id uuid.UUID) []Hold {
	out := make([]Hold, 0, len(queue))
	for _, h := range queue {
		if h.ID != id {
			out = append(out, h)
		}
	}

	return out
}

func derefTime(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}

	return *t
}
