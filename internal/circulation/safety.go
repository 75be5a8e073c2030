package circulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DeletionCheck is advisory. The soft delete re-checks open loans at mutation time.
type DeletionCheck struct {
	CanDelete         bool     `json:"can_delete"`
	ActiveBorrowCount int      `json:"active_borrow_count"`
	ActiveHoldCount   int      `json:"active_hold_count"`
	Warnings          []string `json:"warnings"`
}

// SafetyChecker is a read-only guard consulted before soft-deleting copies and members.
type SafetyChecker struct {
	repo Repository
}

func NewSafetyChecker(repo Repository) *SafetyChecker {
	return &SafetyChecker{repo: repo}
}

func (s *SafetyChecker) CheckCopyDeletion(ctx context.Context, libraryID, copyID uuid.UUID) (DeletionCheck, error) {
	cp, err := s.repo.GetCopy(ctx, copyID)
	if err != nil {
		return DeletionCheck{}, err
	}

	if err := checkTenant(libraryID, cp.LibraryID, "copy"); err != nil {
		return DeletionCheck{}, err
	}

	if cp.Deleted() {
		return DeletionCheck{}, notFound("copy")
	}

	open, err := s.repo.ListOpenTransactionsByCopy(ctx, copyID)
	if err != nil {
		return DeletionCheck{}, fmt.Errorf("listing open loans: %w", err)
	}

	check := DeletionCheck{
		ActiveBorrowCount: len(open),
		ActiveHoldCount:   len(cp.HoldQueue),
		Warnings:          []string{},
	}
	check.CanDelete = check.ActiveBorrowCount == 0

	if check.ActiveBorrowCount > 0 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("copy has %d active loan(s); return or declare them lost first", check.ActiveBorrowCount))
	}

	if check.ActiveHoldCount > 0 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("%d pending hold(s) will need reassignment", check.ActiveHoldCount))
	}

	if cp.Status == CopyStatusLost {
		check.Warnings = append(check.Warnings, "copy is marked lost")
	}

	return check, nil
}

func (s *SafetyChecker) CheckMemberDeletion(ctx context.Context, libraryID, memberID uuid.UUID) (DeletionCheck, error) {
	m, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return DeletionCheck{}, err
	}

	if err := checkTenant(libraryID, m.LibraryID, "member"); err != nil {
		return DeletionCheck{}, err
	}

	if m.Deleted() {
		return DeletionCheck{}, notFound("member")
	}

	open, err := s.repo.ListOpenTransactionsByMember(ctx, memberID)
	if err != nil {
		return DeletionCheck{}, fmt.Errorf("listing open loans: %w", err)
	}

	holds, err := s.repo.ListPendingHoldsByMember(ctx, memberID)
	if err != nil {
		return DeletionCheck{}, fmt.Errorf("listing holds: %w", err)
	}

	check := DeletionCheck{
		ActiveBorrowCount: len(open),
		ActiveHoldCount:   len(holds),
		Warnings:          []string{},
	}
	check.CanDelete = check.ActiveBorrowCount == 0

	if check.ActiveBorrowCount > 0 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("member has %d active loan(s)", check.ActiveBorrowCount))
	}

	if check.ActiveHoldCount > 0 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("%d pending hold(s) will be cancelled", check.ActiveHoldCount))
	}

	return check, nil
}
