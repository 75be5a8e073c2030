package circulation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Members manages the borrower records of each library.
type Members struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewMembers(repo Repository, opts ...Option) *Members {
	o := buildOptions(opts)

	return &Members{repo: repo, notifier: o.notifier, now: o.now}
}

// RegisterMember creates an active member. externalUserID is empty for walk-in records.
func (m *Members) RegisterMember(ctx context.Context, libraryID uuid.UUID, displayName, externalUserID string) (member *Member, err error) {
	defer func(start time.Time) { observe("register_member", start, err) }(time.Now())

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, validationf("display name is required")
	}

	if _, err := loadLibrary(ctx, m.repo, libraryID, true); err != nil {
		return nil, err
	}

	member = &Member{
		ID:          uuid.New(),
		LibraryID:   libraryID,
		DisplayName: displayName,
		Status:      MemberStatusActive,
		CreatedAt:   m.now(),
	}

	if ext := strings.TrimSpace(externalUserID); ext != "" {
		member.ExternalUserID = new(ext)
	}

	if err := m.repo.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	slog.Info("member registered", "library_id", libraryID, "member_id", member.ID)

	return member, nil
}

func (m *Members) GetMember(ctx context.Context, libraryID, memberID uuid.UUID) (*Member, error) {
	member, err := m.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if err := checkTenant(libraryID, member.LibraryID, "member"); err != nil {
		return nil, err
	}

	if member.Deleted() {
		return nil, notFound("member")
	}

	return member, nil
}

func (m *Members) SetMemberStatus(ctx context.Context, libraryID, memberID uuid.UUID, status MemberStatus) (member *Member, err error) {
	defer func(start time.Time) { observe("set_member_status", start, err) }(time.Now())

	if !status.Valid() {
		return nil, validationf("unknown member status %q", status)
	}

	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin member status: %w", err)
	}
	defer tx.Rollback()

	member, err = loadMember(ctx, tx, libraryID, memberID)
	if err != nil {
		return nil, err
	}

	if member.Status == status {
		return member, nil
	}

	member.Status = status
	member.UpdatedAt = new(m.now())

	if err := tx.UpdateMember(ctx, member); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit member status: %w", err)
	}

	slog.Info("member status changed", "library_id", libraryID, "member_id", memberID, "status", status)

	return member, nil
}

// SoftDeleteMember refuses while the member still has open loans and cancels their pending holds.
func (m *Members) SoftDeleteMember(ctx context.Context, libraryID, memberID, actorID uuid.UUID) (err error) {
	defer func(start time.Time) { observe("soft_delete_member", start, err) }(time.Now())

	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin member delete: %w", err)
	}
	defer tx.Rollback()

	member, err := loadMember(ctx, tx, libraryID, memberID)
	if err != nil {
		return err
	}

	open, err := tx.CountOpenTransactionsByMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("counting open loans: %w", err)
	}

	if open > 0 {
		return conflictf("member has %d active loan(s)", open)
	}

	holds, err := tx.ListPendingHoldsByMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("listing holds: %w", err)
	}

	notices := make([]HoldNotice, 0, len(holds))
	for _, h := range holds {
		if err := tx.UpdateHoldStatus(ctx, h.ID, HoldStatusCancelled); err != nil {
			return fmt.Errorf("cancelling hold %s: %w", h.ID, err)
		}

		notices = append(notices, HoldNotice{
			LibraryID: h.LibraryID,
			CopyID:    h.CopyID,
			HoldID:    h.ID,
			MemberID:  h.MemberID,
			Reason:    ReasonMemberLeft,
		})
	}

	now := m.now()
	member.DeletedAt = new(now)
	member.DeletedBy = new(actorID)
	member.UpdatedAt = new(now)

	if err := tx.UpdateMember(ctx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit member delete: %w", err)
	}

	notifyReassignment(ctx, m.notifier, notices)

	slog.Info("member soft-deleted", "library_id", libraryID, "member_id", memberID, "actor_id", actorID)

	return nil
}
