package circulation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// HoldNotice tells the notification collaborator about a hold queue change.
type HoldNotice struct {
	LibraryID uuid.UUID
	CopyID    uuid.UUID
	HoldID    uuid.UUID
	MemberID  uuid.UUID
	Reason    string
}

// OverdueNotice is sent when a transaction is labelled overdue.
type OverdueNotice struct {
	LibraryID     uuid.UUID
	TransactionID uuid.UUID
	CopyID        uuid.UUID
	MemberID      uuid.UUID
	DueDate       time.Time
}

const (
	ReasonCopyReturned = "copy_returned"
	ReasonCopyLost     = "copy_lost"
	ReasonCopyDeleted  = "copy_deleted"
	ReasonMemberLeft   = "member_deleted"
)

// Notifier is the fire-and-forget notification collaborator.
//
//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=circulation
type Notifier interface {
	HoldAvailable(ctx context.Context, n HoldNotice) error
	HoldNeedsReassignment(ctx context.Context, n HoldNotice) error
	Overdue(ctx context.Context, n OverdueNotice) error
}

type nopNotifier struct{}

func (nopNotifier) HoldAvailable(context.Context, HoldNotice) error         { return nil }
func (nopNotifier) HoldNeedsReassignment(context.Context, HoldNotice) error { return nil }
func (nopNotifier) Overdue(context.Context, OverdueNotice) error            { return nil }

// Notification failures never propagate; circulation state is already committed.
func notifyReassignment(ctx context.Context, n Notifier, notices []HoldNotice) {
	for _, notice := range notices {
		if err := n.HoldNeedsReassignment(ctx, notice); err != nil {
			slog.Warn("failed to notify hold reassignment",
				"error", err, "library_id", notice.LibraryID, "copy_id", notice.CopyID, "member_id", notice.MemberID)
		}
	}
}

func notifyHoldAvailable(ctx context.Context, n Notifier, notice HoldNotice) {
	if err := n.HoldAvailable(ctx, notice); err != nil {
		slog.Warn("failed to notify hold holder",
			"error", err, "library_id", notice.LibraryID, "copy_id", notice.CopyID, "member_id", notice.MemberID)
	}
}
