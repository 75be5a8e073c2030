package circulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const notifyConcurrency = 4

// SweepOverdue labels active loans past their due date as overdue. It only ever moves
// active to overdue, has no availability effect and is safe to re-run.
func (s *Service) SweepOverdue(ctx context.Context, libraryID uuid.UUID) (marked int, err error) {
	defer func(start time.Time) { observe("sweep_overdue", start, err) }(time.Now())

	if _, err := loadLibrary(ctx, s.repo, libraryID, false); err != nil {
		return 0, err
	}

	now := s.now()

	candidates, err := s.repo.ListOverdueCandidates(ctx, libraryID, now)
	if err != nil {
		return 0, fmt.Errorf("listing overdue candidates: %w", err)
	}

	notices := make([]OverdueNotice, 0, len(candidates))

	for _, c := range candidates {
		notice, ok, err := s.markOverdue(ctx, libraryID, c.ID, now)
		if err != nil {
			return marked, fmt.Errorf("marking transaction %s overdue: %w", c.ID, err)
		}

		if ok {
			marked++
			notices = append(notices, notice)
		}
	}

	overdueMarked.Add(float64(marked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)

	for _, n := range notices {
		g.Go(func() error {
			if err := s.notifier.Overdue(gctx, n); err != nil {
				slog.Warn("failed to notify overdue loan",
					"error", err, "library_id", n.LibraryID, "transaction_id", n.TransactionID)
			}

			return nil
		})
	}

	_ = g.Wait()

	if marked > 0 {
		slog.Info("overdue loans marked", "library_id", libraryID, "count", marked)
	}

	return marked, nil
}

func (s *Service) markOverdue(ctx context.Context, libraryID, transactionID uuid.UUID, now time.Time) (OverdueNotice, bool, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return OverdueNotice{}, false, fmt.Errorf("begin sweep: %w", err)
	}
	defer tx.Rollback()

	t, err := tx.GetTransaction(ctx, transactionID)
	if err != nil {
		return OverdueNotice{}, false, err
	}

	if err := checkTenant(libraryID, t.LibraryID, "transaction"); err != nil {
		return OverdueNotice{}, false, err
	}

	// Returned, renewed or already marked since the candidate list was read.
	if t.EffectiveStatus(now) != StatusOverdue || t.Status != StatusActive {
		return OverdueNotice{}, false, nil
	}

	t.Status = StatusOverdue
	t.UpdatedAt = new(now)

	ev, err := newEvent(t, EventMarkedOverdue, nil, now, map[string]any{
		"due_date":  *t.DueDate,
		"days_late": DaysLate(*t.DueDate, now),
	})
	if err != nil {
		return OverdueNotice{}, false, err
	}

	if err := appendLog(ctx, tx, t, false, ev); err != nil {
		return OverdueNotice{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return OverdueNotice{}, false, fmt.Errorf("commit sweep: %w", err)
	}

	return OverdueNotice{
		LibraryID:     t.LibraryID,
		TransactionID: t.ID,
		CopyID:        t.CopyID,
		MemberID:      t.MemberID,
		DueDate:       *t.DueDate,
	}, true, nil
}
