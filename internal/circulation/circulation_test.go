package circulation_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/circulation/memstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type fixture struct {
	store   *memstore.Store
	clock   *fakeClock
	ledger  *circulation.Ledger
	svc     *circulation.Service
	log     *circulation.Log
	safety  *circulation.SafetyChecker
	members *circulation.Members
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	clk := &fakeClock{now: fixedNow}
	ledger := circulation.NewLedger(store, circulation.WithClock(clk.Now))

	return &fixture{
		store:   store,
		clock:   clk,
		ledger:  ledger,
		svc:     circulation.NewService(store, ledger, circulation.WithClock(clk.Now)),
		log:     circulation.NewLog(store, circulation.WithClock(clk.Now)),
		safety:  circulation.NewSafetyChecker(store),
		members: circulation.NewMembers(store, circulation.WithClock(clk.Now)),
	}
}

func (f *fixture) library(t *testing.T) uuid.UUID {
	t.Helper()

	lib := activeLibrary(uuid.New())
	require.NoError(t, f.store.UpsertLibrary(context.Background(), lib))

	return lib.ID
}

func (f *fixture) member(t *testing.T, libraryID uuid.UUID) uuid.UUID {
	t.Helper()

	m, err := f.members.RegisterMember(context.Background(), libraryID, "Reader "+uuid.NewString()[:8], "")
	require.NoError(t, err)

	return m.ID
}

func (f *fixture) copies(t *testing.T, libraryID, editionID uuid.UUID, n int) []*circulation.Copy {
	t.Helper()

	copies, err := f.ledger.RegisterCopies(context.Background(), libraryID, editionID, n, circulation.Placement{Location: "A1"})
	require.NoError(t, err)

	return copies
}

func (f *fixture) checkout(t *testing.T, libraryID, copyID, memberID uuid.UUID) *circulation.Transaction {
	t.Helper()

	res, err := f.svc.Checkout(context.Background(), circulation.CheckoutParams{LibraryID: libraryID, CopyID: copyID, MemberID: memberID})
	require.NoError(t, err)

	return res.Transaction
}

// assertInvariants checks availability bounds and, for copies that are not lost, that open
// loans match consumed availability.
func (f *fixture) assertInvariants(t *testing.T, libraryID, editionID uuid.UUID) {
	t.Helper()

	ctx := context.Background()

	copies, err := f.store.ListCopies(ctx, libraryID, editionID)
	require.NoError(t, err)

	for _, cp := range copies {
		assert.GreaterOrEqual(t, cp.AvailableCopies, 0, "copy %d", cp.CopyNumber)
		assert.LessOrEqual(t, cp.AvailableCopies, cp.TotalCopies, "copy %d", cp.CopyNumber)

		if cp.Status == circulation.CopyStatusLost {
			continue
		}

		open, err := f.store.ListOpenTransactionsByCopy(ctx, cp.ID)
		require.NoError(t, err)
		assert.Equal(t, cp.TotalCopies-cp.AvailableCopies, len(open), "copy %d", cp.CopyNumber)
	}
}

func TestScenario_RegisterCheckoutReturnLose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	edition := uuid.New()
	member := f.member(t, lib)

	copies := f.copies(t, lib, edition, 3)
	require.Len(t, copies, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{copies[0].CopyNumber, copies[1].CopyNumber, copies[2].CopyNumber})

	availability := func() circulation.Availability {
		a, err := f.ledger.GetAvailability(ctx, lib, edition)
		require.NoError(t, err)

		return a
	}

	assert.Equal(t, 3, availability().Available)

	first := f.checkout(t, lib, copies[0].ID, member)
	assert.Equal(t, 2, availability().Available)

	second := f.checkout(t, lib, copies[1].ID, member)
	assert.Equal(t, 1, availability().Available)

	_, err := f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, availability().Available)

	lost, err := f.svc.DeclareLost(ctx, circulation.DeclareLostParams{LibraryID: lib, TransactionID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, circulation.CopyStatusLost, lost.Copy.Status)

	a := availability()
	assert.Equal(t, 2, a.Available)
	assert.Equal(t, 3, a.Total)

	returned, err := f.log.GetTransaction(ctx, lib, first.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.StatusReturned, returned.Status)

	lostTxn, err := f.log.GetTransaction(ctx, lib, second.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.StatusLost, lostTxn.Status)
	assert.Equal(t, int64(3000), lostTxn.Fees.Total())

	events, err := f.log.Events(ctx, lib, second.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, circulation.EventLostDeclared, events[2].Type)
	assert.Less(t, events[0].Sequence, events[3].Sequence)

	f.assertInvariants(t, lib, edition)
}

func TestScenario_CheckoutWithoutAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]

	f.checkout(t, lib, cp.ID, f.member(t, lib))

	_, err := f.svc.Checkout(ctx, circulation.CheckoutParams{LibraryID: lib, CopyID: cp.ID, MemberID: f.member(t, lib)})
	require.ErrorIs(t, err, circulation.ErrConflict)
	assert.True(t, circulation.IsRetryable(err))

	history, err := f.log.History(ctx, lib, cp.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "no orphan transaction is written")
}

func TestCheckout_ConcurrentLastCopy(t *testing.T) {
	const callers = 8

	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]

	members := make([]uuid.UUID, callers)
	for i := range members {
		members[i] = f.member(t, lib)
	}

	var succeeded, conflicted atomic.Int32

	var g errgroup.Group

	for _, m := range members {
		g.Go(func() error {
			_, err := f.svc.Checkout(context.Background(), circulation.CheckoutParams{LibraryID: lib, CopyID: cp.ID, MemberID: m})

			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, circulation.ErrConflict):
				conflicted.Add(1)
			default:
				return err
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(callers-1), conflicted.Load())

	f.assertInvariants(t, lib, cp.EditionID)
}

func TestInvariants_RandomOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	edition := uuid.New()
	copies := f.copies(t, lib, edition, 4)

	members := make([]uuid.UUID, 5)
	for i := range members {
		members[i] = f.member(t, lib)
	}

	rng := rand.New(rand.NewPCG(7, 11))

	var open []uuid.UUID

	for step := range 200 {
		f.clock.Advance(time.Duration(rng.IntN(48)) * time.Hour)

		var err error

		switch op := rng.IntN(4); {
		case op == 0 || len(open) == 0:
			var res *circulation.Result

			res, err = f.svc.Checkout(ctx, circulation.CheckoutParams{
				LibraryID: lib,
				CopyID:    copies[rng.IntN(len(copies))].ID,
				MemberID:  members[rng.IntN(len(members))],
			})
			if err == nil {
				open = append(open, res.Transaction.ID)
			}
		case op == 1:
			i := rng.IntN(len(open))
			_, err = f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: open[i]})
			open = append(open[:i], open[i+1:]...)
		case op == 2:
			_, err = f.svc.Renew(ctx, circulation.RenewParams{LibraryID: lib, TransactionID: open[rng.IntN(len(open))]})
		default:
			if rng.IntN(10) > 0 {
				continue
			}

			i := rng.IntN(len(open))
			_, err = f.svc.DeclareLost(ctx, circulation.DeclareLostParams{LibraryID: lib, TransactionID: open[i]})
			open = append(open[:i], open[i+1:]...)
		}

		if err != nil && !errors.Is(err, circulation.ErrConflict) &&
			!errors.Is(err, circulation.ErrIneligible) && !errors.Is(err, circulation.ErrRenewalLimit) {
			t.Fatalf("step %d: unexpected error: %v", step, err)
		}

		f.assertInvariants(t, lib, edition)
	}
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	libA := f.library(t)
	libB := f.library(t)
	memberA := f.member(t, libA)
	memberB := f.member(t, libB)
	cpB := f.copies(t, libB, uuid.New(), 2)
	loanB := f.checkout(t, libB, cpB[0].ID, memberB)

	ops := map[string]func() error{
		"Checkout": func() error {
			_, err := f.svc.Checkout(ctx, circulation.CheckoutParams{LibraryID: libA, CopyID: cpB[1].ID, MemberID: memberA})
			return err
		},
		"CheckoutForeignMember": func() error {
			_, err := f.svc.Checkout(ctx, circulation.CheckoutParams{LibraryID: libB, CopyID: cpB[1].ID, MemberID: memberA})
			return err
		},
		"Return": func() error {
			_, err := f.svc.Return(ctx, circulation.ReturnParams{LibraryID: libA, TransactionID: loanB.ID})
			return err
		},
		"Renew": func() error {
			_, err := f.svc.Renew(ctx, circulation.RenewParams{LibraryID: libA, TransactionID: loanB.ID})
			return err
		},
		"DeclareLost": func() error {
			_, err := f.svc.DeclareLost(ctx, circulation.DeclareLostParams{LibraryID: libA, TransactionID: loanB.ID})
			return err
		},
		"GetCopy": func() error {
			_, err := f.ledger.GetCopy(ctx, libA, cpB[0].ID)
			return err
		},
		"MarkCopyStatus": func() error {
			_, err := f.ledger.MarkCopyStatus(ctx, libA, cpB[1].ID, circulation.CopyStatusDamaged)
			return err
		},
		"SoftDeleteCopy": func() error {
			return f.ledger.SoftDeleteCopy(ctx, libA, cpB[1].ID, uuid.New())
		},
		"PlaceHold": func() error {
			_, err := f.ledger.PlaceHold(ctx, libA, cpB[0].ID, memberA)
			return err
		},
		"CancelHold": func() error {
			return f.ledger.CancelHold(ctx, libA, cpB[0].ID, memberB)
		},
		"GetTransaction": func() error {
			_, err := f.log.GetTransaction(ctx, libA, loanB.ID)
			return err
		},
		"Events": func() error {
			_, err := f.log.Events(ctx, libA, loanB.ID)
			return err
		},
		"History": func() error {
			_, err := f.log.History(ctx, libA, cpB[0].ID, 10)
			return err
		},
		"FindActive": func() error {
			_, err := f.log.FindActive(ctx, libA, cpB[0].ID)
			return err
		},
		"CheckCopyDeletion": func() error {
			_, err := f.safety.CheckCopyDeletion(ctx, libA, cpB[0].ID)
			return err
		},
		"CheckMemberDeletion": func() error {
			_, err := f.safety.CheckMemberDeletion(ctx, libA, memberB)
			return err
		},
		"GetMember": func() error {
			_, err := f.members.GetMember(ctx, libA, memberB)
			return err
		},
		"SetMemberStatus": func() error {
			_, err := f.members.SetMemberStatus(ctx, libA, memberB, circulation.MemberStatusBanned)
			return err
		},
		"SoftDeleteMember": func() error {
			return f.members.SoftDeleteMember(ctx, libA, memberB, uuid.New())
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), circulation.ErrCrossTenant)
		})
	}

	// Nothing in library B moved.
	cp, err := f.ledger.GetCopy(ctx, libB, cpB[1].ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.CopyStatusActive, cp.Status)
	assert.Equal(t, 1, cp.AvailableCopies)

	loan, err := f.log.GetTransaction(ctx, libB, loanB.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.StatusActive, loan.Status)
	assert.Zero(t, loan.RenewalCount)
}

func TestRenew_Cap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]
	loan := f.checkout(t, lib, cp.ID, f.member(t, lib))

	for i := range circulation.DefaultSettings().MaxRenewals {
		res, err := f.svc.Renew(ctx, circulation.RenewParams{LibraryID: lib, TransactionID: loan.ID})
		require.NoError(t, err)
		assert.Equal(t, i+1, res.Transaction.RenewalCount)
	}

	_, err := f.svc.Renew(ctx, circulation.RenewParams{LibraryID: lib, TransactionID: loan.ID})
	assert.ErrorIs(t, err, circulation.ErrRenewalLimit)

	got, err := f.log.GetTransaction(ctx, lib, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(3*14*24*time.Hour), *got.DueDate)
}

func TestRenew_BlockedByHold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]
	loan := f.checkout(t, lib, cp.ID, f.member(t, lib))

	_, err := f.ledger.PlaceHold(ctx, lib, cp.ID, f.member(t, lib))
	require.NoError(t, err)

	_, err = f.svc.Renew(ctx, circulation.RenewParams{LibraryID: lib, TransactionID: loan.ID})
	assert.ErrorIs(t, err, circulation.ErrHoldConflict)
}

func TestSoftDeleteCopy_RaceClosure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]

	check, err := f.safety.CheckCopyDeletion(ctx, lib, cp.ID)
	require.NoError(t, err)
	require.True(t, check.CanDelete)

	f.checkout(t, lib, cp.ID, f.member(t, lib))

	err = f.ledger.SoftDeleteCopy(ctx, lib, cp.ID, uuid.New())
	require.ErrorIs(t, err, circulation.ErrConflict)

	got, err := f.ledger.GetCopy(ctx, lib, cp.ID)
	require.NoError(t, err)
	assert.False(t, got.Deleted())

	check, err = f.safety.CheckCopyDeletion(ctx, lib, cp.ID)
	require.NoError(t, err)
	assert.False(t, check.CanDelete)
	assert.Equal(t, 1, check.ActiveBorrowCount)
}

func TestSoftDeleteCopy_HoldsOnlyWarn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	edition := uuid.New()
	copies := f.copies(t, lib, edition, 2)

	_, err := f.ledger.PlaceHold(ctx, lib, copies[1].ID, f.member(t, lib))
	require.NoError(t, err)

	check, err := f.safety.CheckCopyDeletion(ctx, lib, copies[1].ID)
	require.NoError(t, err)
	assert.True(t, check.CanDelete)
	assert.Equal(t, 1, check.ActiveHoldCount)
	assert.Len(t, check.Warnings, 1)

	require.NoError(t, f.ledger.SoftDeleteCopy(ctx, lib, copies[1].ID, uuid.New()))

	_, err = f.ledger.GetCopy(ctx, lib, copies[1].ID)
	assert.ErrorIs(t, err, circulation.ErrNotFound)

	history, err := f.log.History(ctx, lib, copies[1].ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Numbers are never reused, even after a soft delete.
	more := f.copies(t, lib, edition, 1)
	assert.Equal(t, 3, more[0].CopyNumber)

	a, err := f.ledger.GetAvailability(ctx, lib, edition)
	require.NoError(t, err)
	assert.Equal(t, circulation.Availability{LibraryID: lib, EditionID: edition, Total: 2, Available: 2}, a)
}

func TestRegisterCopies_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)

	_, err := f.ledger.RegisterCopies(ctx, lib, uuid.New(), 0, circulation.Placement{})
	assert.ErrorIs(t, err, circulation.ErrValidation)

	_, err = f.ledger.RegisterCopies(ctx, lib, uuid.New(), 2, circulation.Placement{Barcodes: []string{"B-1"}})
	assert.ErrorIs(t, err, circulation.ErrValidation)

	_, err = f.ledger.RegisterCopies(ctx, lib, uuid.New(), 1, circulation.Placement{Barcodes: []string{"B-1"}})
	require.NoError(t, err)

	_, err = f.ledger.RegisterCopies(ctx, lib, uuid.New(), 1, circulation.Placement{Barcodes: []string{"B-1"}})
	assert.ErrorIs(t, err, circulation.ErrConflict, "barcodes are unique across the store")
}

func TestMarkCopyStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]

	got, err := f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, circulation.CopyStatusMaintenance, got.Status)

	_, err = f.svc.Checkout(ctx, circulation.CheckoutParams{LibraryID: lib, CopyID: cp.ID, MemberID: f.member(t, lib)})
	assert.ErrorIs(t, err, circulation.ErrIneligible)

	got, err = f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusLost)
	require.NoError(t, err)
	assert.Zero(t, got.AvailableCopies)

	_, err = f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusActive)
	assert.ErrorIs(t, err, circulation.ErrIneligible)

	_, err = f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusInactive)
	assert.NoError(t, err)

	_, err = f.ledger.MarkCopyStatus(ctx, lib, cp.ID, "shredded")
	assert.ErrorIs(t, err, circulation.ErrValidation)
}

func TestGetAvailability_CountsOnlyActiveCopies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	edition := uuid.New()
	copies := f.copies(t, lib, edition, 3)

	_, err := f.ledger.MarkCopyStatus(ctx, lib, copies[0].ID, circulation.CopyStatusMaintenance)
	require.NoError(t, err)
	_, err = f.ledger.MarkCopyStatus(ctx, lib, copies[1].ID, circulation.CopyStatusDamaged)
	require.NoError(t, err)

	a, err := f.ledger.GetAvailability(ctx, lib, edition)
	require.NoError(t, err)
	assert.Equal(t, circulation.Availability{LibraryID: lib, EditionID: edition, Total: 3, Available: 1}, a)

	for _, cp := range copies[:2] {
		_, err = f.svc.Checkout(ctx, circulation.CheckoutParams{LibraryID: lib, CopyID: cp.ID, MemberID: f.member(t, lib)})
		assert.ErrorIs(t, err, circulation.ErrIneligible)
	}

	_, err = f.ledger.MarkCopyStatus(ctx, lib, copies[0].ID, circulation.CopyStatusActive)
	require.NoError(t, err)

	a, err = f.ledger.GetAvailability(ctx, lib, edition)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Available)
}

func TestMarkCopyStatus_LostCopyOnLoanCannotBeRetired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	edition := uuid.New()
	cp := f.copies(t, lib, edition, 1)[0]
	loan := f.checkout(t, lib, cp.ID, f.member(t, lib))

	_, err := f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusLost)
	require.NoError(t, err)

	_, err = f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusInactive)
	assert.ErrorIs(t, err, circulation.ErrConflict)

	_, err = f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: loan.ID})
	require.NoError(t, err)

	a, err := f.ledger.GetAvailability(ctx, lib, edition)
	require.NoError(t, err)
	assert.Equal(t, circulation.Availability{LibraryID: lib, EditionID: edition, Total: 1, Available: 0}, a)

	got, err := f.ledger.MarkCopyStatus(ctx, lib, cp.ID, circulation.CopyStatusInactive)
	require.NoError(t, err)
	assert.Zero(t, got.AvailableCopies)

	a, err = f.ledger.GetAvailability(ctx, lib, edition)
	require.NoError(t, err)
	assert.Zero(t, a.Available)
}

func TestPlaceHold_RejectsCurrentBorrower(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]
	borrower := f.member(t, lib)
	loan := f.checkout(t, lib, cp.ID, borrower)

	_, err := f.ledger.PlaceHold(ctx, lib, cp.ID, borrower)
	assert.ErrorIs(t, err, circulation.ErrIneligible)

	res, err := f.svc.Renew(ctx, circulation.RenewParams{LibraryID: lib, TransactionID: loan.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transaction.RenewalCount)
}

func TestCheckout_FulfilsOwnHold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]
	first := f.member(t, lib)
	waiting := f.member(t, lib)

	loan := f.checkout(t, lib, cp.ID, first)

	_, err := f.ledger.PlaceHold(ctx, lib, cp.ID, waiting)
	require.NoError(t, err)

	_, err = f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: loan.ID})
	require.NoError(t, err)

	f.checkout(t, lib, cp.ID, waiting)

	got, err := f.ledger.GetCopy(ctx, lib, cp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.HoldQueue)
	assert.Equal(t, waiting, *got.CurrentBorrowerID)
}

func TestReturn_LateFeeUsesRateAtReturn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]
	loan := f.checkout(t, lib, cp.ID, f.member(t, lib))

	updated := activeLibrary(lib)
	updated.Settings.LateFeePerDay = 50
	require.NoError(t, f.store.UpsertLibrary(ctx, updated))

	f.clock.Advance(16 * 24 * time.Hour)

	res, err := f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: loan.ID, ConditionNotes: "worn spine"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Transaction.Fees.Late)
	assert.Equal(t, "worn spine", res.Copy.Condition)
}

func TestSweepOverdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 2)
	overdue := f.checkout(t, lib, cp[0].ID, f.member(t, lib))

	f.clock.Advance(10 * 24 * time.Hour)
	f.checkout(t, lib, cp[1].ID, f.member(t, lib))
	f.clock.Advance(5 * 24 * time.Hour)

	marked, err := f.svc.SweepOverdue(ctx, lib)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	marked, err = f.svc.SweepOverdue(ctx, lib)
	require.NoError(t, err)
	assert.Zero(t, marked, "sweep is idempotent")

	events, err := f.log.Events(ctx, lib, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.EventMarkedOverdue, events[len(events)-1].Type)

	res, err := f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: overdue.ID})
	require.NoError(t, err)
	assert.Equal(t, circulation.StatusReturned, res.Transaction.Status)
	assert.Equal(t, int64(25), res.Transaction.Fees.Late)

	f.assertInvariants(t, lib, cp[0].EditionID)
}

func TestMembers_SoftDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cps := f.copies(t, lib, uuid.New(), 2)
	member := f.member(t, lib)
	loan := f.checkout(t, lib, cps[0].ID, member)

	f.checkout(t, lib, cps[1].ID, f.member(t, lib))
	_, err := f.ledger.PlaceHold(ctx, lib, cps[1].ID, member)
	require.NoError(t, err)

	check, err := f.safety.CheckMemberDeletion(ctx, lib, member)
	require.NoError(t, err)
	assert.False(t, check.CanDelete)
	assert.Equal(t, 1, check.ActiveHoldCount)

	err = f.members.SoftDeleteMember(ctx, lib, member, uuid.New())
	require.ErrorIs(t, err, circulation.ErrConflict)

	_, err = f.svc.Return(ctx, circulation.ReturnParams{LibraryID: lib, TransactionID: loan.ID})
	require.NoError(t, err)

	require.NoError(t, f.members.SoftDeleteMember(ctx, lib, member, uuid.New()))

	_, err = f.members.GetMember(ctx, lib, member)
	assert.ErrorIs(t, err, circulation.ErrNotFound)

	cp, err := f.ledger.GetCopy(ctx, lib, cps[1].ID)
	require.NoError(t, err)
	assert.Empty(t, cp.HoldQueue)
}

func TestMembers_Status(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lib := f.library(t)
	cp := f.copies(t, lib, uuid.New(), 1)[0]
	member := f.member(t, lib)

	_, err := f.members.SetMemberStatus(ctx, lib, member, circulation.MemberStatusInactive)
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, circulation.CheckoutParams{LibraryID: lib, CopyID: cp.ID, MemberID: member})
	assert.ErrorIs(t, err, circulation.ErrIneligible)

	_, err = f.members.RegisterMember(ctx, lib, "   ", "")
	assert.ErrorIs(t, err, circulation.ErrValidation)

	_, err = f.members.RegisterMember(ctx, lib, "Grace", "ext-1")
	require.NoError(t, err)

	_, err = f.members.RegisterMember(ctx, lib, "Grace again", "ext-1")
	assert.ErrorIs(t, err, circulation.ErrConflict)
}
