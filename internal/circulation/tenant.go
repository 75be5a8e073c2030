package circulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// checkTenant rejects, rather than hides, entities owned by another library.
func checkTenant(libraryID, owner uuid.UUID, entity string) error {
	if libraryID != owner {
		return fmt.Errorf("%w: %s is not owned by library %s", ErrCrossTenant, entity, libraryID)
	}

	return nil
}

func loadLibrary(ctx context.Context, repo Repository, id uuid.UUID, requireActive bool) (*Library, error) {
	lib, err := repo.GetLibrary(ctx, id)
	if err != nil {
		return nil, err
	}

	if requireActive && lib.Status != LibraryStatusActive {
		return nil, ineligiblef("library is %s", lib.Status)
	}

	return lib, nil
}

func lockCopy(ctx context.Context, tx Tx, libraryID, copyID uuid.UUID) (*Copy, error) {
	cp, err := tx.LockCopy(ctx, copyID)
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

func loadMember(ctx context.Context, tx Tx, libraryID, memberID uuid.UUID) (*Member, error) {
	m, err := tx.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if err := checkTenant(libraryID, m.LibraryID, "member"); err != nil {
		return nil, err
	}

	if m.Deleted() {
		return nil, notFound("member")
	}

	return m, nil
}

func lockTransaction(ctx context.Context, tx Tx, libraryID, transactionID uuid.UUID) (*Transaction, error) {
	t, err := tx.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := checkTenant(libraryID, t.LibraryID, "transaction"); err != nil {
		return nil, err
	}

	if !t.Status.Open() {
		return nil, conflictf("transaction is already %s", t.Status)
	}

	return t, nil
}
