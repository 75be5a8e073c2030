package circulation

import (
	"time"

	"github.com/google/uuid"
)

// CopyStatus is the physical state of a copy.
type CopyStatus string

const (
	CopyStatusActive      CopyStatus = "active"
	CopyStatusInactive    CopyStatus = "inactive"
	CopyStatusDamaged     CopyStatus = "damaged"
	CopyStatusLost        CopyStatus = "lost"
	CopyStatusMaintenance CopyStatus = "maintenance"
)

func (s CopyStatus) Valid() bool {
	switch s {
	case CopyStatusActive, CopyStatusInactive, CopyStatusDamaged, CopyStatusLost, CopyStatusMaintenance:
		return true
	}

	return false
}

// HoldStatus is the lifecycle state of a hold queue entry.
type HoldStatus string

const (
	HoldStatusPending           HoldStatus = "pending"
	HoldStatusFulfilled         HoldStatus = "fulfilled"
	HoldStatusCancelled         HoldStatus = "cancelled"
	HoldStatusNeedsReassignment HoldStatus = "needs_reassignment"
)

// Hold is one entry of a copy's hold queue.
type Hold struct {
	ID        uuid.UUID
	LibraryID uuid.UUID
	CopyID    uuid.UUID
	MemberID  uuid.UUID
	Status    HoldStatus
	Position  int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Copy is one lendable unit (or batch of identical units) of an edition owned by a library.
type Copy struct {
	ID                uuid.UUID
	LibraryID         uuid.UUID
	EditionID         uuid.UUID
	CopyNumber        int
	Barcode           *string
	Status            CopyStatus
	Condition         string
	Location          string
	TotalCopies       int
	AvailableCopies   int
	CurrentBorrowerID *uuid.UUID
	DueDate           *time.Time
	HoldQueue         []Hold // pending holds, ordered by position
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	DeletedBy         *uuid.UUID
}

func (c *Copy) Deleted() bool {
	return c.DeletedAt != nil
}

// NextHold returns the first pending hold in the queue, if any.
func (c *Copy) NextHold() (Hold, bool) {
	if len(c.HoldQueue) == 0 {
		return Hold{}, false
	}

	return c.HoldQueue[0], true
}

func (c *Copy) holdFor(memberID uuid.UUID) (Hold, bool) {
	for _, h := range c.HoldQueue {
		if h.MemberID == memberID {
			return h, true
		}
	}

	return Hold{}, false
}

// Availability is the total/available aggregate for an edition within one library.
type Availability struct {
	LibraryID uuid.UUID
	EditionID uuid.UUID
	Total     int
	Available int
}

// Placement describes where newly registered copies go and how they are labelled.
// Barcodes is optional; when set it must carry one barcode per copy.
type Placement struct {
	Location  string
	Condition string
	Barcodes  []string
}
