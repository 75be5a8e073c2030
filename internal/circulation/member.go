package circulation

import (
	"time"

	"github.com/google/uuid"
)

// LibraryStatus is the provisioning state of a tenant.
type LibraryStatus string

const (
	LibraryStatusActive   LibraryStatus = "active"
	LibraryStatusInactive LibraryStatus = "inactive"
	LibraryStatusPending  LibraryStatus = "pending"
)

func (s LibraryStatus) Valid() bool {
	switch s {
	case LibraryStatusActive, LibraryStatusInactive, LibraryStatusPending:
		return true
	}

	return false
}

// Settings are the per-library circulation rules. Amounts are in minor units (cents).
type Settings struct {
	DefaultLoanPeriod time.Duration
	MaxRenewals       int
	LateFeePerDay     int64
	MaxLateFee        int64
	LostItemFee       int64
	LostProcessingFee int64
	MaxActiveLoans    int // 0 means unlimited
}

func DefaultSettings() Settings {
	return Settings{
		DefaultLoanPeriod: 14 * 24 * time.Hour,
		MaxRenewals:       2,
		LateFeePerDay:     25,
		MaxLateFee:        1000,
		LostItemFee:       2500,
		LostProcessingFee: 500,
	}
}

// Library is a tenant. It is never deleted, only deactivated.
type Library struct {
	ID        uuid.UUID
	Name      string
	Status    LibraryStatus
	Settings  Settings
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// MemberStatus gates checkout eligibility.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
	MemberStatusBanned   MemberStatus = "banned"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusBanned:
		return true
	}

	return false
}

// Member is a borrower owned by exactly one library.
type Member struct {
	ID             uuid.UUID
	LibraryID      uuid.UUID
	DisplayName    string
	ExternalUserID *string
	Status         MemberStatus
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	DeletedBy      *uuid.UUID
}

func (m *Member) Deleted() bool {
	return m.DeletedAt != nil
}
