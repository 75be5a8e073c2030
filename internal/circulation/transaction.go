package circulation

import (
	"time"

	"github.com/google/uuid"
)

// Type is the kind of circulation event a transaction was opened for.
type Type string

const (
	TypeCheckout Type = "checkout"
	TypeReturn   Type = "return"
	TypeRenewal  Type = "renewal"
	TypeHold     Type = "hold"
	TypeReserve  Type = "reserve"
)

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusActive    Status = "active"
	StatusReturned  Status = "returned"
	StatusOverdue   Status = "overdue"
	StatusLost      Status = "lost"
	StatusCancelled Status = "cancelled"
)

// Open reports whether the status still consumes a unit of availability.
func (s Status) Open() bool {
	return s == StatusActive || s == StatusOverdue
}

// Fees are stored in minor units.
type Fees struct {
	Late       int64
	Damage     int64
	Processing int64
}

func (f Fees) Total() int64 {
	return f.Late + f.Damage + f.Processing
}

// Transaction is one loan of a copy to a member.
type Transaction struct {
	ID              uuid.UUID
	LibraryID       uuid.UUID
	CopyID          uuid.UUID
	MemberID        uuid.UUID
	StaffID         *uuid.UUID
	Type            Type
	Status          Status
	TransactionDate time.Time
	DueDate         *time.Time
	ReturnDate      *time.Time
	RenewalCount    int
	Fees            Fees
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// EffectiveStatus derives the overdue label for active transactions whose due date has passed.
func (t *Transaction) EffectiveStatus(now time.Time) Status {
	if t.Status == StatusActive && t.DueDate != nil && now.After(*t.DueDate) {
		return StatusOverdue
	}

	return t.Status
}

// EventType names a state change recorded in the transaction event log.
type EventType string

const (
	EventCreated       EventType = "created"
	EventCheckedOut    EventType = "checked_out"
	EventReturned      EventType = "returned"
	EventRenewed       EventType = "renewed"
	EventFeeAssessed   EventType = "fee_assessed"
	EventLostDeclared  EventType = "lost_declared"
	EventCancelled     EventType = "cancelled"
	EventMarkedOverdue EventType = "marked_overdue"
)

// Event is an immutable audit entry. Sequence is assigned by the store and strictly increases.
type Event struct {
	Sequence      int64
	TransactionID uuid.UUID
	LibraryID     uuid.UUID
	Type          EventType
	ActorID       *uuid.UUID
	Payload       []byte // JSON
	OccurredAt    time.Time
}
