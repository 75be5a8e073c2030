package copies

import (
	"time"

	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

type holdResponse struct {
	ID        uuid.UUID              `json:"id"`
	MemberID  uuid.UUID              `json:"member_id"`
	Status    circulation.HoldStatus `json:"status"`
	Position  int                    `json:"position"`
	CreatedAt time.Time              `json:"created_at"`
}

type copyResponse struct {
	ID                uuid.UUID              `json:"id"`
	LibraryID         uuid.UUID              `json:"library_id"`
	EditionID         uuid.UUID              `json:"edition_id"`
	CopyNumber        int                    `json:"copy_number"`
	Barcode           *string                `json:"barcode,omitempty"`
	Status            circulation.CopyStatus `json:"status"`
	Condition         string                 `json:"condition"`
	Location          string                 `json:"location,omitempty"`
	TotalCopies       int                    `json:"total_copies"`
	AvailableCopies   int                    `json:"available_copies"`
	CurrentBorrowerID *uuid.UUID             `json:"current_borrower_id,omitempty"`
	DueDate           *time.Time             `json:"due_date,omitempty"`
	HoldQueue         []holdResponse         `json:"hold_queue"`
	Version           int64                  `json:"version"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         *time.Time             `json:"updated_at,omitempty"`
}

type historyEntry struct {
	ID              uuid.UUID          `json:"id"`
	MemberID        uuid.UUID          `json:"member_id"`
	Type            circulation.Type   `json:"type"`
	Status          circulation.Status `json:"status"`
	TransactionDate time.Time          `json:"transaction_date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	ReturnDate      *time.Time         `json:"return_date,omitempty"`
	RenewalCount    int                `json:"renewal_count"`
	TotalFees       string             `json:"total_fees"`
}

type availabilityResponse struct {
	EditionID uuid.UUID `json:"edition_id"`
	Total     int       `json:"total"`
	Available int       `json:"available"`
}

func toHoldResponse(h circulation.Hold) holdResponse {
	return holdResponse{
		ID:        h.ID,
		MemberID:  h.MemberID,
		Status:    h.Status,
		Position:  h.Position,
		CreatedAt: h.CreatedAt,
	}
}

func toResponse(cp *circulation.Copy) copyResponse {
	resp := copyResponse{
		ID:                cp.ID,
		LibraryID:         cp.LibraryID,
		EditionID:         cp.EditionID,
		CopyNumber:        cp.CopyNumber,
		Barcode:           cp.Barcode,
		Status:            cp.Status,
		Condition:         cp.Condition,
		Location:          cp.Location,
		TotalCopies:       cp.TotalCopies,
		AvailableCopies:   cp.AvailableCopies,
		CurrentBorrowerID: cp.CurrentBorrowerID,
		DueDate:           cp.DueDate,
		HoldQueue:         make([]holdResponse, len(cp.HoldQueue)),
		Version:           cp.Version,
		CreatedAt:         cp.CreatedAt,
		UpdatedAt:         cp.UpdatedAt,
	}

	for i, h := range cp.HoldQueue {
		resp.HoldQueue[i] = toHoldResponse(h)
	}

	return resp
}

func toResponseList(copies []*circulation.Copy) []copyResponse {
	resp := make([]copyResponse, len(copies))
	for i, cp := range copies {
		resp[i] = toResponse(cp)
	}

	return resp
}

func toHistory(txs []*circulation.Transaction) []historyEntry {
	resp := make([]historyEntry, len(txs))
	for i, t := range txs {
		resp[i] = historyEntry{
			ID:              t.ID,
			MemberID:        t.MemberID,
			Type:            t.Type,
			Status:          t.Status,
			TransactionDate: t.TransactionDate,
			DueDate:         t.DueDate,
			ReturnDate:      t.ReturnDate,
			RenewalCount:    t.RenewalCount,
			TotalFees:       circulation.FormatAmount(t.Fees.Total()),
		}
	}

	return resp
}
