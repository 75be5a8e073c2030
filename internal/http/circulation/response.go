package circulation

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

type feesResponse struct {
	Late       string `json:"late"`
	Damage     string `json:"damage"`
	Processing string `json:"processing"`
	Total      string `json:"total"`
}

type transactionResponse struct {
	ID              uuid.UUID          `json:"id"`
	CopyID          uuid.UUID          `json:"copy_id"`
	MemberID        uuid.UUID          `json:"member_id"`
	StaffID         *uuid.UUID         `json:"staff_id,omitempty"`
	Type            circulation.Type   `json:"type"`
	Status          circulation.Status `json:"status"`
	TransactionDate time.Time          `json:"transaction_date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	ReturnDate      *time.Time         `json:"return_date,omitempty"`
	RenewalCount    int                `json:"renewal_count"`
	Fees            feesResponse       `json:"fees"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
}

type copyState struct {
	ID              uuid.UUID              `json:"id"`
	Status          circulation.CopyStatus `json:"status"`
	AvailableCopies int                    `json:"available_copies"`
	TotalCopies     int                    `json:"total_copies"`
	DueDate         *time.Time             `json:"due_date,omitempty"`
	Version         int64                  `json:"version"`
}

type resultResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Copy        copyState           `json:"copy"`
}

type eventResponse struct {
	Sequence   int64                 `json:"sequence"`
	Type       circulation.EventType `json:"type"`
	ActorID    *uuid.UUID            `json:"actor_id,omitempty"`
	Payload    jsoniter.RawMessage   `json:"payload,omitempty"`
	OccurredAt time.Time             `json:"occurred_at"`
}

func toResponse(t *circulation.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		CopyID:          t.CopyID,
		MemberID:        t.MemberID,
		StaffID:         t.StaffID,
		Type:            t.Type,
		Status:          t.Status,
		TransactionDate: t.TransactionDate,
		DueDate:         t.DueDate,
		ReturnDate:      t.ReturnDate,
		RenewalCount:    t.RenewalCount,
		Fees: feesResponse{
			Late:       circulation.FormatAmount(t.Fees.Late),
			Damage:     circulation.FormatAmount(t.Fees.Damage),
			Processing: circulation.FormatAmount(t.Fees.Processing),
			Total:      circulation.FormatAmount(t.Fees.Total()),
		},
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toResultResponse(res *circulation.Result) resultResponse {
	return resultResponse{
		Transaction: toResponse(res.Transaction),
		Copy: copyState{
			ID:              res.Copy.ID,
			Status:          res.Copy.Status,
			AvailableCopies: res.Copy.AvailableCopies,
			TotalCopies:     res.Copy.TotalCopies,
			DueDate:         res.Copy.DueDate,
			Version:         res.Copy.Version,
		},
	}
}

func toEventList(events []circulation.Event) []eventResponse {
	resp := make([]eventResponse, len(events))
	for i, e := range events {
		resp[i] = eventResponse{
			Sequence:   e.Sequence,
			Type:       e.Type,
			ActorID:    e.ActorID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		}
	}

	return resp
}
