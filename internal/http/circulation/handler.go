package circulation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/http/auth"
	"github.com/tronghieu/ezlib-sub005/internal/http/render"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
)

const day = 24 * time.Hour

type Handler struct {
	svc *circulation.Service
	log *circulation.Log
}

func NewHandler(svc *circulation.Service, log *circulation.Log) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Require(identity.RoleLibrarian))

		r.Post("/circulation/checkout", h.checkout)
		r.Post("/circulation/return", h.returnCopy)
		r.Post("/circulation/renew", h.renew)
		r.Post("/circulation/lost", h.declareLost)
		r.Get("/transactions/{id}", h.get)
		r.Get("/transactions/{id}/events", h.events)
	})
}

type checkoutRequest struct {
	CopyID   uuid.UUID `json:"copy_id" validate:"required"`
	MemberID uuid.UUID `json:"member_id" validate:"required"`
	LoanDays int       `json:"loan_days" validate:"gte=0,lte=365"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req checkoutRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	res, err := h.svc.Checkout(r.Context(), circulation.CheckoutParams{
		LibraryID:  libraryID,
		CopyID:     req.CopyID,
		MemberID:   req.MemberID,
		StaffID:    auth.Actor(r),
		LoanPeriod: time.Duration(req.LoanDays) * day,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResultResponse(res))
}

type returnRequest struct {
	TransactionID  uuid.UUID `json:"transaction_id" validate:"required"`
	ConditionNotes string    `json:"condition_notes" validate:"max=500"`
}

func (h *Handler) returnCopy(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req returnRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	res, err := h.svc.Return(r.Context(), circulation.ReturnParams{
		LibraryID:      libraryID,
		TransactionID:  req.TransactionID,
		StaffID:        auth.Actor(r),
		ConditionNotes: req.ConditionNotes,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResultResponse(res))
}

type renewRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
	ExtensionDays int       `json:"extension_days" validate:"gte=0,lte=365"`
}

func (h *Handler) renew(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req renewRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	res, err := h.svc.Renew(r.Context(), circulation.RenewParams{
		LibraryID:     libraryID,
		TransactionID: req.TransactionID,
		StaffID:       auth.Actor(r),
		Extension:     time.Duration(req.ExtensionDays) * day,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResultResponse(res))
}

type declareLostRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
	// FeeOverride is a decimal amount such as "12.50".
	FeeOverride *string `json:"fee_override" validate:"omitempty,max=32"`
}

func (h *Handler) declareLost(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req declareLostRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	params := circulation.DeclareLostParams{
		LibraryID:     libraryID,
		TransactionID: req.TransactionID,
		StaffID:       auth.Actor(r),
	}

	if req.FeeOverride != nil {
		fee, err := circulation.ParseAmount(*req.FeeOverride)
		if err != nil {
			render.Error(w, err)
			return
		}

		params.FeeOverride = &fee
	}

	res, err := h.svc.DeclareLost(r.Context(), params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	libraryID, transactionID, ok := ids(w, r)
	if !ok {
		return
	}

	t, err := h.log.GetTransaction(r.Context(), libraryID, transactionID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	libraryID, transactionID, ok := ids(w, r)
	if !ok {
		return
	}

	events, err := h.log.Events(r.Context(), libraryID, transactionID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toEventList(events))
}

func ids(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := render.PathID(r, "id")
	if err != nil {
		render.Error(w, err)
		return uuid.Nil, uuid.Nil, false
	}

	return libraryID, id, true
}
