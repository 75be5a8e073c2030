package copies

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/http/auth"
	"github.com/tronghieu/ezlib-sub005/internal/http/render"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
)

type Handler struct {
	ledger *circulation.Ledger
	log    *circulation.Log
	safety *circulation.SafetyChecker
}

func NewHandler(ledger *circulation.Ledger, log *circulation.Log, safety *circulation.SafetyChecker) *Handler {
	return &Handler{ledger: ledger, log: log, safety: safety}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(auth.Require(identity.RoleLibrarian)).Post("/", h.register)
	r.With(auth.Require(identity.RoleMember)).Get("/{id}", h.get)
	r.With(auth.Require(identity.RoleManager)).Patch("/{id}/status", h.updateStatus)
	r.With(auth.Require(identity.RoleManager)).Delete("/{id}", h.delete)
	r.With(auth.Require(identity.RoleLibrarian)).Get("/{id}/history", h.history)
	r.With(auth.Require(identity.RoleManager)).Get("/{id}/deletion-safety", h.deletionSafety)
	r.With(auth.Require(identity.RoleLibrarian)).Post("/{id}/holds", h.placeHold)
	r.With(auth.Require(identity.RoleLibrarian)).Delete("/{id}/holds/{memberID}", h.cancelHold)
}

// EditionRoutes serves the per-edition aggregate.
func (h *Handler) EditionRoutes(r chi.Router) {
	r.With(auth.Require(identity.RoleMember)).Get("/{editionID}/availability", h.availability)
}

type registerRequest struct {
	EditionID uuid.UUID `json:"edition_id" validate:"required"`
	Count     int       `json:"count" validate:"required,min=1,max=500"`
	Location  string    `json:"location" validate:"max=200"`
	Condition string    `json:"condition" validate:"max=100"`
	Barcodes  []string  `json:"barcodes" validate:"omitempty,dive,required,max=64"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req registerRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	copies, err := h.ledger.RegisterCopies(r.Context(), libraryID, req.EditionID, req.Count, circulation.Placement{
		Location:  req.Location,
		Condition: req.Condition,
		Barcodes:  req.Barcodes,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponseList(copies))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	cp, err := h.ledger.GetCopy(r.Context(), libraryID, copyID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(cp))
}

type updateStatusRequest struct {
	Status circulation.CopyStatus `json:"status" validate:"required,oneof=active inactive damaged lost maintenance"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	cp, err := h.ledger.MarkCopyStatus(r.Context(), libraryID, copyID, req.Status)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(cp))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	actor := auth.Actor(r)
	if actor == nil {
		render.Fail(w, http.StatusForbidden, "forbidden", "token subject is not a staff id")
		return
	}

	if err := h.ledger.SoftDeleteCopy(r.Context(), libraryID, copyID, *actor); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			render.Fail(w, http.StatusBadRequest, "validation", "limit must be a positive integer")
			return
		}

		limit = n
	}

	txs, err := h.log.History(r.Context(), libraryID, copyID, limit)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toHistory(txs))
}

func (h *Handler) deletionSafety(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	check, err := h.safety.CheckCopyDeletion(r.Context(), libraryID, copyID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, check)
}

type placeHoldRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

func (h *Handler) placeHold(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	var req placeHoldRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	hold, err := h.ledger.PlaceHold(r.Context(), libraryID, copyID, req.MemberID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toHoldResponse(*hold))
}

func (h *Handler) cancelHold(w http.ResponseWriter, r *http.Request) {
	libraryID, copyID, ok := ids(w, r)
	if !ok {
		return
	}

	memberID, err := render.PathID(r, "memberID")
	if err != nil {
		render.Error(w, err)
		return
	}

	if err := h.ledger.CancelHold(r.Context(), libraryID, copyID, memberID); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	editionID, err := render.PathID(r, "editionID")
	if err != nil {
		render.Error(w, err)
		return
	}

	a, err := h.ledger.GetAvailability(r.Context(), libraryID, editionID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, availabilityResponse{EditionID: a.EditionID, Total: a.Total, Available: a.Available})
}

// ids parses the library and copy path parameters, writing the error response on failure.
func ids(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return uuid.Nil, uuid.Nil, false
	}

	copyID, err := render.PathID(r, "id")
	if err != nil {
		render.Error(w, err)
		return uuid.Nil, uuid.Nil, false
	}

	return libraryID, copyID, true
}
