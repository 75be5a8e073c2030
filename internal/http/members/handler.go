package members

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

type Handler struct {
	members *circulation.Members
	safety  *circulation.SafetyChecker
}

func NewHandler(members *circulation.Members, safety *circulation.SafetyChecker) *Handler {
	return &Handler{members: members, safety: safety}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(auth.Require(identity.RoleLibrarian)).Post("/", h.create)
	r.With(auth.Require(identity.RoleLibrarian)).Get("/{id}", h.get)
	r.With(auth.Require(identity.RoleManager)).Patch("/{id}/status", h.updateStatus)
	r.With(auth.Require(identity.RoleManager)).Get("/{id}/deletion-safety", h.deletionSafety)
	r.With(auth.Require(identity.RoleManager)).Delete("/{id}", h.delete)
}

type memberResponse struct {
	ID             uuid.UUID                `json:"id"`
	DisplayName    string                   `json:"display_name"`
	ExternalUserID *string                  `json:"external_user_id,omitempty"`
	Status         circulation.MemberStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      *time.Time               `json:"updated_at,omitempty"`
}

func toResponse(m *circulation.Member) memberResponse {
	return memberResponse{
		ID:             m.ID,
		DisplayName:    m.DisplayName,
		ExternalUserID: m.ExternalUserID,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type createRequest struct {
	DisplayName    string `json:"display_name" validate:"required,max=200"`
	ExternalUserID string `json:"external_user_id" validate:"max=200"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req createRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	m, err := h.members.RegisterMember(r.Context(), libraryID, req.DisplayName, req.ExternalUserID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(m))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	libraryID, memberID, ok := ids(w, r)
	if !ok {
		return
	}

	m, err := h.members.GetMember(r.Context(), libraryID, memberID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(m))
}

type updateStatusRequest struct {
	Status circulation.MemberStatus `json:"status" validate:"required,oneof=active inactive banned"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	libraryID, memberID, ok := ids(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	m, err := h.members.SetMemberStatus(r.Context(), libraryID, memberID, req.Status)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) deletionSafety(w http.ResponseWriter, r *http.Request) {
	libraryID, memberID, ok := ids(w, r)
	if !ok {
		return
	}

	check, err := h.safety.CheckMemberDeletion(r.Context(), libraryID, memberID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, check)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	libraryID, memberID, ok := ids(w, r)
	if !ok {
		return
	}

	actor := auth.Actor(r)
	if actor == nil {
		render.Fail(w, http.StatusForbidden, "forbidden", "token subject is not a staff id")
		return
	}

	if err := h.members.SoftDeleteMember(r.Context(), libraryID, memberID, *actor); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
