// Package auth resolves bearer tokens and enforces per-library roles.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/http/render"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
)

// Authenticate attaches the caller's identity to the request context.
func Authenticate(authority identity.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				render.Fail(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			id, err := authority.Resolve(r.Context(), strings.TrimSpace(token))
			if err != nil {
				if !errors.Is(err, identity.ErrUnauthenticated) {
					slog.Error("failed to resolve identity", "error", err)
				}

				render.Fail(w, http.StatusUnauthorized, "unauthenticated", "invalid token")

				return
			}

			next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), id)))
		})
	}
}

// Require rejects callers whose role in the {libraryID} path library is below floor.
func Require(floor identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			libraryID, err := render.LibraryID(r)
			if err != nil {
				render.Error(w, err)
				return
			}

			id, ok := identity.FromContext(r.Context())
			if !ok {
				render.Fail(w, http.StatusUnauthorized, "unauthenticated", "missing identity")
				return
			}

			role, ok := id.RoleIn(libraryID)
			if !ok || !role.AtLeast(floor) {
				render.Fail(w, http.StatusForbidden, "forbidden", "requires "+string(floor)+" role in this library")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Actor is the staff identifier of the caller, if the token subject is one.
func Actor(r *http.Request) *uuid.UUID {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return nil
	}

	return id.ActorID()
}
