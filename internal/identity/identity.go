// Package identity resolves caller tokens into the libraries and roles the caller may act as.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Role string

const (
	RoleOwner     Role = "owner"
	RoleManager   Role = "manager"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

var roleRank = map[Role]int{
	RoleMember:    1,
	RoleLibrarian: 2,
	RoleManager:   3,
	RoleOwner:     4,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything floor grants.
func (r Role) AtLeast(floor Role) bool {
	return r.Valid() && roleRank[r] >= roleRank[floor]
}

type Membership struct {
	LibraryID uuid.UUID `json:"library_id"`
	Role      Role      `json:"role"`
}

type Identity struct {
	Subject     string
	Memberships []Membership
}

// RoleIn returns the caller's role in the library, if any.
func (i *Identity) RoleIn(libraryID uuid.UUID) (Role, bool) {
	for _, m := range i.Memberships {
		if m.LibraryID == libraryID {
			return m.Role, true
		}
	}

	return "", false
}

// ActorID is the subject as a staff identifier, or nil when the subject is not a UUID.
func (i *Identity) ActorID() *uuid.UUID {
	id, err := uuid.Parse(i.Subject)
	if err != nil {
		return nil
	}

	return &id
}

// Authority is the external Identity/Role Authority.
type Authority interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

type ctxKey struct{}

func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}
