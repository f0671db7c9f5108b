package services

import (
	"context"

	"github.com/google/uuid"
)

// Roles consumed from the authenticated token. Policy lives upstream; this
// service only reads the claim.
const (
	RoleSeller    = "seller"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// IsModerator reports whether the identity may act on the moderation queue.
func (i Identity) IsModerator() bool {
	return i.Role == RoleModerator || i.Role == RoleAdmin
}

type identityCtxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
