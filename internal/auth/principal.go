package auth

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
)

// Principal is the authenticated caller attached to every request.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

func (p Principal) Authenticated() bool { return p.UserID != 0 && p.Role != "" }

// CanRead reports whether p may read data owned by ownerID.
func (p Principal) CanRead(ownerID uint) bool {
	return p.IsAdmin() || (p.Authenticated() && p.UserID == ownerID)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
