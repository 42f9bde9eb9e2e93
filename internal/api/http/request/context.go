// Package request carries per-request values through handler context.
package request

import (
	"context"

	"github.com/salescribe/salescribe-server/internal/model"
)

type identityKey struct{}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext retrieves the authenticated identity. The second return
// is false for unauthenticated requests.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	return identity, ok
}
