package reqctx

import (
	"context"

	"github.com/google/uuid"
)

const keyIdentity ctxKey = keyRequestMeta + 1

// Identity is the signed-in operator behind a request.
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, keyIdentity, id)
}

// IdentityFromContext reports false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(keyIdentity).(Identity)
	return id, ok
}
