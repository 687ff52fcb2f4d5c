package httpx

import "context"

type ctxKey string

const CtxKeyPrincipal ctxKey = "principal"

// Principal is the authenticated identity resolved for a request. It is
// built once from validated token claims by AuthnMiddleware and threaded
// through the request context; downstream handlers must treat it as
// read-only.
type Principal struct {
	ID       string
	Username string
	Email    string
	Role     string
}

// PrincipalFromContext returns the Principal resolved for this request, if
// any. A false return means the request never passed AuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}
