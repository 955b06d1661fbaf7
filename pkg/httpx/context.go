package httpx

import "context"

type ctxKey string

// CtxKeyCaller holds the fingerprint of the token that authenticated the
// request. Set by RequireToken.
const CtxKeyCaller ctxKey = "caller"

func CallerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyCaller).(string); ok {
		return v
	}
	return ""
}
