package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID holds the authenticated account id as a string.
	CtxKeyUserID ctxKey = "user_id"
)

// WithUserID records the authenticated account id for downstream middleware
// such as per-user rate limiting.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, id)
}

// UserIDFromContext returns the id stored by WithUserID, or "".
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
