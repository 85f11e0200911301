package middleware

import "context"

type contextKey string

const ctxUserRef contextKey = "user_ref"

// UserRefFromContext returns the caller reference attached by Identity, or
// empty when the request was anonymous.
func UserRefFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserRef).(string); ok {
		return v
	}
	return ""
}

// WithUserRef injects the caller reference into the context.
func WithUserRef(ctx context.Context, userRef string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserRef, userRef)
}
