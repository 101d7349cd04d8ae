package goJWE

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a correlation id to ctx. Engine operations copy it
// into the metadata of the audit events they emit.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
