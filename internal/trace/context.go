package trace

import "context"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the given request ID.
//
// The request ID is included by [Begin] and [Op.End] in their log output
// when present, letting related start/end log lines across an operation be
// correlated.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom extracts the request ID set by [WithRequestID], if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey{})
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
