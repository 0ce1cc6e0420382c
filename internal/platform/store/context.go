package store

import "context"

type (
	scanKey  struct{}
	reqIDKey struct{}
)

// WithScan attaches a scan id to the context so queries run for that
// scan carry it into trace events
func WithScan(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, scanKey{}, scanID)
}

// ScanID retrieves a scan id from context if present
func ScanID(ctx context.Context) (string, bool) {
	v := ctx.Value(scanKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
