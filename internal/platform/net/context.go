// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyScanID ctxKey = "scan_id"
)

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, scanID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if scanID != "" {
		ctx = context.WithValue(ctx, keyScanID, scanID)
	}
	return ctx
}

// WithScan annotates context with the scan run id being served
func WithScan(ctx context.Context, scanID string) context.Context {
	if scanID != "" {
		ctx = context.WithValue(ctx, keyScanID, scanID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// ScanID returns the scan run id on the context if present
func ScanID(ctx context.Context) string {
	if v, ok := ctx.Value(keyScanID).(string); ok {
		return v
	}
	return ""
}
