package domain

import "context"

// WriterPort persists scan runs
type WriterPort interface {
	// Record stores the run and its file rows, assigning ID and
	// CreatedAt when unset, and returns the run ID. Re-recording the
	// same ID is a no-op (idempotent writes)
	Record(ctx context.Context, run Run) (string, error)
}

// QueryPort reads persisted scan runs
type QueryPort interface {
	Get(ctx context.Context, id string) (Run, error)
	List(ctx context.Context, after AfterKey, limit int) ([]Head, AfterKey, error)
}
