package domain

import "context"

// RunnerPort classifies a batch of inputs
type RunnerPort interface {
	// Run classifies every input and returns the report in input order.
	// Cancellation is honored between items; per-item failures are
	// recorded on the item, never aborting the batch
	Run(ctx context.Context, inputs []Input) (Report, error)
}
