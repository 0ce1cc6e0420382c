package store

import "context"

// RunInScan wraps ctx with the scan id and calls fn inside the provided TxRunner
func RunInScan(ctx context.Context, tx TxRunner, scanID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithScan(ctx, scanID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}

// Run calls fn inside the provided TxRunner without extra context tagging
func Run(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q RowQuerier) error) error {
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
