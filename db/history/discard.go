package history

import (
	"context"

	"github.com/jacobpatterson1549/mexican-train/game"
)

// Discard is used when there is no redis server.  Results are not kept.
type Discard struct{}

// Record does nothing.
func (Discard) Record(ctx context.Context, r game.Result) error {
	return nil
}

// Recent returns no results.
func (Discard) Recent(ctx context.Context, n int) ([]game.Result, error) {
	return []game.Result{}, nil
}

// PlayerResults returns no results.
func (Discard) PlayerResults(ctx context.Context, name string, n int) ([]game.Result, error) {
	return []game.Result{}, nil
}

// Ping always succeeds.
func (Discard) Ping(ctx context.Context) error {
	return nil
}
