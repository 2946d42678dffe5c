// Package db contains the shared configuration of the stores that keep users and match results after the server restarts.
package db

import (
	"context"
	"fmt"
	"time"
)

// Config contains common properties of the database backends.
type Config struct {
	// QueryPeriod is the amount of time a single request to the database can take.
	QueryPeriod time.Duration
}

// Validate ensures the configuration has no errors.
func (cfg Config) Validate() error {
	if cfg.QueryPeriod <= 0 {
		return fmt.Errorf("positive query period required")
	}
	return nil
}

// WithTimeout runs the function with a context that expires after the query period.
func (cfg Config) WithTimeout(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}
