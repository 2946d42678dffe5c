package postgres

import (
	"context"
	"errors"
	"io"

	"github.com/jacobpatterson1549/mexican-train/db/sql"
)

// mockDatabase runs the queries of the user backend.  Unset functions fail so unwanted queries are noticed.
type mockDatabase struct {
	SetupFunc func(ctx context.Context, files []io.Reader) error
	QueryFunc func(ctx context.Context, q sql.Query, dest ...interface{}) error
	ExecFunc  func(ctx context.Context, queries ...sql.Query) error
}

var errUnexpectedQuery = errors.New("unexpected query on mock database")

func (m mockDatabase) Setup(ctx context.Context, files []io.Reader) error {
	if m.SetupFunc == nil {
		return errUnexpectedQuery
	}
	return m.SetupFunc(ctx, files)
}

func (m mockDatabase) Query(ctx context.Context, q sql.Query, dest ...interface{}) error {
	if m.QueryFunc == nil {
		return errUnexpectedQuery
	}
	return m.QueryFunc(ctx, q, dest...)
}

func (m mockDatabase) Exec(ctx context.Context, queries ...sql.Query) error {
	if m.ExecFunc == nil {
		return errUnexpectedQuery
	}
	return m.ExecFunc(ctx, queries...)
}
