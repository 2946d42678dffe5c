package user

import (
	"context"
	"errors"
)

// errUnexpectedCall is returned by a mock when the test did not set up the called function.
var errUnexpectedCall = errors.New("unexpected call to mock")

type mockPasswordHandler struct {
	hashFunc      func(password string) ([]byte, error)
	isCorrectFunc func(hashedPassword []byte, password string) (bool, error)
}

func (m mockPasswordHandler) Hash(password string) ([]byte, error) {
	if m.hashFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.hashFunc(password)
}

func (m mockPasswordHandler) IsCorrect(hashedPassword []byte, password string) (bool, error) {
	if m.isCorrectFunc == nil {
		return false, errUnexpectedCall
	}
	return m.isCorrectFunc(hashedPassword, password)
}

// mockBackend stores players for the dao.  Unset functions fail with errUnexpectedCall.
type mockBackend struct {
	createFunc                func(ctx context.Context, u User) error
	readFunc                  func(ctx context.Context, u User) (*User, error)
	updatePasswordFunc        func(ctx context.Context, u User) error
	updatePointsIncrementFunc func(ctx context.Context, userPoints map[string]int) error
	deleteFunc                func(ctx context.Context, u User) error
}

func (m mockBackend) Create(ctx context.Context, u User) error {
	if m.createFunc == nil {
		return errUnexpectedCall
	}
	return m.createFunc(ctx, u)
}

func (m mockBackend) Read(ctx context.Context, u User) (*User, error) {
	if m.readFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.readFunc(ctx, u)
}

func (m mockBackend) UpdatePassword(ctx context.Context, u User) error {
	if m.updatePasswordFunc == nil {
		return errUnexpectedCall
	}
	return m.updatePasswordFunc(ctx, u)
}

// UpdatePointsIncrement credits the points of a finished match.
func (m mockBackend) UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error {
	if m.updatePointsIncrementFunc == nil {
		return errUnexpectedCall
	}
	return m.updatePointsIncrementFunc(ctx, userPoints)
}

func (m mockBackend) Delete(ctx context.Context, u User) error {
	if m.deleteFunc == nil {
		return errUnexpectedCall
	}
	return m.deleteFunc(ctx, u)
}
