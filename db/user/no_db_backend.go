package user

import (
	"context"
	"fmt"
)

// NoDatabaseBackend is used when the server runs without a database.
// Any username can log in, but accounts cannot be changed.
type NoDatabaseBackend struct{}

// Create returns an error.
func (NoDatabaseBackend) Create(ctx context.Context, u User) error {
	return fmt.Errorf("no database to create user")
}

// Read returns the user.
func (NoDatabaseBackend) Read(ctx context.Context, u User) (*User, error) {
	if err := u.validateUsername(); err != nil {
		return nil, err
	}
	u.Password = ""
	return &u, nil
}

// UpdatePassword returns an error
func (NoDatabaseBackend) UpdatePassword(ctx context.Context, u User) error {
	return fmt.Errorf("no database to update user password")
}

// UpdatePointsIncrement does nothing, points are not kept.
func (NoDatabaseBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	return nil
}

// Delete returns an error.
func (NoDatabaseBackend) Delete(ctx context.Context, u User) error {
	return fmt.Errorf("no database to delete user")
}
