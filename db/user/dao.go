package user

import (
	"context"
	"fmt"
)

type (
	// Dao contains CRUD operations for user-related information.
	Dao struct {
		backend Backend
		ph      PasswordHandler
	}

	// Backend stores users.  Passwords given to the backend are already hashed.
	Backend interface {
		// Create adds the user.
		Create(ctx context.Context, u User) error
		// Read gets the user by username, returning ErrIncorrectLogin if the user does not exist.
		Read(ctx context.Context, u User) (*User, error)
		// UpdatePassword sets the password of the user.
		UpdatePassword(ctx context.Context, u User) error
		// UpdatePointsIncrement adds the points to each user.
		UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error
		// Delete removes the user.
		Delete(ctx context.Context, u User) error
	}

	// PasswordHandler hashes passwords and checks them against hashes.
	PasswordHandler interface {
		// Hash computes the hash of the password.
		Hash(password string) ([]byte, error)
		// IsCorrect determines if the password matches the hash.
		IsCorrect(hashedPassword []byte, password string) (bool, error)
	}

	// setuper is a Backend that must be set up before it is used.
	setuper interface {
		Setup(ctx context.Context) error
	}
)

// NewDao creates a Dao on the specified backend.
func NewDao(backend Backend, ph PasswordHandler) (*Dao, error) {
	if err := validate(backend, ph); err != nil {
		return nil, fmt.Errorf("creating user dao: validation: %w", err)
	}
	d := Dao{
		backend: backend,
		ph:      ph,
	}
	return &d, nil
}

// validate checks fields to set up the dao.
func validate(backend Backend, ph PasswordHandler) error {
	switch {
	case backend == nil:
		return fmt.Errorf("backend required")
	case ph == nil:
		return fmt.Errorf("password handler required")
	}
	return nil
}

// Setup initializes the backend if it needs to be set up.
func (d Dao) Setup(ctx context.Context) error {
	s, ok := d.backend.(setuper)
	if !ok {
		return nil
	}
	if err := s.Setup(ctx); err != nil {
		return fmt.Errorf("setting up user backend: %w", err)
	}
	return nil
}

// Create adds a user.
func (d Dao) Create(ctx context.Context, u User) error {
	if _, err := New(u.Username, u.Password); err != nil {
		return err
	}
	hashedPassword, err := d.ph.Hash(u.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hashedPassword)
	if err := d.backend.Create(ctx, u); err != nil {
		return err
	}
	return nil
}

// Read gets information such as points after checking the password.
func (d Dao) Read(ctx context.Context, u User) (*User, error) {
	u2, err := d.backend.Read(ctx, u)
	if err != nil {
		return nil, err
	}
	if _, ok := d.backend.(NoDatabaseBackend); ok {
		return u2, nil
	}
	isCorrect, err := d.ph.IsCorrect([]byte(u2.Password), u.Password)
	switch {
	case err != nil:
		return nil, fmt.Errorf("reading user: %w", err)
	case !isCorrect:
		return nil, ErrIncorrectLogin
	}
	u2.Password = ""
	return u2, nil
}

// UpdatePassword sets the password of a user.
func (d Dao) UpdatePassword(ctx context.Context, u User, newP string) error {
	if _, err := d.Read(ctx, u); err != nil {
		return fmt.Errorf("checking password: %w", err)
	}
	if err := validatePassword(newP); err != nil {
		return err
	}
	hashedPassword, err := d.ph.Hash(newP)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hashedPassword)
	if err := d.backend.UpdatePassword(ctx, u); err != nil {
		return err
	}
	return nil
}

// UpdatePointsIncrement increments the points for multiple users by the amount defined in the map.
func (d Dao) UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error {
	if len(userPoints) == 0 {
		return nil
	}
	return d.backend.UpdatePointsIncrement(ctx, userPoints)
}

// Delete removes a user.
func (d Dao) Delete(ctx context.Context, u User) error {
	if _, err := d.Read(ctx, u); err != nil {
		return fmt.Errorf("checking password: %w", err)
	}
	return d.backend.Delete(ctx, u)
}
