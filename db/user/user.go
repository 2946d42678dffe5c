// Package user handles the state of users.
package user

import (
	"errors"
	"fmt"
	"unicode"
)

// User contains information for each player.
type User struct {
	Username string `bson:"username" firestore:"-"`
	Password string `bson:"password" firestore:"password"`
	Points   int    `bson:"points" firestore:"points"`
}

// ErrIncorrectLogin is returned when the username/password pair is not valid.
var ErrIncorrectLogin = errors.New("incorrect username/password")

// New creates a new user with the specified name and password.
func New(u, p string) (*User, error) {
	user := User{
		Username: u,
		Password: p,
	}
	if err := user.validateUsername(); err != nil {
		return nil, err
	}
	if err := validatePassword(p); err != nil {
		return nil, err
	}
	return &user, nil
}

// validateUsername returns an error if the username is not valid.
func (u User) validateUsername() error {
	switch {
	case len(u.Username) < 1:
		return fmt.Errorf("username required")
	case len(u.Username) > 32:
		return fmt.Errorf("username must be less than 32 characters long")
	}
	for _, r := range u.Username {
		if !unicode.IsLower(r) {
			return fmt.Errorf("username must be made of only lowercase letters")
		}
	}
	return nil
}

// validatePassword returns an error if the password is not valid.
func validatePassword(p string) error {
	if len(p) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	return nil
}
