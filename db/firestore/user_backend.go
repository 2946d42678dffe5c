// Package firestore use a google cloud firestore database.
package firestore

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/jacobpatterson1549/mexican-train/db"
	"github.com/jacobpatterson1549/mexican-train/db/user"
)

const (
	serviceName    = "mexican-train"
	collectionName = "users"
	usernameField  = "username"
	passwordField  = "password"
	pointsField    = "points"
)

// UserBackend is a backend manager for a users collection.
type UserBackend struct {
	client *firestore.Client
	db.Config
}

// usersCollection is the collection of user documents, keyed by username.
func (ub *UserBackend) usersCollection() *firestore.CollectionRef {
	return ub.client.Collection("services").Doc(serviceName).Collection(collectionName)
}

// NewUserBackend creates a backend manager for users.
func NewUserBackend(ctx context.Context, cfg db.Config, projectID string) (*UserBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating firestore user backend: validation: %w", err)
	}
	ub := UserBackend{
		Config: cfg,
	}
	client, err := firestore.NewClient(ctx, projectID) // do not timeout context - the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	ub.client = client
	return &ub, nil
}

// Create adds the username/password pair.
func (ub *UserBackend) Create(ctx context.Context, u user.User) error {
	if err := ub.WithTimeout(ctx, func(ctx context.Context) error {
		users := ub.usersCollection()
		docRef := users.Doc(u.Username)
		m := map[string]interface{}{
			passwordField: u.Password,
		}
		_, err := docRef.Create(ctx, m) // returns an error if user already exists
		return err
	}); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Read gets the password and points of the user.
func (ub *UserBackend) Read(ctx context.Context, u user.User) (*user.User, error) {
	if err := ub.WithTimeout(ctx, func(ctx context.Context) error {
		users := ub.usersCollection()
		docRef := users.Doc(u.Username)
		snapshot, err := docRef.Get(ctx)
		if err != nil {
			if snapshot != nil && !snapshot.Exists() {
				return user.ErrIncorrectLogin
			}
			return err
		}
		return snapshot.DataTo(&u)
	}); err != nil {
		if err == user.ErrIncorrectLogin {
			return nil, err
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u, nil
}

// UpdatePassword updates the password for user identified by the username.
func (ub *UserBackend) UpdatePassword(ctx context.Context, u user.User) error {
	if err := ub.WithTimeout(ctx, func(ctx context.Context) error {
		users := ub.usersCollection()
		docRef := users.Doc(u.Username)
		u := []firestore.Update{
			{
				Path:  passwordField,
				Value: u.Password,
			},
		}
		_, err := docRef.Update(ctx, u)
		return err
	}); err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdatePointsIncrement increments the points for all of the usernames.
func (ub *UserBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	if err := ub.WithTimeout(ctx, func(ctx context.Context) error {
		users := ub.usersCollection()
		b := ub.client.Batch()
		for _, pu := range pointsUpdates(usernamePoints) {
			b.Update(users.Doc(pu.username), pu.updates)
		}
		_, err := b.Commit(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("incrementing user points: %w", err)
	}
	return nil
}

// pointsUpdate increments the points of the user document with the username.
type pointsUpdate struct {
	username string
	updates  []firestore.Update
}

// pointsUpdates creates the point increments for the batch, ordered by username.
func pointsUpdates(usernamePoints map[string]int) []pointsUpdate {
	usernames := make([]string, 0, len(usernamePoints))
	for username := range usernamePoints {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	pus := make([]pointsUpdate, len(usernames))
	for i, username := range usernames {
		pus[i] = pointsUpdate{
			username: username,
			updates: []firestore.Update{
				{
					Path:  pointsField,
					Value: firestore.FieldTransformIncrement(usernamePoints[username]),
				},
			},
		}
	}
	return pus
}

// Delete removes the user.
func (ub *UserBackend) Delete(ctx context.Context, u user.User) error {
	if err := ub.WithTimeout(ctx, func(ctx context.Context) error {
		users := ub.usersCollection()
		docRef := users.Doc(u.Username)
		_, err := docRef.Delete(ctx, firestore.Exists)
		return err
	}); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
