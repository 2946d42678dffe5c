// Package mongo implements database structures for mongodb.
package mongo

import (
	"context"
	"fmt"
	"sort"

	"github.com/jacobpatterson1549/mexican-train/db"
	"github.com/jacobpatterson1549/mexican-train/db/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName   = "mexican-train"
	collectionName = "users"
	usernameField  = "username"
	passwordField  = "password"
	pointsField    = "points"
)

// UserBackend is a backend manager for a users collection.
type UserBackend struct {
	Users *mongo.Collection
	db.Config
}

// NewUserBackend creates a backend manager for the users collection.
func NewUserBackend(ctx context.Context, cfg db.Config, databaseURL string) (*UserBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongo user backend: validation: %w", err)
	}
	clientOptions := options.Client()
	clientOptions.ApplyURI(databaseURL)
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	database := client.Database(databaseName)
	users := database.Collection(collectionName)
	ub := UserBackend{
		Users:  users,
		Config: cfg,
	}
	return &ub, nil
}

// Setup initializes the backend with appropriate triggers
func (ub *UserBackend) Setup(ctx context.Context) error {
	indexOptions := options.Index()
	indexOptions.SetUnique(true)
	document := d(e(usernameField, 1))
	model := mongo.IndexModel{
		Keys:    document,
		Options: indexOptions,
	}
	indexes := ub.Users.Indexes()
	ctx, cancelFunc := context.WithTimeout(ctx, ub.Config.QueryPeriod)
	defer cancelFunc()
	_, err := indexes.CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("creating unique username index: %w", err)
	}
	return nil
}

// Create adds the username/password pair.
func (ub *UserBackend) Create(ctx context.Context, u user.User) error {
	document := d(
		e(usernameField, u.Username),
		e(passwordField, u.Password),
	)
	ctx, cancelFunc := context.WithTimeout(ctx, ub.Config.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.Users.InsertOne(ctx, document); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Read validates the username/password pair and gets the points.
func (ub *UserBackend) Read(ctx context.Context, u user.User) (*user.User, error) {
	filter := d(e(usernameField, u.Username))
	ctx, cancelFunc := context.WithTimeout(ctx, ub.Config.QueryPeriod)
	defer cancelFunc()
	result := ub.Users.FindOne(ctx, filter)
	var u2 user.User
	if err := result.Decode(&u2); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, user.ErrIncorrectLogin
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u2, nil
}

// UpdatePassword updates the password for user identified by the username.
func (ub *UserBackend) UpdatePassword(ctx context.Context, u user.User) error {
	filter := d(e(usernameField, u.Username))
	update := d(e("$set", d(e(passwordField, u.Password))))
	ctx, cancelFunc := context.WithTimeout(ctx, ub.Config.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.Users.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdatePointsIncrement changes the points for all of the usernames.
func (ub *UserBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	writeModels := pointsWriteModels(usernamePoints)
	ctx, cancelFunc := context.WithTimeout(ctx, ub.Config.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.Users.BulkWrite(ctx, writeModels); err != nil {
		return fmt.Errorf("updating user points: %w", err)
	}
	return nil
}

// Delete removes the user.
func (ub *UserBackend) Delete(ctx context.Context, u user.User) error {
	filter := d(e(usernameField, u.Username))
	ctx, cancelFunc := context.WithTimeout(ctx, ub.Config.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.Users.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// pointsWriteModels creates an increment update for each user, ordered by username.
func pointsWriteModels(usernamePoints map[string]int) []mongo.WriteModel {
	usernames := make([]string, 0, len(usernamePoints))
	for username := range usernamePoints {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	writeModels := make([]mongo.WriteModel, len(usernames))
	for i, username := range usernames {
		filter := d(e(usernameField, username))
		update := d(e("$inc", d(e(pointsField, usernamePoints[username]))))
		m := mongo.NewUpdateOneModel()
		m.SetFilter(filter)
		m.SetUpdate(update)
		writeModels[i] = m
	}
	return writeModels
}

// d is a helper function to create bson.D elements.
func d(e ...bson.E) bson.D {
	return bson.D(e)
}

// e is a helper function to create bson.E elements.
func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}
