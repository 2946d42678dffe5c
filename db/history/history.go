// Package history stores the results of finished matches in redis.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/mexican-train/db"
	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/redis/go-redis/v9"
)

const (
	// resultKey is the key template of a json result.
	resultKey = "mexican-train:result:%s"
	// recentKey is the list of the ids of the most recently finished matches, newest first.
	recentKey = "mexican-train:results:recent"
	// playerKey is the key template of the sorted set of a player's result ids, scored by finish time.
	playerKey = "mexican-train:player:%s:results"
)

type (
	// Store keeps finished match results.
	Store struct {
		client *redis.Client
		Config
	}

	// Config contains the properties to create a store.
	Config struct {
		db.Config
		// TTL is how long a result is kept.
		TTL time.Duration
		// MaxRecent is the maximum number of results kept in the recent list.
		MaxRecent int
		// IDFunc creates the unique id of a result.
		IDFunc func() string
	}
)

// NewStore creates a store that uses the redis client.
func (cfg Config) NewStore(client *redis.Client) (*Store, error) {
	if err := cfg.validate(client); err != nil {
		return nil, fmt.Errorf("creating history store: validation: %w", err)
	}
	if cfg.IDFunc == nil {
		cfg.IDFunc = uuid.NewString
	}
	s := Store{
		client: client,
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(client *redis.Client) error {
	switch {
	case client == nil:
		return fmt.Errorf("redis client required")
	case cfg.TTL <= 0:
		return fmt.Errorf("positive ttl required")
	case cfg.MaxRecent < 1:
		return fmt.Errorf("positive max recent results count required")
	}
	return cfg.Config.Validate()
}

// Ping checks the connection to redis.
func (s *Store) Ping(ctx context.Context) error {
	return s.WithTimeout(ctx, func(ctx context.Context) error {
		if err := s.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		return nil
	})
}

// Record stores the result, adding it to the recent results and the results of each player.
func (s *Store) Record(ctx context.Context, r game.Result) error {
	r.ID = s.IDFunc()
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	if err := s.WithTimeout(ctx, func(ctx context.Context) error {
		_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, fmt.Sprintf(resultKey, r.ID), b, s.TTL)
			p.LPush(ctx, recentKey, r.ID)
			p.LTrim(ctx, recentKey, 0, int64(s.MaxRecent-1))
			for _, pr := range r.Players {
				z := redis.Z{
					Score:  float64(r.FinishedAt),
					Member: r.ID,
				}
				k := fmt.Sprintf(playerKey, pr.Name)
				p.ZAdd(ctx, k, z)
				p.Expire(ctx, k, s.TTL)
			}
			return nil
		})
		return err
	}); err != nil {
		return fmt.Errorf("recording result of game %v: %w", r.GameID, err)
	}
	return nil
}

// Recent gets up to n of the most recently finished results, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]game.Result, error) {
	if n <= 0 || n > s.MaxRecent {
		n = s.MaxRecent
	}
	var results []game.Result
	if err := s.WithTimeout(ctx, func(ctx context.Context) error {
		ids, err := s.client.LRange(ctx, recentKey, 0, int64(n-1)).Result()
		if err != nil {
			return err
		}
		results, err = s.results(ctx, ids)
		return err
	}); err != nil {
		return nil, fmt.Errorf("reading recent results: %w", err)
	}
	return results, nil
}

// PlayerResults gets up to n of the player's results, newest first.
func (s *Store) PlayerResults(ctx context.Context, name string, n int) ([]game.Result, error) {
	if n <= 0 || n > s.MaxRecent {
		n = s.MaxRecent
	}
	var results []game.Result
	if err := s.WithTimeout(ctx, func(ctx context.Context) error {
		k := fmt.Sprintf(playerKey, name)
		ids, err := s.client.ZRevRange(ctx, k, 0, int64(n-1)).Result()
		if err != nil {
			return err
		}
		results, err = s.results(ctx, ids)
		return err
	}); err != nil {
		return nil, fmt.Errorf("reading results of %v: %w", name, err)
	}
	return results, nil
}

// results gets the results for the ids, skipping results that have expired.
func (s *Store) results(ctx context.Context, ids []string) ([]game.Result, error) {
	results := make([]game.Result, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(resultKey, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // expired
		}
		var r game.Result
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("unmarshalling result %v: %w", ids[i], err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Close closes the connection to redis.
func (s *Store) Close() error {
	return s.client.Close()
}
