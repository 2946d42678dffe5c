package game

import (
	"context"

	"github.com/jacobpatterson1549/mexican-train/game"
)

type mockUserDao struct {
	UpdatePointsIncrementFunc func(ctx context.Context, userPoints map[string]int) error
}

func (m mockUserDao) UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error {
	return m.UpdatePointsIncrementFunc(ctx, userPoints)
}

type mockRecorder func(ctx context.Context, r game.Result) error

func (m mockRecorder) Record(ctx context.Context, r game.Result) error {
	return m(ctx, r)
}
