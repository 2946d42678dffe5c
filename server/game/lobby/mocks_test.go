package lobby

import (
	"context"
	"sync"

	"github.com/jacobpatterson1549/mexican-train/game/message"
)

type mockRunner struct {
	RunFunc func(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) <-chan message.Message
}

func (m *mockRunner) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) <-chan message.Message {
	return m.RunFunc(ctx, wg, in)
}

// nilRunner is a runner that never sends messages.
func nilRunner() *mockRunner {
	return &mockRunner{
		RunFunc: func(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) <-chan message.Message {
			return nil
		},
	}
}
