// Package runner guards parts of the server, such as the http server, that can only be started once.
package runner

import (
	"fmt"
	"sync"
)

type (
	// Runner is a thread-safe structure that can be run, finished, and queried.
	// The zero value is ready to be run.
	Runner struct {
		mu    sync.Mutex
		state state
	}

	// state is the point of the lifecycle a runner is in.
	state int
)

const (
	notStarted state = iota
	running
	finished
)

// Run starts the runner.  An error is returned if the runner is running or has finished.
func (r *Runner) Run() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case running:
		return fmt.Errorf("already running")
	case finished:
		return fmt.Errorf("finished running, can only be run once")
	}
	r.state = running
	return nil
}

// Finish marks the runner as done, regardless if it ran.
func (r *Runner) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = finished
}

// IsRunning determines if the runner is running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == running
}
