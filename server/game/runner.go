package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/message"
	"github.com/jacobpatterson1549/mexican-train/game/round"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

type (
	// Runner runs games.
	Runner struct {
		log log.Logger
		// games maps game ids to the channels of each game.
		// The in channels are stored here because the Runner writes to the game, which in turn reads from the Runner's channel as an InChannel
		games map[game.ID]gameChans
		// lastID is the ID of the most recently created game.  The next new game should get a larger ID.
		lastID game.ID
		// userDao increments user points when a game is finished.
		userDao UserDao
		// recorder stores the results of finished games.
		recorder Recorder
		// gamesWG is used to wait for the games to stop before closing the out channel.
		gamesWG sync.WaitGroup
		// RunnerConfig contains configuration properties of the Runner.
		RunnerConfig
	}

	// RunnerConfig is used to create a game Runner.
	RunnerConfig struct {
		// Debug is a flag that causes the game runner to log the types messages that are read.
		Debug bool
		// The maximum number of games.
		MaxGames int
		// The config for creating new games.
		GameConfig Config
	}

	// gameChans are the channels to send messages to a game and to check if it has stopped.
	gameChans struct {
		in   chan<- message.Message
		done <-chan struct{}
	}
)

// ErrGameNotFound is returned when a message is for a game that does not exist or has stopped.
const ErrGameNotFound round.Warning = "no game with that id, please refresh games"

// NewRunner creates a new game runner from the config.
func (cfg RunnerConfig) NewRunner(log log.Logger, ud UserDao, rec Recorder) (*Runner, error) {
	if err := cfg.validate(log, ud, rec); err != nil {
		return nil, fmt.Errorf("creating game runner: validation: %w", err)
	}
	r := Runner{
		log:          log,
		games:        make(map[game.ID]gameChans, cfg.MaxGames),
		userDao:      ud,
		recorder:     rec,
		RunnerConfig: cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RunnerConfig) validate(log log.Logger, ud UserDao, rec Recorder) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case ud == nil:
		return fmt.Errorf("user dao required")
	case rec == nil:
		return fmt.Errorf("recorder required")
	case cfg.MaxGames < 1:
		return fmt.Errorf("must be able to create at least one game")
	}
	return nil
}

// Run consumes messages from the "in" channel, processing them on a new goroutine until the "in" channel closes.
// The results of messages are sent on the returned channel to be read by the subscriber.
// The channel is closed after all games have stopped.
func (r *Runner) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) <-chan message.Message {
	out := make(chan message.Message)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)
		defer r.gamesWG.Wait()
		defer r.closeGames()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleMessage(ctx, m, out)
			}
		}
	}()
	return out
}

// closeGames signals all games to stop.
func (r *Runner) closeGames() {
	for id, gc := range r.games {
		close(gc.in)
		delete(r.games, id)
	}
}

// handleMessage takes appropriate actions for different message types.
func (r *Runner) handleMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	if r.Debug {
		r.log.Printf("game runner reading message with type %v", m.Type)
	}
	var err error
	switch m.Type {
	case message.CreateGame:
		err = r.createGame(ctx, m, out)
	case message.DeleteGame:
		err = r.deleteGame(ctx, m)
	default:
		err = r.handleGameMessage(ctx, m)
	}
	if err != nil {
		r.sendError(ctx, err, m, out)
	}
}

// createGame allocates a new game, adding it to the open games.
// The player who creates the game joins it.
func (r *Runner) createGame(ctx context.Context, m message.Message, out chan<- message.Message) error {
	r.pruneGames()
	if len(r.games) >= r.MaxGames {
		return round.Warning(fmt.Sprintf("the maximum number of games have already been created (%v)", r.MaxGames))
	}
	var rules *game.Config
	if m.Game != nil {
		rules = m.Game.Config
	}
	id := r.lastID + 1
	gameCfg := r.GameConfig.withRules(rules)
	g, err := gameCfg.NewGame(r.log, id, r.userDao, r.recorder)
	if err != nil {
		return err
	}
	r.lastID = id
	in := make(chan message.Message)
	done := g.Run(ctx, &r.gamesWG, in, out) // all games publish to the same "out" channel
	gc := gameChans{
		in:   in,
		done: done,
	}
	r.games[id] = gc
	m.Type = message.JoinGame
	m.Game = &game.Info{
		ID: id,
	}
	r.sendToGame(ctx, gc, m)
	return nil
}

// deleteGame removes a game from the runner, notifying the game that it is being deleted so it can notify users.
func (r *Runner) deleteGame(ctx context.Context, m message.Message) error {
	gc, err := r.getGame(m)
	if err != nil {
		return err
	}
	delete(r.games, m.Game.ID)
	r.sendToGame(ctx, gc, m)
	close(gc.in)
	return nil
}

// handleGameMessage passes the message to the game it is for.
func (r *Runner) handleGameMessage(ctx context.Context, m message.Message) error {
	gc, err := r.getGame(m)
	if err != nil {
		return err
	}
	r.sendToGame(ctx, gc, m)
	return nil
}

// sendToGame sends the message to the game unless the game has stopped.
func (r *Runner) sendToGame(ctx context.Context, gc gameChans, m message.Message) {
	select {
	case <-ctx.Done():
	case <-gc.done:
	case gc.in <- m:
	}
}

// getGame retrieves the game from the runner for the message, if the runner has a running game for the message's game ID.
func (r *Runner) getGame(m message.Message) (gameChans, error) {
	if m.Game == nil {
		return gameChans{}, errors.New("no game for runner to handle in message")
	}
	gc, ok := r.games[m.Game.ID]
	if !ok || isDone(gc) {
		return gameChans{}, ErrGameNotFound
	}
	return gc, nil
}

// pruneGames removes games that have stopped.
func (r *Runner) pruneGames() {
	for id, gc := range r.games {
		if isDone(gc) {
			close(gc.in)
			delete(r.games, id)
		}
	}
}

// isDone determines if the game has stopped.
func isDone(gc gameChans) bool {
	select {
	case <-gc.done:
		return true
	default:
		return false
	}
}

// sendError adds a message for the player on the channel.
func (r *Runner) sendError(ctx context.Context, err error, m message.Message, out chan<- message.Message) {
	t := message.SocketError
	var w round.Warning
	if errors.As(err, &w) {
		t = message.SocketWarning
	} else {
		r.log.Printf("player %v: %v", m.PlayerName, err)
	}
	m2 := message.Message{
		Type:       t,
		Info:       err.Error(),
		PlayerName: m.PlayerName,
		Addr:       m.Addr,
	}
	select {
	case <-ctx.Done():
	case out <- m2:
	}
}
