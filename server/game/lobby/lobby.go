// Package lobby handles players connecting to games and communication between games and players
package lobby

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/message"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

type (
	// Lobby is the place users can create, join, and participate in games.
	// It passes messages between the socket runner and the game registry.
	Lobby struct {
		log            log.Logger
		socketRunner   Runner
		gameRunner     Runner
		games          map[game.ID]game.Info
		socketMessages chan message.Message
		gameMessages   chan message.Message
		infoRequests   chan message.Message
		Config
	}

	// Config contiains the properties to create a lobby
	Config struct {
		// Debug is a flag that causes the lobby to log the types messages that are read
		Debug bool
	}

	// Runner handles messages for sockets or games.
	Runner interface {
		// Run reads messages from the in channel until it is closed or the context is done.
		// The messages the runner creates are sent on the returned channel, which is closed when the runner stops.
		Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) <-chan message.Message
	}
)

// NewLobby creates a new game lobby.
func (cfg Config) NewLobby(log log.Logger, socketRunner, gameRunner Runner) (*Lobby, error) {
	if err := cfg.validate(log, socketRunner, gameRunner); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	l := Lobby{
		log:          log,
		socketRunner: socketRunner,
		gameRunner:   gameRunner,
		games:        make(map[game.ID]game.Info),
		Config:       cfg,
	}
	return &l, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log log.Logger, socketRunner, gameRunner Runner) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case socketRunner == nil:
		return fmt.Errorf("socket runner required")
	case gameRunner == nil:
		return fmt.Errorf("game runner required")
	}
	return nil
}

// Run runs the lobby until the context is closed.
// The messages for each runner are queued so the lobby never blocks while a runner is busy sending to it.
func (l *Lobby) Run(ctx context.Context, wg *sync.WaitGroup) {
	l.socketMessages = make(chan message.Message)
	l.gameMessages = make(chan message.Message)
	l.infoRequests = make(chan message.Message)
	socketOut := l.socketRunner.Run(ctx, wg, l.socketMessages)
	gameOut := l.gameRunner.Run(ctx, wg, l.gameMessages)
	wg.Add(1)
	go func() {
		defer wg.Done()
		var socketQueue, gameQueue []message.Message
		for { // BLOCKING
			var socketIn, gameIn chan<- message.Message
			var nextSocketM, nextGameM message.Message
			if len(socketQueue) != 0 {
				socketIn, nextSocketM = l.socketMessages, socketQueue[0]
			}
			if len(gameQueue) != 0 {
				gameIn, nextGameM = l.gameMessages, gameQueue[0]
			}
			select {
			case <-ctx.Done():
				return
			case m, ok := <-socketOut:
				if !ok {
					return
				}
				gameQueue = append(gameQueue, l.handleSocketMessage(m))
			case m, ok := <-gameOut:
				if !ok {
					return
				}
				socketQueue = append(socketQueue, l.handleGameMessage(m))
			case m := <-l.infoRequests:
				m.Games = l.gameInfos()
				socketQueue = append(socketQueue, m)
			case socketIn <- nextSocketM:
				socketQueue = socketQueue[1:]
			case gameIn <- nextGameM:
				gameQueue = gameQueue[1:]
			}
		}
	}()
}

// AddUser opens a new websocket for the user and sends the user the game infos.
func (l *Lobby) AddUser(username string, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	result := make(chan message.Message, 1)
	m := message.Message{
		Type:       message.SocketAdd,
		PlayerName: player.Name(username),
		AddSocketRequest: &message.AddSocketRequest{
			ResponseWriter: w,
			Request:        r,
			Result:         result,
		},
	}
	if err := l.send(ctx, l.socketMessages, m); err != nil {
		return err
	}
	var m2 message.Message
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m2 = <-result:
	}
	if m2.Type == message.SocketError {
		return errors.New(m2.Info)
	}
	infoRequest := message.Message{
		Type:       message.GameInfos,
		PlayerName: m2.PlayerName,
		Addr:       m2.Addr,
	}
	return l.send(ctx, l.infoRequests, infoRequest)
}

// RemoveUser removes the user from the lobby and closes the user's sockets.
func (l *Lobby) RemoveUser(username string) {
	m := message.Message{
		Type:       message.PlayerRemove,
		PlayerName: player.Name(username),
	}
	l.socketMessages <- m
}

// send sends the message on the channel unless the context is done first.
func (l *Lobby) send(ctx context.Context, c chan<- message.Message, m message.Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c <- m:
		return nil
	}
}

// handleSocketMessage gets the message to send the game runner for the socket message.
func (l *Lobby) handleSocketMessage(m message.Message) message.Message {
	if l.Debug {
		l.log.Printf("lobby reading socket message with type %v", m.Type)
	}
	return m
}

// handleGameMessage gets the message to send to the socket runner for the game message.
func (l *Lobby) handleGameMessage(m message.Message) message.Message {
	if l.Debug {
		l.log.Printf("lobby reading game message with type %v", m.Type)
	}
	if m.Type != message.GameInfos || len(m.Addr) != 0 {
		return m
	}
	if m.Game == nil {
		l.log.Printf("no game info on game infos message: %v", m)
		return message.Message{
			Type:       message.SocketError,
			PlayerName: m.PlayerName,
			Info:       "could not update game infos",
		}
	}
	switch m.Game.Status {
	case game.Deleted:
		delete(l.games, m.Game.ID)
	default:
		if l.games == nil {
			l.games = make(map[game.ID]game.Info)
		}
		l.games[m.Game.ID] = *m.Game
	}
	m2 := message.Message{
		Type:  message.GameInfos,
		Games: l.gameInfos(),
	}
	return m2
}

// gameInfos gets the infos of the games in the lobby, sorted by id.
func (l Lobby) gameInfos() []game.Info {
	infos := make([]game.Info, 0, len(l.games))
	for _, i := range l.games {
		infos = append(infos, i)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}
