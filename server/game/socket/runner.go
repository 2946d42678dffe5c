package socket

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/message"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/server/game/seat"
	"github.com/jacobpatterson1549/mexican-train/server/game/socket/gorilla"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

type (
	// Runner handles sending messages to different sockets.
	// The runner allows for players to open multiple sockets, but each seat can only be shown on one socket.
	Runner struct {
		log           log.Logger
		upgrader      Upgrader
		seats         *seat.Directory
		playerSockets map[player.Name]map[message.Addr]chan<- message.Message
		RunnerConfig
	}

	// RunnerConfig is used to create a socket Runner.
	RunnerConfig struct {
		// Debug is a flag that causes the runner to log the types of messages that are routed.
		Debug bool
		// The maximum number of sockets.
		MaxSockets int
		// The maximum number of sockets each player can open.  Must be no more than maxSockets.
		MaxPlayerSockets int
		// The config for creating new sockets
		SocketConfig Config
	}

	// Upgrader turns a http request into a websocket.
	Upgrader interface {
		// Upgrade creates a Conn from the HTTP request.
		Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
	}

	// gorillaUpgrader creates gorilla connections.
	gorillaUpgrader struct {
		*gorilla.Upgrader
	}
)

// NewRunner creates a new socket runner from the config.
func (cfg RunnerConfig) NewRunner(log log.Logger, seats *seat.Directory) (*Runner, error) {
	if err := cfg.validate(log, seats); err != nil {
		return nil, fmt.Errorf("creating socket runner: validation: %w", err)
	}
	u := gorillaUpgrader{
		Upgrader: gorilla.NewUpgrader(cfg.SocketConfig.ReadWait, cfg.SocketConfig.WriteWait),
	}
	r := Runner{
		log:           log,
		upgrader:      u,
		seats:         seats,
		playerSockets: make(map[player.Name]map[message.Addr]chan<- message.Message, cfg.MaxSockets),
		RunnerConfig:  cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RunnerConfig) validate(log log.Logger, seats *seat.Directory) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case seats == nil:
		return fmt.Errorf("seat directory required")
	case cfg.MaxPlayerSockets < 1:
		return fmt.Errorf("each player must be able to open at least one socket")
	case cfg.MaxSockets < cfg.MaxPlayerSockets:
		return fmt.Errorf("players cannot create more sockets than the runner allows")
	}
	return nil
}

// Upgrade creates a gorilla Conn from the HTTP request.
func (u gorillaUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error) {
	c, err := u.Upgrader.Upgrade(w, r)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Run consumes messages from the "in" channel.  This channel is used to create sockets and send messages from games to them.
// The messages recieved from sockets are sent on the "out" channel to be read by games.
// The out channel is closed when the runner stops.
func (r *Runner) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) <-chan message.Message {
	socketOut := make(chan message.Message)
	out := make(chan message.Message)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleLobbyMessage(ctx, wg, m, socketOut)
			case m := <-socketOut:
				r.handleSocketMessage(ctx, m, out)
			}
		}
	}()
	return out
}

// handleLobbyMessage writes the message to the appropriate sockets in the runner.
func (r *Runner) handleLobbyMessage(ctx context.Context, wg *sync.WaitGroup, m message.Message, socketOut chan<- message.Message) {
	if r.Debug {
		r.log.Printf("socket runner routing message with type %v to %v", m.Type, m.PlayerName)
	}
	switch m.Type {
	case message.SocketAdd:
		r.addSocket(ctx, wg, m, socketOut)
	case message.PlayerRemove:
		r.removePlayer(m)
	case message.GameInfos:
		r.sendGameInfos(m)
	case message.SeatAssigned:
		r.assignSeat(m)
	case message.LeaveGame:
		r.kick(m)
	case message.SocketWarning, message.SocketError:
		r.sendSocketProblem(m)
	default:
		r.sendMessageForGame(m)
	}
}

// handleSocketMessage writes the socket message to to the out channel, possibly taking action.
func (r *Runner) handleSocketMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	socketIn, ok := r.playerSockets[m.PlayerName][m.Addr]
	if !ok {
		r.log.Printf("Received message from '%v' from unknown address: %v.", m.PlayerName, m.Addr)
		return
	}
	switch m.Type {
	case message.SocketClose:
		r.removeSocket(m.PlayerName, m.Addr)
		return
	case message.LeaveGame:
		r.seats.Release(m.Addr)
		return
	case message.CreateGame:
		// NOOP
	case message.JoinGame, message.DeleteGame:
		if m.Game == nil || m.Game.ID <= 0 {
			r.warn(socketIn, "game id required")
			return
		}
	default:
		e, ok := r.seats.Lookup(m.Addr)
		switch {
		case !ok:
			r.warn(socketIn, "join a game first")
			return
		case m.Game == nil:
			m.Game = new(game.Info)
		case m.Game.ID != 0 && m.Game.ID != e.GameID:
			r.warn(socketIn, fmt.Sprintf("socket is showing game %v, not game %v", e.GameID, m.Game.ID))
			return
		}
		m.Game.ID = e.GameID
	}
	select {
	case <-ctx.Done():
	case out <- m:
	}
}

// addSocket creates a socket and sends the result of adding it on the result channel of the request.
func (r *Runner) addSocket(ctx context.Context, wg *sync.WaitGroup, m message.Message, socketOut chan<- message.Message) {
	switch {
	case m.AddSocketRequest == nil:
		r.log.Printf("no AddSocketRequest on message: %v", m)
		return
	case m.AddSocketRequest.Result == nil:
		r.log.Printf("no AddSocketRequest Result channel on message: %v", m)
		return
	}
	s, err := r.handleAddSocket(ctx, wg, m.PlayerName, m.AddSocketRequest.ResponseWriter, m.AddSocketRequest.Request, socketOut)
	m2 := message.Message{
		PlayerName: m.PlayerName,
	}
	switch {
	case err != nil:
		m2.Type = message.SocketError
		m2.Info = err.Error()
	default:
		m2.Type = message.SocketAdd
		m2.Addr = s.Addr
	}
	m.AddSocketRequest.Result <- m2
}

// handleAddSocket runs and adds a socket for the player to the runner.
func (r *Runner) handleAddSocket(ctx context.Context, wg *sync.WaitGroup, pn player.Name, w http.ResponseWriter, req *http.Request, socketOut chan<- message.Message) (*Socket, error) {
	switch {
	case len(pn) == 0:
		return nil, fmt.Errorf("player name required")
	case r.numSockets() >= r.MaxSockets:
		return nil, fmt.Errorf("no room for another socket")
	case len(r.playerSockets[pn]) >= r.MaxPlayerSockets:
		return nil, fmt.Errorf("player has reached quota of sockets, close an existing one")
	}
	conn, err := r.upgrader.Upgrade(w, req)
	if err != nil {
		return nil, fmt.Errorf("upgrading to websocket connection: %w", err)
	}
	s, err := r.SocketConfig.NewSocket(r.log, pn, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating socket in runner: %w", err)
	}
	socketIn := make(chan message.Message)
	s.Run(ctx, wg, socketIn, socketOut)
	playerSockets, ok := r.playerSockets[pn]
	if !ok {
		playerSockets = make(map[message.Addr]chan<- message.Message, 1)
		r.playerSockets[pn] = playerSockets
	}
	playerSockets[s.Addr] = socketIn
	return s, nil
}

// numSockets sums the number of sockets for each player.  Not thread safe.
func (r *Runner) numSockets() int {
	numSockets := 0
	for _, sockets := range r.playerSockets {
		numSockets += len(sockets)
	}
	return numSockets
}

// sendGameInfos sends the game message with infos to the single socket or all.
// When a socket is added, only it immediately needs game infos.  Otherwise, when any game info changes, all sockets must be notified.
func (r *Runner) sendGameInfos(m message.Message) {
	if len(m.Addr) != 0 {
		socketIn, ok := r.playerSockets[m.PlayerName][m.Addr]
		if !ok {
			r.log.Printf("no socket for %v at %v", m.PlayerName, m.Addr)
			return
		}
		socketIn <- m
		return
	}
	for _, addrs := range r.playerSockets {
		for _, socketIn := range addrs {
			socketIn <- m
		}
	}
}

// assignSeat records that the joining socket shows the seat of the player and sends the seat's view to it.
// If a different socket of the player showed the seat, that socket leaves the game.
func (r *Runner) assignSeat(m message.Message) {
	socketIn, ok := r.playerSockets[m.PlayerName][m.Addr]
	switch {
	case !ok:
		r.log.Printf("no socket for %v at %v to assign seat to", m.PlayerName, m.Addr)
		return
	case m.Game == nil, m.View == nil:
		r.log.Printf("no game or view to assign seat with: %v", m)
		return
	}
	e := seat.Entry{
		GameID:     m.Game.ID,
		Seat:       m.View.Seat,
		PlayerName: m.PlayerName,
	}
	if previous, replaced := r.seats.Assign(m.Addr, e); replaced {
		if previousIn, ok := r.playerSockets[m.PlayerName][previous]; ok {
			previousIn <- message.Message{
				Type: message.LeaveGame,
				Info: "leaving game because it is being played on a different socket",
				Game: &game.Info{ID: e.GameID},
			}
		}
	}
	socketIn <- m
}

// kick makes the socket stop showing the game.
// The socket is the one in the message or the one showing the player's seat.
func (r *Runner) kick(m message.Message) {
	addr := m.Addr
	if len(addr) == 0 && m.Game != nil {
		addr, _ = r.seats.Handle(m.PlayerName, m.Game.ID)
	}
	socketIn, ok := r.playerSockets[m.PlayerName][addr]
	if !ok {
		return
	}
	if e, ok := r.seats.Lookup(addr); ok && m.Game != nil && e.GameID == m.Game.ID {
		r.seats.Release(addr)
	}
	socketIn <- m
}

// sendSocketProblem sends the warning or error to a specific socket if possible or all sockets for the player.
func (r *Runner) sendSocketProblem(m message.Message) {
	switch {
	case len(m.Addr) != 0:
		if socketIn, ok := r.playerSockets[m.PlayerName][m.Addr]; ok {
			socketIn <- m
			return
		}
	case m.Game != nil:
		if addr, ok := r.seats.Handle(m.PlayerName, m.Game.ID); ok {
			r.playerSockets[m.PlayerName][addr] <- m
			return
		}
	}
	for _, socketIn := range r.playerSockets[m.PlayerName] {
		socketIn <- m
	}
}

// sendMessageForGame sends the game message to the socket showing the player's seat, if any.
func (r *Runner) sendMessageForGame(m message.Message) {
	if m.Game == nil {
		r.log.Printf("no 'game' to send game message for in %v", m)
		return
	}
	addr, ok := r.seats.Handle(m.PlayerName, m.Game.ID)
	if !ok {
		return // the player is not looking at the game
	}
	socketIn, ok := r.playerSockets[m.PlayerName][addr]
	if !ok {
		r.log.Printf("could not send game message to %v at %v - message: (%v)", m.PlayerName, addr, m)
		return
	}
	socketIn <- m
}

// warn sends a warning to the socket.
func (r *Runner) warn(socketIn chan<- message.Message, info string) {
	socketIn <- message.Message{
		Type: message.SocketWarning,
		Info: info,
	}
}

// removeSocket removes the socket from the runner, closing its in channel.
func (r *Runner) removeSocket(pn player.Name, addr message.Addr) {
	socketIn, ok := r.playerSockets[pn][addr]
	if !ok {
		return
	}
	r.seats.Release(addr)
	delete(r.playerSockets[pn], addr)
	if len(r.playerSockets[pn]) == 0 {
		delete(r.playerSockets, pn)
	}
	close(socketIn)
}

// removePlayer tells the player's sockets that the player was removed and closes them.
func (r *Runner) removePlayer(m message.Message) {
	r.seats.ReleasePlayer(m.PlayerName)
	addrs := r.playerSockets[m.PlayerName]
	delete(r.playerSockets, m.PlayerName)
	for _, socketIn := range addrs {
		socketIn <- m
		close(socketIn)
	}
}
