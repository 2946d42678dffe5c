// Package game runs matches, relaying messages between players and the match engine.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/match"
	"github.com/jacobpatterson1549/mexican-train/game/message"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/game/pool"
	"github.com/jacobpatterson1549/mexican-train/game/round"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

type (
	// Game runs a single match on its own goroutine.
	Game struct {
		log         log.Logger
		id          game.ID
		createdAt   int64
		deleted     bool
		match       *match.Match
		userDao     UserDao
		recorder    Recorder
		roundStarts chan message.Message
		roundTimer  *time.Timer
		Config
	}

	// Config contiains the properties to create similar games.
	Config struct {
		// Debug is a flag that causes the game to log the types messages that are read.
		Debug bool
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used for the created at and finished at timestamps.
		TimeFunc func() int64
		// IdlePeriod is the amount of time that can pass between player messages before the game is idle and will delete itself.
		IdlePeriod time.Duration
		// RoundDelay is the amount of time to wait after a round ends before starting the next round.
		RoundDelay time.Duration
		// WinPoints are the amount of points the winners get when the game is finished.  Other players get one point.
		WinPoints int
		// MatchConfig is the default configuration of matches.
		MatchConfig match.Config
	}

	// UserDao makes changes to the stored state of users in the game
	UserDao interface {
		// UpdatePointsIncrement increments points for the specified usernames.
		UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error
	}

	// Recorder stores the results of finished matches.
	Recorder interface {
		// Record stores the result.
		Record(ctx context.Context, r game.Result) error
	}

	// messageHandler is a function which handles message.Messages, sending responses with the sender.
	messageHandler func(ctx context.Context, m message.Message, send messageSender) error

	// messageSender is a function that sends a message somewhere.
	messageSender func(m message.Message)
)

// messageTypes are the message types of engine notifications that go to seats.
var messageTypes = map[round.Kind]message.Type{
	round.MatchStarted: message.MatchStarted,
	round.SeatJoined:   message.SeatJoined,
	round.RoundStarted: message.RoundStarted,
	round.TileGiven:    message.TileGiven,
	round.TurnAdvanced: message.TurnAdvanced,
	round.PlayApplied:  message.PlayApplied,
	round.RoundEnded:   message.RoundEnded,
	round.MatchEnded:   message.MatchEnded,
}

// NewGame creates a new game that waits for players to join.
func (cfg Config) NewGame(log log.Logger, id game.ID, ud UserDao, r Recorder) (*Game, error) {
	if err := cfg.validate(log, id, ud, r); err != nil {
		return nil, fmt.Errorf("creating game: validation: %w", err)
	}
	m, err := cfg.MatchConfig.NewMatch(id)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	g := Game{
		log:         log,
		id:          id,
		createdAt:   cfg.TimeFunc(),
		match:       m,
		userDao:     ud,
		recorder:    r,
		roundStarts: make(chan message.Message, 1),
		Config:      cfg,
	}
	return &g, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log log.Logger, id game.ID, ud UserDao, r Recorder) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case id <= 0:
		return fmt.Errorf("positive id required")
	case ud == nil:
		return fmt.Errorf("user dao required")
	case r == nil:
		return fmt.Errorf("recorder required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	case cfg.RoundDelay < 0:
		return fmt.Errorf("non-negative round delay required")
	case cfg.WinPoints < 1:
		return fmt.Errorf("positive win points required")
	}
	return nil
}

// withRules creates a copy of the config with the non-zero rules replacing the default rules.
func (cfg Config) withRules(rules *game.Config) Config {
	if rules == nil {
		return cfg
	}
	r := &cfg.MatchConfig.Config
	if rules.MaxPip != 0 {
		r.MaxPip = rules.MaxPip
	}
	if rules.MaxPlayers != 0 {
		r.MaxPlayers = rules.MaxPlayers
	}
	if rules.HandSize != 0 {
		r.HandSize = rules.HandSize
	}
	if rules.RoundStep != 0 {
		r.RoundStep = rules.RoundStep
	}
	if rules.StartingRound != 0 {
		r.StartingRound = rules.StartingRound
	}
	return cfg
}

// Run runs the game asynchronously until the context is closed, the in channel is closed, or the game is deleted.
// All messages for players are sent on the out channel.  The returned channel is closed when the game stops.
func (g *Game) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message, out chan<- message.Message) <-chan struct{} {
	done := make(chan struct{})
	idleTicker := time.NewTicker(g.IdlePeriod)
	active := false
	send := g.sendMessage(ctx, out)
	messageHandlers := map[message.Type]messageHandler{
		message.JoinGame:    g.handleGameJoin,
		message.DeleteGame:  g.handleGameDelete,
		message.PlayTile:    g.handleTilePlay,
		message.DrawTile:    g.handleTileDraw,
		message.RefreshGame: g.handleGameRefresh,
		message.GameChat:    g.handleGameChat,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		defer idleTicker.Stop()
		defer g.stopRoundTimer()
		for !g.deleted { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				g.handleMessage(ctx, m, send, messageHandlers)
				active = true
			case m := <-g.roundStarts:
				g.handleMessage(ctx, m, send, map[message.Type]messageHandler{
					message.StartRound: g.handleRoundStart,
				})
			case <-idleTicker.C:
				if !active {
					g.log.Printf("deleted game %v due to inactivity", g.id)
					var m message.Message
					g.handleGameDelete(ctx, m, send)
					return
				}
				active = false
			}
		}
	}()
	return done
}

// sendMessage creates a messageSender that adds the gameId to the message before sending it on the out channel.
func (g *Game) sendMessage(ctx context.Context, out chan<- message.Message) messageSender {
	return func(m message.Message) {
		if m.Game == nil {
			var i game.Info
			m.Game = &i
		}
		m.Game.ID = g.id
		select {
		case <-ctx.Done():
		case out <- m:
		}
	}
}

// handleMessage handles the message with the appropriate message handler.
func (g *Game) handleMessage(ctx context.Context, m message.Message, send messageSender, messageHandlers map[message.Type]messageHandler) {
	if g.Debug {
		g.log.Printf("game %v reading message with type %v", g.id, m.Type)
	}
	var err error
	if mh, ok := messageHandlers[m.Type]; !ok {
		err = fmt.Errorf("game does not know how to handle MessageType %v", m.Type)
	} else {
		err = mh(ctx, m, send)
	}
	if err != nil {
		g.handleError(ctx, m, err, send)
	}
}

// handleError sends the error to the player who sent the message.
// Warnings leave the match unchanged.  Broken tile accounting aborts the match.
func (g *Game) handleError(ctx context.Context, m message.Message, err error, send messageSender) {
	var w round.Warning
	switch {
	case errors.As(err, &w):
		send(message.Message{
			Type:       message.SocketWarning,
			PlayerName: m.PlayerName,
			Addr:       m.Addr,
			Info:       err.Error(),
		})
	case errors.Is(err, pool.ErrEmpty), errors.Is(err, pool.ErrTileNotFound):
		g.log.Printf("aborting game %v: %v", g.id, err)
		info := fmt.Sprintf("game aborted: %v", err)
		for _, s := range g.match.Seats() {
			send(message.Message{
				Type:       message.SocketError,
				PlayerName: s.Name,
				Info:       info,
			})
		}
		g.handleGameDelete(ctx, m, send)
	default:
		g.log.Printf("game %v error: %v", g.id, err)
		send(message.Message{
			Type:       message.SocketError,
			PlayerName: m.PlayerName,
			Addr:       m.Addr,
			Info:       err.Error(),
		})
	}
}

// handleGameJoin seats the player from the message in the game.
// Players who are already seated get the view of their seat.
func (g *Game) handleGameJoin(ctx context.Context, m message.Message, send messageSender) error {
	if s, ok := g.match.SeatOf(m.PlayerName); ok {
		return g.sendSeat(m, s.ID, send)
	}
	pc := match.PlayerConfig{
		Name: m.PlayerName,
	}
	s, notifications, err := g.match.Join(pc)
	if err != nil {
		// kick the socket here, returning an error will not make it leave the game
		send(message.Message{
			Type:       message.LeaveGame,
			PlayerName: m.PlayerName,
			Addr:       m.Addr,
		})
		return err
	}
	if err := g.sendSeat(m, s.ID, send); err != nil {
		return err
	}
	g.handleNotifications(ctx, notifications, send)
	g.handleInfoChanged(send)
	return nil
}

// handleGameDelete sends game leave messages to all players in the game.
func (g *Game) handleGameDelete(ctx context.Context, m message.Message, send messageSender) error {
	for _, s := range g.match.Seats() {
		send(message.Message{
			Type:       message.LeaveGame,
			PlayerName: s.Name,
			Info:       "game deleted",
		})
	}
	g.deleted = true
	g.handleInfoChanged(send)
	return nil
}

// handleTilePlay places a tile from the hand of the player on a train.
func (g *Game) handleTilePlay(ctx context.Context, m message.Message, send messageSender) error {
	if m.Play == nil {
		return round.Warning("no tile or train specified to play")
	}
	seat, err := g.seat(m.PlayerName)
	if err != nil {
		return err
	}
	notifications, err := g.match.Play(seat, m.Play.Tile, m.Play.Train)
	if err != nil {
		return err
	}
	g.handleAction(ctx, notifications, send)
	return nil
}

// handleTileDraw gives the player a tile from the pool.
func (g *Game) handleTileDraw(ctx context.Context, m message.Message, send messageSender) error {
	seat, err := g.seat(m.PlayerName)
	if err != nil {
		return err
	}
	notifications, err := g.match.Draw(seat)
	if err != nil {
		return err
	}
	g.handleAction(ctx, notifications, send)
	return nil
}

// handleAction sends the notifications of a play or draw, scheduling the next round if the round ended.
func (g *Game) handleAction(ctx context.Context, notifications []round.Notification, send messageSender) {
	g.handleNotifications(ctx, notifications, send)
	if g.match.RoundOver() {
		g.scheduleRound(ctx)
	}
}

// handleGameRefresh sends the view of the player's seat back to the player.
func (g *Game) handleGameRefresh(ctx context.Context, m message.Message, send messageSender) error {
	seat, err := g.seat(m.PlayerName)
	if err != nil {
		return err
	}
	return g.sendSeat(m, seat, send)
}

// handleGameChat sends a chat message from a player to everyone in the game.
func (g *Game) handleGameChat(ctx context.Context, m message.Message, send messageSender) error {
	if _, err := g.seat(m.PlayerName); err != nil {
		return err
	}
	info := fmt.Sprintf("%v : %v", m.PlayerName, m.Info)
	for _, s := range g.match.Seats() {
		send(message.Message{
			Type:       message.GameChat,
			PlayerName: s.Name,
			Info:       info,
		})
	}
	return nil
}

// handleRoundStart starts the next round, or finishes and deletes the game after the last round.
func (g *Game) handleRoundStart(ctx context.Context, m message.Message, send messageSender) error {
	notifications, err := g.match.StartRound()
	if err != nil {
		return err
	}
	g.handleNotifications(ctx, notifications, send)
	if g.match.Status() != game.Finished {
		g.handleInfoChanged(send)
		return nil
	}
	g.finish(ctx, send)
	g.handleInfoChanged(send)
	return g.handleGameDelete(ctx, m, send)
}

// scheduleRound starts the next round after the round delay.
func (g *Game) scheduleRound(ctx context.Context) {
	g.stopRoundTimer()
	g.roundTimer = time.AfterFunc(g.RoundDelay, func() {
		m := message.Message{
			Type: message.StartRound,
		}
		select {
		case <-ctx.Done():
		case g.roundStarts <- m:
		}
	})
}

// stopRoundTimer stops the timer to start the next round, if any.
func (g *Game) stopRoundTimer() {
	if g.roundTimer != nil {
		g.roundTimer.Stop()
	}
}

// handleNotifications converts the notifications from the match into messages for the players.
// Each view only goes to the player of its seat.  Logs go to all players.
func (g *Game) handleNotifications(ctx context.Context, notifications []round.Notification, send messageSender) {
	seats := g.match.Seats()
	for _, n := range notifications {
		if n.Kind == round.Log {
			for _, s := range seats {
				send(message.Message{
					Type:       message.GameLog,
					PlayerName: s.Name,
					Info:       n.Text,
				})
			}
			continue
		}
		mt, ok := messageTypes[n.Kind]
		if !ok {
			g.log.Printf("game %v has no message type for notification kind %v", g.id, n.Kind)
			continue
		}
		for i := range n.Views {
			v := n.Views[i]
			if v.Seat < 0 || v.Seat >= len(seats) {
				continue
			}
			send(message.Message{
				Type:       mt,
				PlayerName: seats[v.Seat].Name,
				View:       &v,
				Tile:       n.Tile,
				Play:       n.Play,
				Standings:  n.Standings,
			})
		}
	}
}

// finish credits the players with points and records the result of the game.
func (g *Game) finish(ctx context.Context, send messageSender) {
	standings := g.match.Standings()
	userPoints := make(map[string]int, len(standings))
	result := game.Result{
		GameID:     g.id,
		Rounds:     g.match.RoundNumber(),
		FinishedAt: g.TimeFunc(),
		Players:    make([]game.PlayerResult, len(standings)),
	}
	for i, s := range standings {
		points := 1
		if s.Winner {
			points = g.WinPoints
		}
		userPoints[string(s.Name)] = points
		result.Players[i] = game.PlayerResult{
			Name:   string(s.Name),
			Score:  s.Score,
			Winner: s.Winner,
		}
	}
	info := fmt.Sprintf("WINNER! - %v won, getting %v points.  Other players each get 1 point.", strings.Join(result.Winners(), ", "), g.WinPoints)
	if err := g.userDao.UpdatePointsIncrement(ctx, userPoints); err != nil {
		g.log.Printf("updating points for game %v: %v", g.id, err)
		info = "could not update points"
	}
	if err := g.recorder.Record(ctx, result); err != nil {
		g.log.Printf("recording result of game %v: %v", g.id, err)
	}
	for _, s := range standings {
		send(message.Message{
			Type:       message.GameLog,
			PlayerName: s.Name,
			Info:       info,
		})
	}
}

// sendSeat sends the view of the seat to the socket in the message so it can show the seat.
func (g *Game) sendSeat(m message.Message, seat int, send messageSender) error {
	v, err := g.match.View(seat)
	if err != nil {
		return err
	}
	i := g.info()
	send(message.Message{
		Type:       message.SeatAssigned,
		PlayerName: m.PlayerName,
		Addr:       m.Addr,
		Game:       &i,
		View:       v,
	})
	return nil
}

// seat gets the index of the player's seat.
func (g *Game) seat(pn player.Name) (int, error) {
	s, ok := g.match.SeatOf(pn)
	if !ok {
		return 0, match.ErrSeatNotFound
	}
	return s.ID, nil
}

// info gets the info about the game for the lobby.
func (g *Game) info() game.Info {
	i := g.match.Info()
	i.CreatedAt = g.createdAt
	if g.deleted {
		i.Status = game.Deleted
	}
	return i
}

// handleInfoChanged sends the game's info in a message.
func (g *Game) handleInfoChanged(send messageSender) {
	i := g.info()
	send(message.Message{
		Type: message.GameInfos,
		Game: &i,
	})
}
