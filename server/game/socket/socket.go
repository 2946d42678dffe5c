// Package socket handles communication with a player using a websocket connection
package socket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/mexican-train/game/message"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

type (
	// Socket reads and writes messages to the browsers
	Socket struct {
		log log.Logger
		Conn
		// PlayerName is the name of the player the socket is for.
		PlayerName player.Name
		// Addr is the handle of the socket, unique among all sockets.
		Addr message.Addr
		Config
	}

	// Config contains commonly shared Socket properties
	Config struct {
		// Debug is a flag that causes the socket to log the types non-ping/pong messages that are read/written
		Debug bool
		// ReadWait is the amout of time that can pass between receiving client messages before timing out.
		ReadWait time.Duration
		// WriteWait is the amout of time that the socket can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages should be sent.  Should be less than ReadWait.
		PingPeriod time.Duration
		// HTTPPingPeriod is the amount of time between sending requests for the connection to send a http ping on a different socket
		// Heroku servers shut down if 30 minutes passess between HTTP requests
		HTTPPingPeriod time.Duration
	}

	// Conn is the connection than backs the socket
	Conn interface {
		// ReadMessage reads the next message from the connection.
		ReadMessage(m *message.Message) error
		// WriteMessage writes the message as json to the connection.
		WriteMessage(m message.Message) error
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.
		WriteClose(reason string) error
		// IsNormalClose determines if the error message is an expected close error.
		IsNormalClose(err error) bool
		// Close closes the connection.
		Close() error
	}
)

var errPlayerRemoved = errors.New("player removed")

// NewSocket creates a socket
func (cfg Config) NewSocket(log log.Logger, pn player.Name, conn Conn) (*Socket, error) {
	if err := cfg.validate(log, pn, conn); err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	s := Socket{
		log:        log,
		Conn:       conn,
		PlayerName: pn,
		Addr:       message.Addr(uuid.NewString()),
		Config:     cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log log.Logger, pn player.Name, conn Conn) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case len(pn) == 0:
		return fmt.Errorf("player name required")
	case conn == nil:
		return fmt.Errorf("websocket connection required")
	case cfg.ReadWait <= 0:
		return fmt.Errorf("positive read wait period required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait period required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.HTTPPingPeriod <= 0:
		return fmt.Errorf("positive http ping period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return fmt.Errorf("ping period should be less than read wait")
	}
	return nil
}

// Run writes messages from the connection to the shared "out" channel.
// Run writes messages recieved from the "in" channel to the connection,
// The Socket runs until the connection fails for an unexpected reason or the context is cancelled.
// The last message the socket sends on the "out" channel is a SocketClose message.
func (s *Socket) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message, out chan<- message.Message) {
	pingTicker := time.NewTicker(s.PingPeriod)
	httpPingTicker := time.NewTicker(s.HTTPPingPeriod)
	wg.Add(2)
	go s.readMessagesSync(ctx, wg, out)
	go s.writeMessagesSync(ctx, wg, in, pingTicker, httpPingTicker)
}

// readMessagesSync receives messages from the connected socket and writes them to the out channel.
// Messages are not sent if the reading is cancelled from the done channel.
func (s *Socket) readMessagesSync(ctx context.Context, wg *sync.WaitGroup, out chan<- message.Message) {
	defer wg.Done()
	for { // BLOCKING
		m, err := s.readMessage()
		if err != nil {
			if !s.Conn.IsNormalClose(err) {
				s.log.Printf("reading socket messages stopped for player %v: %v", s.PlayerName, err)
			}
			break
		}
		select {
		case <-ctx.Done():
			return
		case out <- *m:
		}
	}
	s.Conn.Close()
	m := message.Message{
		Type:       message.SocketClose,
		PlayerName: s.PlayerName,
		Addr:       s.Addr,
	}
	select {
	case <-ctx.Done():
	case out <- m:
	}
}

// writeMessagesSync sends messages from the in channel to the connected socket.
// The tickers are used to periodically write pings.
// After a write fails, messages from the in channel are discarded until it is closed so the sender never blocks.
func (s *Socket) writeMessagesSync(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message,
	pingTicker, httpPingTicker *time.Ticker) {
	defer func() {
		pingTicker.Stop()
		httpPingTicker.Stop()
		s.Conn.Close()
		wg.Done()
	}()
	var err error
	for { // BLOCKING
		skipSend := err != nil
		select {
		case <-ctx.Done():
			if !skipSend {
				s.writeClose("server shutting down")
			}
			return
		case m, ok := <-in:
			if !ok {
				if !skipSend {
					s.writeClose("socket removed")
				}
				return
			}
			if !skipSend {
				err = s.writeMessage(m)
			}
		case <-pingTicker.C:
			if !skipSend {
				err = s.Conn.WritePing()
			}
		case <-httpPingTicker.C:
			if !skipSend {
				m := message.Message{
					Type: message.SocketHTTPPing,
				}
				err = s.writeMessage(m)
			}
		}
		if err != nil && !skipSend {
			reason := err.Error()
			if err != errPlayerRemoved {
				reason = fmt.Sprintf("writing socket messages stopped for player %v: %v", s.PlayerName, err)
			}
			s.writeClose(reason)
			s.Conn.Close() // stops the read loop
		}
	}
}

// readMessage reads the next message from the connection.
// The player name and address of the socket are added to the message.
func (s *Socket) readMessage() (*message.Message, error) {
	var m message.Message
	if err := s.Conn.ReadMessage(&m); err != nil { // BLOCKING
		return nil, err
	}
	if s.Debug {
		s.log.Printf("socket reading message with type %v", m.Type)
	}
	m.PlayerName = s.PlayerName
	m.Addr = s.Addr
	return &m, nil
}

// writeMessage writes a message to the connection.
func (s *Socket) writeMessage(m message.Message) error {
	if s.Debug {
		s.log.Printf("socket writing message with type %v", m.Type)
	}
	if err := s.Conn.WriteMessage(m); err != nil {
		return fmt.Errorf("writing socket message: %v", err)
	}
	if m.Type == message.PlayerRemove {
		return errPlayerRemoved
	}
	return nil
}

// writeClose writes a close message with the reason, logging the reason if it was written.
func (s *Socket) writeClose(reason string) {
	if err := s.Conn.WriteClose(reason); err != nil || len(reason) == 0 {
		return
	}
	s.log.Printf("closing socket for %v: %v", s.PlayerName, reason)
}
