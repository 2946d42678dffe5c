// Package gorilla implements a websocket connection by wrapping gorilla/websocket.
package gorilla

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jacobpatterson1549/mexican-train/game/message"
)

type (
	// Upgrader implements the socket.Upgrader interface by wrapping a gorilla/websocket Upgrader.
	Upgrader struct {
		*websocket.Upgrader
		// ReadWait is the amount of time that can pass between receiving client messages or pongs.  Zero disables the read deadline.
		ReadWait time.Duration
		// WriteWait is the amount of time a write can take.  Zero disables the write deadline.
		WriteWait time.Duration
	}

	// Conn implements the Conn interface by wrapping a gorilla/websocket GorillaConnection.
	Conn struct {
		*websocket.Conn
		readWait  time.Duration
		writeWait time.Duration
	}
)

// NewUpgrader returns a upgrader that creates gorilla websocket connections.
func NewUpgrader(readWait, writeWait time.Duration) *Upgrader {
	u := Upgrader{
		Upgrader:  new(websocket.Upgrader),
		ReadWait:  readWait,
		WriteWait: writeWait,
	}
	return &u
}

// Upgrade creates a Conn from the http request.
// Pongs from the client extend the read deadline.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	c, err := u.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	conn := Conn{
		Conn:      c,
		readWait:  u.ReadWait,
		writeWait: u.WriteWait,
	}
	if err := conn.extendReadDeadline(); err != nil {
		return nil, err
	}
	c.SetPongHandler(func(appData string) error {
		return conn.extendReadDeadline()
	})
	return &conn, nil
}

// ReadMessage reads the next message from the GorillaConnection.
func (c *Conn) ReadMessage(m *message.Message) error {
	if err := c.Conn.ReadJSON(m); err != nil {
		return err
	}
	return c.extendReadDeadline()
}

// WriteMessage writes the message as json to the GorillaConnection.
func (c *Conn) WriteMessage(m message.Message) error {
	if c.writeWait > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
			return err
		}
	}
	return c.Conn.WriteJSON(m)
}

// WritePing writes a ping message on the GorillaConnection.
func (c *Conn) WritePing() error {
	return c.Conn.WriteControl(websocket.PingMessage, nil, c.writeDeadline())
}

// WriteClose writes a close message on the connection.  The connection is NOT closed.
func (c *Conn) WriteClose(reason string) error {
	data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return c.Conn.WriteControl(websocket.CloseMessage, data, c.writeDeadline())
}

// IsNormalClose determines if the error message is not an unexpected close error.
func (*Conn) IsNormalClose(err error) bool {
	_, ok := err.(*websocket.CloseError) // only errors from gorilla can be normal close errors
	return ok && !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

// extendReadDeadline allows the connection to read for another ReadWait.
func (c *Conn) extendReadDeadline() error {
	if c.readWait <= 0 {
		return nil
	}
	return c.Conn.SetReadDeadline(time.Now().Add(c.readWait))
}

// writeDeadline is when control messages must be written by.  The zero time means no deadline.
func (c *Conn) writeDeadline() time.Time {
	if c.writeWait <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.writeWait)
}
