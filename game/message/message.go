// Package message contains structures to pass between the browser and server.
package message

import (
	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/game/round"
	"github.com/jacobpatterson1549/mexican-train/game/tile"
)

type (
	// Type represents what the purpose of a message.
	Type int

	// Message contains information to or from a socket for a match or the lobby.
	Message struct {
		// Type is the purpose of the message.
		Type Type `json:"type"`
		// Info is a message to show to the player.
		Info string `json:"info,omitempty"`
		// Game is the info for the current match the player is in.
		Game *game.Info `json:"game,omitempty"`
		// Games contains the information about all the available matches.
		Games []game.Info `json:"games,omitempty"`
		// View is the state of the match as the player's seat sees it.
		View *round.View `json:"view,omitempty"`
		// Tile is the tile given to the player.
		Tile *tile.Tile `json:"tile,omitempty"`
		// Play is the tile and train of a requested or applied play.
		Play *round.Play `json:"play,omitempty"`
		// Standings are the final scores of a finished match.
		Standings []round.Standing `json:"standings,omitempty"`
		// PlayerName is the name of the player the message is to/from.
		PlayerName player.Name `json:"-"`
		// Addr is the handle of the socket the message is to/from.
		Addr Addr `json:"-"`
		// AddSocketRequest is used to add a socket for the player.
		AddSocketRequest *AddSocketRequest `json:"-"`
	}

	// Addr identifies a socket connection.
	Addr string
)

const (
	_ Type = iota
	// CreateGame is a Type that users send to open a new match.
	CreateGame
	// JoinGame is a Type that users send to take a seat at a match or watch the match they are seated at.
	JoinGame
	// LeaveGame is a Type that users send to stop watching a match.  The server sends it when the socket can no longer show the match.
	LeaveGame
	// DeleteGame is a Type that users send to remove a match from the server.
	DeleteGame
	// PlayTile is a Type that users send to place a tile from their hand on a train.
	PlayTile
	// DrawTile is a Type that users send to take a tile from the pool.
	DrawTile
	// RefreshGame is a Type that users send to get the current view of their seat.
	RefreshGame
	// GameChat is a Type that users send to communicate with other players through the server.
	GameChat
	// SeatAssigned is a Type that the server sends to a socket with the view of the player's seat after joining.
	SeatAssigned
	// MatchStarted is a Type that the server sends when every seat is taken.
	MatchStarted
	// SeatJoined is a Type that the server sends when a player takes a seat.
	SeatJoined
	// TileGiven is a Type that the server sends to a single player when the player receives a tile.
	TileGiven
	// TurnAdvanced is a Type that the server sends when the turn passes to the next seat.
	TurnAdvanced
	// PlayApplied is a Type that the server sends when a tile is placed on a train.
	PlayApplied
	// RoundStarted is a Type that the server sends when a round starts.
	RoundStarted
	// RoundEnded is a Type that the server sends after a round has been scored.
	RoundEnded
	// MatchEnded is a Type that the server sends with the final standings.
	MatchEnded
	// GameLog is a Type that the server sends to narrate the match.
	GameLog
	// GameInfos is a Type that the server sends to report changes in the matches in a lobby.
	GameInfos
	// SocketWarning is a Type that servers send to inform users that a request is invalid.
	SocketWarning
	// SocketError is a Type that servers send to users to report an unexpected state.
	SocketError
	// SocketHTTPPing is a Type the server sends to the user to request a http request to the site to keep it active.  Some environments shut down after a period of HTTP inactivity has passed.
	SocketHTTPPing
	// StartRound is a Type that a match sends to itself when the delay between rounds has passed.
	StartRound
	// SocketAdd is used to add a socket for a player.
	SocketAdd
	// SocketClose is sent when the socket is closed.
	SocketClose
	// PlayerRemove is a Type that gets sent from the lobby to inform that all sockets for the player should be removed.
	PlayerRemove // keep last for tests
)
