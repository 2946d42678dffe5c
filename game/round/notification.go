package round

import (
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/game/tile"
	"github.com/jacobpatterson1549/mexican-train/game/train"
)

type (
	// Notification is a change in a match that should be sent to some or all seats.
	Notification struct {
		// Kind is what happened.
		Kind Kind
		// Views are the states of the match for each seat that should be notified.
		Views []View
		// Tile is the tile given for TileGiven notifications.
		Tile *tile.Tile
		// Play is the play that was applied for PlayApplied notifications.
		Play *Play
		// Text is the narration for Log notifications.
		Text string
		// Standings are the final results for MatchEnded notifications.
		Standings []Standing
	}

	// Kind is the type of a notification.
	Kind int

	// View is the state of the match as a single seat sees it.
	View struct {
		Seat  int         `json:"seat"`
		State State       `json:"state"`
		Hand  []tile.Tile `json:"hand"`
	}

	// State is the public state of the match that all seats can see.
	State struct {
		// Round is the round index, the amount the starting double is below the max pip value.
		Round int `json:"round"`
		// Double is the value of the starting double.
		Double int `json:"double"`
		// Turn is the seat that must act.
		Turn int `json:"turn"`
		// MustBeSatisfied is the train the seat on turn is restricted to.
		MustBeSatisfied train.ID `json:"mustBeSatisfied"`
		// PendingSatisfied is the train with a double that restricts the next turn.
		PendingSatisfied train.ID `json:"pendingSatisfied"`
		// Trains are the hub train followed by the train of each seat.
		Trains []train.Train `json:"trains"`
		// Scores are the cumulative scores of each seat.
		Scores []int `json:"scores"`
		// HandCounts are the number of tiles each seat holds.
		HandCounts []int `json:"handCounts"`
		// PoolCount is the number of tiles left to draw.
		PoolCount int `json:"poolCount"`
		// RemainingPips counts each pip value on tiles that are not on a train.
		RemainingPips []int `json:"remainingPips"`
		// Ended is true when the round is over.
		Ended bool `json:"ended,omitempty"`
		// EndReason is why the round ended.
		EndReason EndReason `json:"endReason,omitempty"`
	}

	// Play is a tile placed on a train by a seat.
	Play struct {
		Seat  int       `json:"seat"`
		Tile  tile.Tile `json:"tile"`
		Train train.ID  `json:"train"`
	}

	// Standing is the final result of a seat.
	Standing struct {
		Seat   int         `json:"seat"`
		Name   player.Name `json:"name"`
		Score  int         `json:"score"`
		Winner bool        `json:"winner,omitempty"`
	}

	// EndReason is why a round ended.
	EndReason int
)

const (
	_ Kind = iota
	// MatchStarted is sent to all seats when the last seat is taken.
	MatchStarted
	// SeatJoined is sent to all seats when a seat is taken.
	SeatJoined
	// RoundStarted is sent to all seats after the trains are seeded, before tiles are dealt.
	RoundStarted
	// TileGiven is sent to a single seat when it receives a tile.
	TileGiven
	// TurnAdvanced is sent to all seats when the turn moves to the next seat.
	TurnAdvanced
	// PlayApplied is sent to all seats when a tile is placed.
	PlayApplied
	// RoundEnded is sent to all seats after the round is scored.
	RoundEnded
	// MatchEnded is sent to all seats after the last round.
	MatchEnded
	// Log is narration of the match.
	Log
)

const (
	_ EndReason = iota
	// WentOut is when a seat plays its last tile.
	WentOut
	// Blocked is when no seat can play and no tile in the pool would help.
	Blocked
)

// String returns the display value for the end reason.
func (r EndReason) String() string {
	switch r {
	case WentOut:
		return "went out"
	case Blocked:
		return "blocked"
	}
	return ""
}
