package game

import "fmt"

// Info contains information about a match for the lobby.
type Info struct {
	// ID is unique among the other matches that currently exist.
	ID ID `json:"id,omitempty"`
	// Status is the state of the match.
	Status Status `json:"status,omitempty"`
	// Players is a list of the names of players in the match, in seat order.
	Players []string `json:"players,omitempty"`
	// Capacity is the number of seats in the match.
	Capacity int `json:"capacity,omitempty"`
	// Round is the 1-based number of the current round.
	Round int `json:"round,omitempty"`
	// CreatedAt is the match's creation time in seconds since the unix epoch.
	CreatedAt int64 `json:"createdAt,omitempty"`
	// Config is the specific options used to create the match.
	Config *Config `json:"config,omitempty"`
}

// CanJoin indicates whether or not a player can join the match.
// Players can only join matches with open seats or matches they are already seated in.
func (i Info) CanJoin(playerName string) bool {
	for _, n := range i.Players {
		if n == playerName {
			return true
		}
	}
	return i.Status == NotStarted && len(i.Players) < i.Capacity
}

// CapacityRatio is a fraction of the number of players in the match over the number of seats.
func (i Info) CapacityRatio() string {
	return fmt.Sprintf("%d/%d", len(i.Players), i.Capacity)
}
