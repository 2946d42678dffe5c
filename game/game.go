// Package game contains communication structures for the match controller, lobby, and socket to use.
package game

import "fmt"

type (
	// ID is the id of a match.
	ID int

	// Config is the set of rules a match is played with.
	Config struct {
		// MaxPip is the highest pip value on a tile.  The first round starts with the double of this value.
		MaxPip int `json:"maxPip,omitempty"`
		// MaxPlayers is the number of seats.  The match starts when all are taken.
		MaxPlayers int `json:"maxPlayers,omitempty"`
		// HandSize is the number of tiles dealt to each seat at the start of a round.
		HandSize int `json:"handSize,omitempty"`
		// RoundStep is how much the starting double decreases between rounds.
		RoundStep int `json:"roundStep,omitempty"`
		// StartingRound is the 1-based round to start the ladder at.
		StartingRound int `json:"startingRound,omitempty"`
	}
)

// Rounds is the number of rounds in a full match, from the starting round down to the zero double.
func (cfg Config) Rounds() int {
	if cfg.RoundStep <= 0 || cfg.MaxPip < 0 {
		return 0
	}
	first := cfg.MaxPip
	if cfg.StartingRound > 1 {
		first -= (cfg.StartingRound - 1) * cfg.RoundStep
	}
	if first < 0 {
		return 0
	}
	return first/cfg.RoundStep + 1
}

// Rules gets the rules for the match.  Extra rules are added for customized configurations.
func (cfg Config) Rules() []string {
	rules := []string{
		"Create or join a game from the Lobby after refreshing the games list.",
		"The game starts when every seat is taken.  Each round starts with a double that is placed at the start of every train.",
		"On your turn, play a tile on your own train, on the Mexican train, or on any other train that is up.  The touching ends must match.",
		"If you cannot play, draw a tile.  If you still cannot play, your train is up and any player can play on it until you play on it again.",
		"Playing a double gives you another turn.  The double must be satisfied: the next tile played must go on that train.",
		"The round ends when a player plays their last tile, or when nobody can play and no tile left to draw would help.",
		"The pips in each player's hand are added to their score at the end of each round.  The lowest score wins.",
	}
	if cfg.HandSize > 0 {
		rules = append(rules, fmt.Sprintf("Each player is dealt %d tiles at the start of a round.", cfg.HandSize))
	}
	if cfg.RoundStep > 1 {
		rules = append(rules, fmt.Sprintf("The starting double decreases by %d each round.", cfg.RoundStep))
	}
	if cfg.StartingRound > 1 {
		rules = append(rules, fmt.Sprintf("The game starts at round %d.", cfg.StartingRound))
	}
	return rules
}
