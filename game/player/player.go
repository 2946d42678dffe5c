// Package player contains the identity of players shared by the server components.
package player

// Name uniquely identifies a player.
type Name string
