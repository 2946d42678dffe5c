// Package hand contains the tiles a seat holds.
package hand

import "github.com/jacobpatterson1549/mexican-train/game/tile"

// Hand is the tiles held by a seat, in the order they were received.
type Hand struct {
	tiles []tile.Tile
}

// New creates a hand holding the tiles.
func New(tiles ...tile.Tile) *Hand {
	h := Hand{
		tiles: append([]tile.Tile(nil), tiles...),
	}
	return &h
}

// Add puts the tile in the hand.
func (h *Hand) Add(t tile.Tile) {
	h.tiles = append(h.tiles, t)
}

// Remove takes the tile from the hand, returning false if it is not held.
func (h *Hand) Remove(t tile.Tile) bool {
	for i, t2 := range h.tiles {
		if t == t2 {
			h.tiles = append(h.tiles[:i], h.tiles[i+1:]...)
			return true
		}
	}
	return false
}

// Has determines if the tile is held.
func (h Hand) Has(t tile.Tile) bool {
	for _, t2 := range h.tiles {
		if t == t2 {
			return true
		}
	}
	return false
}

// Len is the number of tiles held.
func (h Hand) Len() int {
	return len(h.tiles)
}

// Pips is the sum of the pips on every held tile.
func (h Hand) Pips() int {
	sum := 0
	for _, t := range h.tiles {
		sum += t.Pips()
	}
	return sum
}

// Matches determines if any held tile has one of the values.
func (h Hand) Matches(values []int) bool {
	for _, t := range h.tiles {
		if t.HasAny(values) {
			return true
		}
	}
	return false
}

// Tiles returns a copy of the held tiles.
func (h Hand) Tiles() []tile.Tile {
	return append([]tile.Tile{}, h.tiles...)
}
