// Package tile contains the dominoes that players draw and place on trains.
package tile

import "fmt"

// Tile is a domino, an unordered pair of pip counts.
// Tiles are canonical: A is never greater than B.
// Tiles are written to json in the "a-b" format.
type Tile struct {
	A int
	B int
}

// New creates a canonical tile from the two pip counts, which may be in any order.
func New(a, b int) Tile {
	if a > b {
		a, b = b, a
	}
	return Tile{
		A: a,
		B: b,
	}
}

// Double creates the tile with both ends showing the value.
func Double(v int) Tile {
	return Tile{
		A: v,
		B: v,
	}
}

// NewSet creates every tile with pips from zero to maxPip.
func NewSet(maxPip int) []Tile {
	tiles := make([]Tile, 0, SetSize(maxPip))
	for a := 0; a <= maxPip; a++ {
		for b := a; b <= maxPip; b++ {
			tiles = append(tiles, Tile{A: a, B: b})
		}
	}
	return tiles
}

// SetSize is the number of tiles in a set with pips from zero to maxPip.
func SetSize(maxPip int) int {
	if maxPip < 0 {
		return 0
	}
	return (maxPip + 1) * (maxPip + 2) / 2
}

// Pips is the total number of pips on the tile.
func (t Tile) Pips() int {
	return t.A + t.B
}

// IsDouble determines if both ends of the tile are the same.
func (t Tile) IsDouble() bool {
	return t.A == t.B
}

// Has determines if either end of the tile has the value.
func (t Tile) Has(v int) bool {
	return t.A == v || t.B == v
}

// HasAny determines if either end of the tile has one of the values.
func (t Tile) HasAny(values []int) bool {
	for _, v := range values {
		if t.Has(v) {
			return true
		}
	}
	return false
}

// Other returns the value on the end opposite the one showing v.
// The tile must have v.
func (t Tile) Other(v int) int {
	if t.B == v {
		return t.A
	}
	return t.B
}

// Valid determines if the tile is canonical and fits in a set with the max pip value.
func (t Tile) Valid(maxPip int) bool {
	return 0 <= t.A && t.A <= t.B && t.B <= maxPip
}

// String formats the tile as "a-b".
func (t Tile) String() string {
	return fmt.Sprintf("%d-%d", t.A, t.B)
}

// Parse reads a tile in the "a-b" format.
func Parse(s string) (*Tile, error) {
	var a, b int
	if n, err := fmt.Sscanf(s, "%d-%d", &a, &b); err != nil || n != 2 {
		return nil, fmt.Errorf("invalid tile %q: wanted format a-b", s)
	}
	if a < 0 || b < 0 {
		return nil, fmt.Errorf("invalid tile %q: pips must not be negative", s)
	}
	t := New(a, b)
	return &t, nil
}
