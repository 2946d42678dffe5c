// Package pool contains the supply of undrawn tiles for a round.
package pool

import (
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/mexican-train/game/tile"
)

// Pool is the set of tiles that have not been dealt or placed.
type Pool struct {
	tiles []tile.Tile
	pips  []int
	intn  func(n int) int
}

var (
	// ErrEmpty is returned when drawing from a pool with no tiles.
	ErrEmpty = errors.New("no tiles left in pool")
	// ErrTileNotFound is returned when removing a tile that is not in the pool.
	ErrTileNotFound = errors.New("tile not in pool")
)

// New creates a pool with every tile up to the max pip value.
// The intn function must return a uniformly random number in [0,n).
func New(maxPip int, intn func(n int) int) (*Pool, error) {
	switch {
	case maxPip < 0:
		return nil, fmt.Errorf("creating pool: non-negative max pip value required")
	case intn == nil:
		return nil, fmt.Errorf("creating pool: random number function required")
	}
	p := Pool{
		tiles: tile.NewSet(maxPip),
		pips:  make([]int, maxPip+1),
		intn:  intn,
	}
	for _, t := range p.tiles {
		p.pips[t.A]++
		p.pips[t.B]++
	}
	return &p, nil
}

// Draw removes a random tile from the pool.
func (p *Pool) Draw() (tile.Tile, error) {
	if len(p.tiles) == 0 {
		return tile.Tile{}, ErrEmpty
	}
	i := p.intn(len(p.tiles))
	t := p.tiles[i]
	p.removeAt(i)
	return t, nil
}

// Remove takes the specific tile out of the pool.
func (p *Pool) Remove(t tile.Tile) error {
	for i, t2 := range p.tiles {
		if t == t2 {
			p.removeAt(i)
			return nil
		}
	}
	return fmt.Errorf("removing %v: %w", t, ErrTileNotFound)
}

// removeAt removes the tile at the index, keeping the order of the other tiles.
func (p *Pool) removeAt(i int) {
	t := p.tiles[i]
	p.tiles = append(p.tiles[:i], p.tiles[i+1:]...)
	p.pips[t.A]--
	p.pips[t.B]--
}

// Len is the number of tiles left.
func (p Pool) Len() int {
	return len(p.tiles)
}

// Tiles returns a copy of the remaining tiles.
func (p Pool) Tiles() []tile.Tile {
	return append([]tile.Tile(nil), p.tiles...)
}

// Pips returns the count of each pip value among the tile ends in the pool.
func (p Pool) Pips() []int {
	return append([]int(nil), p.pips...)
}

// Matches determines if any tile in the pool has one of the values.
func (p Pool) Matches(values []int) bool {
	for _, v := range values {
		if v >= 0 && v < len(p.pips) && p.pips[v] > 0 {
			return true
		}
	}
	return false
}
