// Package train contains the chains of tiles that players extend.
package train

import (
	"fmt"
	"strconv"

	"github.com/jacobpatterson1549/mexican-train/game/tile"
)

type (
	// ID identifies a train: the shared hub or the train of a seat.
	// The zero ID is None, which refers to no train.
	ID struct {
		Kind Kind
		Seat int
	}

	// Kind is the variant of a train ID.
	Kind int

	// Train is an ordered chain of tiles extending from a starting double.
	Train struct {
		ID ID `json:"id"`
		// Tiles are the placed tiles, the first being the starting double.
		Tiles []tile.Tile `json:"tiles"`
		// Flipped records, for each tile, whether its B end touched the previous tile, leaving A exposed.
		Flipped []bool `json:"flipped"`
		// Public is true when any seat can play on the train.
		Public bool `json:"public"`
	}
)

const (
	// None is the kind of the zero ID.
	None Kind = iota
	// Hub is the kind of the ownerless train that is always public.
	Hub
	// Seat is the kind of a train owned by a seat.
	Seat
)

// HubID is the ID of the hub train.
var HubID = ID{Kind: Hub}

// SeatID creates the ID of the train owned by the seat.
func SeatID(seat int) ID {
	return ID{
		Kind: Seat,
		Seat: seat,
	}
}

// IsNone determines if the id refers to no train.
func (id ID) IsNone() bool {
	return id.Kind == None
}

// IsHub determines if the id refers to the hub train.
func (id ID) IsHub() bool {
	return id.Kind == Hub
}

// String returns "hub", the seat number, or the empty string for None.
func (id ID) String() string {
	switch id.Kind {
	case Hub:
		return "hub"
	case Seat:
		return strconv.Itoa(id.Seat)
	}
	return ""
}

// MarshalText implements the encoding.TextMarshaler interface.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (id *ID) UnmarshalText(b []byte) error {
	s := string(b)
	switch s {
	case "":
		*id = ID{}
	case "hub":
		*id = HubID
	default:
		seat, err := strconv.Atoi(s)
		if err != nil || seat < 0 {
			return fmt.Errorf("invalid train id %q", s)
		}
		*id = SeatID(seat)
	}
	return nil
}

// New creates an empty train.  The hub train is public.
func New(id ID) *Train {
	t := Train{
		ID:     id,
		Public: id.IsHub(),
	}
	return &t
}

// Exposed is the value that the next tile must match, or -1 if the train has no tiles.
func (t Train) Exposed() int {
	n := len(t.Tiles)
	if n == 0 {
		return -1
	}
	last := t.Tiles[n-1]
	if t.Flipped[n-1] {
		return last.A
	}
	return last.B
}

// Owner determines if the seat owns the train.
func (t Train) Owner(seat int) bool {
	return t.ID.Kind == Seat && t.ID.Seat == seat
}

// Seed clears the train so the double is the only tile.
// Only the hub is public after seeding.
func (t *Train) Seed(double tile.Tile) {
	t.Tiles = []tile.Tile{double}
	t.Flipped = []bool{false}
	t.Public = t.ID.IsHub()
}

// Append adds the tile to the end of the train, consuming the end that touches the exposed value.
// Appending a tile that does not match the exposed value is a programming error.
func (t *Train) Append(tl tile.Tile) {
	exposed := t.Exposed()
	if exposed >= 0 && !tl.Has(exposed) {
		panic(fmt.Sprintf("tile %v does not match train %v exposing %v", tl, t.ID, exposed))
	}
	flipped := exposed == tl.B
	t.Tiles = append(t.Tiles, tl)
	t.Flipped = append(t.Flipped, flipped)
}

// SetPublic opens or closes the train to other seats.
func (t *Train) SetPublic(public bool) {
	t.Public = public
}

// Copy creates a deep copy of the train.
func (t Train) Copy() Train {
	t2 := Train{
		ID:      t.ID,
		Tiles:   append([]tile.Tile(nil), t.Tiles...),
		Flipped: append([]bool(nil), t.Flipped...),
		Public:  t.Public,
	}
	return t2
}
