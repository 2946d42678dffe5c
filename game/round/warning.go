package round

// Warning is an error for an action that was rejected without changing the match.
type Warning string

const (
	// ErrNotYourTurn is returned when a seat acts while another seat has the turn.
	ErrNotYourTurn Warning = "not your turn"
	// ErrIllegalTarget is returned when a seat plays on a train it is not allowed to.
	ErrIllegalTarget Warning = "cannot play on that train"
	// ErrTileMismatch is returned when the tile does not match the end of the train.
	ErrTileMismatch Warning = "tile does not match the end of the train"
	// ErrTileNotInHand is returned when the seat does not hold the tile.
	ErrTileNotInHand Warning = "tile not in hand"
	// ErrAlreadyDrew is returned when a seat tries to draw again after drawing a playable tile.
	ErrAlreadyDrew Warning = "already drew a tile this turn, play a tile"
)

// Error implements the error interface.
func (w Warning) Error() string {
	return string(w)
}
