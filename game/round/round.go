// Package round contains the engine that runs a single round of a match.
package round

import (
	"fmt"

	"github.com/jacobpatterson1549/mexican-train/game/hand"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/game/pool"
	"github.com/jacobpatterson1549/mexican-train/game/tile"
	"github.com/jacobpatterson1549/mexican-train/game/train"
)

type (
	// Round enforces the turn order and the legality of plays and draws until a seat goes out or the round is blocked.
	Round struct {
		index            int
		number           int
		double           tile.Tile
		names            []player.Name
		scores           []int
		turn             int
		mustBeSatisfied  train.ID
		pendingSatisfied train.ID
		drew             bool
		hands            []*hand.Hand
		pool             *pool.Pool
		hub              *train.Train
		trains           []*train.Train
		ended            bool
		endReason        EndReason
	}

	// Config is used to create a round.
	Config struct {
		// Index is the amount the starting double is below the max pip value.
		Index int
		// Number is the 1-based count of the round in the match.
		Number int
		// MaxPip is the highest pip value on a tile.
		MaxPip int
		// HandSize is the number of tiles dealt to each seat.
		HandSize int
		// Turn is the seat that acts first.
		Turn int
		// Names are the names of the players in each seat.
		Names []player.Name
		// Scores are the cumulative scores for each seat.  The pips left in each hand are added when the round ends.
		Scores []int
		// IntnFunc returns a uniformly random number in [0,n).
		IntnFunc func(n int) int
	}
)

// NewRound creates a round, seeds the trains with the starting double, and deals tiles to each seat.
// The notifications for the round start and each dealt tile are returned.
func (cfg Config) NewRound() (*Round, []Notification, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("creating round: validation: %w", err)
	}
	p, err := pool.New(cfg.MaxPip, cfg.IntnFunc)
	if err != nil {
		return nil, nil, fmt.Errorf("creating round: %w", err)
	}
	double := tile.Double(cfg.MaxPip - cfg.Index)
	if err := p.Remove(double); err != nil {
		return nil, nil, fmt.Errorf("creating round: removing starting double: %w", err)
	}
	n := len(cfg.Names)
	r := Round{
		index:  cfg.Index,
		number: cfg.Number,
		double: double,
		names:  cfg.Names,
		scores: cfg.Scores,
		turn:   cfg.Turn,
		hands:  make([]*hand.Hand, n),
		pool:   p,
		hub:    train.New(train.HubID),
		trains: make([]*train.Train, n),
	}
	r.hub.Seed(double)
	for s := range r.trains {
		r.hands[s] = hand.New()
		r.trains[s] = train.New(train.SeatID(s))
		r.trains[s].Seed(double)
	}
	notifications := []Notification{
		{
			Kind:  RoundStarted,
			Views: r.views(),
		},
	}
	for s, h := range r.hands {
		for i := 0; i < cfg.HandSize; i++ {
			t, err := r.pool.Draw()
			if err != nil {
				return nil, nil, fmt.Errorf("creating round: dealing tile to seat %v: %w", s, err)
			}
			h.Add(t)
			given := Notification{
				Kind:  TileGiven,
				Views: []View{r.View(s)},
				Tile:  &t,
			}
			notifications = append(notifications, given)
		}
	}
	notifications = append(notifications, Notification{
		Kind: Log,
		Text: fmt.Sprintf("Starting round %d", cfg.Number),
	})
	return &r, notifications, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	n := len(cfg.Names)
	switch {
	case cfg.MaxPip < 0:
		return fmt.Errorf("non-negative max pip value required")
	case cfg.Index < 0, cfg.Index > cfg.MaxPip:
		return fmt.Errorf("round index must be between zero and the max pip value")
	case n == 0:
		return fmt.Errorf("names required")
	case len(cfg.Scores) != n:
		return fmt.Errorf("a score for each seat required")
	case cfg.Turn < 0, cfg.Turn >= n:
		return fmt.Errorf("turn must be a seat")
	case cfg.HandSize < 0:
		return fmt.Errorf("non-negative hand size required")
	case n*cfg.HandSize+1 > tile.SetSize(cfg.MaxPip):
		return fmt.Errorf("not enough tiles to deal %v to %v seats", cfg.HandSize, n)
	case cfg.IntnFunc == nil:
		return fmt.Errorf("random number function required")
	}
	return nil
}

// Play places the tile from the hand of the seat onto the train.
// A Warning is returned if the play is not allowed, in which case the round is not changed.
func (r *Round) Play(seat int, t tile.Tile, id train.ID) ([]Notification, error) {
	if r.ended || seat != r.turn {
		return nil, ErrNotYourTurn
	}
	tr := r.train(id)
	if tr == nil || !r.canTarget(seat, tr) {
		return nil, ErrIllegalTarget
	}
	if !t.Has(tr.Exposed()) {
		return nil, ErrTileMismatch
	}
	h := r.hands[seat]
	if !h.Remove(t) {
		return nil, ErrTileNotInHand
	}
	tr.Append(t)
	if id == r.pendingSatisfied {
		r.pendingSatisfied = train.ID{}
	}
	if t.IsDouble() {
		r.pendingSatisfied = id
	}
	if tr.Owner(seat) {
		tr.SetPublic(false)
	}
	r.drew = false
	p := Play{
		Seat:  seat,
		Tile:  t,
		Train: id,
	}
	notifications := []Notification{
		{
			Kind:  PlayApplied,
			Views: r.views(),
			Play:  &p,
		},
	}
	switch {
	case h.Len() == 0:
		notifications = append(notifications, r.end(WentOut, fmt.Sprintf("%v went out!", r.names[seat]))...)
	case r.blocked():
		notifications = append(notifications, r.end(Blocked, "round is blocked")...)
	case !t.IsDouble():
		notifications = append(notifications, r.advanceTurn())
	}
	return notifications, nil
}

// Draw gives the seat a tile from the pool.  If the seat still cannot play, its train is put up and the turn passes.
// A seat can only draw once per turn.  Drawing from an empty pool returns a wrapped pool.ErrEmpty and does not change the round.
func (r *Round) Draw(seat int) ([]Notification, error) {
	if r.ended || seat != r.turn {
		return nil, ErrNotYourTurn
	}
	if r.drew {
		return nil, ErrAlreadyDrew
	}
	t, err := r.pool.Draw()
	if err != nil {
		return nil, fmt.Errorf("drawing tile for seat %v: %w", seat, err)
	}
	r.hands[seat].Add(t)
	r.drew = true
	notifications := []Notification{
		{
			Kind:  TileGiven,
			Views: []View{r.View(seat)},
			Tile:  &t,
		},
	}
	if r.HasLegalPlay(seat) {
		return notifications, nil
	}
	r.trains[seat].SetPublic(true)
	notifications = append(notifications,
		Notification{
			Kind: Log,
			Text: fmt.Sprintf("%v's train is up", r.names[seat]),
		},
		r.advanceTurn(),
	)
	return notifications, nil
}

// HasLegalPlay determines if the seat holds a tile that matches the exposed value of a train it can play on.
func (r Round) HasLegalPlay(seat int) bool {
	if seat < 0 || seat >= len(r.hands) {
		return false
	}
	return r.hands[seat].Matches(r.legalValues(seat))
}

// legalTargets are the trains the seat can play on.
func (r Round) legalTargets(seat int) []*train.Train {
	var targets []*train.Train
	for _, tr := range r.allTrains() {
		if r.canTarget(seat, tr) {
			targets = append(targets, tr)
		}
	}
	return targets
}

// canTarget determines if the seat can play on the train.
func (r Round) canTarget(seat int, tr *train.Train) bool {
	if !r.mustBeSatisfied.IsNone() {
		return tr.ID == r.mustBeSatisfied
	}
	return tr.Public || tr.Owner(seat)
}

// legalValues are the exposed values of the trains the seat can play on.
func (r Round) legalValues(seat int) []int {
	targets := r.legalTargets(seat)
	values := make([]int, len(targets))
	for i, tr := range targets {
		values[i] = tr.Exposed()
	}
	return values
}

// blocked determines if no seat can play and no tile left in the pool would let a seat play.
// The pool is only checked when every hand is blocked.
func (r Round) blocked() bool {
	for s := range r.hands {
		if r.HasLegalPlay(s) {
			return false
		}
	}
	for s := range r.hands {
		if r.pool.Matches(r.legalValues(s)) {
			return false
		}
	}
	return true
}

// advanceTurn passes the turn to the next seat, which must satisfy the pending double, if any.
func (r *Round) advanceTurn() Notification {
	r.mustBeSatisfied = r.pendingSatisfied
	r.turn = (r.turn + 1) % len(r.hands)
	r.drew = false
	return Notification{
		Kind:  TurnAdvanced,
		Views: r.views(),
	}
}

// PassTurn moves the turn to the next seat without a play or draw.
// The match passes the turn once after dealing the first round so the seat after the first seat leads.
func (r *Round) PassTurn() Notification {
	return r.advanceTurn()
}

// end stops the round and adds the pips left in each hand to the scores.
func (r *Round) end(reason EndReason, text string) []Notification {
	r.ended = true
	r.endReason = reason
	for s, h := range r.hands {
		r.scores[s] += h.Pips()
	}
	return []Notification{
		{
			Kind: Log,
			Text: text,
		},
		{
			Kind:  RoundEnded,
			Views: r.views(),
		},
	}
}

// train gets the train with the id, or nil if no such train exists.
func (r Round) train(id train.ID) *train.Train {
	switch {
	case id.IsHub():
		return r.hub
	case id.Kind == train.Seat && id.Seat >= 0 && id.Seat < len(r.trains):
		return r.trains[id.Seat]
	}
	return nil
}

// allTrains is the hub followed by the train of each seat.
func (r Round) allTrains() []*train.Train {
	trains := make([]*train.Train, 0, len(r.trains)+1)
	trains = append(trains, r.hub)
	trains = append(trains, r.trains...)
	return trains
}

// State is the public state of the round.
func (r Round) State() State {
	trains := make([]train.Train, 0, len(r.trains)+1)
	for _, tr := range r.allTrains() {
		trains = append(trains, tr.Copy())
	}
	handCounts := make([]int, len(r.hands))
	remainingPips := r.pool.Pips()
	for s, h := range r.hands {
		handCounts[s] = h.Len()
		for _, t := range h.Tiles() {
			remainingPips[t.A]++
			remainingPips[t.B]++
		}
	}
	s := State{
		Round:            r.index,
		Double:           r.double.A,
		Turn:             r.turn,
		MustBeSatisfied:  r.mustBeSatisfied,
		PendingSatisfied: r.pendingSatisfied,
		Trains:           trains,
		Scores:           append([]int(nil), r.scores...),
		HandCounts:       handCounts,
		PoolCount:        r.pool.Len(),
		RemainingPips:    remainingPips,
		Ended:            r.ended,
		EndReason:        r.endReason,
	}
	return s
}

// View is the state of the round as the seat sees it, including only its own hand.
func (r Round) View(seat int) View {
	v := View{
		Seat:  seat,
		State: r.State(),
	}
	if seat >= 0 && seat < len(r.hands) {
		v.Hand = r.hands[seat].Tiles()
	}
	return v
}

// views creates a view for every seat.
func (r Round) views() []View {
	views := make([]View, len(r.hands))
	for s := range r.hands {
		views[s] = r.View(s)
	}
	return views
}

// Turn is the seat that must act.
func (r Round) Turn() int {
	return r.turn
}

// Ended determines if the round is over.
func (r Round) Ended() bool {
	return r.ended
}

// EndReason is why the round ended.
func (r Round) EndReason() EndReason {
	return r.endReason
}

// Number is the 1-based count of the round in the match.
func (r Round) Number() int {
	return r.number
}

// MustBeSatisfied is the train the seat on turn is restricted to.
func (r Round) MustBeSatisfied() train.ID {
	return r.mustBeSatisfied
}

// PendingSatisfied is the train with a double that the next turn must satisfy.
func (r Round) PendingSatisfied() train.ID {
	return r.pendingSatisfied
}

// Train gets a copy of the train with the id.
func (r Round) Train(id train.ID) (train.Train, bool) {
	tr := r.train(id)
	if tr == nil {
		return train.Train{}, false
	}
	return tr.Copy(), true
}

// Hand gets a copy of the tiles held by the seat.
func (r Round) Hand(seat int) []tile.Tile {
	if seat < 0 || seat >= len(r.hands) {
		return nil
	}
	return r.hands[seat].Tiles()
}
