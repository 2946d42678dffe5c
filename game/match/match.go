// Package match handles the lifecycle of a game of Mexican Train, from seating players through the last round.
package match

import (
	"fmt"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/player"
	"github.com/jacobpatterson1549/mexican-train/game/round"
	"github.com/jacobpatterson1549/mexican-train/game/tile"
	"github.com/jacobpatterson1549/mexican-train/game/train"
)

type (
	// Match contains the seats and the rounds of a game.
	Match struct {
		id          game.ID
		config      game.Config
		intn        func(n int) int
		status      game.Status
		seats       []Seat
		scores      []int
		roundIndex  int
		roundNumber int
		turn        int
		round       *round.Round
	}

	// Config contains the rules to create similar matches.
	Config struct {
		game.Config
		// IntnFunc returns a uniformly random number in [0,n).  It is used to draw tiles.
		IntnFunc func(n int) int
	}

	// PlayerConfig is used to seat a player.
	PlayerConfig struct {
		// Name is the name of the player.
		Name player.Name
		// StartingScore is the score the player starts with.
		StartingScore int
	}

	// Seat is a place at the match held by a player.
	Seat struct {
		ID            int         `json:"id"`
		Name          player.Name `json:"name"`
		StartingScore int         `json:"startingScore,omitempty"`
	}
)

const (
	// ErrMatchFull is returned when a player tries to join a match with no open seats.
	ErrMatchFull round.Warning = "match is full"
	// ErrNotInProgress is returned when a seat acts while no round is being played.
	ErrNotInProgress round.Warning = "no round is being played"
	// ErrRoundInProgress is returned when starting a round before the current round has ended.
	ErrRoundInProgress round.Warning = "round has not ended"
	// ErrSeatNotFound is returned when acting for a seat that is not in the match.
	ErrSeatNotFound round.Warning = "no seat in match"
	// ErrAlreadySeated is returned when a player tries to join a match twice.
	ErrAlreadySeated round.Warning = "already seated in match"
)

// NewMatch creates a match that waits for players to join.
func (cfg Config) NewMatch(id game.ID) (*Match, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating match: validation: %w", err)
	}
	m := Match{
		id:     id,
		config: cfg.Config,
		intn:   cfg.IntnFunc,
		status: game.NotStarted,
	}
	return &m, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.MaxPip < 0:
		return fmt.Errorf("non-negative max pip value required")
	case cfg.MaxPlayers < 1:
		return fmt.Errorf("positive max player count required")
	case cfg.HandSize < 0:
		return fmt.Errorf("non-negative hand size required")
	case cfg.RoundStep < 1:
		return fmt.Errorf("positive round step required")
	case cfg.StartingRound < 1:
		return fmt.Errorf("positive starting round required")
	case cfg.IntnFunc == nil:
		return fmt.Errorf("random number function required")
	case cfg.MaxPlayers*cfg.HandSize+1 > tile.SetSize(cfg.MaxPip):
		return fmt.Errorf("not enough tiles to deal %v to %v players", cfg.HandSize, cfg.MaxPlayers)
	}
	return nil
}

// Join seats the player at the match.  The match starts when the last seat is taken.
func (m *Match) Join(pc PlayerConfig) (*Seat, []round.Notification, error) {
	switch {
	case len(pc.Name) == 0:
		return nil, nil, fmt.Errorf("player name required")
	case m.status != game.NotStarted, len(m.seats) >= m.config.MaxPlayers:
		return nil, nil, ErrMatchFull
	}
	if _, ok := m.SeatOf(pc.Name); ok {
		return nil, nil, ErrAlreadySeated
	}
	s := Seat{
		ID:            len(m.seats),
		Name:          pc.Name,
		StartingScore: pc.StartingScore,
	}
	m.seats = append(m.seats, s)
	m.scores = append(m.scores, pc.StartingScore)
	notifications := []round.Notification{
		{
			Kind:  round.SeatJoined,
			Views: m.views(),
		},
		{
			Kind: round.Log,
			Text: fmt.Sprintf("%v joined the game", pc.Name),
		},
	}
	if len(m.seats) == m.config.MaxPlayers {
		startNotifications, err := m.start()
		if err != nil {
			m.seats = m.seats[:s.ID]
			m.scores = m.scores[:s.ID]
			return nil, nil, err
		}
		notifications = append(notifications, startNotifications...)
	}
	return &s, notifications, nil
}

// start begins the first round of the full match.  The turn passes once after dealing, so the second seat leads.
// The match is left waiting for players if the round cannot be started.
func (m *Match) start() ([]round.Notification, error) {
	prevRoundIndex := m.roundIndex
	m.roundIndex = (m.config.StartingRound - 1) * m.config.RoundStep
	m.status = game.InProgress
	notifications := []round.Notification{
		{
			Kind:  round.MatchStarted,
			Views: m.views(),
		},
		{
			Kind: round.Log,
			Text: "Game is full, starting now",
		},
	}
	roundNotifications, err := m.StartRound()
	if err != nil {
		m.roundIndex = prevRoundIndex
		m.status = game.NotStarted
		return nil, err
	}
	notifications = append(notifications, roundNotifications...)
	if m.round != nil {
		notifications = append(notifications, m.round.PassTurn())
		m.turn = m.round.Turn()
	}
	return notifications, nil
}

// StartRound starts the next round, finishing the match if the last round has been played.
// The first seat to act is the seat that had the turn when the previous round ended.
func (m *Match) StartRound() ([]round.Notification, error) {
	switch {
	case m.status != game.InProgress:
		return nil, ErrNotInProgress
	case m.round != nil && !m.round.Ended():
		return nil, ErrRoundInProgress
	}
	if m.config.MaxPip-m.roundIndex < 0 {
		m.status = game.Finished
		n := round.Notification{
			Kind:      round.MatchEnded,
			Views:     m.views(),
			Standings: m.Standings(),
		}
		return []round.Notification{n}, nil
	}
	names := make([]player.Name, len(m.seats))
	for i, s := range m.seats {
		names[i] = s.Name
	}
	cfg := round.Config{
		Index:    m.roundIndex,
		Number:   m.roundNumber + 1,
		MaxPip:   m.config.MaxPip,
		HandSize: m.config.HandSize,
		Turn:     m.turn,
		Names:    names,
		Scores:   m.scores,
		IntnFunc: m.intn,
	}
	r, notifications, err := cfg.NewRound()
	if err != nil {
		return nil, fmt.Errorf("starting round %v: %w", cfg.Number, err)
	}
	m.round = r
	m.roundNumber = cfg.Number
	return notifications, nil
}

// Play places a tile from the hand of the seat onto the train.
func (m *Match) Play(seat int, t tile.Tile, id train.ID) ([]round.Notification, error) {
	if err := m.checkAwaitingAction(seat); err != nil {
		return nil, err
	}
	notifications, err := m.round.Play(seat, t, id)
	if err != nil {
		return nil, err
	}
	m.afterAction()
	return notifications, nil
}

// Draw gives the seat a tile from the pool.
func (m *Match) Draw(seat int) ([]round.Notification, error) {
	if err := m.checkAwaitingAction(seat); err != nil {
		return nil, err
	}
	notifications, err := m.round.Draw(seat)
	if err != nil {
		return nil, err
	}
	m.afterAction()
	return notifications, nil
}

// checkAwaitingAction ensures a round is waiting for seats to act.
func (m Match) checkAwaitingAction(seat int) error {
	switch {
	case m.status != game.InProgress, m.round == nil, m.round.Ended():
		return ErrNotInProgress
	case seat < 0, seat >= len(m.seats):
		return ErrSeatNotFound
	}
	return nil
}

// afterAction carries the turn forward and moves down the round ladder if the round ended.
func (m *Match) afterAction() {
	m.turn = m.round.Turn()
	if m.round.Ended() {
		m.roundIndex += m.config.RoundStep
	}
}

// RoundOver determines if the round has ended and StartRound should be called.
func (m Match) RoundOver() bool {
	return m.status == game.InProgress && m.round != nil && m.round.Ended()
}

// View gets the state of the match as the seat sees it.
func (m Match) View(seat int) (*round.View, error) {
	if seat < 0 || seat >= len(m.seats) {
		return nil, ErrSeatNotFound
	}
	v := m.view(seat)
	return &v, nil
}

// view gets the state for the seat, which only has the scores if no round has been started.
func (m Match) view(seat int) round.View {
	if m.round != nil {
		return m.round.View(seat)
	}
	v := round.View{
		Seat: seat,
		State: round.State{
			Round:  m.roundIndex,
			Double: m.config.MaxPip - m.roundIndex,
			Turn:   m.turn,
			Scores: append([]int(nil), m.scores...),
		},
	}
	return v
}

// views gets the view of each seat.
func (m Match) views() []round.View {
	views := make([]round.View, len(m.seats))
	for i := range m.seats {
		views[i] = m.view(i)
	}
	return views
}

// Standings are the scores of each seat.  The seats with the lowest score win.
func (m Match) Standings() []round.Standing {
	if len(m.seats) == 0 {
		return nil
	}
	best := m.scores[0]
	for _, score := range m.scores {
		if score < best {
			best = score
		}
	}
	standings := make([]round.Standing, len(m.seats))
	for i, s := range m.seats {
		standings[i] = round.Standing{
			Seat:   s.ID,
			Name:   s.Name,
			Score:  m.scores[i],
			Winner: m.scores[i] == best,
		}
	}
	return standings
}

// SeatOf gets the seat of the player.
func (m Match) SeatOf(name player.Name) (*Seat, bool) {
	for _, s := range m.seats {
		if s.Name == name {
			s2 := s
			return &s2, true
		}
	}
	return nil, false
}

// Seats gets the seats in the order they were taken.
func (m Match) Seats() []Seat {
	return append([]Seat(nil), m.seats...)
}

// ID is the id of the match.
func (m Match) ID() game.ID {
	return m.id
}

// Status is the state of the match.
func (m Match) Status() game.Status {
	return m.status
}

// RoundNumber is the 1-based number of the current round, or zero if the match has not started.
func (m Match) RoundNumber() int {
	return m.roundNumber
}

// Info gets the information about the match to display in the lobby.
func (m Match) Info() game.Info {
	players := make([]string, len(m.seats))
	for i, s := range m.seats {
		players[i] = string(s.Name)
	}
	config := m.config
	i := game.Info{
		ID:       m.id,
		Status:   m.status,
		Players:  players,
		Capacity: m.config.MaxPlayers,
		Round:    m.roundNumber,
		Config:   &config,
	}
	return i
}
