// Package seat tracks which socket shows each seat of a match.
package seat

import (
	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/message"
	"github.com/jacobpatterson1549/mexican-train/game/player"
)

type (
	// Directory maps socket handles to the seats they show.
	// A player can show a match on at most one socket.  Each socket shows at most one match.
	// The directory is not safe for concurrent use, it should be owned by the socket runner.
	Directory struct {
		entries map[message.Addr]Entry
		handles map[player.Name]map[game.ID]message.Addr
	}

	// Entry is the seat a socket shows.
	Entry struct {
		// GameID is the id of the match.
		GameID game.ID
		// Seat is the index of the seat in the match.
		Seat int
		// PlayerName is the player who is seated.
		PlayerName player.Name
	}
)

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	d := Directory{
		entries: make(map[message.Addr]Entry),
		handles: make(map[player.Name]map[game.ID]message.Addr),
	}
	return &d
}

// Assign makes the socket show the seat, replacing any match the socket showed before.
// If the player showed the match on a different socket, that socket is released and returned.
func (d *Directory) Assign(addr message.Addr, e Entry) (previous message.Addr, replaced bool) {
	d.Release(addr)
	if prev, ok := d.Handle(e.PlayerName, e.GameID); ok {
		d.Release(prev)
		previous, replaced = prev, true
	}
	d.entries[addr] = e
	games, ok := d.handles[e.PlayerName]
	if !ok {
		games = make(map[game.ID]message.Addr, 1)
		d.handles[e.PlayerName] = games
	}
	games[e.GameID] = addr
	return previous, replaced
}

// Lookup gets the seat the socket shows.
func (d Directory) Lookup(addr message.Addr) (Entry, bool) {
	e, ok := d.entries[addr]
	return e, ok
}

// Handle gets the socket that shows the match for the player.
func (d Directory) Handle(pn player.Name, id game.ID) (message.Addr, bool) {
	addr, ok := d.handles[pn][id]
	return addr, ok
}

// Release stops the socket from showing a match.  The released entry is returned, if any.
func (d *Directory) Release(addr message.Addr) (Entry, bool) {
	e, ok := d.entries[addr]
	if !ok {
		return e, false
	}
	delete(d.entries, addr)
	games := d.handles[e.PlayerName]
	delete(games, e.GameID)
	if len(games) == 0 {
		delete(d.handles, e.PlayerName)
	}
	return e, true
}

// ReleaseGame releases all sockets that show the match.
func (d *Directory) ReleaseGame(id game.ID) []message.Addr {
	var addrs []message.Addr
	for addr, e := range d.entries {
		if e.GameID == id {
			addrs = append(addrs, addr)
		}
	}
	for _, addr := range addrs {
		d.Release(addr)
	}
	return addrs
}

// ReleasePlayer releases all sockets of the player.
func (d *Directory) ReleasePlayer(pn player.Name) []message.Addr {
	games := d.handles[pn]
	addrs := make([]message.Addr, 0, len(games))
	for _, addr := range games {
		addrs = append(addrs, addr)
	}
	for _, addr := range addrs {
		d.Release(addr)
	}
	return addrs
}

// Len is the number of sockets that show a seat.
func (d Directory) Len() int {
	return len(d.entries)
}
