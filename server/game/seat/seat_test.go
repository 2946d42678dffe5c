package seat

import (
	"reflect"
	"sort"
	"testing"

	"github.com/jacobpatterson1549/mexican-train/game/message"
)

func TestAssign(t *testing.T) {
	d := NewDirectory()
	e1 := Entry{GameID: 1, Seat: 0, PlayerName: "selene"}
	if _, replaced := d.Assign("a", e1); replaced {
		t.Errorf("wanted first assignment to not replace a socket")
	}
	if got, ok := d.Lookup("a"); !ok || got != e1 {
		t.Errorf("wanted %v, got %v", e1, got)
	}
	if got, ok := d.Handle("selene", 1); !ok || got != "a" {
		t.Errorf("wanted handle a, got %v", got)
	}
	previous, replaced := d.Assign("b", e1)
	switch {
	case !replaced, previous != "a":
		t.Errorf("wanted socket a to be replaced, got %q (%v)", previous, replaced)
	case d.Len() != 1:
		t.Errorf("wanted only one socket to show the seat, got %v", d.Len())
	}
	if _, ok := d.Lookup("a"); ok {
		t.Errorf("wanted replaced socket to be released")
	}
	e2 := Entry{GameID: 2, Seat: 3, PlayerName: "selene"}
	if _, replaced := d.Assign("b", e2); replaced {
		t.Errorf("wanted moving a socket to a different match to not replace a socket")
	}
	if _, ok := d.Handle("selene", 1); ok {
		t.Errorf("wanted socket to stop showing the first match")
	}
	if got, _ := d.Lookup("b"); got != e2 {
		t.Errorf("wanted %v, got %v", e2, got)
	}
}

func TestRelease(t *testing.T) {
	releaseTests := []struct {
		release func(d *Directory) []message.Addr
		want    []message.Addr
		wantLen int
	}{
		{
			release: func(d *Directory) []message.Addr {
				if _, ok := d.Release("unknown"); ok {
					return []message.Addr{"unknown"}
				}
				return nil
			},
			wantLen: 3,
		},
		{
			release: func(d *Directory) []message.Addr {
				e, ok := d.Release("b")
				if !ok || e.PlayerName != "bananas" {
					return nil
				}
				return []message.Addr{"b"}
			},
			want:    []message.Addr{"b"},
			wantLen: 2,
		},
		{
			release: func(d *Directory) []message.Addr {
				return d.ReleaseGame(1)
			},
			want:    []message.Addr{"a", "b"},
			wantLen: 1,
		},
		{
			release: func(d *Directory) []message.Addr {
				return d.ReleasePlayer("selene")
			},
			want:    []message.Addr{"a", "c"},
			wantLen: 1,
		},
		{
			release: func(d *Directory) []message.Addr {
				return d.ReleasePlayer("fred")
			},
			want:    []message.Addr{},
			wantLen: 3,
		},
	}
	for i, test := range releaseTests {
		d := NewDirectory()
		d.Assign("a", Entry{GameID: 1, Seat: 0, PlayerName: "selene"})
		d.Assign("b", Entry{GameID: 1, Seat: 1, PlayerName: "bananas"})
		d.Assign("c", Entry{GameID: 2, Seat: 0, PlayerName: "selene"})
		got := test.release(d)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		switch {
		case !reflect.DeepEqual(test.want, got):
			t.Errorf("Test %v: wanted released sockets %v, got %v", i, test.want, got)
		case test.wantLen != d.Len():
			t.Errorf("Test %v: wanted %v sockets left, got %v", i, test.wantLen, d.Len())
		}
		for _, addr := range got {
			if e, ok := d.Lookup(addr); ok {
				if h, ok := d.Handle(e.PlayerName, e.GameID); ok && h == addr {
					t.Errorf("Test %v: wanted socket %v to be released", i, addr)
				}
			}
		}
	}
}
