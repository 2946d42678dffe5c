package message

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/round"
	"github.com/jacobpatterson1549/mexican-train/game/tile"
	"github.com/jacobpatterson1549/mexican-train/game/train"
)

func TestMessageJSON(t *testing.T) {
	messageJSONTests := []struct {
		m Message
		j string
	}{
		{
			j: `{"type":0}`, // the Type should always be marshalled
		},
		{
			m: Message{Type: 2, Game: &game.Info{ID: 6}},
			j: `{"type":2,"game":{"id":6}}`,
		},
		{
			m: Message{Type: GameLog, Info: "selene joined the game"},
			j: `{"type":18,"info":"selene joined the game"}`,
		},
		{
			m: Message{Type: PlayTile, Game: &game.Info{ID: 3}, Play: &round.Play{Tile: tile.Tile{A: 4, B: 6}, Train: train.HubID}},
			j: `{"type":5,"game":{"id":3},"play":{"seat":0,"tile":"4-6","train":"hub"}}`,
		},
		{
			m: Message{Type: TileGiven, Tile: &tile.Tile{A: 0, B: 12}},
			j: `{"type":12,"tile":"0-12"}`,
		},
		{
			m: Message{Type: MatchEnded, Standings: []round.Standing{{Seat: 1, Name: "fred", Score: 20, Winner: true}}},
			j: `{"type":17,"standings":[{"seat":1,"name":"fred","score":20,"winner":true}]}`,
		},
		{
			m: Message{Type: GameInfos, Games: []game.Info{{ID: 7, Status: 2, Players: []string{"fred", "barney"}, CreatedAt: 1257894000}}},
			j: `{"type":19,"games":[{"id":7,"status":2,"players":["fred","barney"],"createdAt":1257894000}]}`,
		},
		{
			m: Message{Type: CreateGame, Game: &game.Info{Config: &game.Config{MaxPip: 9, MaxPlayers: 4}}},
			j: `{"type":1,"game":{"config":{"maxPip":9,"maxPlayers":4}}}`,
		},
	}
	for i, test := range messageJSONTests {
		j2, err := json.Marshal(test.m)
		switch {
		case err != nil:
			t.Errorf("Test %v (Marshal): unwanted error while marshalling Message '%v': %v", i, test.m, err)
		case test.j != string(j2):
			t.Errorf("Test %v (Marshal): wanted json to be:\n%v\nbut was:\n%v", i, test.j, string(j2))
		}
		var m2 Message
		err = json.Unmarshal([]byte(test.j), &m2)
		switch {
		case err != nil:
			t.Errorf("Test %v (Unmarshal): unwanted error while unmarshalling json '%v': %v", i, test.j, err)
		case !reflect.DeepEqual(test.m, m2):
			t.Errorf("Test %v (Unmarshal): wanted Message to be:\n%v\nbut was:\n%v", i, test.m, m2)
		}
	}
}

func TestMessageMarshalOmitsInternals(t *testing.T) {
	m := Message{PlayerName: "selene", Addr: "c0ffee", AddSocketRequest: new(AddSocketRequest)}
	want := []byte(`{"type":0}`)
	got, err := json.Marshal(m)
	switch {
	case err != nil:
		t.Errorf("unwanted error: %v", err)
	case !reflect.DeepEqual(want, got):
		t.Errorf("wanted %v, got %v", string(want), string(got))
	}
}

func TestTypeOrder(t *testing.T) {
	if PlayerRemove != 26 {
		t.Errorf("wanted PlayerRemove to be the 26th message type, got %v", int(PlayerRemove))
	}
}
