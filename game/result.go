package game

type (
	// Result is the outcome of a finished match.
	Result struct {
		// ID is unique among all results.
		ID string `json:"id"`
		// GameID is the id the match had while it was running.  Ids are reused after the server restarts.
		GameID ID `json:"gameId"`
		// Rounds is the number of rounds played.
		Rounds int `json:"rounds"`
		// FinishedAt is when the match ended in seconds since the unix epoch.
		FinishedAt int64 `json:"finishedAt"`
		// Players are the final scores in seat order.
		Players []PlayerResult `json:"players"`
	}

	// PlayerResult is the final score of a player.
	PlayerResult struct {
		Name   string `json:"name"`
		Score  int    `json:"score"`
		Winner bool   `json:"winner,omitempty"`
	}
)

// Winners are the names of the players with the lowest score.
func (r Result) Winners() []string {
	var winners []string
	for _, p := range r.Players {
		if p.Winner {
			winners = append(winners, p.Name)
		}
	}
	return winners
}
