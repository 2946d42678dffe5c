package server

import (
	"net/http"
	"strconv"

	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

// rulesHandler writes the rules and configuration of new games.
func rulesHandler(cfg game.Config, log log.Logger) http.HandlerFunc {
	data := struct {
		Rules  []string    `json:"rules"`
		Config game.Config `json:"config"`
		Rounds int         `json:"rounds"`
	}{
		Rules:  cfg.Rules(),
		Config: cfg,
		Rounds: cfg.Rounds(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, data, log)
	}
}

// historyHandler writes recently finished match results.
// The results of a single player are written if the player form value is set.
// The n form value limits the number of results.
func historyHandler(history History, limit int, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := limit
		if s := r.FormValue("n"); len(s) != 0 {
			i, err := strconv.Atoi(s)
			if err != nil || i <= 0 {
				http.Error(w, "n must be a positive number", http.StatusBadRequest)
				return
			}
			if i < n {
				n = i
			}
		}
		var results []game.Result
		var err error
		ctx := r.Context()
		switch player := r.FormValue("player"); {
		case len(player) != 0:
			results, err = history.PlayerResults(ctx, player, n)
		default:
			results, err = history.Recent(ctx, n)
		}
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		writeJSON(w, results, log)
	}
}

// healthHandler checks that the history store can be reached.
func healthHandler(history History, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := history.Ping(r.Context()); err != nil {
			log.Printf("health check: %v", err)
			httpError(w, http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}
