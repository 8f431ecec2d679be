package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"leagueboard/internal/board"
	"leagueboard/internal/espn"
	"leagueboard/internal/room"
	"leagueboard/internal/store"
)

const teamsNotArrayMessage = `Invalid payload: "teams" must be an array`

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// GetData returns the current board document.
func GetData(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan room.Result, 1)
		rm.Inbox() <- room.Get{Reply: reply}
		res := <-reply
		if res.Err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load data")
			return
		}
		writeJSON(w, http.StatusOK, res.Doc)
	}
}

// PostData replaces the team list and answers with the saved document. The
// two 400 shapes are distinct: a body that is not JSON at all, versus valid
// JSON whose teams field is missing or not an array.
func PostData(rm *room.Room, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		var payload struct {
			Teams json.RawMessage `json:"teams"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			if !json.Valid(body) {
				writeError(w, http.StatusBadRequest, "Invalid JSON body")
			} else {
				// Parses as JSON but not as an object, so teams is absent.
				writeError(w, http.StatusBadRequest, teamsNotArrayMessage)
			}
			return
		}

		reply := make(chan room.Result, 1)
		rm.Inbox() <- room.Update{Teams: payload.Teams, Reply: reply}
		res := <-reply
		if res.Err != nil {
			if errors.Is(res.Err, board.ErrTeamsNotArray) {
				writeError(w, http.StatusBadRequest, teamsNotArrayMessage)
				return
			}
			log.Error("save failed", zap.Error(res.Err))
			writeError(w, http.StatusInternalServerError, "Failed to save data")
			return
		}
		writeJSON(w, http.StatusOK, res.Doc)
	}
}

// LiveScores serves the fantasy scoring report.
func LiveScores(rep *espn.Reporter, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := rep.Current(r.Context())
		if err != nil {
			log.Error("live scores refresh failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, liveScoresResponse{
			Success:       true,
			Players:       report.Players,
			GamesCount:    report.GamesCount,
			AllGamesFinal: report.AllGamesFinal,
			Games:         report.Games,
		})
	}
}

type liveScoresResponse struct {
	Success       bool                        `json:"success"`
	Players       map[string]espn.PlayerScore `json:"players"`
	GamesCount    int                         `json:"gamesCount"`
	AllGamesFinal bool                        `json:"allGamesFinal"`
	Games         []espn.GameStatus           `json:"games"`
}

// Healthz reports whether the process and its storage are reachable.
func Healthz(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "db_error",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
