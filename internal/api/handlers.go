package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rankcore/internal/leaderboard"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

// entryJSON is the wire shape of a leaderboard.Entry.
type entryJSON struct {
	CustomerID int64   `json:"customerId"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

func toEntryJSON(e leaderboard.Entry) entryJSON {
	return entryJSON{CustomerID: e.CustomerID, Score: e.Score.Float64(), Rank: e.Rank}
}

func toEntryJSONSlice(entries []leaderboard.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryJSON(e))
	}
	return out
}

// handleGetByRank serves GET /api/v1/leaderboard?start=&end=
func (h *routerHandlers) handleGetByRank(w http.ResponseWriter, r *http.Request) {
	start, err := parseIntParam(r, "start", 1)
	if err != nil {
		writeError(w, "invalid start", http.StatusBadRequest)
		return
	}
	end, err := parseIntParam(r, "end", 50)
	if err != nil {
		writeError(w, "invalid end", http.StatusBadRequest)
		return
	}

	began := time.Now()
	entries := h.core.GetByRank(start, end)
	RecordRangeQuery(time.Since(began))

	writeJSON(w, map[string]interface{}{
		"entries": toEntryJSONSlice(entries),
	})
}

// handleGetNeighbors serves GET /api/v1/customers/{id}/neighbors?up=&down=
func (h *routerHandlers) handleGetNeighbors(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	up, err := parseIntParam(r, "up", 5)
	if err != nil {
		writeError(w, "invalid up", http.StatusBadRequest)
		return
	}
	down, err := parseIntParam(r, "down", 5)
	if err != nil {
		writeError(w, "invalid down", http.StatusBadRequest)
		return
	}

	began := time.Now()
	entries := h.core.GetNeighbors(id, up, down)
	RecordRangeQuery(time.Since(began))

	writeJSON(w, map[string]interface{}{
		"entries": toEntryJSONSlice(entries),
	})
}

// handleUpdateScore serves POST /api/v1/customers/{id}/score
func (h *routerHandlers) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Delta < -1000 || req.Delta > 1000 {
		writeError(w, "delta out of range [-1000, 1000]", http.StatusBadRequest)
		return
	}

	began := time.Now()
	newScore := h.core.UpdateScore(id, leaderboard.ScoreFromFloat64(req.Delta))
	RecordUpdateScore(time.Since(began))
	UpdateParticipantCount(h.core.Count())

	writeJSON(w, map[string]interface{}{
		"customerId": id,
		"score":      newScore.Float64(),
	})
}

func parseIntParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
