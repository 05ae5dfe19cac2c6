package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/verran/presenz/assets"
	"github.com/verran/presenz/internal/models"
	"github.com/verran/presenz/internal/vars"
)

// handleIndex serves the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, _ := assets.ReadFile("index.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}

// handlePlayers returns the sanitized registry snapshot as a JSON array.
// Records never carry the submitting origin.
func (s *Server) handlePlayers(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.List())
}

// statsResponse is the payload of the admin stats endpoint. Country counts
// are aggregates of accepted submissions; no per-record origin data.
type statsResponse struct {
	Countries       map[string]int64 `json:"countries,omitempty"`
	Build           vars.BuildInfo   `json:"build"`
	Records         int              `json:"records"`
	RateWindows     int              `json:"rate_windows"`
	Accepted        int64            `json:"accepted"`
	RejectedLimited int64            `json:"rejected_rate_limited"`
	RejectedInvalid int64            `json:"rejected_invalid"`
}

// handleStats returns registry and limiter table sizes, serving counters,
// per-country submission aggregates, and build info.
// This endpoint is protected by AdminAuthMiddleware.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	records, windows := s.svc.Counts()

	s.countryMu.Lock()
	countries := make(map[string]int64, len(s.countryCounts))
	for code, n := range s.countryCounts {
		countries[code] = n
	}
	s.countryMu.Unlock()

	respondJSON(w, http.StatusOK, statsResponse{
		Countries:       countries,
		Build:           vars.Info(),
		Records:         records,
		RateWindows:     windows,
		Accepted:        s.accepted.Load(),
		RejectedLimited: s.rejectedLimited.Load(),
		RejectedInvalid: s.rejectedInvalid.Load(),
	})
}

// handleDeletePlayer removes a specific record from the registry.
// Query params: ?playerName=A&jobId=J1
func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerName := r.URL.Query().Get("playerName")
	jobID := r.URL.Query().Get("jobId")

	if playerName == "" || jobID == "" {
		respondError(w, http.StatusBadRequest, "missing required params (playerName, jobId)")
		return
	}

	key := models.Key{PlayerName: playerName, JobID: jobID}
	if !s.svc.Delete(key) {
		http.NotFound(w, r)
		return
	}

	log.Info().
		Str("player", playerName).
		Str("job", jobID).
		Msg("Record deleted manually")

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Record deleted"})
}
