package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/verran/presenz/internal/registry"
)

// handleTrack processes one incoming player report. It resolves the client
// origin, enforces transport-level checks (Content-Type, body size, game
// whitelist), then hands the payload to the registry service which applies
// rate admission, validation and the upsert.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	ip := GetRealIP(r, s.trustProxy)

	ct := r.Header.Get("Content-Type")
	if s.expectedCT != "" && !strings.HasPrefix(ct, s.expectedCT) {
		log.Debug().
			Str("ip", ip).
			Str("content_type", ct).
			Str("expected", s.expectedCT).
			Msg("Invalid Content-Type")

		respondError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Debug().
			Err(err).
			Str("ip", ip).
			Msg("Invalid JSON")

		s.rejectedInvalid.Add(1)
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(s.allowedGames) > 0 {
		game, _ := payload["gameName"].(string)
		if _, allowed := s.allowedGames[xxhash.Sum64String(game)]; !allowed {
			log.Debug().
				Str("ip", ip).
				Str("game", game).
				Msg("Game not in whitelist")

			respondError(w, http.StatusForbidden, "unknown game")
			return
		}
	}

	if err := s.svc.Submit(ip, payload, time.Now()); err != nil {
		s.respondSubmitError(w, ip, err)
		return
	}

	s.accepted.Add(1)
	country := s.countCountry(ip)

	log.Debug().
		Str("ip", ip).
		Str("country", country).
		Msg("Report accepted")

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondSubmitError maps registry rejections to transport status codes:
// 429 for rate limiting, 400 for caller input errors, generic 500 for
// anything unexpected.
func (s *Server) respondSubmitError(w http.ResponseWriter, ip string, err error) {
	var missingErr *registry.MissingFieldError
	var numericErr *registry.NotNumericError

	switch {
	case errors.Is(err, registry.ErrRateLimited):
		s.rejectedLimited.Add(1)
		log.Debug().Str("ip", ip).Msg("Report rate limited")
		respondError(w, http.StatusTooManyRequests, "too many requests")

	case errors.As(err, &missingErr), errors.As(err, &numericErr):
		s.rejectedInvalid.Add(1)
		log.Debug().Str("ip", ip).Str("reason", err.Error()).Msg("Report rejected")
		respondError(w, http.StatusBadRequest, err.Error())

	default:
		log.Error().Err(err).Str("ip", ip).Msg("Report processing failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
