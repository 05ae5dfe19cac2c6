// Package server implements the HTTP gateway: routing, middleware, and the
// request handlers that call into the ingestion registry.
package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/verran/presenz/internal/config"
	"github.com/verran/presenz/internal/geoip"
	"github.com/verran/presenz/internal/registry"
)

// Server holds the dependencies and configuration required to handle HTTP
// requests. All mutable ingestion state lives in the registry service; the
// server only keeps serving counters of its own.
type Server struct {
	// svc is the ingestion core: rate admission, validation, and the
	// keyed presence store.
	svc *registry.Service

	// geo resolves submitting origins to country codes for logs and
	// aggregate stats. Nil when no GeoIP database is configured.
	geo *geoip.Provider

	// allowedGames is a set of xxhash-hashed game names authorized to
	// submit reports. Empty means any game is accepted.
	allowedGames map[uint64]struct{}

	// countryCounts aggregates accepted submissions per resolved country.
	// Only aggregates are exposed, never per-record origin data.
	countryCounts map[string]int64
	countryMu     sync.Mutex

	// authToken protects the administrative endpoints (stats, delete).
	authToken string

	// expectedCT is the Content-Type prefix required on submissions.
	expectedCT string

	// maxBody caps incoming request body size in bytes.
	maxBody int64

	// readCount and readWindow configure the per-IP limiter guarding the
	// read endpoints.
	readCount  int
	readWindow time.Duration

	// trustProxy enables X-Forwarded-For / CF-Connecting-IP resolution.
	trustProxy bool

	accepted        atomic.Int64
	rejectedLimited atomic.Int64
	rejectedInvalid atomic.Int64
}

// New creates a Server around the ingestion service, optional GeoIP
// provider, and configuration.
func New(svc *registry.Service, geo *geoip.Provider, cfg *config.Config) *Server {
	gameSet := make(map[uint64]struct{})
	for _, game := range cfg.Server.AllowedGames {
		gameSet[xxhash.Sum64String(game)] = struct{}{}
	}

	return &Server{
		svc:           svc,
		geo:           geo,
		allowedGames:  gameSet,
		countryCounts: make(map[string]int64),
		authToken:     cfg.Server.AuthToken,
		expectedCT:    cfg.Server.ContentType,
		maxBody:       cfg.Server.MaxBodySize,
		readCount:     cfg.Limits.ReadCount,
		readWindow:    cfg.Limits.ReadWindow,
		trustProxy:    cfg.Server.TrustProxy,
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/track", http.HandlerFunc(s.handleTrack))
	mux.Handle("GET /api/players", s.ReadLimitMiddleware(http.HandlerFunc(s.handlePlayers)))
	mux.Handle("GET /api/stats", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleStats)))
	mux.Handle("DELETE /api/player", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleDeletePlayer)))

	mux.Handle("GET /", http.HandlerFunc(s.handleIndex))

	return s.RecoverMiddleware(s.LoggingMiddleware(mux))
}

// countCountry resolves the origin's country and bumps its aggregate
// counter. No-op without a GeoIP provider.
func (s *Server) countCountry(ip string) string {
	if s.geo == nil {
		return ""
	}

	code := s.geo.CountryCode(ip)
	if code == "" {
		return ""
	}

	s.countryMu.Lock()
	s.countryCounts[code]++
	s.countryMu.Unlock()

	return code
}
