package registry

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/verran/presenz/internal/models"
)

// ErrRateLimited is returned by Submit when the origin exceeded its window.
var ErrRateLimited = errors.New("rate limited")

// Config carries the tunables the core accepts from its caller. The core
// never reads flags or environment itself.
type Config struct {
	// MaxRequests is the number of submissions one origin may make per window.
	MaxRequests int

	// Window is the fixed rate-limit window duration.
	Window time.Duration

	// RecordTTL evicts records not refreshed within this duration.
	// Zero disables record eviction.
	RecordTTL time.Duration

	// SweepInterval is how often the background sweeper runs.
	SweepInterval time.Duration
}

// Service wires the limiter, validator and store into the two operations the
// HTTP layer calls. It owns all mutable ingestion state; nothing here is
// package-global.
type Service struct {
	limiter   *Limiter
	registry  *Registry
	shutdown  chan struct{}
	window    time.Duration
	recordTTL time.Duration
	sweepTick time.Duration
}

// New creates a ready-to-use ingestion service.
func New(cfg Config) *Service {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = 10 * time.Second
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	return &Service{
		limiter:   NewLimiter(cfg.MaxRequests, cfg.Window),
		registry:  NewRegistry(),
		shutdown:  make(chan struct{}),
		window:    cfg.Window,
		recordTTL: cfg.RecordTTL,
		sweepTick: cfg.SweepInterval,
	}
}

// Submit runs the full ingestion pipeline for one report: rate admission,
// validation, then upsert. The limiter window advances even when the request
// is rejected; validation failures leave the registry untouched.
func (s *Service) Submit(origin string, payload map[string]any, now time.Time) error {
	if !s.limiter.Admit(origin, now) {
		return ErrRateLimited
	}

	if err := Validate(payload); err != nil {
		return err
	}

	s.registry.Upsert(recordFromPayload(payload), origin, now)

	return nil
}

// List returns the sanitized, origin-stripped snapshot of every record.
func (s *Service) List() []models.PlayerRecord {
	return s.registry.Snapshot()
}

// Delete removes one record by its identity key.
func (s *Service) Delete(key models.Key) bool {
	return s.registry.Delete(key)
}

// Counts returns the current registry and rate-window table sizes.
func (s *Service) Counts() (records, windows int) {
	return s.registry.Len(), s.limiter.Len()
}

// StartSweeper launches the background eviction loop. Rate windows for
// origins that stopped reporting are always reclaimed; records are evicted
// only when a TTL is configured.
func (s *Service) StartSweeper() {
	go s.sweepLoop()
}

// StopSweeper terminates the background eviction loop.
func (s *Service) StopSweeper() {
	close(s.shutdown)
}

func (s *Service) sweepLoop() {
	ticker := time.NewTicker(s.sweepTick)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			now := time.Now()

			if n := s.limiter.SweepBefore(now.Add(-s.window)); n > 0 {
				log.Debug().Int("windows", n).Msg("Swept stale rate windows")
			}

			if s.recordTTL > 0 {
				if n := s.registry.SweepBefore(now.Add(-s.recordTTL)); n > 0 {
					log.Info().Int("records", n).Msg("Evicted stale player records")
				}
			}
		}
	}
}

// recordFromPayload converts a validated submission into a stored record.
// Player counts reuse the lenient leading-prefix parse from validation, so
// a value that passed Validate always converts.
func recordFromPayload(p map[string]any) models.PlayerRecord {
	serverPlayers, _ := leadingInt(fieldString(p["serverPlayers"]))
	maxPlayers, _ := leadingInt(fieldString(p["maxPlayers"]))

	return models.PlayerRecord{
		PlayerName:    fieldString(p["playerName"]),
		DisplayName:   fieldString(p["displayName"]),
		GameName:      fieldString(p["gameName"]),
		PlaceID:       fieldString(p["placeId"]),
		JobID:         fieldString(p["jobId"]),
		CurrentTime:   fieldString(p["currentTime"]),
		Country:       fieldString(p["country"]),
		Executor:      fieldString(p["executor"]),
		Version:       fieldString(p["version"]),
		ServerPlayers: serverPlayers,
		MaxPlayers:    maxPlayers,
	}
}
