package registry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verran/presenz/internal/models"
)

func TestRegistryUpsertReplaces(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	rec := models.PlayerRecord{PlayerName: "A", JobID: "J1", ServerPlayers: 5, MaxPlayers: 10}
	r.Upsert(rec, "1.2.3.4", now)

	rec.ServerPlayers = 6
	r.Upsert(rec, "1.2.3.4", now.Add(time.Second))

	require.Equal(t, 1, r.Len(), "same identity key must not duplicate")

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 6, snap[0].ServerPlayers)
	assert.Equal(t, now.Add(time.Second), snap[0].LastUpdated)
}

func TestRegistryKeyIsPlayerAndJob(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	r.Upsert(models.PlayerRecord{PlayerName: "A", JobID: "J1"}, "1.1.1.1", now)
	r.Upsert(models.PlayerRecord{PlayerName: "A", JobID: "J2"}, "1.1.1.1", now)
	r.Upsert(models.PlayerRecord{PlayerName: "B", JobID: "J1"}, "2.2.2.2", now)

	assert.Equal(t, 3, r.Len())
}

func TestSnapshotSanitizesWithoutMutating(t *testing.T) {
	r := NewRegistry()
	rec := models.PlayerRecord{PlayerName: "A", JobID: "J1", DisplayName: "<script>"}
	r.Upsert(rec, "1.2.3.4", time.Now())

	for i := 0; i < 3; i++ {
		snap := r.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "&lt;script&gt;", snap[0].DisplayName, "export %d", i+1)
	}

	// Stored record keeps the raw value
	r.mu.RLock()
	stored := r.entries[models.Key{PlayerName: "A", JobID: "J1"}].record
	r.mu.RUnlock()
	assert.Equal(t, "<script>", stored.DisplayName)
}

func TestSnapshotNeverExportsOrigin(t *testing.T) {
	r := NewRegistry()
	r.Upsert(models.PlayerRecord{PlayerName: "A", JobID: "J1"}, "203.0.113.7", time.Now())

	data, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "203.0.113.7")
	assert.NotContains(t, string(data), "origin")
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry()
	key := models.Key{PlayerName: "A", JobID: "J1"}

	assert.False(t, r.Delete(key), "deleting an absent key reports false")

	r.Upsert(models.PlayerRecord{PlayerName: "A", JobID: "J1"}, "1.2.3.4", time.Now())
	assert.True(t, r.Delete(key))
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepBefore(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	r.Upsert(models.PlayerRecord{PlayerName: "stale", JobID: "J1"}, "1.1.1.1", now.Add(-2*time.Hour))
	r.Upsert(models.PlayerRecord{PlayerName: "fresh", JobID: "J1"}, "2.2.2.2", now)

	removed := r.SweepBefore(now.Add(-time.Hour))
	assert.Equal(t, 1, removed)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "fresh", snap[0].PlayerName)
}

func TestSanitizeIdempotent(t *testing.T) {
	rec := models.PlayerRecord{DisplayName: "a < b > c", Executor: "plain"}

	once := Sanitize(rec)
	assert.Equal(t, "a &lt; b &gt; c", once.DisplayName)
	assert.Equal(t, "plain", once.Executor)
	assert.Equal(t, once, Sanitize(once))
}
