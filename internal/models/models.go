// Package models defines the data structures shared between the ingestion
// registry and the HTTP layer.
package models

import "time"

// PlayerRecord is one reporter's latest self-reported status. All fields
// except LastUpdated are taken verbatim from the submission; LastUpdated is
// stamped by the registry at upsert time. The submitting origin is kept out
// of this struct on purpose so it can never leak through serialization.
type PlayerRecord struct {
	LastUpdated   time.Time `json:"lastUpdated"`
	PlayerName    string    `json:"playerName"`
	DisplayName   string    `json:"displayName"`
	GameName      string    `json:"gameName"`
	PlaceID       string    `json:"placeId"`
	JobID         string    `json:"jobId"`
	CurrentTime   string    `json:"currentTime"`
	Country       string    `json:"country"`
	Executor      string    `json:"executor"`
	Version       string    `json:"version"`
	ServerPlayers int       `json:"serverPlayers"`
	MaxPlayers    int       `json:"maxPlayers"`
}

// Key identifies one tracked record. A reporter may appear in several server
// instances at once, so the player name alone is not unique.
type Key struct {
	PlayerName string
	JobID      string
}

// Key returns the registry identity of the record.
func (r *PlayerRecord) Key() Key {
	return Key{PlayerName: r.PlayerName, JobID: r.JobID}
}
