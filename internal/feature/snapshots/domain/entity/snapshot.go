// Package entity defines the domain models for the snapshots feature.
package entity

import "time"

// Snapshot is one pre-computed CSV export held by the backend: the raw
// bytes as served by the origin, plus bookkeeping for refreshes.
type Snapshot struct {
	Name      string    // File name at the origin (e.g. "rs_rank.csv")
	DataType  string    // Generator hint passed by refresh callers (e.g. "ranking")
	Body      []byte    // Raw CSV bytes, exactly as fetched
	FetchedAt time.Time // When Body was last fetched from the origin
}
