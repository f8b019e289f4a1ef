// Package repository keeps the latest scoring report and serves rankings
// derived from it.
package repository

import (
	"context"
	"time"

	"github.com/okian/warcut/internal/domain/report"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank    int
	ActorID string
	Hits    int
	Points  float64
	Cut     float64
}

// Snapshot is a stored report with its run metadata.
type Snapshot struct {
	RunID    string
	StoredAt time.Time
	Report   *report.Report
}

// Store provides read/write access to the latest report.
type Store interface {
	// Put replaces the stored report.
	Put(ctx context.Context, runID string, r *report.Report) error

	// Latest returns the stored report or ErrNoReport.
	Latest(ctx context.Context) (Snapshot, error)

	// Rank returns the leaderboard row of an actor.
	// Returns ErrNotFound if the actor is unknown.
	Rank(ctx context.Context, actorID string) (Entry, error)

	// TopN returns the top-N entries ordered by total points desc, then actor id.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of actors in the stored report.
	Count(ctx context.Context) int
}
