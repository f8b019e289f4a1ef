// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/warcut/internal/domain/gap"
)

// Time layouts used when rendering epoch seconds for humans. All times are UTC.
const (
	ClockLayout     = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Chain is one scored session of consecutive hits.
type Chain struct {
	ID        string
	StartedAt int64 // epoch seconds
	EndedAt   int64 // epoch seconds
}

// Action is a single hit reported by the game API.
type Action struct {
	ID           string // attack code, unique per hit
	ChainID      string
	ActorID      string
	TargetGroup  string
	EndedAt      int64 // epoch seconds
	ChainCounter int   // position in the global chain sequence when the hit landed

	// GapBucket is the gap to the preceding hit in the same chain. Unset for
	// the first hit of a chain and when the gap was out of range.
	GapBucket gap.Bucket
}

// War is the conflict that defines the scoring window and the opposing group.
type War struct {
	ID              string
	StartedAt       int64
	EndedAt         int64
	OpposingFaction string
}

// Penalty records a milestone hit that landed outside the opposing faction.
type Penalty struct {
	ChainID      string
	ActorID      string
	ChainCounter int
	HitNumber    int // 1-based position in the actor's own sequence in the chain
	Timestamp    int64
}

// FormatClock renders epoch seconds as HH:MM:SS in UTC.
func FormatClock(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(ClockLayout)
}

// FormatTimestamp renders epoch seconds as YYYY-MM-DD HH:MM:SS in UTC.
func FormatTimestamp(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(TimestampLayout)
}
