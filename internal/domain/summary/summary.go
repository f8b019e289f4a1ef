// Package summary folds classified hits and chain points into one row per
// actor.
package summary

import (
	"slices"

	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/internal/domain/scoring"
)

// Row is the per-actor summary before cuts are distributed.
type Row struct {
	ActorID string
	Hits    int
	// Buckets holds one pair per gap bucket, in gap.All order. Only hits past
	// the warm-up counter with a classified gap are counted.
	Buckets [len(gap.All)]Pair
	// FirstTen counts hits with a chain counter of ten or less.
	FirstTen Pair
	Points   scoring.Points
}

// Aggregate builds one row per actor seen in actions or points, sorted by
// actor id. Hits on opposing are counted into each pair's sub-count.
func Aggregate(actions []model.Action, points map[string]scoring.Points, opposing string) []Row {
	rows := make(map[string]*Row)
	row := func(actor string) *Row {
		r, ok := rows[actor]
		if !ok {
			r = &Row{ActorID: actor}
			rows[actor] = r
		}
		return r
	}

	for _, a := range actions {
		r := row(a.ActorID)
		r.Hits++

		credit := Pair{Total: 1}
		if opposing != "" && a.TargetGroup == opposing {
			credit.Sub = 1
		}

		switch {
		case a.ChainCounter <= scoring.WarmupHits:
			r.FirstTen = r.FirstTen.Add(credit)
		case a.GapBucket.IsSet():
			i := a.GapBucket.Index()
			r.Buckets[i] = r.Buckets[i].Add(credit)
		}
	}

	for actor, p := range points {
		row(actor).Points = p
	}

	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Row, 0, len(ids))
	for _, id := range ids {
		out = append(out, *rows[id])
	}
	return out
}

// TotalHits sums the hit counts of rows.
func TotalHits(rows []Row) int {
	n := 0
	for _, r := range rows {
		n += r.Hits
	}
	return n
}
