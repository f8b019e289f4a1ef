// Package cut distributes a reward pool across actors in proportion to their
// chain points, reserving a group share proportional to total hits.
package cut

import (
	"fmt"
	"math"

	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/summary"
)

// Distribution constants.
const (
	// Tolerance bounds how far the sum of all cuts may drift from 1.
	Tolerance = 1e-6
	// HitsPerGroupPoint converts total hits into group points.
	HitsPerGroupPoint = 2.0

	GroupLabel  = "GROUP"
	TotalsLabel = "TOTALS"
)

// Row is an actor summary with its share of the pool.
type Row struct {
	summary.Row
	Cut float64
}

// Group is the aggregate share not attributed to any actor.
type Group struct {
	Points float64
	Cut    float64
}

// Totals holds the column-wise sums over actor rows and the group row.
type Totals struct {
	Hits     int
	Buckets  [len(gap.All)]summary.Pair
	FirstTen summary.Pair
	Base     float64
	Penalty  float64
	Bonus    float64
	Points   float64
	Cut      float64
}

// Table is the final distribution.
type Table struct {
	Actors []Row
	Group  Group
	Totals Totals
}

// Distribute computes every actor's cut and the group cut, then verifies the
// cuts sum to one. A violation is returned as ErrIntegrity and must abort the
// run; it is never corrected here.
func Distribute(rows []summary.Row, totalHits int) (Table, error) {
	groupPoints := float64(totalHits) / HitsPerGroupPoint

	actorPoints := 0.0
	for _, r := range rows {
		actorPoints += r.Points.Total
	}

	denominator := actorPoints + groupPoints
	if denominator == 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return Table{}, fmt.Errorf("%w: point denominator is %v", ErrIntegrity, denominator)
	}

	t := Table{
		Actors: make([]Row, len(rows)),
		Group: Group{
			Points: groupPoints,
			Cut:    groupPoints / denominator,
		},
	}
	for i, r := range rows {
		t.Actors[i] = Row{Row: r, Cut: r.Points.Total / denominator}
	}
	t.Totals = sumColumns(t)

	if err := Verify(t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Verify checks that actor cuts plus the group cut sum to one within
// Tolerance.
func Verify(t Table) error {
	sum := t.Group.Cut
	for _, r := range t.Actors {
		sum += r.Cut
	}
	if math.IsNaN(sum) || math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("%w: total cut is %v instead of 1", ErrIntegrity, sum)
	}
	return nil
}

func sumColumns(t Table) Totals {
	var tot Totals
	for _, r := range t.Actors {
		tot.Hits += r.Hits
		for i := range r.Buckets {
			tot.Buckets[i] = tot.Buckets[i].Add(r.Buckets[i])
		}
		tot.FirstTen = tot.FirstTen.Add(r.FirstTen)
		tot.Base += r.Points.Base
		tot.Penalty += r.Points.Penalty
		tot.Bonus += r.Points.Bonus
		tot.Points += r.Points.Total
		tot.Cut += r.Cut
	}
	tot.Points += t.Group.Points
	tot.Cut += t.Group.Cut
	return tot
}
