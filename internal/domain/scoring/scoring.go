// Package scoring computes chain points per actor: a flat warm-up rate, a
// gap-based schedule after warm-up, an opposing-faction bonus, milestone
// penalties and a once-per-chain duration and participation bonus.
package scoring

import (
	"cmp"
	"slices"

	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/internal/domain/timeline"
)

// Scoring constants.
const (
	WarmupHits         = 10
	WarmupPoints       = 2.0
	TargetBonus        = 0.5
	MilestonePenalty   = -10.0
	ParticipationBonus = 5.0
	DurationStep       = 600 // seconds per duration bonus step
	DurationStepPoints = 2.0
)

// Schedule is the base value of a post-warm-up hit by gap bucket. Buckets
// missing from the schedule, including gap.Unset, earn nothing.
type Schedule map[gap.Bucket]float64

// DefaultSchedule rewards slower, riskier hits that keep the chain alive.
func DefaultSchedule() Schedule {
	return Schedule{
		gap.UnderOneMinute:     1,
		gap.OneToTwoMinutes:    2,
		gap.TwoToThreeMinutes:  3,
		gap.ThreeToFourMinutes: 5,
		gap.FourToFiveMinutes:  8,
	}
}

// IsMilestone reports whether a chain counter value is a bonus hit.
func IsMilestone(counter int) bool {
	switch counter {
	case 10, 25, 50:
		return true
	}
	return false
}

// Tally is the point breakdown of one actor in one chain.
type Tally struct {
	ActorID string
	ChainID string
	Hits    int
	Base    float64 // base and target bonus over all hits
	Penalty float64
	Bonus   float64
}

// Total returns base plus penalties plus the chain bonus.
func (t Tally) Total() float64 {
	return t.Base + t.Penalty + t.Bonus
}

// Points accumulates an actor's tallies across chains.
type Points struct {
	Base    float64
	Penalty float64
	Bonus   float64
	Total   float64
}

// Add folds a tally into p.
func (p Points) Add(t Tally) Points {
	p.Base += t.Base
	p.Penalty += t.Penalty
	p.Bonus += t.Bonus
	p.Total += t.Total()
	return p
}

// Result is the outcome of scoring a full action set.
type Result struct {
	// Actors maps actor id to accumulated points.
	Actors map[string]Points
	// Tallies lists every actor×chain tally, ordered by actor then chain.
	Tallies []Tally
	// Penalties lists every milestone penalty in the same order.
	Penalties []model.Penalty
}

// Calculator scores chain hits for one war.
type Calculator struct {
	opposing string
	schedule Schedule
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		schedule: DefaultSchedule(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// OpposingFaction returns the group whose hits earn the target bonus.
func (c *Calculator) OpposingFaction() string {
	return c.opposing
}

// ScoreChain scores one actor's hits within one chain. Hits must be sorted by
// EndedAt ascending; hit numbers follow that order.
func (c *Calculator) ScoreChain(actorID, chainID string, hits []model.Action) (Tally, []model.Penalty) {
	t := Tally{ActorID: actorID, ChainID: chainID, Hits: len(hits)}
	if len(hits) == 0 {
		return t, nil
	}

	var penalties []model.Penalty
	for i, hit := range hits {
		number := i + 1

		base := WarmupPoints
		if number > WarmupHits {
			base = c.schedule[hit.GapBucket]
		}

		onTarget := c.opposing != "" && hit.TargetGroup == c.opposing
		if onTarget {
			base += TargetBonus
		}
		t.Base += base

		if IsMilestone(hit.ChainCounter) && !onTarget {
			t.Penalty += MilestonePenalty
			penalties = append(penalties, model.Penalty{
				ChainID:      chainID,
				ActorID:      actorID,
				ChainCounter: hit.ChainCounter,
				HitNumber:    number,
				Timestamp:    hit.EndedAt,
			})
		}
	}

	duration := hits[len(hits)-1].EndedAt - hits[0].EndedAt
	t.Bonus = DurationStepPoints*float64(duration/DurationStep) + ParticipationBonus

	return t, penalties
}

// Score groups hits by actor and chain, scores every group and accumulates
// per-actor totals. Hits whose chain is not in valid are skipped. Group
// order is actor id, then chain id, so results do not depend on input order.
func (c *Calculator) Score(actions []model.Action, valid map[string]struct{}) Result {
	type key struct{ actor, chain string }

	groups := make(map[key][]model.Action)
	for _, a := range actions {
		if _, ok := valid[a.ChainID]; !ok {
			continue
		}
		k := key{actor: a.ActorID, chain: a.ChainID}
		groups[k] = append(groups[k], a)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(a.actor, b.actor); c != 0 {
			return c
		}
		return cmp.Compare(a.chain, b.chain)
	})

	res := Result{Actors: make(map[string]Points)}
	for _, k := range keys {
		hits := groups[k]
		slices.SortStableFunc(hits, timeline.CompareHits)

		tally, penalties := c.ScoreChain(k.actor, k.chain, hits)
		res.Tallies = append(res.Tallies, tally)
		res.Penalties = append(res.Penalties, penalties...)
		res.Actors[k.actor] = res.Actors[k.actor].Add(tally)
	}

	return res
}
