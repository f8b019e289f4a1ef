// Package timeline orders raw hits within their chains and assigns each hit
// the time-gap bucket against the hit before it.
//
// Pure functions: no I/O, inputs are never modified.
package timeline

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/model"
)

// Timeline is the classified, ordered view of one run's input.
type Timeline struct {
	// Chains sorted by start time, then id. Duplicate ids keep the first.
	Chains []model.Chain
	// Actions grouped by chain in Chains order, ascending EndedAt within a chain.
	Actions []model.Action
	// Diagnostics holds one message per gap that fell out of range.
	Diagnostics []string
	// Excluded counts hits dropped because their chain is unknown.
	Excluded int
}

// Build validates chain membership, sorts the hits and classifies the gap of
// every hit except the first of each chain. Out-of-range gaps leave the
// bucket unset and add a diagnostic; they never fail the build.
func Build(chains []model.Chain, actions []model.Action) Timeline {
	tl := Timeline{Chains: sortChains(chains)}

	order := make(map[string]int, len(tl.Chains))
	for i, c := range tl.Chains {
		order[c.ID] = i
	}

	tl.Actions = make([]model.Action, 0, len(actions))
	for _, a := range actions {
		if _, ok := order[a.ChainID]; !ok {
			tl.Excluded++
			continue
		}
		a.GapBucket = gap.Unset
		tl.Actions = append(tl.Actions, a)
	}

	slices.SortStableFunc(tl.Actions, func(a, b model.Action) int {
		if c := cmp.Compare(order[a.ChainID], order[b.ChainID]); c != 0 {
			return c
		}
		return CompareHits(a, b)
	})

	for i := 1; i < len(tl.Actions); i++ {
		prev, cur := tl.Actions[i-1], &tl.Actions[i]
		if prev.ChainID != cur.ChainID {
			continue
		}
		bucket, err := gap.Classify(cur.EndedAt - prev.EndedAt)
		if err != nil {
			tl.Diagnostics = append(tl.Diagnostics, fmt.Sprintf(
				"attack at %s in chain %s by %s: %v",
				model.FormatClock(cur.EndedAt), cur.ChainID, cur.ActorID, err,
			))
			continue
		}
		cur.GapBucket = bucket
	}

	return tl
}

// CompareHits orders two hits of the same chain: EndedAt, then ChainCounter,
// then ID so that ties never depend on input order.
func CompareHits(a, b model.Action) int {
	if c := cmp.Compare(a.EndedAt, b.EndedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ChainCounter, b.ChainCounter); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// ValidChains returns the set of known chain ids.
func (tl Timeline) ValidChains() map[string]struct{} {
	ids := make(map[string]struct{}, len(tl.Chains))
	for _, c := range tl.Chains {
		ids[c.ID] = struct{}{}
	}
	return ids
}

func sortChains(chains []model.Chain) []model.Chain {
	seen := make(map[string]struct{}, len(chains))
	out := make([]model.Chain, 0, len(chains))
	for _, c := range chains {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b model.Chain) int {
		if c := cmp.Compare(a.StartedAt, b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
