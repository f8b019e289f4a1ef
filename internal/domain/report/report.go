// Package report runs the scoring pipeline over one war's chains and hits
// and holds every table the run produces.
//
// Build is a pure batch computation: no I/O, no shared state, and the same
// input always yields the same report.
package report

import (
	"fmt"

	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/internal/domain/scoring"
	"github.com/okian/warcut/internal/domain/summary"
	"github.com/okian/warcut/internal/domain/timeline"
)

// Params is the immutable configuration of one scoring run.
type Params struct {
	War model.War
}

// Report is the full output of one scoring run.
type Report struct {
	War         model.War
	Chains      []model.Chain
	Actions     []model.Action // classified, grouped by chain and sorted by time
	Penalties   []model.Penalty
	Summary     cut.Table
	Diagnostics []string
	Excluded    int // hits dropped for referencing an unknown chain
}

// Build classifies, scores, aggregates and distributes. It returns
// ErrNoChains or ErrNoActions when there is nothing to score, and wraps
// cut.ErrIntegrity when the distribution fails its conservation check.
func Build(p Params, chains []model.Chain, actions []model.Action) (*Report, error) {
	if len(chains) == 0 {
		return nil, ErrNoChains
	}

	tl := timeline.Build(chains, actions)
	if len(tl.Actions) == 0 {
		return nil, fmt.Errorf("%w: %d hits referenced unknown chains", ErrNoActions, tl.Excluded)
	}

	calc := scoring.NewCalculator(scoring.WithOpposingFaction(p.War.OpposingFaction))
	scored := calc.Score(tl.Actions, tl.ValidChains())

	rows := summary.Aggregate(tl.Actions, scored.Actors, p.War.OpposingFaction)
	table, err := cut.Distribute(rows, summary.TotalHits(rows))
	if err != nil {
		return nil, fmt.Errorf("distribute cuts: %w", err)
	}

	return &Report{
		War:         p.War,
		Chains:      tl.Chains,
		Actions:     tl.Actions,
		Penalties:   scored.Penalties,
		Summary:     table,
		Diagnostics: tl.Diagnostics,
		Excluded:    tl.Excluded,
	}, nil
}
