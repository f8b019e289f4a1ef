package report

import (
	"strconv"

	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/model"
)

// Table names, also used as output file stems.
const (
	ChainsTable      = "chains"
	AttacksTable     = "attacks"
	PenaltiesTable   = "penalty_hits"
	SummaryTable     = "attack_summary"
	DiagnosticsTable = "errors"
)

// Table is a rendered, header-first tabular output.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables renders every non-empty table of the report in a fixed order. The
// penalty and diagnostic tables are omitted when they have no rows.
func (r *Report) Tables() []Table {
	out := []Table{r.ChainTable(), r.ActionTable()}
	if len(r.Penalties) > 0 {
		out = append(out, r.PenaltyTable())
	}
	out = append(out, r.SummaryTable())
	if len(r.Diagnostics) > 0 {
		out = append(out, r.DiagnosticTable())
	}
	return out
}

// ChainTable lists the chains in the window.
func (r *Report) ChainTable() Table {
	t := Table{Name: ChainsTable, Header: []string{"Chain ID", "Start", "End"}}
	for _, c := range r.Chains {
		t.Rows = append(t.Rows, []string{c.ID, itoa(c.StartedAt), itoa(c.EndedAt)})
	}
	return t
}

// ActionTable lists every classified hit.
func (r *Report) ActionTable() Table {
	t := Table{Name: AttacksTable, Header: []string{
		"Attack ID", "Chain ID", "Attacker", "Defender Faction", "Time Ended (UTC)",
		"Chain Value", "Timestamp Ended", "Time Since Last Attack",
	}}
	for _, a := range r.Actions {
		t.Rows = append(t.Rows, []string{
			a.ID, a.ChainID, a.ActorID, a.TargetGroup, model.FormatClock(a.EndedAt),
			strconv.Itoa(a.ChainCounter), itoa(a.EndedAt), a.GapBucket.String(),
		})
	}
	return t
}

// PenaltyTable lists every milestone penalty for audit.
func (r *Report) PenaltyTable() Table {
	t := Table{Name: PenaltiesTable, Header: []string{
		"Chain ID", "Attacker", "Chain Value", "Hit Number", "Timestamp Epoch", "Time Ended (UTC)",
	}}
	for _, p := range r.Penalties {
		t.Rows = append(t.Rows, []string{
			p.ChainID, p.ActorID, strconv.Itoa(p.ChainCounter), strconv.Itoa(p.HitNumber),
			itoa(p.Timestamp), model.FormatTimestamp(p.Timestamp),
		})
	}
	return t
}

// SummaryHeader returns the summary column names.
func SummaryHeader() []string {
	h := []string{"Attacker"}
	for _, b := range gap.All {
		h = append(h, b.String())
	}
	return append(h,
		"Attacks #1-10", "Total Hits", "Base Points", "Penalty Points",
		"Chain Bonus", "Total Points", "Cut",
	)
}

// SummaryTable lists one row per actor, then the GROUP and TOTALS rows.
// Columns that carry no value for the GROUP row are left empty.
func (r *Report) SummaryTable() Table {
	t := Table{Name: SummaryTable, Header: SummaryHeader()}
	s := r.Summary

	for _, a := range s.Actors {
		row := []string{a.ActorID}
		for _, b := range a.Buckets {
			row = append(row, b.String())
		}
		t.Rows = append(t.Rows, append(row,
			a.FirstTen.String(), strconv.Itoa(a.Hits),
			ftoa(a.Points.Base), ftoa(a.Points.Penalty), ftoa(a.Points.Bonus),
			ftoa(a.Points.Total), ftoa(a.Cut),
		))
	}

	group := make([]string, len(t.Header))
	group[0] = cut.GroupLabel
	group[len(group)-2] = ftoa(s.Group.Points)
	group[len(group)-1] = ftoa(s.Group.Cut)
	t.Rows = append(t.Rows, group)

	totals := []string{cut.TotalsLabel}
	for _, b := range s.Totals.Buckets {
		totals = append(totals, b.String())
	}
	t.Rows = append(t.Rows, append(totals,
		s.Totals.FirstTen.String(), strconv.Itoa(s.Totals.Hits),
		ftoa(s.Totals.Base), ftoa(s.Totals.Penalty), ftoa(s.Totals.Bonus),
		ftoa(s.Totals.Points), ftoa(s.Totals.Cut),
	))

	return t
}

// DiagnosticTable lists data-quality problems, one per row.
func (r *Report) DiagnosticTable() Table {
	t := Table{Name: DiagnosticsTable, Header: []string{"Errors"}}
	for _, d := range r.Diagnostics {
		t.Rows = append(t.Rows, []string{d})
	}
	return t
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
