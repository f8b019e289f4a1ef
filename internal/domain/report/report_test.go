package report_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/gap"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

const enemy = "Rivals"

func params() report.Params {
	return report.Params{War: model.War{ID: "w1", StartedAt: 900, EndedAt: 5000, OpposingFaction: enemy}}
}

// scenario is one chain: ann opens with ten warm-up hits, bob follows with
// two, and ann lands a late hit after the chain should have lapsed.
func scenario() ([]model.Chain, []model.Action) {
	chains := []model.Chain{{ID: "1", StartedAt: 1000, EndedAt: 2000}}

	var actions []model.Action
	for i := 0; i < 10; i++ {
		target := "Bystanders"
		if i == 9 {
			target = enemy
		}
		actions = append(actions, model.Action{
			ID: fmt.Sprintf("a%02d", i), ChainID: "1", ActorID: "ann", TargetGroup: target,
			EndedAt: 1000 + int64(i)*30, ChainCounter: i + 1,
		})
	}
	actions = append(actions,
		model.Action{ID: "b11", ChainID: "1", ActorID: "bob", TargetGroup: "Bystanders", EndedAt: 1300, ChainCounter: 11},
		model.Action{ID: "b12", ChainID: "1", ActorID: "bob", TargetGroup: enemy, EndedAt: 1400, ChainCounter: 12},
		model.Action{ID: "a13", ChainID: "1", ActorID: "ann", TargetGroup: "Bystanders", EndedAt: 1800, ChainCounter: 13},
		model.Action{ID: "x", ChainID: "404", ActorID: "eve", TargetGroup: enemy, EndedAt: 1500, ChainCounter: 1},
	)
	return chains, actions
}

func TestBuild(t *testing.T) {
	Convey("Given a single chain with a lapsed final hit", t, func() {
		chains, actions := scenario()

		rep, err := report.Build(params(), chains, actions)
		So(err, ShouldBeNil)

		Convey("Then the unknown-chain hit is excluded", func() {
			So(rep.Excluded, ShouldEqual, 1)
			So(len(rep.Actions), ShouldEqual, 13)
		})

		Convey("Then the lapsed gap is reported as a diagnostic", func() {
			So(len(rep.Diagnostics), ShouldEqual, 1)
			So(rep.Actions[12].GapBucket, ShouldEqual, gap.Unset)
		})

		Convey("Then actor points follow the chain rules", func() {
			ann, bob := rep.Summary.Actors[0], rep.Summary.Actors[1]
			So(ann.ActorID, ShouldEqual, "ann")
			So(ann.Points.Base, ShouldEqual, 20.5)
			So(ann.Points.Bonus, ShouldEqual, 7)
			So(ann.Points.Total, ShouldEqual, 27.5)
			So(bob.Points.Total, ShouldEqual, 9.5)
		})

		Convey("Then the summary table carries encoded pairs and the extra rows", func() {
			table := rep.SummaryTable()
			So(table.Header[1], ShouldEqual, "<1 minute")
			So(len(table.Rows), ShouldEqual, 4)

			ann := table.Rows[0]
			So(ann[:8], ShouldResemble, []string{"ann", "0.000", "0.000", "0.000", "0.000", "0.000", "10.001", "11"})

			bob := table.Rows[1]
			So(bob[1], ShouldEqual, "1.000")
			So(bob[2], ShouldEqual, "1.001")

			group := table.Rows[2]
			So(group[0], ShouldEqual, cut.GroupLabel)
			So(group[1], ShouldEqual, "")
			So(group[len(group)-2], ShouldEqual, "6.5")

			totals := table.Rows[3]
			So(totals[0], ShouldEqual, cut.TotalsLabel)
			So(totals[7], ShouldEqual, "13")
			So(totals[len(totals)-2], ShouldEqual, "43.5")
			sum, err := strconv.ParseFloat(totals[len(totals)-1], 64)
			So(err, ShouldBeNil)
			So(sum, ShouldAlmostEqual, 1, cut.Tolerance)
		})

		Convey("Then every output table is rendered", func() {
			names := []string{}
			for _, tb := range rep.Tables() {
				names = append(names, tb.Name)
			}
			So(names, ShouldResemble, []string{
				report.ChainsTable, report.AttacksTable, report.SummaryTable, report.DiagnosticsTable,
			})
		})

		Convey("Then the attack table shows the gap labels", func() {
			table := rep.ActionTable()
			So(table.Rows[10][7], ShouldEqual, "<1 minute")
			So(table.Rows[11][7], ShouldEqual, "1-2 minutes")
			So(table.Rows[0][7], ShouldEqual, "")
		})
	})

	Convey("Given the same input twice in different orders", t, func() {
		chains, actions := scenario()
		shuffled := append([]model.Action(nil), actions...)
		rand.New(rand.NewSource(3)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		first, err := report.Build(params(), chains, actions)
		So(err, ShouldBeNil)
		second, err := report.Build(params(), chains, shuffled)
		So(err, ShouldBeNil)

		Convey("Then the rendered tables are identical", func() {
			So(second.Tables(), ShouldResemble, first.Tables())
		})
	})

	Convey("Given milestone penalties on bystanders", t, func() {
		chains := []model.Chain{
			{ID: "1", StartedAt: 0, EndedAt: 10},
			{ID: "2", StartedAt: 20, EndedAt: 30},
			{ID: "3", StartedAt: 40, EndedAt: 50},
		}
		actions := []model.Action{
			{ID: "p1", ChainID: "1", ActorID: "ann", TargetGroup: "Bystanders", EndedAt: 5, ChainCounter: 10},
			{ID: "p2", ChainID: "2", ActorID: "ann", TargetGroup: "Bystanders", EndedAt: 25, ChainCounter: 25},
			{ID: "p3", ChainID: "3", ActorID: "ann", TargetGroup: "Bystanders", EndedAt: 45, ChainCounter: 50},
		}

		Convey("Then each penalty is exported", func() {
			rep, err := report.Build(params(), chains, actions)
			So(err, ShouldBeNil)
			So(len(rep.Penalties), ShouldEqual, 3)

			table := rep.PenaltyTable()
			So(table.Rows[0], ShouldResemble, []string{"1", "ann", "10", "1", "5", "1970-01-01 00:00:05"})
		})

		Convey("When the remaining points cancel the group share", func() {
			actions = append(actions, model.Action{
				ID: "w1", ChainID: "1", ActorID: "bob", TargetGroup: "Bystanders", EndedAt: 6, ChainCounter: 1,
			})

			Convey("Then the run aborts with an integrity error", func() {
				rep, err := report.Build(params(), chains, actions)
				So(rep, ShouldBeNil)
				So(errors.Is(err, cut.ErrIntegrity), ShouldBeTrue)
			})
		})
	})

	Convey("Given no chains", t, func() {
		_, actions := scenario()

		Convey("Then the run signals missing chains", func() {
			rep, err := report.Build(params(), nil, actions)
			So(rep, ShouldBeNil)
			So(errors.Is(err, report.ErrNoChains), ShouldBeTrue)
		})
	})

	Convey("Given chains without any matching hits", t, func() {
		chains := []model.Chain{{ID: "1", StartedAt: 0, EndedAt: 10}}
		actions := []model.Action{{ID: "x", ChainID: "2", ActorID: "ann"}}

		Convey("Then the run signals missing hits", func() {
			rep, err := report.Build(params(), chains, actions)
			So(rep, ShouldBeNil)
			So(errors.Is(err, report.ErrNoActions), ShouldBeTrue)
		})
	})
}
