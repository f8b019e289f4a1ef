package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/warcut/internal/adapters/repository"
	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/report"
	"github.com/okian/warcut/internal/domain/scoring"
	"github.com/okian/warcut/internal/domain/summary"
)

func row(actor string, hits int, points float64) cut.Row {
	return cut.Row{Row: summary.Row{ActorID: actor, Hits: hits, Points: scoring.Points{Total: points}}}
}

func sampleReport() *report.Report {
	return &report.Report{Summary: cut.Table{Actors: []cut.Row{
		row("ann", 11, 27.5),
		row("bob", 2, 9.5),
		row("cat", 3, 27.5),
		row("dan", 1, -10),
	}}}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		stamp := time.Date(2025, 2, 8, 12, 0, 0, 0, time.UTC)
		store := repository.NewMemoryStore(repository.WithClock(func() time.Time { return stamp }))

		Convey("Then reads report that nothing is stored", func() {
			_, err := store.Latest(ctx)
			So(errors.Is(err, repository.ErrNoReport), ShouldBeTrue)
			_, err = store.TopN(ctx, 3)
			So(errors.Is(err, repository.ErrNoReport), ShouldBeTrue)
			_, err = store.Rank(ctx, "ann")
			So(errors.Is(err, repository.ErrNoReport), ShouldBeTrue)
			So(store.Count(ctx), ShouldEqual, 0)
		})

		Convey("Then a nil report is rejected", func() {
			So(store.Put(ctx, "run", nil), ShouldNotBeNil)
		})

		Convey("When a report is stored", func() {
			So(store.Put(ctx, "run-1", sampleReport()), ShouldBeNil)

			Convey("Then the snapshot carries the run metadata", func() {
				snap, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(snap.RunID, ShouldEqual, "run-1")
				So(snap.StoredAt.Equal(stamp), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 4)
			})

			Convey("Then the leaderboard orders by points with ties by actor", func() {
				top, err := store.TopN(ctx, 3)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 3)
				So(top[0].ActorID, ShouldEqual, "ann")
				So(top[0].Rank, ShouldEqual, 1)
				So(top[1].ActorID, ShouldEqual, "cat")
				So(top[2].ActorID, ShouldEqual, "bob")
			})

			Convey("Then a limit above the actor count returns everyone", func() {
				top, err := store.TopN(ctx, 100)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 4)
				So(top[3].ActorID, ShouldEqual, "dan")
			})

			Convey("Then a non-positive limit is rejected", func() {
				_, err := store.TopN(ctx, 0)
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})

			Convey("Then ranks are looked up by actor", func() {
				e, err := store.Rank(ctx, "bob")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 3)
				So(e.Hits, ShouldEqual, 2)
				So(e.Points, ShouldEqual, 9.5)

				_, err = store.Rank(ctx, "zed")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then a later report replaces the earlier one", func() {
				So(store.Put(ctx, "run-2", &report.Report{Summary: cut.Table{Actors: []cut.Row{row("eve", 5, 1)}}}), ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 1)
				_, err := store.Rank(ctx, "ann")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
