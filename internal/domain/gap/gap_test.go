package gap_test

import (
	"errors"
	"testing"

	"github.com/okian/warcut/internal/domain/gap"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given elapsed seconds between two hits", t, func() {
		Convey("When the value sits on a bucket boundary", func() {
			cases := map[int64]gap.Bucket{
				0:   gap.UnderOneMinute,
				59:  gap.UnderOneMinute,
				60:  gap.OneToTwoMinutes,
				119: gap.OneToTwoMinutes,
				120: gap.TwoToThreeMinutes,
				180: gap.ThreeToFourMinutes,
				239: gap.ThreeToFourMinutes,
				240: gap.FourToFiveMinutes,
				299: gap.FourToFiveMinutes,
			}

			Convey("Then the lower bound is inclusive", func() {
				for seconds, want := range cases {
					got, err := gap.Classify(seconds)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, want)
				}
			})
		})

		Convey("When every value below the limit is classified", func() {
			Convey("Then each maps to exactly one set bucket", func() {
				for s := int64(0); s < gap.Limit; s++ {
					b, err := gap.Classify(s)
					So(err, ShouldBeNil)
					So(b.IsSet(), ShouldBeTrue)
					So(b.Index(), ShouldEqual, int(s/gap.Width))
				}
			})
		})

		Convey("When the value reaches the limit", func() {
			for _, s := range []int64{300, 301, 3600, -1} {
				b, err := gap.Classify(s)

				So(errors.Is(err, gap.ErrOutOfRange), ShouldBeTrue)
				So(b, ShouldEqual, gap.Unset)
			}
		})
	})
}

func TestBucketLabels(t *testing.T) {
	Convey("Given the bucket labels", t, func() {
		So(gap.UnderOneMinute.String(), ShouldEqual, "<1 minute")
		So(gap.FourToFiveMinutes.String(), ShouldEqual, "4-5 minutes")
		So(gap.Unset.String(), ShouldEqual, "")
		So(gap.Unset.Index(), ShouldEqual, -1)

		Convey("Then every label parses back to its bucket", func() {
			for _, b := range gap.All {
				got, err := gap.Parse(b.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, b)
			}
		})

		Convey("Then unknown labels are rejected", func() {
			_, err := gap.Parse("6-7 minutes")
			So(errors.Is(err, gap.ErrUnknownLabel), ShouldBeTrue)
		})
	})
}
