package model_test

import (
	"testing"

	"github.com/okian/warcut/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeFormatting(t *testing.T) {
	Convey("Given an epoch timestamp", t, func() {
		const epoch = 1738969204 // 2025-02-07 23:00:04 UTC

		Convey("Then it renders as a UTC clock time", func() {
			So(model.FormatClock(epoch), ShouldEqual, "23:00:04")
		})

		Convey("Then it renders as a UTC date and time", func() {
			So(model.FormatTimestamp(epoch), ShouldEqual, "2025-02-07 23:00:04")
		})

		Convey("Then the zero epoch is the unix origin", func() {
			So(model.FormatTimestamp(0), ShouldEqual, "1970-01-01 00:00:00")
		})
	})
}
