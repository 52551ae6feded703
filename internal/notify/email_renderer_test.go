package notify_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/puntingio/racepost/internal/notify"
	"github.com/puntingio/racepost/internal/run"
)

func TestRenderDigest(t *testing.T) {
	Convey("Given a run report with published races", t, func() {
		rep := &run.Report{
			Date:          "2026-08-26",
			Fetched:       9,
			AlreadyPosted: 3,
			Published: []run.PostedRace{
				{RaceID: "rac_1", PostID: "p1", Course: "Ascot", Off: "14:30"},
				{RaceID: "rac_2", PostID: "p2", Course: "York", Off: "15:05"},
			},
			Duplicates: 1,
			Errors:     1,
			Capped:     true,
		}

		msg, err := notify.NewHTMLEmailRenderer().Render(rep)
		So(err, ShouldBeNil)

		Convey("Then the subject carries the date and count", func() {
			So(msg.Subject, ShouldContainSubstring, "2026-08-26")
			So(msg.Subject, ShouldContainSubstring, "2 published")
		})

		Convey("Then both bodies list the posts", func() {
			So(msg.Text, ShouldContainSubstring, "14:30 Ascot")
			So(msg.Text, ShouldContainSubstring, "post p2")
			So(msg.HTML, ShouldContainSubstring, "rac_1")
			So(msg.HTML, ShouldContainSubstring, "York")
		})

		Convey("Then the cap note appears", func() {
			So(msg.Text, ShouldContainSubstring, "cap reached")
			So(msg.HTML, ShouldContainSubstring, "cap reached")
		})
	})

	Convey("Given an empty run", t, func() {
		msg, err := notify.NewHTMLEmailRenderer().Render(&run.Report{Date: "2026-08-26"})
		So(err, ShouldBeNil)

		Convey("Then the digest still renders", func() {
			So(msg.Subject, ShouldContainSubstring, "0 published")
			So(msg.HTML, ShouldNotContainSubstring, "Published</div>")
		})
	})
}
