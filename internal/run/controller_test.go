package run_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/puntingio/racepost/internal/announce"
	"github.com/puntingio/racepost/internal/courses"
	"github.com/puntingio/racepost/internal/history"
	"github.com/puntingio/racepost/internal/publish"
	"github.com/puntingio/racepost/internal/run"
	"github.com/puntingio/racepost/internal/types"
)

type fakeSource struct {
	results []types.RaceResult
	err     error
}

func (f *fakeSource) Fetch(ctx context.Context, date time.Time, region string) ([]types.RaceResult, error) {
	return f.results, f.err
}

// scriptedPublisher pops outcomes in call order and records every text it
// was asked to publish. When the script runs out it keeps succeeding.
type scriptedPublisher struct {
	script []publish.Outcome
	texts  []string
}

func (p *scriptedPublisher) Publish(ctx context.Context, text string) publish.Outcome {
	p.texts = append(p.texts, text)
	if len(p.script) == 0 {
		return publish.Outcome{Kind: publish.Success, PostID: fmt.Sprintf("post-%d", len(p.texts))}
	}
	out := p.script[0]
	p.script = p.script[1:]
	return out
}

func race(id string, positions ...string) types.RaceResult {
	r := types.RaceResult{ID: id, Course: "Ascot", Off: "14:30", Region: "GB"}
	for i, pos := range positions {
		r.Runners = append(r.Runners, types.Runner{
			Position: pos,
			Horse:    fmt.Sprintf("Horse %d", i+1),
			SP:       "2/1",
		})
	}
	return r
}

func races(n int) []types.RaceResult {
	out := make([]types.RaceResult, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, race(fmt.Sprintf("rac_%d", i), "1", "2", "3"))
	}
	return out
}

func success(id string) publish.Outcome {
	return publish.Outcome{Kind: publish.Success, PostID: id}
}

func persistedIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("parse state file: %v", err)
	}
	return ids
}

func newController(t *testing.T, source *fakeSource, pub *scriptedPublisher, maxPerRun int) (*run.Controller, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posted_ids.json")
	dedup := history.New(path, zerolog.Nop())
	formatter := announce.New(courses.Static{"Ascot": "@Ascot"})
	return run.New(source, formatter, pub, dedup, "GB", maxPerRun, zerolog.Nop()), path
}

func TestControllerRun(t *testing.T) {
	today := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	Convey("Given a race already in the persisted set", t, func() {
		pub := &scriptedPublisher{}
		src := &fakeSource{results: races(2)}
		c, path := newController(t, src, pub, 5)
		So(os.WriteFile(path, []byte(`["rac_1"]`), 0o644), ShouldBeNil)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then publish is never invoked for it", func() {
			So(len(pub.texts), ShouldEqual, 1)
			So(rep.AlreadyPosted, ShouldEqual, 1)
			So(len(rep.Published), ShouldEqual, 1)
			So(rep.Published[0].RaceID, ShouldEqual, "rac_2")
		})

		Convey("Then the persisted set is the prior set plus the new id", func() {
			So(persistedIDs(t, path), ShouldResemble, []string{"rac_1", "rac_2"})
		})
	})

	Convey("Given 7 eligible races and a cap of 5", t, func() {
		pub := &scriptedPublisher{}
		src := &fakeSource{results: races(7)}
		c, path := newController(t, src, pub, 5)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then exactly 5 are published and the rest stay eligible", func() {
			So(len(pub.texts), ShouldEqual, 5)
			So(len(rep.Published), ShouldEqual, 5)
			So(rep.Capped, ShouldBeTrue)
			So(persistedIDs(t, path), ShouldResemble,
				[]string{"rac_1", "rac_2", "rac_3", "rac_4", "rac_5"})
		})
	})

	Convey("Given a duplicate classification mid-run", t, func() {
		pub := &scriptedPublisher{script: []publish.Outcome{
			{Kind: publish.Duplicate, Message: "duplicate content"},
			success("p1"), success("p2"), success("p3"), success("p4"), success("p5"),
		}}
		src := &fakeSource{results: races(6)}
		c, path := newController(t, src, pub, 5)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then the duplicate is marked posted but does not consume the cap", func() {
			So(rep.Duplicates, ShouldEqual, 1)
			So(len(rep.Published), ShouldEqual, 5)
			So(len(pub.texts), ShouldEqual, 6)
			So(persistedIDs(t, path), ShouldResemble,
				[]string{"rac_1", "rac_2", "rac_3", "rac_4", "rac_5", "rac_6"})
		})
	})

	Convey("Given a rate-limit classification on the second race", t, func() {
		pub := &scriptedPublisher{script: []publish.Outcome{
			success("p1"),
			{Kind: publish.RateLimited, Message: "429"},
		}}
		src := &fakeSource{results: races(4)}
		c, path := newController(t, src, pub, 5)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then processing stops immediately", func() {
			So(len(pub.texts), ShouldEqual, 2)
			So(rep.RateLimitAbort, ShouldBeTrue)
		})

		Convey("Then the rate-limited race and the unattempted ones stay unposted", func() {
			So(persistedIDs(t, path), ShouldResemble, []string{"rac_1"})
		})
	})

	Convey("Given an unclassified publish failure", t, func() {
		pub := &scriptedPublisher{script: []publish.Outcome{
			{Kind: publish.Other, Message: "boom"},
			success("p1"),
		}}
		src := &fakeSource{results: races(2)}
		c, path := newController(t, src, pub, 5)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then the run continues and the failed race stays eligible", func() {
			So(rep.Errors, ShouldEqual, 1)
			So(len(rep.Published), ShouldEqual, 1)
			So(persistedIDs(t, path), ShouldResemble, []string{"rac_2"})
		})
	})

	Convey("Given a race with malformed runner data", t, func() {
		bad := race("rac_bad", "1", "PU", "3")
		pub := &scriptedPublisher{}
		src := &fakeSource{results: []types.RaceResult{bad, race("rac_ok", "1", "2", "3")}}
		c, path := newController(t, src, pub, 5)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then it is logged and skipped without being marked posted", func() {
			So(rep.Errors, ShouldEqual, 1)
			So(len(pub.texts), ShouldEqual, 1)
			So(persistedIDs(t, path), ShouldResemble, []string{"rac_ok"})
		})
	})

	Convey("Given a fetch failure", t, func() {
		pub := &scriptedPublisher{}
		src := &fakeSource{err: fmt.Errorf("feed unavailable")}
		c, path := newController(t, src, pub, 5)

		_, err := c.Run(context.Background(), today)

		Convey("Then the run aborts before any publish or persist", func() {
			So(err, ShouldNotBeNil)
			So(len(pub.texts), ShouldEqual, 0)
			_, statErr := os.Stat(path)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})

	Convey("Given one already-posted race and one new race end to end", t, func() {
		newRace := types.RaceResult{
			ID:     "rac_new",
			Course: "Ascot",
			Off:    "14:30",
			Region: "GB",
			Runners: []types.Runner{
				{Position: "3", Horse: "Third Wheel", SPDec: "4.00"},
				{Position: "1", Horse: "Shadow Dancer (IRE)", SP: "5/2"},
				{Position: "2", Horse: "Second Best", SP: "3/1"},
			},
		}
		pub := &scriptedPublisher{script: []publish.Outcome{success("p99")}}
		src := &fakeSource{results: []types.RaceResult{race("rac_seen", "1"), newRace}}
		c, path := newController(t, src, pub, 5)
		So(os.WriteFile(path, []byte(`["rac_seen"]`), 0o644), ShouldBeNil)

		rep, err := c.Run(context.Background(), today)
		So(err, ShouldBeNil)

		Convey("Then exactly one publish happens with the ordered text", func() {
			So(len(pub.texts), ShouldEqual, 1)
			So(pub.texts[0], ShouldStartWith,
				"14:30 at @Ascot\n\n1. Shadow Dancer 5/2\n2. Second Best 3/1\n3. Third Wheel 4.00\n")
			So(rep.Published[0].PostID, ShouldEqual, "p99")
		})

		Convey("Then the persisted set is the prior set union the new id", func() {
			So(persistedIDs(t, path), ShouldResemble, []string{"rac_new", "rac_seen"})
		})
	})
}
