/*
Package run orchestrates one invocation of the pipeline: fetch the day's
results, skip already-published races, format and publish the rest under the
per-run cap, and commit the updated id set exactly once.
*/
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/puntingio/racepost/internal/announce"
	"github.com/puntingio/racepost/internal/history"
	"github.com/puntingio/racepost/internal/publish"
	"github.com/puntingio/racepost/internal/racing"
)

// PostedRace records one successful publish for the run report.
type PostedRace struct {
	RaceID string
	PostID string
	Course string
	Off    string
}

// Report accumulates the per-candidate decisions of one run. It feeds the
// end-of-run console/email summary and the tests; it is never persisted.
type Report struct {
	Date           string
	Fetched        int
	AlreadyPosted  int
	Published      []PostedRace
	Duplicates     int
	Errors         int
	Capped         bool
	RateLimitAbort bool
}

// Controller drives a single sequential pass over the day's candidates.
type Controller struct {
	source    racing.ResultsSource
	formatter *announce.Formatter
	publisher publish.Publisher
	dedup     *history.Deduplicator
	region    string
	maxPerRun int
	log       zerolog.Logger
}

func New(source racing.ResultsSource, formatter *announce.Formatter, publisher publish.Publisher, dedup *history.Deduplicator, region string, maxPerRun int, log zerolog.Logger) *Controller {
	return &Controller{
		source:    source,
		formatter: formatter,
		publisher: publisher,
		dedup:     dedup,
		region:    region,
		maxPerRun: maxPerRun,
		log:       log,
	}
}

// Run executes one invocation for the given date. A fetch or load failure
// aborts before any state mutation, leaving the prior persisted set
// untouched; every publish failure is classified and handled locally. The
// updated set is persisted exactly once after the loop, whether it
// completed, hit the cap, or was aborted by a rate limit.
func (c *Controller) Run(ctx context.Context, date time.Time) (*Report, error) {
	if err := c.dedup.Load(); err != nil {
		return nil, fmt.Errorf("load posted ids: %w", err)
	}

	results, err := c.source.Fetch(ctx, date, c.region)
	if err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}

	report := &Report{
		Date:    date.Format("2006-01-02"),
		Fetched: len(results),
	}

	sent := 0
loop:
	for _, res := range results {
		if c.dedup.Contains(res.ID) {
			report.AlreadyPosted++
			continue
		}

		log := c.log.With().Str("race_id", res.ID).Str("course", res.Course).Logger()

		text, err := c.formatter.Format(res)
		if err != nil {
			// Malformed runner data is handled like any other
			// publish failure: logged, left unposted, run continues.
			log.Error().Err(err).Msg("format failed, skipping race")
			report.Errors++
			continue
		}

		out := c.publisher.Publish(ctx, text)
		switch out.Kind {
		case publish.Success:
			c.dedup.MarkPosted(res.ID)
			sent++
			report.Published = append(report.Published, PostedRace{
				RaceID: res.ID,
				PostID: out.PostID,
				Course: res.Course,
				Off:    res.Off,
			})
			log.Info().Str("post_id", out.PostID).Msg("published race result")
			if sent >= c.maxPerRun {
				report.Capped = true
				c.log.Info().Int("max_per_run", c.maxPerRun).Msg("run cap reached, stopping early")
				break loop
			}

		case publish.Duplicate:
			// Already posted on the service side. Mark it so it is
			// never retried; does not count against the cap.
			c.dedup.MarkPosted(res.ID)
			report.Duplicates++
			log.Warn().Msg("post already exists, marking race as posted")

		case publish.RateLimited:
			// Leave this race unposted and stop the run.
			report.RateLimitAbort = true
			log.Warn().Str("detail", out.Message).Msg("rate limit hit, aborting run")
			break loop

		case publish.Other:
			report.Errors++
			log.Error().Str("detail", out.Message).Msg("publish failed, will retry next run")
		}
	}

	if err := c.dedup.Persist(); err != nil {
		return report, fmt.Errorf("persist posted ids: %w", err)
	}
	return report, nil
}
