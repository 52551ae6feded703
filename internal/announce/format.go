/*
Package announce renders one race result into the canonical announcement text.

The formatter performs no I/O; its only failure mode is malformed positional
data in the feed.
*/
package announce

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/puntingio/racepost/internal/courses"
	"github.com/puntingio/racepost/internal/types"
)

const (
	topPlaces = 3

	footer = "Sign up for early access to the UK's best #horseracing tipping platform > https://punting.io"
)

// parenthetical matches a parenthesized group and any whitespace before it,
// e.g. the country suffix in "Shadow Dancer (IRE)".
var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// Formatter builds announcement text using a course handle directory.
type Formatter struct {
	dir courses.Directory
}

func New(dir courses.Directory) *Formatter {
	return &Formatter{dir: dir}
}

// Format renders the announcement for one race: header with off time and
// course handle, the top three finishers in position order, and the fixed
// promotional footer. It fails only when a runner carries a non-numeric
// finishing position.
func (f *Formatter) Format(res types.RaceResult) (string, error) {
	display := res.Course
	if handle, ok := f.dir.Lookup(res.Course); ok {
		display = handle
	}

	type placed struct {
		pos    int
		runner types.Runner
	}
	placings := make([]placed, 0, len(res.Runners))
	for _, r := range res.Runners {
		pos, err := strconv.Atoi(strings.TrimSpace(r.Position))
		if err != nil {
			return "", fmt.Errorf("race %s: runner %q has malformed position %q", res.ID, r.Horse, r.Position)
		}
		placings = append(placings, placed{pos: pos, runner: r})
	}

	// Stable sort keeps input order on (invalid) position ties.
	sort.SliceStable(placings, func(i, j int) bool {
		return placings[i].pos < placings[j].pos
	})
	if len(placings) > topPlaces {
		placings = placings[:topPlaces]
	}

	lines := []string{fmt.Sprintf("%s at %s", res.Off, display), ""}
	for _, p := range placings {
		horse := strings.TrimSpace(parenthetical.ReplaceAllString(p.runner.Horse, ""))
		sp := p.runner.SP
		if sp == "" {
			sp = p.runner.SPDec
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", p.pos, horse, sp))
	}
	lines = append(lines, "", footer)

	return strings.Join(lines, "\n"), nil
}
