/*
Package history owns the persisted set of race ids that have already been
published.

The set is loaded once at run start, grown during the run, and written back
once at run end as a full replacement of the prior state. It never shrinks:
once an id is a member, no future run may publish it again.
*/
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Deduplicator tracks already-published race ids backed by a JSON file
// holding an array of id strings.
type Deduplicator struct {
	path string
	log  zerolog.Logger

	mu  sync.Mutex
	ids map[string]struct{}
}

func New(path string, log zerolog.Logger) *Deduplicator {
	return &Deduplicator{
		path: path,
		log:  log,
		ids:  make(map[string]struct{}),
	}
}

// Load reads the persisted id set. A missing file is not an error: the run
// simply starts with an empty set. A file that exists but cannot be parsed
// is an error, since treating it as empty would republish everything.
func (d *Deduplicator) Load() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			d.log.Info().Str("path", d.path).Msg("no posted-ids file, starting with empty set")
			d.ids = make(map[string]struct{})
			return nil
		}
		return fmt.Errorf("read posted-ids file %s: %w", d.path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("parse posted-ids file %s: %w", d.path, err)
	}

	d.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		d.ids[id] = struct{}{}
	}
	d.log.Info().Int("count", len(d.ids)).Str("path", d.path).Msg("loaded posted ids")
	return nil
}

// Contains reports whether id has already been published.
func (d *Deduplicator) Contains(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.ids[id]
	return ok
}

// MarkPosted adds id to the in-memory set. Idempotent.
func (d *Deduplicator) MarkPosted(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[id] = struct{}{}
}

// Size returns the number of ids currently in the set.
func (d *Deduplicator) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ids)
}

// Persist overwrites the prior state with the full current set. The write
// goes through a temp file in the same directory and a rename, so readers
// never observe a partial file.
func (d *Deduplicator) Persist() error {
	d.mu.Lock()
	ids := make([]string, 0, len(d.ids))
	for id := range d.ids {
		ids = append(ids, id)
	}
	d.mu.Unlock()
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal posted ids: %w", err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "posted_ids-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace posted-ids file %s: %w", d.path, err)
	}

	d.log.Info().Int("count", len(ids)).Str("path", d.path).Msg("persisted posted ids")
	return nil
}

// Path returns the location of the persisted id set.
func (d *Deduplicator) Path() string {
	return d.path
}
