// Package registry mints the human-readable identifiers carried by
// students, teachers and admins: a school prefix, a two-digit year
// suffix and a zero-padded per-year sequence number.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/store"
)

const (
	mintAttempts = 3
	mintBackoff  = 50 * time.Millisecond
)

// Sequencer is the one store capability minting depends on.
type Sequencer interface {
	NextSeq(kind, year string) (int64, error)
}

// Kind describes one identifier family. Width is the nominal zero-pad;
// sequence numbers past it grow the identifier instead of truncating.
type Kind struct {
	Tag     string // counter key, e.g. "students"
	Prefix  string
	Width   int
	YearSep bool // "-" between year and sequence (students/admins)
}

// Kinds builds the identifier families for a school code, matching the
// formats YMS-25-001 (student), YMS-S-2501 (teacher), YMS-AD-25-01 (admin).
func Kinds(school string) map[string]Kind {
	return map[string]Kind{
		"student": {Tag: "students", Prefix: school, Width: 3, YearSep: true},
		"teacher": {Tag: "teachers", Prefix: school + "-S", Width: 2},
		"admin":   {Tag: "admins", Prefix: school + "-AD", Width: 2, YearSep: true},
	}
}

type Registry struct {
	seq Sequencer
	now func() time.Time
}

func New(seq Sequencer) *Registry {
	return &Registry{seq: seq, now: time.Now}
}

// NewWithClock pins "now" for tests.
func NewWithClock(seq Sequencer, now func() time.Time) *Registry {
	return &Registry{seq: seq, now: now}
}

// Mint returns the next identifier for the kind. The counter increment is
// atomic in the store; transient failures are retried a bounded number of
// times and the whole increment re-runs, so a partial sequence number is
// never reused.
func (r *Registry) Mint(k Kind) (string, error) {
	year := fmt.Sprintf("%02d", r.now().Year()%100)

	var seq int64
	var err error
	for attempt := 0; attempt < mintAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(mintBackoff * time.Duration(attempt))
		}
		seq, err = r.seq.NextSeq(k.Tag, year)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrTransient) {
			return "", fmt.Errorf("failed to mint %s uid: %w", k.Tag, err)
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to mint %s uid: %w", k.Tag, err)
	}

	metrics.UIDsMinted.WithLabelValues(k.Tag).Inc()

	if k.YearSep {
		return fmt.Sprintf("%s-%s-%0*d", k.Prefix, year, k.Width, seq), nil
	}
	return fmt.Sprintf("%s-%s%0*d", k.Prefix, year, k.Width, seq), nil
}
