package orchestrator

import (
	"fmt"
	"time"
)

// Progress is a snapshot of a grid run
type Progress struct {
	Done    int
	Total   int
	Elapsed time.Duration
	ETA     time.Duration
}

// Percent returns completion in [0, 100]
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Done) / float64(p.Total) * 100
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%) elapsed %s eta %s",
		p.Done, p.Total, p.Percent(), p.Elapsed.Round(time.Second), p.ETA.Round(time.Second))
}

// ProgressTracker estimates the remaining time from the mean duration of completed points
type ProgressTracker struct {
	total int
	done  int
	start time.Time
	now   func() time.Time
}

// NewProgressTracker starts tracking total points
func NewProgressTracker(total int) *ProgressTracker {
	return newProgressTracker(total, time.Now)
}

func newProgressTracker(total int, now func() time.Time) *ProgressTracker {
	return &ProgressTracker{total: total, start: now(), now: now}
}

// Advance marks one point as done and returns the new snapshot
func (t *ProgressTracker) Advance() Progress {
	if t.done < t.total {
		t.done++
	}
	return t.Snapshot()
}

// Snapshot returns the current progress without advancing
func (t *ProgressTracker) Snapshot() Progress {
	elapsed := t.now().Sub(t.start)
	var eta time.Duration
	if t.done > 0 {
		perPoint := elapsed / time.Duration(t.done)
		eta = perPoint * time.Duration(t.total-t.done)
	}
	return Progress{Done: t.done, Total: t.total, Elapsed: elapsed, ETA: eta}
}
