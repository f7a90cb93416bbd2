package tasks

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/quietfall/gainbot/internal/shared"
)

// Progress holds the live counters of a running job. The worker is the
// only writer; any goroutine may take a [Snapshot] without blocking it.
type Progress struct {
	startedAt time.Time

	total     atomic.Int64
	estimated atomic.Int64
	scanned   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewProgress creates a progress tracker with the clock started.
func NewProgress() *Progress {
	return &Progress{startedAt: time.Now()}
}

func (p *Progress) AddTotal(n int64)     { p.total.Add(n) }
func (p *Progress) AddEstimated(n int64) { p.estimated.Add(n) }
func (p *Progress) AddScanned(n int64)   { p.scanned.Add(n) }
func (p *Progress) AddSucceeded(n int64) { p.succeeded.Add(n) }
func (p *Progress) AddFailed(n int64)    { p.failed.Add(n) }

// Snapshot copies the counters. The result may lag the worker by a few
// items, which is acceptable for reporting.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		StartedAt: p.startedAt,
		Elapsed:   time.Since(p.startedAt),
		Total:     p.total.Load(),
		Estimated: p.estimated.Load(),
		Scanned:   p.scanned.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
	}
}

// Snapshot is a point-in-time copy of a job's counters.
type Snapshot struct {
	StartedAt time.Time
	Elapsed   time.Duration

	// Total is the library size as of job start, reduced when playlists
	// are abandoned.
	Total int64
	// Estimated is the candidate count from the pre-scan, reduced when
	// playlists are abandoned.
	Estimated int64
	// Scanned counts every entry examined, candidate or not.
	Scanned int64
	// Succeeded counts updated occurrences, one per playlist entry
	// replaced.
	Succeeded int64
	// Failed counts candidates that could not be resolved, analyzed or
	// replaced.
	Failed int64
}

// Analyzed is the number of candidates with a settled outcome.
func (s Snapshot) Analyzed() int64 {
	return s.Succeeded + s.Failed
}

// Throughput returns the analysis rate in items per minute. For the first
// minute the raw analyzed count is used as a conservative floor, which
// keeps the early ETA from blowing up.
func (s Snapshot) Throughput() float64 {
	analyzed := float64(s.Analyzed())
	if s.Elapsed < time.Minute {
		return analyzed
	}
	return analyzed / s.Elapsed.Minutes()
}

// ETA estimates the remaining run time from the throughput and the
// remaining candidate estimate. ok is false when no estimate can be made.
func (s Snapshot) ETA() (eta time.Duration, ok bool) {
	remaining := s.Estimated - s.Analyzed()
	if remaining <= 0 {
		return 0, true
	}
	throughput := s.Throughput()
	if throughput <= 0 {
		return 0, false
	}
	minutes := float64(remaining) / throughput
	if minutes >= float64(math.MaxInt64)/float64(time.Minute) {
		return 0, false
	}
	return time.Duration(minutes * float64(time.Minute)), true
}

// Report formats the snapshot as a one-line live status message.
func (s Snapshot) Report() string {
	eta := "N/A"
	if d, ok := s.ETA(); ok {
		eta = shared.FormatDuration(d)
	}
	return fmt.Sprintf(
		"gain recalculation running: scanned %d/%d entries, analysed %d of ~%d candidates (%d updated, %d failed), %.1f/min, ETA %s",
		s.Scanned, s.Total, s.Analyzed(), s.Estimated, s.Succeeded, s.Failed, s.Throughput(), eta,
	)
}

// Summary formats the snapshot as the final completion message.
func (s Snapshot) Summary() string {
	return fmt.Sprintf(
		"gain recalculation finished: analysed %d of ~%d candidates across %d library entries, %d occurrences updated, %d failed, took %s",
		s.Analyzed(), s.Estimated, s.Total, s.Succeeded, s.Failed, shared.FormatDuration(s.Elapsed),
	)
}
