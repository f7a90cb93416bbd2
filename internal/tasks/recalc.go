package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/quietfall/gainbot/internal/library"
	"github.com/quietfall/gainbot/internal/models"
	"github.com/quietfall/gainbot/internal/services"
	"github.com/quietfall/gainbot/internal/shared"
)

// contribution is one playlist's share of the pre-scan totals, kept so an
// abandoned playlist can be subtracted from the estimate again.
type contribution struct {
	items      int64
	candidates int64
}

// passTally tracks the counters attributed to the current pass over one
// playlist, so a conflict or abandonment can roll them back.
type passTally struct {
	scanned   int64
	succeeded int64
	failed    int64
}

// Job is the transient state of one recalculation run. It is created by
// [Engine.StartOrStatus], mutated only by the worker goroutine, and
// discarded when the worker finishes.
type Job struct {
	ID            string
	progress      *Progress
	order         []string
	contributions map[string]contribution
	done          chan struct{}
}

// Engine owns the singleton recalculation job slot. At most one [Job]
// exists at a time; a start request while one is running returns its
// status instead of spawning a second worker.
type Engine struct {
	store    *library.Store
	resolver services.Resolver
	analyzer services.Analyzer
	notifier services.Notifier
	logger   *log.Logger

	mu  sync.Mutex // guards the job slot
	job *Job
}

// NewEngine wires a recalculation engine to its collaborators.
func NewEngine(store *library.Store, resolver services.Resolver, analyzer services.Analyzer, notifier services.Notifier, logger *log.Logger) *Engine {
	return &Engine{
		store:    store,
		resolver: resolver,
		analyzer: analyzer,
		notifier: notifier,
		logger:   logger,
	}
}

// StartOrStatus is the sole entry point. If a job is running it returns
// its live status report and started=false. Otherwise it pre-scans the
// library for candidates, starts the background worker, and returns the
// estimate immediately.
func (e *Engine) StartOrStatus() (message string, started bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.job != nil {
		return e.job.progress.Snapshot().Report(), false
	}

	playlists := e.store.Enumerate()

	job := &Job{
		ID:            shared.GenerateID(),
		progress:      NewProgress(),
		contributions: make(map[string]contribution, len(playlists)),
		done:          make(chan struct{}),
	}

	var total, candidates int64
	for _, p := range playlists {
		var c contribution
		for _, t := range p.Tracks {
			c.items++
			if t.NeedsAnalysis() {
				c.candidates++
			}
		}
		job.order = append(job.order, p.ID)
		job.contributions[p.ID] = c
		total += c.items
		candidates += c.candidates
	}
	job.progress.AddTotal(total)
	job.progress.AddEstimated(candidates)

	e.job = job
	go e.run(job)

	e.logger.Info("gain recalculation started",
		"job", job.ID, "playlists", len(playlists), "entries", total, "candidates", candidates)

	return fmt.Sprintf("gain recalculation started: ~%d candidates across %d playlists (%d entries)",
		candidates, len(playlists), total), true
}

// Running reports whether a job is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job != nil
}

// Snapshot returns the running job's counters, or ok=false when idle.
func (e *Engine) Snapshot() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job == nil {
		return Snapshot{}, false
	}
	return e.job.progress.Snapshot(), true
}

// Wait blocks until the current job, if any, finishes.
func (e *Engine) Wait() {
	e.mu.Lock()
	job := e.job
	e.mu.Unlock()
	if job != nil {
		<-job.done
	}
}

// run is the worker. It scans every playlist captured at start, retrying a
// playlist from the top whenever a concurrent edit is detected, then posts
// the final summary and clears the singleton slot.
func (e *Engine) run(job *Job) {
	ctx := context.Background()

	for _, id := range job.order {
		for e.scanPlaylist(ctx, job, id) == scanConflict {
		}
	}

	snap := job.progress.Snapshot()
	e.logger.Info("gain recalculation finished",
		"job", job.ID, "analysed", snap.Analyzed(), "updated", snap.Succeeded,
		"failed", snap.Failed, "elapsed", snap.Elapsed)

	if err := e.notifier.Send(ctx, snap.Summary()); err != nil {
		e.logger.Error("failed to deliver completion notification", "job", job.ID, "err", err)
	}

	e.mu.Lock()
	e.job = nil
	e.mu.Unlock()
	close(job.done)
}

type scanResult int

const (
	scanDone scanResult = iota
	scanConflict
	scanAbandoned
)

// scanPlaylist performs one pass over one playlist. It returns
// scanConflict when a concurrent edit forces a fresh pass and
// scanAbandoned when the playlist vanished.
func (e *Engine) scanPlaylist(ctx context.Context, job *Job, id string) scanResult {
	snapshot, err := e.store.Fetch(id)
	if err != nil {
		e.abandon(job, id, passTally{})
		return scanAbandoned
	}

	var pass passTally

	for pos, item := range snapshot.Tracks {
		job.progress.AddScanned(1)
		pass.scanned++

		if !item.NeedsAnalysis() {
			continue
		}

		// item is already a detached clone; it stays the pre-analysis
		// snapshot no matter what foreground edits do meanwhile.
		url, err := e.resolver.ResolveStreamURL(ctx, item.ID)
		if err != nil {
			job.progress.AddFailed(1)
			pass.failed++
			e.logger.Warn("stream resolution failed",
				"playlist", id, "position", pos, "track", item.ID, "err", err)
			continue
		}

		gain, err := e.analyzer.MeasureGain(ctx, url)
		if err != nil {
			job.progress.AddFailed(1)
			pass.failed++
			e.logger.Warn("loudness analysis failed",
				"playlist", id, "position", pos, "track", item.ID, "err", err)
			continue
		}

		updated := item.SetMeta(models.MetaAnalyzed, "true")
		updated.Gain = &gain

		var (
			abandoned bool
			conflict  bool
			noOcc     bool
			affected  int
		)
		lockErr := e.store.WithLock(func(v library.View) error {
			if !v.Exists(id) {
				abandoned = true
				return nil
			}
			current, ok := v.TrackAt(id, pos)
			if !ok || !current.Equal(item) {
				conflict = true
				return nil
			}
			if len(v.Occurrences(item.Key())) == 0 {
				noOcc = true
				return nil
			}
			var err error
			affected, err = v.ReplaceEverywhere(updated)
			return err
		})

		switch {
		case abandoned:
			e.abandon(job, id, pass)
			return scanAbandoned

		case conflict:
			// Concurrent edit. Never overwrite it; rescan this playlist
			// from the top with a fresh snapshot. Successes stay counted,
			// the replaced items are no longer candidates on the rescan.
			job.progress.AddScanned(-pass.scanned)
			job.progress.AddFailed(-pass.failed)
			e.logger.Info("concurrent edit detected, rescanning playlist",
				"playlist", id, "position", pos, "track", item.ID)
			return scanConflict

		case noOcc:
			job.progress.AddFailed(1)
			pass.failed++
			e.logger.Warn("no occurrences found for track",
				"playlist", id, "position", pos, "track", item.ID)

		case lockErr != nil:
			job.progress.AddFailed(1)
			pass.failed++
			e.logger.Warn("replacement failed",
				"playlist", id, "position", pos, "track", item.ID, "err", lockErr)

		default:
			job.progress.AddSucceeded(int64(affected))
			pass.succeeded += int64(affected)
			e.logger.Debug("gain updated",
				"playlist", id, "position", pos, "track", item.ID,
				"gain", gain, "occurrences", affected)
		}
	}

	return scanDone
}

// abandon removes a vanished playlist's contribution from the estimate and
// rolls back whatever the current pass had already counted for it.
func (e *Engine) abandon(job *Job, id string, pass passTally) {
	job.progress.AddScanned(-pass.scanned)
	job.progress.AddSucceeded(-pass.succeeded)
	job.progress.AddFailed(-pass.failed)

	if c, ok := job.contributions[id]; ok {
		job.progress.AddTotal(-c.items)
		job.progress.AddEstimated(-c.candidates)
		delete(job.contributions, id)
	}

	e.logger.Info("playlist vanished mid-scan, abandoned", "playlist", id)
}
