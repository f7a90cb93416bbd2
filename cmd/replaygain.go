package main

import (
	"context"
	"time"

	"github.com/quietfall/gainbot/internal/ui"
	"github.com/urfave/cli/v3"
)

// statusTailInterval is how often --wait prints a status line.
const statusTailInterval = 5 * time.Second

// ReplayGainStart starts a recalculation job, or reports the running job's
// status when one is already active. With --wait it tails status lines
// until the job finishes.
func (r *Runner) ReplayGainStart(ctx context.Context, cmd *cli.Command) error {
	message, started := r.engine.StartOrStatus()
	if err := r.writePlainln("%s", message); err != nil {
		return err
	}
	if !started || !cmd.Bool("wait") {
		return nil
	}

	done := make(chan struct{})
	go func() {
		r.engine.Wait()
		close(done)
	}()

	ticker := time.NewTicker(statusTailInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if snap, running := r.engine.Snapshot(); running {
				if err := r.writePlainln("%s", snap.Report()); err != nil {
					return err
				}
			}
		case <-done:
			return r.writePlainln("recalculation finished")
		}
	}
}

// ReplayGainStatus reports the running job's progress. Unlike start, it
// never kicks off a new job.
func (r *Runner) ReplayGainStatus(ctx context.Context, cmd *cli.Command) error {
	snap, running := r.engine.Snapshot()
	if !running {
		return r.writePlainln("no recalculation running")
	}
	return r.writePlainln("%s", snap.Report())
}

// ReplayGainWatch opens the interactive status view over the running job.
func (r *Runner) ReplayGainWatch(ctx context.Context, cmd *cli.Command) error {
	if !r.engine.Running() {
		return r.writePlainln("no recalculation running")
	}
	return ui.Run(r.engine)
}
