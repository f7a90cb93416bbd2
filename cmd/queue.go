package main

import (
	"context"

	"github.com/quietfall/gainbot/internal/formatter"
	"github.com/quietfall/gainbot/internal/library"
	"github.com/urfave/cli/v3"
)

// QueueShow prints the playback queue.
func (r *Runner) QueueShow(ctx context.Context, cmd *cli.Command) error {
	queue, err := r.store.Fetch(library.QueueID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(queue, false)
	}

	return r.writePlain("%s", formatter.ExportToText(queue))
}

// QueueClear removes every track from the queue.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	queue, err := r.store.Fetch(library.QueueID)
	if err != nil {
		return err
	}

	if err := r.store.RemoveRange(library.QueueID, 0, queue.Len()); err != nil {
		return err
	}

	return r.writePlainln("cleared %d tracks from the queue", queue.Len())
}
