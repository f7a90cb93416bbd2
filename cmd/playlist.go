package main

import (
	"context"
	"fmt"

	"github.com/quietfall/gainbot/internal/formatter"
	"github.com/quietfall/gainbot/internal/models"
	"github.com/quietfall/gainbot/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints every playlist with its unanalyzed-track count.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists := r.store.Enumerate()

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.LibrarySummary(playlists))
}

// PlaylistShow prints one playlist's tracks and their gain values.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := r.store.Fetch(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.ExportToText(playlist))
}

// PlaylistCreate creates an empty named playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	playlist, err := r.store.Create(name)
	if err != nil {
		return err
	}

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	return r.writePlainln("created playlist %s (%s)", playlist.Name, playlist.ID)
}

// PlaylistAdd appends one track to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	source := models.Source(cmd.String("source"))
	if source != models.SourceStream && source != models.SourceRadio {
		return fmt.Errorf("%w: source %q (want stream or radio)", shared.ErrInvalidArgument, source)
	}

	track := &models.Track{
		ID:     cmd.String("track"),
		Source: source,
		Title:  cmd.String("title"),
	}
	if track.Title == "" {
		track.Title = track.ID
	}

	if err := r.store.Append(id, track); err != nil {
		return err
	}

	return r.writePlainln("added %s to %s", track.Title, id)
}

// PlaylistRemove deletes the position range [from, to) from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	from := int(cmd.Int("from"))
	to := int(cmd.Int("to"))
	if err := r.store.RemoveRange(id, from, to); err != nil {
		return err
	}

	return r.writePlainln("removed positions [%d, %d) from %s", from, to, id)
}

// PlaylistSwap exchanges two tracks by position.
func (r *Runner) PlaylistSwap(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	a := int(cmd.Int("a"))
	b := int(cmd.Int("b"))
	if err := r.store.Swap(id, a, b); err != nil {
		return err
	}

	return r.writePlainln("swapped positions %d and %d in %s", a, b, id)
}

// PlaylistDrop deletes a playlist entirely.
func (r *Runner) PlaylistDrop(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.store.Drop(id); err != nil {
		return err
	}

	r.logger.Info("playlist dropped", "id", id)
	return r.writePlainln("dropped playlist %s", id)
}

// PlaylistExport writes a playlist to a CSV file.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := r.store.Fetch(id)
	if err != nil {
		return err
	}

	path, err := formatter.WriteCSVExport(playlist, cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlainln("exported %s to %s", playlist.Name, path)
}
