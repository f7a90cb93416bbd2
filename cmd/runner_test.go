package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/quietfall/gainbot/internal/library"
	"github.com/quietfall/gainbot/internal/models"
	"github.com/quietfall/gainbot/internal/shared"
	tu "github.com/quietfall/gainbot/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(output *bytes.Buffer) *Runner {
	return NewRunner(RunnerOpts{
		Config:   shared.DefaultConfig(),
		Store:    library.NewMemory(),
		Resolver: &tu.MockResolver{URLs: map[string]string{}},
		Analyzer: &tu.MockAnalyzer{Gain: -3.0},
		Notifier: &tu.MockNotifier{},
		Logger:   shared.NewLogger(io.Discard),
		Output:   output,
	})
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "gainbot",
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"gainbot"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := library.NewMemory()
			resolver := &tu.MockResolver{}
			analyzer := &tu.MockAnalyzer{}
			notifier := &tu.MockNotifier{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Store:    store,
				Resolver: resolver,
				Analyzer: analyzer,
				Notifier: notifier,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.store == nil {
				t.Error("expected a memory store to be created")
			}
			if runner.notifier == nil {
				t.Error("expected a log notifier to be created")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		r := newTestRunner(output)

		if err := r.writeJSON(map[string]int{"tracks": 3}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"tracks\":3}\n" {
			t.Errorf("unexpected output %q", got)
		}

		output.Reset()
		if err := r.writeJSON(map[string]int{"tracks": 3}, true); err != nil {
			t.Fatalf("writeJSON pretty failed: %v", err)
		}
		if !strings.Contains(output.String(), "  \"tracks\": 3") {
			t.Errorf("expected indented output, got %q", output.String())
		}
	})

	t.Run("writeJSON with failing writer", func(t *testing.T) {
		r := newTestRunner(nil)
		r.output = tu.FWriter{}

		if err := r.writeJSON("data", false); err == nil {
			t.Error("expected an error from a failing writer")
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("create and list", func(t *testing.T) {
		output := &bytes.Buffer{}
		r := newTestRunner(output)

		if err := runCommand(t, r, "playlist", "create", "Morning Mix"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if !strings.Contains(output.String(), "created playlist Morning Mix") {
			t.Errorf("unexpected create output %q", output.String())
		}

		output.Reset()
		if err := runCommand(t, r, "playlist", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Morning Mix") {
			t.Errorf("expected playlist in listing, got %q", output.String())
		}
	})

	t.Run("add and show", func(t *testing.T) {
		output := &bytes.Buffer{}
		r := newTestRunner(output)

		p, err := r.store.Create("Mix")
		if err != nil {
			t.Fatal(err)
		}

		if err := runCommand(t, r, "playlist", "add", "--track", "trk-1", "--title", "Song One", p.ID); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		output.Reset()
		if err := runCommand(t, r, "playlist", "show", p.ID); err != nil {
			t.Fatalf("show failed: %v", err)
		}
		if !strings.Contains(output.String(), "Song One") {
			t.Errorf("expected track in output, got %q", output.String())
		}
		if !strings.Contains(output.String(), "unanalyzed") {
			t.Errorf("expected unanalyzed marker, got %q", output.String())
		}
	})

	t.Run("add rejects bad source", func(t *testing.T) {
		r := newTestRunner(&bytes.Buffer{})
		p, _ := r.store.Create("Mix")

		err := runCommand(t, r, "playlist", "add", "--track", "trk-1", "--source", "vinyl", p.ID)
		if err == nil {
			t.Error("expected an error for an unknown source")
		}
	})

	t.Run("remove range", func(t *testing.T) {
		r := newTestRunner(&bytes.Buffer{})
		p, _ := r.store.Create("Mix")
		r.store.Append(p.ID,
			&models.Track{ID: "a", Source: models.SourceStream, Title: "One"},
			&models.Track{ID: "b", Source: models.SourceStream, Title: "Two"},
		)

		if err := runCommand(t, r, "playlist", "remove", "--from", "0", "--to", "1", p.ID); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		got, _ := r.store.Fetch(p.ID)
		if got.Len() != 1 || got.Tracks[0].ID != "b" {
			t.Errorf("unexpected remaining tracks %+v", got.Tracks)
		}
	})

	t.Run("drop", func(t *testing.T) {
		r := newTestRunner(&bytes.Buffer{})
		p, _ := r.store.Create("Mix")

		if err := runCommand(t, r, "playlist", "drop", p.ID); err != nil {
			t.Fatalf("drop failed: %v", err)
		}
		if _, err := r.store.Fetch(p.ID); err == nil {
			t.Error("expected playlist to be gone")
		}
	})
}

func TestQueueCommands(t *testing.T) {
	output := &bytes.Buffer{}
	r := newTestRunner(output)
	r.store.Append(library.QueueID,
		&models.Track{ID: "a", Source: models.SourceStream, Title: "Queued"},
	)

	if err := runCommand(t, r, "queue", "show"); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(output.String(), "Queued") {
		t.Errorf("expected queued track, got %q", output.String())
	}

	output.Reset()
	if err := runCommand(t, r, "queue", "clear"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(output.String(), "cleared 1 tracks") {
		t.Errorf("unexpected clear output %q", output.String())
	}

	queue, _ := r.store.Fetch(library.QueueID)
	if queue.Len() != 0 {
		t.Errorf("expected empty queue, got %d tracks", queue.Len())
	}
}

func TestReplayGainCommands(t *testing.T) {
	t.Run("status when idle", func(t *testing.T) {
		output := &bytes.Buffer{}
		r := newTestRunner(output)

		if err := runCommand(t, r, "replaygain", "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "no recalculation running") {
			t.Errorf("unexpected status output %q", output.String())
		}
	})

	t.Run("start with wait analyzes the library", func(t *testing.T) {
		output := &bytes.Buffer{}
		r := newTestRunner(output)

		p, _ := r.store.Create("Mix")
		r.store.Append(p.ID, &models.Track{ID: "trk-1", Source: models.SourceStream, Title: "One"})
		r.resolver.(*tu.MockResolver).URLs["trk-1"] = "http://cdn.example/trk-1"

		if err := runCommand(t, r, "replaygain", "start", "--wait"); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if !strings.Contains(output.String(), "~1 candidates") {
			t.Errorf("expected estimate in output, got %q", output.String())
		}
		if !strings.Contains(output.String(), "recalculation finished") {
			t.Errorf("expected completion line, got %q", output.String())
		}

		got, _ := r.store.Fetch(p.ID)
		if got.Tracks[0].Gain == nil {
			t.Error("expected track to be analyzed")
		}
	})
}
