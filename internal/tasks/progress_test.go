package tasks

import (
	"strings"
	"testing"
	"time"
)

func TestSnapshotAnalyzed(t *testing.T) {
	s := Snapshot{Succeeded: 7, Failed: 3}
	if got := s.Analyzed(); got != 10 {
		t.Errorf("Analyzed() = %d, want 10", got)
	}
}

func TestSnapshotThroughput(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		s       Snapshot
		want    float64
	}{
		{
			name:    "early run uses raw count as floor",
			elapsed: 10 * time.Second,
			s:       Snapshot{Succeeded: 5},
			want:    5,
		},
		{
			name:    "steady state is per minute",
			elapsed: 2 * time.Minute,
			s:       Snapshot{Succeeded: 30, Failed: 10},
			want:    20,
		},
		{
			name:    "nothing analyzed yet",
			elapsed: 10 * time.Second,
			s:       Snapshot{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.s.Elapsed = tt.elapsed
			if got := tt.s.Throughput(); got != tt.want {
				t.Errorf("Throughput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotETA(t *testing.T) {
	t.Run("remaining work at steady throughput", func(t *testing.T) {
		s := Snapshot{Estimated: 60, Succeeded: 20, Elapsed: 2 * time.Minute}
		eta, ok := s.ETA()
		if !ok {
			t.Fatal("expected an ETA")
		}
		// 40 remaining at 10/min.
		if eta != 4*time.Minute {
			t.Errorf("ETA() = %v, want 4m", eta)
		}
	})

	t.Run("done", func(t *testing.T) {
		s := Snapshot{Estimated: 10, Succeeded: 8, Failed: 2, Elapsed: time.Minute}
		eta, ok := s.ETA()
		if !ok || eta != 0 {
			t.Errorf("ETA() = %v, %v, want 0, true", eta, ok)
		}
	})

	t.Run("estimate shrank below analyzed", func(t *testing.T) {
		s := Snapshot{Estimated: 5, Succeeded: 8, Elapsed: time.Minute}
		if _, ok := s.ETA(); !ok {
			t.Error("expected a zero ETA when the estimate is already met")
		}
	})

	t.Run("no throughput yet", func(t *testing.T) {
		s := Snapshot{Estimated: 100, Elapsed: 10 * time.Second}
		if _, ok := s.ETA(); ok {
			t.Error("expected no ETA before anything is analyzed")
		}
	})
}

func TestSnapshotReport(t *testing.T) {
	s := Snapshot{
		Total: 120, Estimated: 40, Scanned: 60,
		Succeeded: 18, Failed: 2,
		Elapsed: 2 * time.Minute,
	}
	report := s.Report()

	for _, want := range []string{
		"scanned 60/120",
		"analysed 20 of ~40 candidates",
		"18 updated, 2 failed",
		"10.0/min",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("expected report to contain %q, got %q", want, report)
		}
	}

	idle := Snapshot{Estimated: 40, Elapsed: time.Second}
	if !strings.Contains(idle.Report(), "ETA N/A") {
		t.Errorf("expected N/A ETA with no throughput, got %q", idle.Report())
	}
}

func TestSnapshotSummary(t *testing.T) {
	s := Snapshot{
		Total: 50, Estimated: 10,
		Succeeded: 12, Failed: 1,
		Elapsed: 90 * time.Second,
	}
	summary := s.Summary()

	for _, want := range []string{
		"analysed 13 of ~10 candidates",
		"across 50 library entries",
		"12 occurrences updated, 1 failed",
		"1m 30s",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected summary to contain %q, got %q", want, summary)
		}
	}
}

func TestProgressCounters(t *testing.T) {
	p := NewProgress()
	p.AddTotal(10)
	p.AddEstimated(4)
	p.AddScanned(6)
	p.AddSucceeded(3)
	p.AddFailed(1)

	// Abandonment rolls contributions back.
	p.AddTotal(-2)
	p.AddEstimated(-1)

	s := p.Snapshot()
	if s.Total != 8 || s.Estimated != 3 || s.Scanned != 6 || s.Succeeded != 3 || s.Failed != 1 {
		t.Errorf("unexpected snapshot %+v", s)
	}
	if s.Elapsed < 0 {
		t.Errorf("expected non-negative elapsed, got %v", s.Elapsed)
	}
}
