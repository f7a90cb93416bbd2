// package testing provides shared test doubles for the service interfaces.
package testing

import (
	"context"
	"errors"
	"sync"
)

// MockResolver implements [services.Resolver] with canned URLs per track.
type MockResolver struct {
	mu sync.Mutex

	// URLs maps track IDs to the URL to return. A missing entry returns
	// Err (or an empty URL with no error if Err is nil).
	URLs map[string]string
	// Err is returned for track IDs not present in URLs.
	Err error

	calls map[string]int
}

// ResolveStreamURL implements the resolver interface.
func (m *MockResolver) ResolveStreamURL(_ context.Context, trackID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[trackID]++

	if url, ok := m.URLs[trackID]; ok {
		return url, nil
	}
	return "", m.Err
}

// Calls returns how many times the given track was resolved.
func (m *MockResolver) Calls(trackID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[trackID]
}

// TotalCalls returns the resolver call count across all tracks.
func (m *MockResolver) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// MockAnalyzer implements [services.Analyzer] with a fixed gain. When Gate
// is set, each measurement blocks until a value is received on it, which
// lets tests interleave library edits with in-flight analysis.
type MockAnalyzer struct {
	mu sync.Mutex

	// Gain is returned for every measurement.
	Gain float64
	// Err, when set, fails every measurement.
	Err error
	// Gate, when non-nil, is received from before each measurement
	// returns.
	Gate chan struct{}
	// Started, when non-nil, is sent to as each measurement begins.
	Started chan string

	calls int
}

// MeasureGain implements the analyzer interface.
func (m *MockAnalyzer) MeasureGain(ctx context.Context, url string) (float64, error) {
	m.mu.Lock()
	m.calls++
	started := m.Started
	gate := m.Gate
	m.mu.Unlock()

	if started != nil {
		started <- url
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Gain, nil
}

// Calls returns the number of measurements performed.
func (m *MockAnalyzer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockNotifier implements [services.Notifier] and records every message.
type MockNotifier struct {
	mu       sync.Mutex
	Err      error
	messages []string
}

// Send implements the notifier interface.
func (m *MockNotifier) Send(_ context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.messages = append(m.messages, message)
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *MockNotifier) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	copy(out, m.messages)
	return out
}

// ErrWriteFailed is returned by [FWriter].
var ErrWriteFailed = errors.New("write failed")

// FWriter is an io.Writer that always fails, for exercising error paths.
type FWriter struct{}

func (FWriter) Write(p []byte) (int, error) {
	return 0, ErrWriteFailed
}
