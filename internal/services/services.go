// package services defines the external integrations the recalculation job
// depends on, behind small interfaces so the job engine can be tested
// without a media provider, ffmpeg or a chat webhook.
package services

import "context"

// Resolver turns a track identifier into a fetchable stream URL.
type Resolver interface {
	// ResolveStreamURL returns the direct audio URL for a stream track.
	// Returns [shared.ErrNoStreamURL] when the provider has no audio for
	// the identifier.
	ResolveStreamURL(ctx context.Context, trackID string) (string, error)
}

// Analyzer measures the loudness of an audio stream.
type Analyzer interface {
	// MeasureGain downloads and analyzes the audio at url and returns the
	// gain adjustment, in dB, that brings it to the configured target
	// loudness.
	MeasureGain(ctx context.Context, url string) (float64, error)
}

// Notifier delivers one-line status messages to the operator channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
