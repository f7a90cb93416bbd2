package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/quietfall/gainbot/internal/shared"
)

// DefaultTargetLoudness is the loudness, in LUFS, that measured tracks are
// normalized towards when the config does not say otherwise.
const DefaultTargetLoudness = -18.0

// integratedRe matches the integrated loudness line of ffmpeg's ebur128
// summary, e.g. "    I:         -23.1 LUFS".
var integratedRe = regexp.MustCompile(`I:\s+(-?\d+(?:\.\d+)?)\s+LUFS`)

// FFmpegAnalyzer measures loudness by running ffmpeg with the ebur128
// filter over the stream URL and parsing the summary it prints on exit.
type FFmpegAnalyzer struct {
	// Path is the ffmpeg binary to invoke.
	Path string
	// Target is the loudness the computed gain normalizes to, in LUFS.
	Target float64
}

// NewFFmpegAnalyzer builds an analyzer from config, applying defaults for
// unset fields.
func NewFFmpegAnalyzer(cfg shared.ReplayGainConfig) *FFmpegAnalyzer {
	path := cfg.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}
	target := cfg.TargetLoudness
	if target == 0 {
		target = DefaultTargetLoudness
	}
	return &FFmpegAnalyzer{Path: path, Target: target}
}

// MeasureGain implements [Analyzer]. The returned gain is the dB offset
// from the measured integrated loudness to the target.
func (a *FFmpegAnalyzer) MeasureGain(ctx context.Context, url string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.Path,
		"-hide_banner", "-nostats",
		"-i", url,
		"-map", "0:a:0",
		"-filter:a", "ebur128",
		"-f", "null", "-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: ffmpeg: %v", shared.ErrAnalysis, err)
	}

	loudness, err := parseIntegratedLoudness(stderr.String())
	if err != nil {
		return 0, err
	}
	return a.Target - loudness, nil
}

// parseIntegratedLoudness extracts the integrated loudness from ffmpeg's
// ebur128 output. The summary block repeats the "I:" line, the last one is
// the final measurement.
func parseIntegratedLoudness(output string) (float64, error) {
	matches := integratedRe.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: no loudness measurement in ffmpeg output", shared.ErrAnalysis)
	}

	last := matches[len(matches)-1][1]
	loudness, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing loudness %q: %v", shared.ErrAnalysis, last, err)
	}
	return loudness, nil
}
