// package formatter renders playlists as plain text and CSV for the
// command layer and for file exports.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/quietfall/gainbot/internal/models"
)

// GainString renders a track's gain for display: a signed dB value, or
// "unanalyzed" when none is stored.
func GainString(t *models.Track) string {
	if t.Gain == nil {
		return "unanalyzed"
	}
	return fmt.Sprintf("%+.2f dB", *t.Gain)
}

// TrackLine renders one playlist entry as a single display line.
func TrackLine(position int, t *models.Track) string {
	marker := ""
	if t.Source == models.SourceRadio {
		marker = " [radio]"
	}
	return fmt.Sprintf("%d. %s%s (%s)", position+1, t.Title, marker, GainString(t))
}

// ExportToText converts a playlist to plain text format.
func ExportToText(p *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", p.Name))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", p.Len()))

	for i, t := range p.Tracks {
		buf.WriteString(TrackLine(i, t))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// ExportToCSV converts a playlist to CSV format with columns: Position, ID,
// Source, Title, Gain, Analyzed.
func ExportToCSV(p *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Source", "Title", "Gain", "Analyzed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, t := range p.Tracks {
		gain := ""
		if t.Gain != nil {
			gain = strconv.FormatFloat(*t.Gain, 'f', 2, 64)
		}
		record := []string{
			strconv.Itoa(i),
			t.ID,
			string(t.Source),
			t.Title,
			gain,
			t.Meta[models.MetaAnalyzed],
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LibrarySummary renders a one-line-per-playlist overview with candidate
// counts, mirroring what the recalculation pre-scan would find.
func LibrarySummary(playlists []*models.Playlist) []byte {
	var buf bytes.Buffer

	total, candidates := 0, 0
	for _, p := range playlists {
		c := 0
		for _, t := range p.Tracks {
			if t.NeedsAnalysis() {
				c++
			}
		}
		total += p.Len()
		candidates += c
		buf.WriteString(fmt.Sprintf("%s\t%d tracks\t%d unanalyzed\t(%s)\n", p.Name, p.Len(), c, p.ID))
	}
	buf.WriteString(fmt.Sprintf("\n%d playlists, %d tracks, %d unanalyzed\n", len(playlists), total, candidates))

	return buf.Bytes()
}

// WriteCSVExport writes a playlist to {base}_tracks.csv.
//
// Defaults to the playlist ID as the base filename.
func WriteCSVExport(p *models.Playlist, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = p.ID
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return tracksFile, nil
}
