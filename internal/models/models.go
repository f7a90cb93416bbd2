package models

import "time"

// Source identifies the backend a track is played from.
type Source string

const (
	// SourceStream is an on-demand audio file served by the media provider.
	SourceStream Source = "stream"
	// SourceRadio is a live radio endpoint. Radio entries have no finite
	// audio to measure and are never analyzed.
	SourceRadio Source = "radio"
)

// MetaAnalyzed is the metadata key marking a fully analyzed track. Set to
// the literal "true" together with the measured gain; anything else leaves
// the track a candidate.
const MetaAnalyzed = "replaygain"

// TrackKey is the identity of a track, independent of its mutable fields.
type TrackKey struct {
	Source Source
	ID     string
}

// Track is a single playlist entry.
type Track struct {
	ID            string            `json:"id"`
	Source        Source            `json:"source"`
	Title         string            `json:"title"`
	TitleOverride bool              `json:"title_override,omitempty"`
	Meta          map[string]string `json:"meta,omitempty"`
	Gain          *float64          `json:"gain,omitempty"`
}

// Key returns the track's identity.
func (t *Track) Key() TrackKey {
	return TrackKey{Source: t.Source, ID: t.ID}
}

// Clone returns a deep copy of the track. The copy shares no mutable
// state with the original, so it stays stable while the library changes
// underneath a running job.
func (t *Track) Clone() *Track {
	c := *t
	if t.Meta != nil {
		c.Meta = make(map[string]string, len(t.Meta))
		for k, v := range t.Meta {
			c.Meta[k] = v
		}
	}
	if t.Gain != nil {
		g := *t.Gain
		c.Gain = &g
	}
	return &c
}

// Equal reports whether two tracks are structurally identical, field by
// field. This is stricter than identity: a track edited while a snapshot
// of it was being analyzed will compare unequal even though Key matches.
func (t *Track) Equal(o *Track) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.ID != o.ID || t.Source != o.Source || t.Title != o.Title || t.TitleOverride != o.TitleOverride {
		return false
	}
	if (t.Gain == nil) != (o.Gain == nil) {
		return false
	}
	if t.Gain != nil && *t.Gain != *o.Gain {
		return false
	}
	if len(t.Meta) != len(o.Meta) {
		return false
	}
	for k, v := range t.Meta {
		ov, ok := o.Meta[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// SetMeta returns a copy of the track with the given metadata key set,
// allocating the map if needed. The receiver is not modified.
func (t *Track) SetMeta(key, value string) *Track {
	c := t.Clone()
	if c.Meta == nil {
		c.Meta = make(map[string]string, 1)
	}
	c.Meta[key] = value
	return c
}

// NeedsAnalysis reports whether the track is a candidate for loudness
// analysis: a stream entry that is missing its gain, its metadata, or the
// [MetaAnalyzed] flag. Radio entries are never candidates.
func (t *Track) NeedsAnalysis() bool {
	if t.Source != SourceStream {
		return false
	}
	if t.Meta == nil || t.Gain == nil {
		return true
	}
	return t.Meta[MetaAnalyzed] != "true"
}

// Playlist is a named, ordered list of tracks. Tracks may repeat within a
// playlist and across playlists.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tracks    []*Track  `json:"tracks"`
	CreatedAt time.Time `json:"created_at"`
}

// Len returns the number of track occurrences in the playlist.
func (p *Playlist) Len() int {
	return len(p.Tracks)
}

// Clone returns a deep copy of the playlist and every track in it.
func (p *Playlist) Clone() *Playlist {
	c := *p
	c.Tracks = make([]*Track, len(p.Tracks))
	for i, t := range p.Tracks {
		c.Tracks[i] = t.Clone()
	}
	return &c
}

// Occurrence locates one appearance of a track inside a playlist.
type Occurrence struct {
	PlaylistID string
	Position   int
}
