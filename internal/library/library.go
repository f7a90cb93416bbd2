// package library implements the playlist store. All reads and writes go
// through a single mutex, so every operation observes a consistent state;
// long-running work (loudness analysis) runs on detached [models.Track]
// clones and re-enters the lock only to compare-and-replace.
//
// The store is memory-first with an optional SQLite write-through: every
// mutation updates the in-memory state and, when a database is attached,
// persists the change before returning.
package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/quietfall/gainbot/internal/models"
	"github.com/quietfall/gainbot/internal/shared"
)

// QueueID is the reserved playlist holding the playback queue. It always
// exists and cannot be dropped, only cleared.
const QueueID = "queue"

// View is the set of operations available while holding the store lock.
// Implementations are only valid for the duration of the [Store.WithLock]
// callback that produced them.
type View interface {
	// Exists reports whether the playlist is still present.
	Exists(id string) bool

	// Playlist returns a deep copy of the playlist, or false if it no
	// longer exists.
	Playlist(id string) (*models.Playlist, bool)

	// TrackAt returns a deep copy of the track at the given position, or
	// false if the playlist is gone or the position is out of range.
	TrackAt(playlistID string, position int) (*models.Track, bool)

	// Occurrences lists every appearance of the given identity across all
	// playlists, in playlist order then position order.
	Occurrences(key models.TrackKey) []models.Occurrence

	// ReplaceEverywhere overwrites every occurrence of updated's identity,
	// in all playlists, with a clone of updated. Returns the number of
	// occurrences replaced.
	ReplaceEverywhere(updated *models.Track) (int, error)
}

// Store holds all playlists. The zero value is not usable; construct with
// [NewMemory] or [Open].
type Store struct {
	mu        sync.Mutex
	db        *sql.DB
	playlists map[string]*models.Playlist
	order     []string
}

// NewMemory creates a store with no database attached. State is lost on
// process exit. Used by tests and by the memory-only run mode.
func NewMemory() *Store {
	s := &Store{playlists: make(map[string]*models.Playlist)}
	s.playlists[QueueID] = &models.Playlist{ID: QueueID, Name: "Queue", CreatedAt: time.Now()}
	s.order = append(s.order, QueueID)
	return s
}

// Open creates a store backed by the given database and loads all persisted
// playlists into memory. The schema must already be migrated.
func Open(db *sql.DB) (*Store, error) {
	s := &Store{db: db, playlists: make(map[string]*models.Playlist)}
	if err := s.load(); err != nil {
		return nil, err
	}
	if _, ok := s.playlists[QueueID]; !ok {
		p := &models.Playlist{ID: QueueID, Name: "Queue", CreatedAt: time.Now()}
		if err := s.insertPlaylist(p, len(s.order)); err != nil {
			return nil, err
		}
		s.playlists[QueueID] = p
		s.order = append(s.order, QueueID)
	}
	return s, nil
}

// Enumerate returns deep copies of all playlists in creation order. The
// returned slice is a consistent snapshot taken under a single lock hold.
func (s *Store) Enumerate() []*models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Playlist, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.playlists[id].Clone())
	}
	return out
}

// Fetch returns a deep copy of one playlist.
func (s *Store) Fetch(id string) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return p.Clone(), nil
}

// Create adds an empty playlist with a generated ID.
func (s *Store) Create(name string) (*models.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Playlist{ID: shared.GenerateID(), Name: name, CreatedAt: time.Now()}
	if err := s.insertPlaylist(p, len(s.order)); err != nil {
		return nil, err
	}
	s.playlists[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.Clone(), nil
}

// Append adds clones of the given tracks to the end of a playlist.
func (s *Store) Append(id string, tracks ...*models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	next := p.Clone()
	for _, t := range tracks {
		next.Tracks = append(next.Tracks, t.Clone())
	}
	if err := s.rewriteTracks(next); err != nil {
		return err
	}
	s.playlists[id] = next
	return nil
}

// RemoveRange deletes the half-open position range [from, to) from a
// playlist. Positions outside the playlist are an error.
func (s *Store) RemoveRange(id string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if from < 0 || to > len(p.Tracks) || from > to {
		return fmt.Errorf("%w: [%d, %d) of %d tracks", shared.ErrInvalidRange, from, to, len(p.Tracks))
	}

	next := p.Clone()
	next.Tracks = append(next.Tracks[:from], next.Tracks[to:]...)
	if err := s.rewriteTracks(next); err != nil {
		return err
	}
	s.playlists[id] = next
	return nil
}

// Swap exchanges the tracks at two positions in a playlist.
func (s *Store) Swap(id string, i, j int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if i < 0 || j < 0 || i >= len(p.Tracks) || j >= len(p.Tracks) {
		return fmt.Errorf("%w: swap %d, %d of %d tracks", shared.ErrInvalidRange, i, j, len(p.Tracks))
	}
	if i == j {
		return nil
	}

	next := p.Clone()
	next.Tracks[i], next.Tracks[j] = next.Tracks[j], next.Tracks[i]
	if err := s.rewriteTracks(next); err != nil {
		return err
	}
	s.playlists[id] = next
	return nil
}

// Drop deletes a playlist. The queue playlist cannot be dropped.
func (s *Store) Drop(id string) error {
	if id == QueueID {
		return fmt.Errorf("%w: the queue cannot be dropped", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	if s.db != nil {
		if _, err := s.db.Exec("DELETE FROM playlist_tracks WHERE playlist_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete playlist tracks: %w", err)
		}
		if _, err := s.db.Exec("DELETE FROM playlists WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}
	}

	delete(s.playlists, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// WithLock runs fn while holding the store lock. Everything fn does through
// the [View] is a single atomic step with respect to all other store
// operations.
func (s *Store) WithLock(fn func(View) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&view{s: s})
}

// view implements View against a locked store.
type view struct {
	s *Store
}

func (v *view) Exists(id string) bool {
	_, ok := v.s.playlists[id]
	return ok
}

func (v *view) Playlist(id string) (*models.Playlist, bool) {
	p, ok := v.s.playlists[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (v *view) TrackAt(playlistID string, position int) (*models.Track, bool) {
	p, ok := v.s.playlists[playlistID]
	if !ok || position < 0 || position >= len(p.Tracks) {
		return nil, false
	}
	return p.Tracks[position].Clone(), true
}

func (v *view) Occurrences(key models.TrackKey) []models.Occurrence {
	var occ []models.Occurrence
	for _, id := range v.s.order {
		for pos, t := range v.s.playlists[id].Tracks {
			if t.Key() == key {
				occ = append(occ, models.Occurrence{PlaylistID: id, Position: pos})
			}
		}
	}
	return occ
}

func (v *view) ReplaceEverywhere(updated *models.Track) (int, error) {
	occ := v.Occurrences(updated.Key())
	if len(occ) == 0 {
		return 0, nil
	}

	// Persist first, like every other mutation; memory is only touched
	// once the database has accepted the update.
	if v.s.db != nil {
		meta, err := encodeMeta(updated.Meta)
		if err != nil {
			return 0, err
		}
		_, err = v.s.db.Exec(`
			UPDATE playlist_tracks
			SET title = ?, title_override = ?, gain = ?, meta = ?
			WHERE source = ? AND track_id = ?`,
			updated.Title, updated.TitleOverride, nullableGain(updated.Gain), meta,
			string(updated.Source), updated.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to persist track replacement: %w", err)
		}
	}

	for _, o := range occ {
		v.s.playlists[o.PlaylistID].Tracks[o.Position] = updated.Clone()
	}
	return len(occ), nil
}

// load reads all playlists and their tracks from the database.
func (s *Store) load() error {
	rows, err := s.db.Query("SELECT id, name, created_at FROM playlists ORDER BY seq")
	if err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &models.Playlist{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan playlist: %w", err)
		}
		s.playlists[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	trows, err := s.db.Query(`
		SELECT playlist_id, position, track_id, source, title, title_override, gain, meta
		FROM playlist_tracks`)
	if err != nil {
		return fmt.Errorf("failed to load tracks: %w", err)
	}
	defer trows.Close()

	positions := make(map[string][]int)
	for trows.Next() {
		var (
			playlistID string
			position   int
			source     string
			meta       sql.NullString
			gain       sql.NullFloat64
			t          models.Track
		)
		if err := trows.Scan(&playlistID, &position, &t.ID, &source, &t.Title, &t.TitleOverride, &gain, &meta); err != nil {
			return fmt.Errorf("failed to scan track: %w", err)
		}
		t.Source = models.Source(source)
		if gain.Valid {
			g := gain.Float64
			t.Gain = &g
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &t.Meta); err != nil {
				return fmt.Errorf("failed to decode track metadata: %w", err)
			}
		}

		p, ok := s.playlists[playlistID]
		if !ok {
			continue
		}
		p.Tracks = append(p.Tracks, &t)
		positions[playlistID] = append(positions[playlistID], position)
	}
	if err := trows.Err(); err != nil {
		return err
	}

	// Row order is not guaranteed; restore each playlist's track order from
	// the stored positions.
	for id, pos := range positions {
		p := s.playlists[id]
		sort.Sort(&byPosition{tracks: p.Tracks, positions: pos})
	}
	return nil
}

func (s *Store) insertPlaylist(p *models.Playlist, seq int) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(
		"INSERT INTO playlists (id, name, seq, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, seq, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

// rewriteTracks persists the full track list of one playlist. Mutations go
// through clone-and-swap, so rewriting the whole list keeps the database in
// step with memory without tracking per-row diffs.
func (s *Store) rewriteTracks(p *models.Playlist) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_tracks WHERE playlist_id = ?", p.ID); err != nil {
		return fmt.Errorf("failed to clear playlist tracks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO playlist_tracks (playlist_id, position, track_id, source, title, title_override, gain, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, t := range p.Tracks {
		meta, err := encodeMeta(t.Meta)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(p.ID, pos, t.ID, string(t.Source), t.Title, t.TitleOverride, nullableGain(t.Gain), meta); err != nil {
			return fmt.Errorf("failed to insert track: %w", err)
		}
	}

	return tx.Commit()
}

func encodeMeta(meta map[string]string) (any, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode track metadata: %w", err)
	}
	return string(b), nil
}

func nullableGain(g *float64) any {
	if g == nil {
		return nil
	}
	return *g
}

// byPosition sorts a track slice by its parallel stored-position slice.
type byPosition struct {
	tracks    []*models.Track
	positions []int
}

func (b *byPosition) Len() int           { return len(b.tracks) }
func (b *byPosition) Less(i, j int) bool { return b.positions[i] < b.positions[j] }
func (b *byPosition) Swap(i, j int) {
	b.tracks[i], b.tracks[j] = b.tracks[j], b.tracks[i]
	b.positions[i], b.positions[j] = b.positions[j], b.positions[i]
}
