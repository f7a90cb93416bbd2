// package models defines the domain types shared across the application:
// tracks, playlists and the identity/equality rules the library and the
// gain recalculation job are built on.
//
// A [Track] is identified by its (Source, ID) pair; two tracks with the
// same identity may still differ structurally (title, metadata, gain).
// [Track.Equal] is the structural comparison used for conflict detection,
// [Track.Clone] produces the detached snapshots handed to long-running
// work outside the library lock.
package models
