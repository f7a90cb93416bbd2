// package tasks implements the bulk gain recalculation job: a process-wide
// singleton background worker that walks every playlist, measures loudness
// for each candidate track, and writes the resulting gain back to every
// occurrence of that track in the library.
//
// The worker never holds the library lock across an analysis call. Each
// candidate is analyzed from a detached snapshot; the write re-enters the
// lock, re-validates the snapshot against the live item, and either
// replaces it everywhere or, when a concurrent edit is detected, rescans
// the whole playlist. A playlist deleted mid-scan is abandoned and its
// contribution removed from the running estimate.
//
// There is no cancellation. The job runs to completion, posts a summary
// through the configured notifier, and frees the singleton slot.
package tasks
