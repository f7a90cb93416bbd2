// Package ui implements the interactive terminal view for watching a gain
// recalculation run.
//
// The [StatusModel] follows bubbletea's Elm-style Init/Update/View pattern.
// It polls the engine's counter snapshot on a timer, renders a progress bar
// against the live candidate estimate, and exits on its own once the job
// clears the singleton slot. The status path only copies counters, so
// watching never slows the worker down.
package ui
