package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Library errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrInvalidRange     = fmt.Errorf("invalid index range")

	// Analysis errors
	ErrNoStreamURL = fmt.Errorf("no playable stream URL")
	ErrAnalysis    = fmt.Errorf("loudness analysis failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
