package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrLookupUnavailable  = fmt.Errorf("movie lookup unavailable")
	ErrImportFailed       = fmt.Errorf("profile import failed")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Watchlist errors
	ErrNoLinkedProfile  = fmt.Errorf("no linked profile")
	ErrInsufficientData = fmt.Errorf("insufficient watchlist data")
	ErrInvalidSelection = fmt.Errorf("invalid selection")
	ErrEntryNotFound    = fmt.Errorf("watchlist entry not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
