package bot

import (
	"context"
	"errors"

	"github.com/desertthunder/flicklog/internal/shared"
)

// Notice returns the message shown to the user for a failed command, or "" when nothing should be said.
func Notice(err error) string {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, shared.ErrTimeout):
		return "⌛ Timed out."
	case errors.Is(err, shared.ErrInvalidSelection):
		return "⌛ Timed out or invalid response."
	case errors.Is(err, shared.ErrEntryNotFound):
		return "❌ No matching movies found in your watchlist."
	case errors.Is(err, shared.ErrNoLinkedProfile):
		return "❌ You haven’t linked your Letterboxd profile. Use `.syncletterboxd`."
	case errors.Is(err, shared.ErrImportFailed):
		return "❌ Failed to import. Error: " + err.Error()
	case errors.Is(err, shared.ErrInsufficientData):
		return "❌ One or both users have empty watchlists."
	case errors.Is(err, shared.ErrLookupUnavailable):
		return "⚠️ Movie search is unavailable right now. Try again later."
	case errors.Is(err, shared.ErrMissingArgument):
		return "❌ Missing argument."
	case errors.Is(err, shared.ErrInvalidArgument):
		return "❌ Invalid argument."
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrMissingCredentials):
		return "⚠️ That feature is unavailable right now."
	case errors.Is(err, context.DeadlineExceeded):
		return "⌛ Timed out."
	default:
		return "⚠️ Something went wrong."
	}
}

// isUserError reports errors caused by user input or timing rather than the system.
func isUserError(err error) bool {
	for _, target := range []error{
		shared.ErrTimeout,
		shared.ErrInvalidSelection,
		shared.ErrEntryNotFound,
		shared.ErrNoLinkedProfile,
		shared.ErrInsufficientData,
		shared.ErrMissingArgument,
		shared.ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
