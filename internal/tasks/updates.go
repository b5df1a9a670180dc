package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	ScrapeFilms
	ImportTitles
	FetchWatchlists
	Compare
	ExportWatchlist
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case ScrapeFilms:
		return "scrape_films"
	case ImportTitles:
		return "import_titles"
	case FetchWatchlists:
		return "fetch_watchlists"
	case Compare:
		return "compare"
	case ExportWatchlist:
		return "export_watchlist"
	default:
		return ""
	}
}

func fetchProfileUpdate(userID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("Looking up linked profile for %s...", userID),
	}
}

func scrapeFilmsUpdate(username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScrapeFilms,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Fetching films for letterboxd user %s...", username),
	}
}

func importTitlesUpdate(found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTitles,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("Importing %d titles...", found),
		Data:    found,
	}
}

func fetchWatchlistUpdate(step, total int, userID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWatchlists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching watchlist (%s)...", userID),
	}
}

func compareUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: "Comparing watchlists...",
	}
}

func exportingWatchlistUpdate(step, total int, userID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportWatchlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, userID),
	}
}

func exportCompletedUpdate(step, total int, userID string, entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportWatchlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d movies)", step, total, userID, entries),
	}
}

func exportFailedUpdate(step, total int, userID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportWatchlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, userID, err),
	}
}
