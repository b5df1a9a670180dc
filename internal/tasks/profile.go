package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
)

// ImportResult describes a completed profile import.
type ImportResult struct {
	Username string   `json:"username"`
	Titles   []string `json:"titles"`
	Found    int      `json:"found"` // titles discovered on the page
	Added    int      `json:"added"` // titles that were not already on the watchlist
}

// LinkProfile stores profileURL for userID after checking it names a profile.
func (e *WatchlistEngine) LinkProfile(ctx context.Context, userID, profileURL string) (*models.ProfileLink, error) {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return nil, fmt.Errorf("%w: profile link", shared.ErrMissingArgument)
	}

	if _, err := services.ParseLetterboxdUsername(profileURL); err != nil {
		return nil, fmt.Errorf("%w: %q is not a letterboxd profile link", shared.ErrInvalidArgument, profileURL)
	}

	if err := e.store.UpsertLink(ctx, userID, profileURL); err != nil {
		return nil, err
	}
	return e.store.GetLink(ctx, userID)
}

// ImportProfile scrapes the user's linked profile and adds every title found in one batch.
//
// Without a link it returns [shared.ErrNoLinkedProfile] and fetches nothing.
// Scrape failures wrap [shared.ErrImportFailed] and leave the watchlist untouched.
func (e *WatchlistEngine) ImportProfile(ctx context.Context, userID string, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if e.scraper == nil {
		return nil, fmt.Errorf("%w: profile import not configured", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchProfileUpdate(userID))
	link, err := e.store.GetLink(ctx, userID)
	if err != nil {
		return nil, err
	}

	username, err := e.scraper.ParseUsername(link.URL)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, scrapeFilmsUpdate(username))
	titles, err := e.scraper.FilmTitles(ctx, username)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Username: username, Titles: titles, Found: len(titles)}
	if len(titles) == 0 {
		return result, nil
	}

	e.sendProgress(progress, importTitlesUpdate(len(titles)))
	added, err := e.store.AddEntries(ctx, userID, titles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrImportFailed, err)
	}
	result.Added = added

	e.logger.Info("imported profile", "user", userID, "username", username, "found", result.Found, "added", added)
	return result, nil
}
