package models

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// UnknownYear is the token stored in place of a missing release year.
const UnknownYear = "N/A"

// WatchlistEntry is a single logged title for a chat member.
//
// Title is the exact stored string; removal and comparison match on it.
type WatchlistEntry struct {
	UserID  string    `json:"user_id"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

// ProfileLink associates a chat member with an external film diary profile.
type ProfileLink struct {
	UserID    string
	URL       string
	UpdatedAt time.Time
}

// Candidate is a transient metadata search result that has not been logged yet.
type Candidate struct {
	ID         int64
	Title      string
	Year       string // four-digit year or [UnknownYear]
	PosterPath string // provider-relative path, empty when absent
	Overview   string
}

// DisplayTitle formats the candidate as "{Title} ({Year})".
func (c Candidate) DisplayTitle() string {
	return FormatTitle(c.Title, c.Year)
}

// HasPoster reports whether the provider returned a poster reference.
func (c Candidate) HasPoster() bool {
	return c.PosterPath != ""
}

// FormatTitle builds the stored watchlist title, substituting [UnknownYear] for an empty year.
// The title is used exactly as the provider returned it.
func FormatTitle(title, year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		year = UnknownYear
	}
	return fmt.Sprintf("%s (%s)", title, year)
}

// YearFromDate returns the year portion of an ISO release date ("2010-07-15" -> "2010"),
// or [UnknownYear] when the date is missing or malformed.
func YearFromDate(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return UnknownYear
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return UnknownYear
		}
	}
	return date[:4]
}

// WatchlistStore is the persistence boundary for watchlists and profile links.
//
// Implementations must make AddEntry idempotent per (userID, title) and UpsertLink last-write-wins per userID.
type WatchlistStore interface {
	// AddEntry inserts a title, reporting false when it was already present.
	AddEntry(ctx context.Context, userID, title string) (bool, error)
	// AddEntries inserts titles as one atomic batch and returns how many rows were new.
	AddEntries(ctx context.Context, userID string, titles []string) (int, error)
	// RemoveEntry deletes an exact title, reporting false when nothing matched.
	RemoveEntry(ctx context.Context, userID, title string) (bool, error)
	// ListEntries returns a user's titles in insertion order.
	ListEntries(ctx context.Context, userID string) ([]WatchlistEntry, error)
	// UpsertLink stores or replaces a user's profile link.
	UpsertLink(ctx context.Context, userID, url string) error
	// GetLink returns a user's profile link or an error wrapping shared.ErrNoLinkedProfile.
	GetLink(ctx context.Context, userID string) (*ProfileLink, error)
	// Close releases the underlying connection or file.
	Close() error
}

// Titles extracts the title strings from entries.
func Titles(entries []WatchlistEntry) []string {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	return titles
}

// SplitTitle reverses [FormatTitle]: "Heat (1995)" -> ("Heat", "1995").
//
// Titles without a trailing parenthesized year (e.g. imported ones) return an empty year.
func SplitTitle(stored string) (title, year string) {
	stored = strings.TrimSpace(stored)
	open := strings.LastIndex(stored, " (")
	if open < 0 || !strings.HasSuffix(stored, ")") {
		return stored, ""
	}

	year = stored[open+2 : len(stored)-1]
	if year != UnknownYear && YearFromDate(year) != year {
		return stored, ""
	}
	return stored[:open], year
}

// WatchlistExport is a user's watchlist as written by the exporters.
type WatchlistExport struct {
	UserID     string           `json:"user_id"`
	Name       string           `json:"name"`
	ExportedAt time.Time        `json:"exported_at"`
	Entries    []WatchlistEntry `json:"entries"`
}
