// package services defines the outbound adapters used by the watchlist bot
//
// TMDB (search), OpenAI (recommendations), Letterboxd (profile scraping)
package services

import (
	"context"

	"github.com/desertthunder/flicklog/internal/models"
)

// Service is implemented by every outbound adapter.
type Service interface {
	// Name returns the name of the provider (e.g., "TMDB", "Letterboxd")
	Name() string
}

// MovieSearcher looks up candidate movies for a free-text query.
type MovieSearcher interface {
	Service

	// SearchMovies returns candidates ordered most relevant first.
	// An empty slice with a nil error means nothing matched.
	SearchMovies(ctx context.Context, query string) ([]models.Candidate, error)
}

// Recommender produces free-text movie recommendations for a prompt.
type Recommender interface {
	Service

	Recommend(ctx context.Context, prompt string) (string, error)
}

// ProfileScraper reads the public film list of an external profile.
type ProfileScraper interface {
	Service

	// ParseUsername extracts the profile username from a profile URL.
	ParseUsername(profileURL string) (string, error)

	// FilmTitles returns the titles listed on the profile, in page order.
	FilmTitles(ctx context.Context, username string) ([]string, error)
}
