// package tasks implements the watchlist operations behind bot commands and the CLI.
//
// The core abstraction is WatchlistEngine, which runs interactive selection and removal flows,
// profile imports and comparisons against a [models.WatchlistStore].
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
)

const (
	// DefaultWaitTimeout bounds every reaction or reply wait.
	DefaultWaitTimeout = 30 * time.Second

	defaultPosterBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Engine defines the watchlist operations exposed to the bot and CLI.
type Engine interface {
	// Log searches for query and lets user pick a candidate to add.
	Log(ctx context.Context, conv chat.Conversation, user chat.User, query string) (*SelectionResult, error)

	// Unlog removes the single title matching fragment, asking user to choose when several match.
	Unlog(ctx context.Context, conv chat.Conversation, user chat.User, fragment string) (*RemovalResult, error)

	// Watchlist returns a user's entries in insertion order.
	Watchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)

	// LinkProfile validates and stores a user's profile link.
	LinkProfile(ctx context.Context, userID, profileURL string) (*models.ProfileLink, error)

	// ImportProfile merges the titles on a user's linked profile into their watchlist.
	ImportProfile(ctx context.Context, userID string, progress chan<- ProgressUpdate) (*ImportResult, error)

	// Compare computes the overlap of two watchlists.
	Compare(ctx context.Context, userA, userB string, progress chan<- ProgressUpdate) (*ComparisonResult, error)
}

// PosterResolver turns a candidate's poster path into an absolute URL.
type PosterResolver interface {
	PosterURL(c models.Candidate) string
}

// WatchlistEngine implements [Engine].
// Contains dependencies on the store and the outbound services.
type WatchlistEngine struct {
	store    models.WatchlistStore
	searcher services.MovieSearcher
	scraper  services.ProfileScraper
	posters  PosterResolver
	timeout  time.Duration
	logger   *log.Logger
}

var _ Engine = (*WatchlistEngine)(nil)

// Option configures a [WatchlistEngine].
type Option func(*WatchlistEngine)

// WithWaitTimeout overrides [DefaultWaitTimeout].
func WithWaitTimeout(d time.Duration) Option {
	return func(e *WatchlistEngine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for flow events.
func WithLogger(logger *log.Logger) Option {
	return func(e *WatchlistEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPosterResolver overrides poster URL construction.
func WithPosterResolver(p PosterResolver) Option {
	return func(e *WatchlistEngine) {
		if p != nil {
			e.posters = p
		}
	}
}

// NewWatchlistEngine creates a new WatchlistEngine. searcher and scraper may be nil when the
// corresponding commands are not used; they fail with [shared.ErrServiceUnavailable].
//
// When searcher also implements [PosterResolver] it is used for poster URLs.
func NewWatchlistEngine(store models.WatchlistStore, searcher services.MovieSearcher, scraper services.ProfileScraper, opts ...Option) *WatchlistEngine {
	e := &WatchlistEngine{
		store:    store,
		searcher: searcher,
		scraper:  scraper,
		posters:  defaultPosters{},
		timeout:  DefaultWaitTimeout,
		logger:   log.Default(),
	}
	if p, ok := searcher.(PosterResolver); ok {
		e.posters = p
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying watchlist store.
func (e *WatchlistEngine) Store() models.WatchlistStore {
	return e.store
}

// sendProgress sends a progress update through the channel without blocking.
func (e *WatchlistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Watchlist returns a user's entries in insertion order.
func (e *WatchlistEngine) Watchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	return e.store.ListEntries(ctx, userID)
}

// Log runs a metadata lookup for query and hands the candidates to a [SelectionFlow].
func (e *WatchlistEngine) Log(ctx context.Context, conv chat.Conversation, user chat.User, query string) (*SelectionResult, error) {
	if e.searcher == nil {
		return nil, fmt.Errorf("%w: movie search not configured", shared.ErrServiceUnavailable)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: movie name", shared.ErrMissingArgument)
	}

	candidates, err := e.searcher.SearchMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	flow := NewSelectionFlow(conv, user, e.store, candidates,
		WithFlowTimeout(e.timeout),
		WithFlowPosters(e.posters),
		WithFlowLogger(shared.WithLogger(e.logger, "user", user.ID, "query", query)),
	)
	return flow.Run(ctx)
}

type defaultPosters struct{}

func (defaultPosters) PosterURL(c models.Candidate) string {
	if !c.HasPoster() {
		return ""
	}
	return defaultPosterBaseURL + "/" + strings.TrimLeft(c.PosterPath, "/")
}
