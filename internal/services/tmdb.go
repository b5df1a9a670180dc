// TMDB [MovieSearcher] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultTMDBBaseURL  string = "https://api.themoviedb.org/3"
	defaultTMDBImageURL string = "https://image.tmdb.org/t/p/w500"
)

// TMDBMovie is a single result of the TMDB movie search endpoint.
type TMDBMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
}

// TMDBSearchResponse models the paginated search response.
type TMDBSearchResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// Candidate converts the result into a [models.Candidate].
func (m TMDBMovie) Candidate() models.Candidate {
	return models.Candidate{
		ID:         m.ID,
		Title:      m.Title,
		Year:       models.YearFromDate(m.ReleaseDate),
		PosterPath: m.PosterPath,
		Overview:   m.Overview,
	}
}

// TMDBService implements [MovieSearcher] for the TMDB search API.
type TMDBService struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// TMDBOption configures a [TMDBService].
type TMDBOption func(*TMDBService)

// WithTMDBHTTPClient overrides the default HTTP client.
func WithTMDBHTTPClient(client *http.Client) TMDBOption {
	return func(s *TMDBService) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithTMDBRateLimit limits outbound searches to rps requests per second. Zero disables limiting.
func WithTMDBRateLimit(rps float64) TMDBOption {
	return func(s *TMDBService) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithTMDBLanguage sets the language query parameter.
func WithTMDBLanguage(language string) TMDBOption {
	return func(s *TMDBService) {
		s.language = strings.TrimSpace(language)
	}
}

// WithTMDBImageBaseURL overrides the poster base URL.
func WithTMDBImageBaseURL(base string) TMDBOption {
	return func(s *TMDBService) {
		if base = strings.TrimSpace(base); base != "" {
			s.imageBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewTMDBService creates a TMDB search client.
func NewTMDBService(apiKey, baseURL string, opts ...TMDBOption) (*TMDBService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: tmdb api key required", shared.ErrMissingCredentials)
	}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}

	s := &TMDBService{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: defaultTMDBImageURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewTMDBServiceFromConfig builds the service from the [shared.TMDBConfig] section.
func NewTMDBServiceFromConfig(cfg shared.TMDBConfig) (*TMDBService, error) {
	return NewTMDBService(cfg.APIKey, cfg.BaseURL,
		WithTMDBLanguage(cfg.Language),
		WithTMDBImageBaseURL(cfg.ImageBaseURL),
		WithTMDBRateLimit(cfg.RequestsPerSecond),
	)
}

// Name returns the service name.
func (s *TMDBService) Name() string {
	return "TMDB"
}

// PosterURL returns the absolute poster URL for a candidate, or "" when it has none.
func (s *TMDBService) PosterURL(c models.Candidate) string {
	if !c.HasPoster() {
		return ""
	}
	return s.imageBaseURL + "/" + strings.TrimLeft(c.PosterPath, "/")
}

// SearchMovies calls GET /search/movie once and maps the results in provider order.
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]models.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("query", query)
	if s.language != "" {
		params.Set("language", s.language)
	}

	var response TMDBSearchResponse
	if err := s.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(response.Results))
	for _, movie := range response.Results {
		candidates = append(candidates, movie.Candidate())
	}
	return candidates, nil
}

func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrLookupUnavailable, err)
		}
	}

	apiURL := fmt.Sprintf("%s%s?%s", s.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrLookupUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed after %s: %v", shared.ErrLookupUnavailable, time.Since(start).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			StatusMessage string `json:"status_message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.StatusMessage != "" {
			return fmt.Errorf("%w: tmdb API error (status %d): %s", shared.ErrLookupUnavailable, resp.StatusCode, errResp.StatusMessage)
		}
		return fmt.Errorf("%w: tmdb API error: status %d", shared.ErrLookupUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrLookupUnavailable, err)
	}
	return nil
}
