// Letterboxd [ProfileScraper] implementation
//
// Reads the public "films by date added" grid of a profile. Only the first page is read.
package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/flicklog/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultLetterboxdBaseURL string = "https://letterboxd.com"
	defaultLetterboxdAgent   string = "Mozilla/5.0"
)

var profilePattern = regexp.MustCompile(`letterboxd\.com/([\w-]+)/?`)

// Poster grid selectors, tried in order.
var filmSelectors = []string{"li.poster-container img", "li.poster img"}

// LetterboxdService implements [ProfileScraper] with goquery.
type LetterboxdService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLetterboxdService creates a scraper. A zero rps disables rate limiting.
func NewLetterboxdService(baseURL, userAgent string, rps float64, client *http.Client) *LetterboxdService {
	if baseURL == "" {
		baseURL = defaultLetterboxdBaseURL
	}
	if userAgent == "" {
		userAgent = defaultLetterboxdAgent
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	s := &LetterboxdService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: client,
	}
	if rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return s
}

// NewLetterboxdServiceFromConfig builds the scraper from the [shared.LetterboxdConfig] section.
func NewLetterboxdServiceFromConfig(cfg shared.LetterboxdConfig) *LetterboxdService {
	return NewLetterboxdService(cfg.BaseURL, cfg.UserAgent, cfg.RequestsPerSecond, nil)
}

// Name returns the service name.
func (s *LetterboxdService) Name() string {
	return "Letterboxd"
}

// ParseUsername extracts the username from a profile URL such as https://letterboxd.com/someone/.
func (s *LetterboxdService) ParseUsername(profileURL string) (string, error) {
	return ParseLetterboxdUsername(profileURL)
}

// ParseLetterboxdUsername extracts the username from a profile URL.
func ParseLetterboxdUsername(profileURL string) (string, error) {
	match := profilePattern.FindStringSubmatch(profileURL)
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("%w: %q is not a letterboxd profile link", shared.ErrImportFailed, profileURL)
	}
	return match[1], nil
}

// FilmsURL returns the page listing a user's films by date added.
func (s *LetterboxdService) FilmsURL(username string) string {
	return fmt.Sprintf("%s/%s/films/by/added/", s.baseURL, username)
}

// FilmTitles fetches the films page and returns the alt text of every poster image in page order.
//
// An empty slice with a nil error means the page had no recognizable posters.
func (s *LetterboxdService) FilmTitles(ctx context.Context, username string) ([]string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrImportFailed, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FilmsURL(username), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrImportFailed, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrImportFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: letterboxd returned status %d", shared.ErrImportFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", shared.ErrImportFailed, err)
	}
	return extractFilmTitles(doc), nil
}

func extractFilmTitles(doc *goquery.Document) []string {
	titles := []string{}
	for _, selector := range filmSelectors {
		doc.Find(selector).Each(func(_ int, img *goquery.Selection) {
			if alt, ok := img.Attr("alt"); ok {
				if alt = strings.TrimSpace(alt); alt != "" {
					titles = append(titles, alt)
				}
			}
		})
		if len(titles) > 0 {
			break
		}
	}
	return titles
}
