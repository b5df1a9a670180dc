package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

func TestTMDBService(t *testing.T) {
	t.Run("NewTMDBService", func(t *testing.T) {
		t.Run("requires api key", func(t *testing.T) {
			_, err := NewTMDBService("  ", "")
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("uses default base URL", func(t *testing.T) {
			svc, err := NewTMDBService("key", "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.baseURL != defaultTMDBBaseURL {
				t.Errorf("expected baseURL %s, got %s", defaultTMDBBaseURL, svc.baseURL)
			}
			if svc.Name() != "TMDB" {
				t.Errorf("expected name TMDB, got %s", svc.Name())
			}
		})

		t.Run("from config", func(t *testing.T) {
			cfg := shared.DefaultConfig().Credentials.TMDB
			cfg.APIKey = "key"
			svc, err := NewTMDBServiceFromConfig(cfg)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.limiter == nil {
				t.Error("expected default config to enable rate limiting")
			}
		})
	})

	t.Run("SearchMovies", func(t *testing.T) {
		t.Run("maps results in order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search/movie" {
					t.Errorf("expected path /search/movie, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("api_key") != "secret" {
					t.Errorf("expected api_key query parameter")
				}
				if r.URL.Query().Get("query") != "inception" {
					t.Errorf("expected query inception, got %s", r.URL.Query().Get("query"))
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"page": 1,
					"results": []map[string]any{
						{"id": 27205, "title": "Inception", "release_date": "2010-07-15", "poster_path": "/inception.jpg"},
						{"id": 1, "title": "Inception: The Cobol Job", "release_date": ""},
						{"id": 2, "title": ""},
					},
				})
			}))
			defer server.Close()

			svc, _ := NewTMDBService("secret", server.URL)
			candidates, err := svc.SearchMovies(context.Background(), " inception ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(candidates) != 3 {
				t.Fatalf("expected all 3 candidates in provider order, got %d", len(candidates))
			}
			if got := candidates[0].DisplayTitle(); got != "Inception (2010)" {
				t.Errorf("expected Inception (2010), got %s", got)
			}
			if got := candidates[1].DisplayTitle(); got != "Inception: The Cobol Job (N/A)" {
				t.Errorf("expected missing year to format as N/A, got %s", got)
			}
			if got := svc.PosterURL(candidates[0]); got != "https://image.tmdb.org/t/p/w500/inception.jpg" {
				t.Errorf("unexpected poster URL %s", got)
			}
			if got := candidates[2]; got.ID != 2 || got.DisplayTitle() != " (N/A)" {
				t.Errorf("expected blank title kept in third place, got %+v", got)
			}
			if got := svc.PosterURL(candidates[1]); got != "" {
				t.Errorf("expected no poster URL, got %s", got)
			}
		})

		t.Run("empty result is not an error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"page":1,"results":[]}`))
			}))
			defer server.Close()

			svc, _ := NewTMDBService("secret", server.URL)
			candidates, err := svc.SearchMovies(context.Background(), "zzzz")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(candidates) != 0 {
				t.Errorf("expected no candidates, got %d", len(candidates))
			}
		})

		t.Run("non-2xx is lookup unavailable and not retried", func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status_message":"down for maintenance"}`))
			}))
			defer server.Close()

			svc, _ := NewTMDBService("secret", server.URL)
			_, err := svc.SearchMovies(context.Background(), "heat")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
			if calls != 1 {
				t.Errorf("expected exactly one request, got %d", calls)
			}
		})

		t.Run("undecodable body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			}))
			defer server.Close()

			svc, _ := NewTMDBService("secret", server.URL)
			if _, err := svc.SearchMovies(context.Background(), "heat"); !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
		})

		t.Run("network failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			url := server.URL
			server.Close()

			svc, _ := NewTMDBService("secret", url)
			if _, err := svc.SearchMovies(context.Background(), "heat"); !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
		})

		t.Run("empty query", func(t *testing.T) {
			svc, _ := NewTMDBService("secret", "http://unused")
			if _, err := svc.SearchMovies(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}

func TestTMDBMovieCandidate(t *testing.T) {
	tests := []struct {
		name  string
		movie TMDBMovie
		want  models.Candidate
	}{
		{
			name:  "full",
			movie: TMDBMovie{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15", PosterPath: "/h.jpg"},
			want:  models.Candidate{ID: 1, Title: "Heat", Year: "1995", PosterPath: "/h.jpg"},
		},
		{
			name:  "raw title",
			movie: TMDBMovie{ID: 3, Title: "M ", ReleaseDate: "1931-05-11"},
			want:  models.Candidate{ID: 3, Title: "M ", Year: "1931"},
		},
		{
			name:  "no date",
			movie: TMDBMovie{ID: 2, Title: "Untitled"},
			want:  models.Candidate{ID: 2, Title: "Untitled", Year: models.UnknownYear},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.movie.Candidate(); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
