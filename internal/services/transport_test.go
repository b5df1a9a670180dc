package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
	tu "github.com/desertthunder/flicklog/internal/testing"
)

func TestTransportFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("tmdb round trip error", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset"))}
		svc, err := services.NewTMDBService("secret", "http://tmdb.test", services.WithTMDBHTTPClient(client))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := svc.SearchMovies(ctx, "heat"); !errors.Is(err, shared.ErrLookupUnavailable) {
			t.Errorf("expected ErrLookupUnavailable, got %v", err)
		}
	})

	t.Run("tmdb body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		svc, _ := services.NewTMDBService("secret", "http://tmdb.test", services.WithTMDBHTTPClient(client))
		if _, err := svc.SearchMovies(ctx, "heat"); !errors.Is(err, shared.ErrLookupUnavailable) {
			t.Errorf("expected ErrLookupUnavailable, got %v", err)
		}
	})

	t.Run("letterboxd round trip error", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("no route to host"))}
		svc := services.NewLetterboxdService("http://letterboxd.test", "", 0, client)
		if _, err := svc.FilmTitles(ctx, "ada"); !errors.Is(err, shared.ErrImportFailed) {
			t.Errorf("expected ErrImportFailed, got %v", err)
		}
	})

	t.Run("letterboxd body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		svc := services.NewLetterboxdService("http://letterboxd.test", "", 0, client)
		if _, err := svc.FilmTitles(ctx, "ada"); !errors.Is(err, shared.ErrImportFailed) {
			t.Errorf("expected ErrImportFailed, got %v", err)
		}
	})
}
