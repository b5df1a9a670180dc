package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/flicklog/internal/shared"
)

const posterContainerPage = `<html><body><ul>
<li class="poster-container"><div><img alt="Past Lives" src="a.jpg"></div></li>
<li class="poster-container"><div><img alt="Aftersun" src="b.jpg"></div></li>
<li class="poster-container"><div><img alt=" " src="c.jpg"></div></li>
</ul></body></html>`

const posterPage = `<html><body><ul>
<li class="poster film-poster"><img alt="Perfect Days"></li>
</ul></body></html>`

func TestParseLetterboxdUsername(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://letterboxd.com/dave/", want: "dave"},
		{url: "letterboxd.com/film-fan_99", want: "film-fan_99"},
		{url: "https://letterboxd.com/dave/films/", want: "dave"},
		{url: "https://example.com/dave/", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ParseLetterboxdUsername(tt.url)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrImportFailed) {
					t.Errorf("expected ErrImportFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLetterboxdService(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := NewLetterboxdService("", "", 0, nil)
		if svc.FilmsURL("dave") != "https://letterboxd.com/dave/films/by/added/" {
			t.Errorf("unexpected films URL %s", svc.FilmsURL("dave"))
		}
		if svc.Name() != "Letterboxd" {
			t.Errorf("expected name Letterboxd, got %s", svc.Name())
		}
	})

	t.Run("reads poster-container alts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/dave/films/by/added/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("User-Agent") != "Mozilla/5.0" {
				t.Errorf("expected browser user agent, got %q", r.Header.Get("User-Agent"))
			}
			w.Write([]byte(posterContainerPage))
		}))
		defer server.Close()

		svc := NewLetterboxdService(server.URL, "", 0, server.Client())
		titles, err := svc.FilmTitles(context.Background(), "dave")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(titles) != 2 || titles[0] != "Past Lives" || titles[1] != "Aftersun" {
			t.Errorf("unexpected titles %v", titles)
		}
	})

	t.Run("falls back to poster selector", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(posterPage))
		}))
		defer server.Close()

		svc := NewLetterboxdService(server.URL, "", 0, nil)
		titles, err := svc.FilmTitles(context.Background(), "dave")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(titles) != 1 || titles[0] != "Perfect Days" {
			t.Errorf("unexpected titles %v", titles)
		}
	})

	t.Run("page without posters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body><p>Nothing here</p></body></html>`))
		}))
		defer server.Close()

		svc := NewLetterboxdService(server.URL, "", 0, nil)
		titles, err := svc.FilmTitles(context.Background(), "dave")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(titles) != 0 {
			t.Errorf("expected no titles, got %v", titles)
		}
	})

	t.Run("non-2xx is import failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		svc := NewLetterboxdService(server.URL, "", 0, nil)
		if _, err := svc.FilmTitles(context.Background(), "ghost"); !errors.Is(err, shared.ErrImportFailed) {
			t.Errorf("expected ErrImportFailed, got %v", err)
		}
	})
}
