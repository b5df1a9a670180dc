package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/flicklog/internal/formatter"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

var contentTypes = map[string]string{
	formatter.FormatCSV:      "text/csv; charset=utf-8",
	formatter.FormatMarkdown: "text/markdown; charset=utf-8",
	"md":                     "text/markdown; charset=utf-8",
	formatter.FormatText:     "text/plain; charset=utf-8",
	"text":                   "text/plain; charset=utf-8",
}

// WatchlistHandler serves watchlists and comparisons.
type WatchlistHandler struct {
	reader WatchlistReader
	mux    *http.ServeMux
	now    func() time.Time
}

// NewWatchlistHandler creates a handler backed by reader.
func NewWatchlistHandler(reader WatchlistReader) *WatchlistHandler {
	h := &WatchlistHandler{reader: reader, mux: http.NewServeMux(), now: time.Now}
	h.mux.HandleFunc("GET /api/watchlists/{user}", h.watchlist)
	h.mux.HandleFunc("GET /api/compare", h.compare)
	return h
}

func (h *WatchlistHandler) Routes() []string {
	return []string{"/api/watchlists/", "/api/compare"}
}

func (h *WatchlistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *WatchlistHandler) watchlist(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	entries, err := h.reader.Watchlist(r.Context(), user)
	if err != nil {
		writeError(w, StatusFor(err), err.Error())
		return
	}

	export := &models.WatchlistExport{UserID: user, Name: user, ExportedAt: h.now().UTC(), Entries: entries}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" || format == formatter.FormatJSON {
		writeJSON(w, http.StatusOK, export)
		return
	}

	data, err := formatter.Export(export, format)
	if err != nil {
		writeError(w, StatusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *WatchlistHandler) compare(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}

	result, err := h.reader.Compare(r.Context(), a, b, nil)
	if err != nil {
		writeError(w, StatusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// StatusFor maps an error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNoLinkedProfile), errors.Is(err, shared.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrLookupUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
