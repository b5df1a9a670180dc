package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

// FileStore implements [models.WatchlistStore] as a JSON document.
//
// With an empty path it keeps everything in memory. Otherwise every mutation rewrites the file.
type FileStore struct {
	mu   sync.Mutex
	path string
	data fileData
	now  func() time.Time
}

type fileData struct {
	Watchlists map[string][]fileEntry `json:"watchlists"`
	Profiles   map[string]fileProfile `json:"profiles"`
}

type fileEntry struct {
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

type fileProfile struct {
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFileStore loads the store at path, starting empty when the file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: fileData{Watchlists: map[string][]fileEntry{}, Profiles: map[string]fileProfile{}},
		now:  func() time.Time { return time.Now().UTC() },
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("%w: corrupt store file %s: %v", shared.ErrInvalidConfig, path, err)
	}
	if s.data.Watchlists == nil {
		s.data.Watchlists = map[string][]fileEntry{}
	}
	if s.data.Profiles == nil {
		s.data.Profiles = map[string]fileProfile{}
	}
	return s, nil
}

// persist writes the document through a temp file and rename. Callers hold mu.
func (s *FileStore) persist() error {
	if s.path == "" {
		return nil
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func containsTitle(entries []fileEntry, title string) bool {
	return slices.ContainsFunc(entries, func(e fileEntry) bool { return e.Title == title })
}

// AddEntry appends a title unless the user already has it.
func (s *FileStore) AddEntry(ctx context.Context, userID, title string) (bool, error) {
	added, err := s.AddEntries(ctx, userID, []string{title})
	return added > 0, err
}

// AddEntries appends all new titles and persists once. On a write failure nothing is kept.
func (s *FileStore) AddEntries(ctx context.Context, userID string, titles []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.data.Watchlists[userID]
	entries := slices.Clone(previous)
	for _, title := range titles {
		if containsTitle(entries, title) {
			continue
		}
		entries = append(entries, fileEntry{Title: title, AddedAt: s.now()})
	}

	added := len(entries) - len(previous)
	if added == 0 {
		return 0, nil
	}

	s.data.Watchlists[userID] = entries
	if err := s.persist(); err != nil {
		s.restoreWatchlist(userID, previous)
		return 0, err
	}
	return added, nil
}

func (s *FileStore) restoreWatchlist(userID string, previous []fileEntry) {
	if previous == nil {
		delete(s.data.Watchlists, userID)
		return
	}
	s.data.Watchlists[userID] = previous
}

// RemoveEntry deletes the exact title.
func (s *FileStore) RemoveEntry(ctx context.Context, userID, title string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.data.Watchlists[userID]
	idx := slices.IndexFunc(previous, func(e fileEntry) bool { return e.Title == title })
	if idx < 0 {
		return false, nil
	}

	s.data.Watchlists[userID] = slices.Delete(slices.Clone(previous), idx, idx+1)
	if err := s.persist(); err != nil {
		s.restoreWatchlist(userID, previous)
		return false, err
	}
	return true, nil
}

// ListEntries returns a copy of the user's entries in insertion order.
func (s *FileStore) ListEntries(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.data.Watchlists[userID]
	entries := make([]models.WatchlistEntry, len(stored))
	for i, e := range stored {
		entries[i] = models.WatchlistEntry{UserID: userID, Title: e.Title, AddedAt: e.AddedAt}
	}
	return entries, nil
}

// UpsertLink replaces the user's profile link.
func (s *FileStore) UpsertLink(ctx context.Context, userID, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data.Profiles[userID]
	s.data.Profiles[userID] = fileProfile{URL: url, UpdatedAt: s.now()}
	if err := s.persist(); err != nil {
		if existed {
			s.data.Profiles[userID] = previous
		} else {
			delete(s.data.Profiles, userID)
		}
		return err
	}
	return nil
}

// GetLink returns the user's profile link.
func (s *FileStore) GetLink(ctx context.Context, userID string) (*models.ProfileLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.data.Profiles[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoLinkedProfile, userID)
	}
	return &models.ProfileLink{UserID: userID, URL: profile.URL, UpdatedAt: profile.UpdatedAt}, nil
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error {
	return nil
}
