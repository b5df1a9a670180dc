// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
)

// MockSearcher is a test double for [services.MovieSearcher]
type MockSearcher struct {
	Candidates []models.Candidate
	Err        error
	Queries    []string
}

func (m *MockSearcher) Name() string { return "mock" }

func (m *MockSearcher) SearchMovies(ctx context.Context, query string) ([]models.Candidate, error) {
	m.Queries = append(m.Queries, query)
	return m.Candidates, m.Err
}

// MockRecommender is a test double for [services.Recommender]
type MockRecommender struct {
	Reply   string
	Err     error
	Prompts []string
}

func (m *MockRecommender) Name() string { return "mock" }

func (m *MockRecommender) Recommend(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Reply, m.Err
}

// MockScraper is a test double for [services.ProfileScraper]. Username parsing uses the real pattern.
type MockScraper struct {
	Titles    []string
	Err       error
	Usernames []string
}

func (m *MockScraper) Name() string { return "mock" }

func (m *MockScraper) ParseUsername(profileURL string) (string, error) {
	return services.ParseLetterboxdUsername(profileURL)
}

func (m *MockScraper) FilmTitles(ctx context.Context, username string) ([]string, error) {
	m.Usernames = append(m.Usernames, username)
	return m.Titles, m.Err
}

// CountingStore wraps a [models.WatchlistStore] and counts mutations.
//
// When FailWrites is set every mutation returns it without touching the wrapped store.
type CountingStore struct {
	models.WatchlistStore
	mu         sync.Mutex
	Mutations  int
	FailWrites error
}

func (c *CountingStore) record() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Mutations++
	return c.FailWrites
}

func (c *CountingStore) AddEntry(ctx context.Context, userID, title string) (bool, error) {
	if err := c.record(); err != nil {
		return false, err
	}
	return c.WatchlistStore.AddEntry(ctx, userID, title)
}

func (c *CountingStore) AddEntries(ctx context.Context, userID string, titles []string) (int, error) {
	if err := c.record(); err != nil {
		return 0, err
	}
	return c.WatchlistStore.AddEntries(ctx, userID, titles)
}

func (c *CountingStore) RemoveEntry(ctx context.Context, userID, title string) (bool, error) {
	if err := c.record(); err != nil {
		return false, err
	}
	return c.WatchlistStore.RemoveEntry(ctx, userID, title)
}

func (c *CountingStore) UpsertLink(ctx context.Context, userID, url string) error {
	if err := c.record(); err != nil {
		return err
	}
	return c.WatchlistStore.UpsertLink(ctx, userID, url)
}

// Step is one scripted answer to an await call. A zero Step times out.
type Step struct {
	Value string
	Err   error
}

// React scripts a reaction with emoji.
func React(emoji string) Step { return Step{Value: emoji} }

// Reply scripts a reply with content.
func Reply(content string) Step { return Step{Value: content} }

// Timeout scripts an await that times out.
func Timeout() Step { return Step{} }

// ReactionCall records the arguments of one AwaitReaction.
type ReactionCall struct {
	MessageID string
	Allowed   []string
}

// FakeConversation is a scripted [chat.Conversation].
//
// Await calls consume Steps in order; an exhausted script behaves like a timeout.
type FakeConversation struct {
	mu      sync.Mutex
	Channel string
	Steps   []Step
	Sent    []chat.Outgoing
	SentIDs []string
	Deleted []string
	Awaited []ReactionCall
	Replies int
	SendErr error
	nextID  int
}

// NewFakeConversation scripts a conversation in channel "c1".
func NewFakeConversation(steps ...Step) *FakeConversation {
	return &FakeConversation{Channel: "c1", Steps: steps}
}

func (f *FakeConversation) ChannelID() string { return f.Channel }

func (f *FakeConversation) Send(ctx context.Context, msg chat.Outgoing) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return "", f.SendErr
	}
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.Sent = append(f.Sent, msg)
	f.SentIDs = append(f.SentIDs, id)
	return id, nil
}

func (f *FakeConversation) Delete(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, messageID)
	return nil
}

func (f *FakeConversation) next(ctx context.Context, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.Steps) == 0 {
		return "", fmt.Errorf("%w: no response within %s", shared.ErrTimeout, timeout)
	}
	step := f.Steps[0]
	f.Steps = f.Steps[1:]
	if step.Err != nil {
		return "", step.Err
	}
	if step.Value == "" {
		return "", fmt.Errorf("%w: no response within %s", shared.ErrTimeout, timeout)
	}
	return step.Value, nil
}

func (f *FakeConversation) AwaitReaction(ctx context.Context, messageID, userID string, allowed []string, timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Awaited = append(f.Awaited, ReactionCall{MessageID: messageID, Allowed: append([]string(nil), allowed...)})
	return f.next(ctx, timeout)
}

func (f *FakeConversation) AwaitReply(ctx context.Context, userID string, timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Replies++
	return f.next(ctx, timeout)
}

// Contents returns the text of every sent message.
func (f *FakeConversation) Contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	contents := make([]string, len(f.Sent))
	for i, m := range f.Sent {
		contents[i] = m.Content
	}
	return contents
}

// Last returns the most recently sent message.
func (f *FakeConversation) Last() chat.Outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return chat.Outgoing{}
	}
	return f.Sent[len(f.Sent)-1]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
