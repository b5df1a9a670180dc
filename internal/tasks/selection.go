package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

// PageSize is the number of candidates shown per browse page.
const PageSize = 4

// State of a [SelectionFlow].
type State int

const (
	Confirming State = iota
	Browsing
	Done
	Cancelled
	TimedOut
)

func (s State) String() string {
	switch s {
	case Confirming:
		return "confirming"
	case Browsing:
		return "browsing"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	case TimedOut:
		return "timed_out"
	default:
		return ""
	}
}

// Terminal reports whether the flow has finished.
func (s State) Terminal() bool {
	return s == Done || s == Cancelled || s == TimedOut
}

// SelectionResult describes how a selection flow ended.
type SelectionResult struct {
	FlowID   string
	State    State
	Page     int
	Selected *models.Candidate // nil unless State is Done
	Title    string            // stored title, set when State is Done
	Added    bool              // false when the title was already on the watchlist
}

// SelectionFlow walks a user from the top candidate through paginated browsing to a single store mutation.
//
// At most one entry is added per flow, and exactly one when the flow ends in [Done].
type SelectionFlow struct {
	id         string
	conv       chat.Conversation
	user       chat.User
	store      models.WatchlistStore
	candidates []models.Candidate
	timeout    time.Duration
	posters    PosterResolver
	logger     *log.Logger

	state    State
	page     int
	selected *models.Candidate
	title    string
	added    bool
}

// FlowOption configures a [SelectionFlow].
type FlowOption func(*SelectionFlow)

// WithFlowTimeout sets the per-wait timeout.
func WithFlowTimeout(d time.Duration) FlowOption {
	return func(f *SelectionFlow) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithFlowPosters sets the poster URL resolver.
func WithFlowPosters(p PosterResolver) FlowOption {
	return func(f *SelectionFlow) {
		if p != nil {
			f.posters = p
		}
	}
}

// WithFlowLogger sets the flow logger.
func WithFlowLogger(l *log.Logger) FlowOption {
	return func(f *SelectionFlow) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewSelectionFlow creates a flow over candidates, most relevant first.
func NewSelectionFlow(conv chat.Conversation, user chat.User, store models.WatchlistStore, candidates []models.Candidate, opts ...FlowOption) *SelectionFlow {
	f := &SelectionFlow{
		id:         shared.GenerateID(),
		conv:       conv,
		user:       user,
		store:      store,
		candidates: candidates,
		timeout:    DefaultWaitTimeout,
		posters:    defaultPosters{},
		logger:     log.Default(),
		state:      Confirming,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("flow", f.id)
	return f
}

// ID returns the flow identifier used in logs.
func (f *SelectionFlow) ID() string {
	return f.id
}

// State returns the current state.
func (f *SelectionFlow) State() State {
	return f.state
}

// Page returns the current browse page.
func (f *SelectionFlow) Page() int {
	return f.page
}

// PageCount returns the number of browse pages.
func (f *SelectionFlow) PageCount() int {
	return (len(f.candidates) + PageSize - 1) / PageSize
}

// PageCandidates returns the candidates shown on page.
func (f *SelectionFlow) PageCandidates(page int) []models.Candidate {
	start := page * PageSize
	if page < 0 || start >= len(f.candidates) {
		return nil
	}
	return f.candidates[start:min(start+PageSize, len(f.candidates))]
}

// Run drives the flow until it reaches a terminal state.
//
// A wait timeout ends in [TimedOut] and returns an error wrapping [shared.ErrTimeout].
// Context cancellation ends in [Cancelled] with a nil error. Neither mutates the store.
func (f *SelectionFlow) Run(ctx context.Context) (*SelectionResult, error) {
	if len(f.candidates) == 0 {
		f.state = Cancelled
		if _, err := f.conv.Send(ctx, chat.Text("❌ No results found.")); err != nil {
			return f.result(), err
		}
		return f.result(), nil
	}

	f.logger.Debug("selection started", "candidates", len(f.candidates))

	for !f.state.Terminal() {
		var err error
		switch f.state {
		case Confirming:
			err = f.confirm(ctx)
		case Browsing:
			err = f.browse(ctx)
		}
		if err != nil {
			err = f.fail(ctx, err)
			return f.result(), err
		}
	}

	f.logger.Debug("selection finished", "state", f.state, "title", f.title)
	return f.result(), nil
}

func (f *SelectionFlow) result() *SelectionResult {
	return &SelectionResult{
		FlowID:   f.id,
		State:    f.state,
		Page:     f.page,
		Selected: f.selected,
		Title:    f.title,
		Added:    f.added,
	}
}

// fail moves the flow to its terminal error state.
func (f *SelectionFlow) fail(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, shared.ErrTimeout):
		f.state = TimedOut
		f.logger.Info("selection timed out", "page", f.page)
		return err
	case ctx.Err() != nil:
		f.state = Cancelled
		f.logger.Debug("selection cancelled", "err", ctx.Err())
		return nil
	default:
		f.state = Cancelled
		return err
	}
}

func (f *SelectionFlow) confirm(ctx context.Context) error {
	top := f.candidates[0]

	msgID, err := f.conv.Send(ctx, chat.Outgoing{
		Content:   fmt.Sprintf("🎥 Did you mean **%s**? React with %s to confirm, %s to browse options.", top.DisplayTitle(), chat.EmojiAccept, chat.EmojiDecline),
		Reactions: []string{chat.EmojiAccept, chat.EmojiDecline},
	})
	if err != nil {
		return err
	}

	emoji, err := f.conv.AwaitReaction(ctx, msgID, f.user.ID, []string{chat.EmojiAccept, chat.EmojiDecline}, f.timeout)
	if err != nil {
		return err
	}

	if emoji == chat.EmojiAccept {
		return f.promote(ctx, top)
	}

	if err := f.conv.Delete(ctx, msgID); err != nil {
		f.logger.Warn("failed to retract prompt", "message", msgID, "err", err)
	}
	f.state, f.page = Browsing, 0
	return nil
}

// pageReactions returns the selectors offered on page: one ordinal per candidate, ⏪ when page > 0, and ⏩.
func (f *SelectionFlow) pageReactions(page int, shown int) []string {
	reactions := slices.Clone(chat.Ordinals[:shown])
	if page > 0 {
		reactions = append(reactions, chat.EmojiPrevious)
	}
	return append(reactions, chat.EmojiNext)
}

func (f *SelectionFlow) browse(ctx context.Context) error {
	shown := f.PageCandidates(f.page)
	reactions := f.pageReactions(f.page, len(shown))

	embed := &chat.Embed{
		Title:       "🎥 Choose a Movie to Log",
		Description: fmt.Sprintf("React to log. %s %s to scroll. (page %d/%d)", chat.EmojiPrevious, chat.EmojiNext, f.page+1, f.PageCount()),
	}
	for i, c := range shown {
		embed.Fields = append(embed.Fields, chat.Field{Name: fmt.Sprintf("%d)", i+1), Value: c.DisplayTitle()})
	}

	msgID, err := f.conv.Send(ctx, chat.Outgoing{Embed: embed, Reactions: reactions})
	if err != nil {
		return err
	}

	emoji, err := f.conv.AwaitReaction(ctx, msgID, f.user.ID, reactions, f.timeout)
	if err != nil {
		return err
	}

	switch emoji {
	case chat.EmojiNext:
		if f.page+1 >= f.PageCount() {
			if _, err := f.conv.Send(ctx, chat.Text("❌ No more results.")); err != nil {
				return err
			}
		} else {
			f.page++
		}
	case chat.EmojiPrevious:
		f.page--
	default:
		idx := slices.Index(chat.Ordinals, emoji)
		if idx < 0 || idx >= len(shown) {
			return fmt.Errorf("%w: unexpected reaction %q", shared.ErrInvalidSelection, emoji)
		}
		f.retract(ctx, msgID)
		return f.promote(ctx, shown[idx])
	}

	f.retract(ctx, msgID)
	return nil
}

func (f *SelectionFlow) retract(ctx context.Context, msgID string) {
	if err := f.conv.Delete(ctx, msgID); err != nil {
		f.logger.Warn("failed to retract page", "message", msgID, "err", err)
	}
}

// promote stores the candidate and announces it. This is the flow's only mutation.
func (f *SelectionFlow) promote(ctx context.Context, c models.Candidate) error {
	title := c.DisplayTitle()
	added, err := f.store.AddEntry(ctx, f.user.ID, title)
	if err != nil {
		return err
	}

	f.state = Done
	f.selected = &c
	f.title = title
	f.added = added

	content := fmt.Sprintf("✅ Logged **%s** to your watchlist!", title)
	if poster := f.posters.PosterURL(c); poster != "" {
		content += "\n" + poster
	}
	if _, err := f.conv.Send(ctx, chat.Text(content)); err != nil {
		f.logger.Warn("failed to send confirmation", "err", err)
	}
	return nil
}
