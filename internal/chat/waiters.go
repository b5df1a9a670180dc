package chat

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/flicklog/internal/shared"
)

// EventKind distinguishes gateway events delivered to [Waiters].
type EventKind int

const (
	ReactionAdded EventKind = iota
	MessageCreated
)

func (k EventKind) String() string {
	switch k {
	case ReactionAdded:
		return "reaction_added"
	case MessageCreated:
		return "message_created"
	default:
		return ""
	}
}

// Event is a gateway event reduced to the fields predicates match on.
type Event struct {
	Kind      EventKind
	ChannelID string
	MessageID string // reacted-to message, or the new message
	UserID    string
	Emoji     string
	Content   string
}

// Predicate selects the events a waiter resumes on.
type Predicate func(Event) bool

// ReactionFrom matches userID reacting to messageID with one of allowed.
func ReactionFrom(messageID, userID string, allowed []string) Predicate {
	return func(ev Event) bool {
		return ev.Kind == ReactionAdded &&
			ev.MessageID == messageID &&
			ev.UserID == userID &&
			slices.Contains(allowed, ev.Emoji)
	}
}

// ReplyFrom matches the next message userID posts in channelID.
func ReplyFrom(channelID, userID string) Predicate {
	return func(ev Event) bool {
		return ev.Kind == MessageCreated && ev.ChannelID == channelID && ev.UserID == userID
	}
}

type waiter struct {
	match Predicate
	ch    chan Event
}

// Waiters is a registry of pending one-shot waits.
//
// Each published event resumes every waiter whose predicate matches it; unmatched events are dropped.
type Waiters struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]*waiter
}

// NewWaiters creates an empty registry.
func NewWaiters() *Waiters {
	return &Waiters{pending: make(map[uint64]*waiter)}
}

// Wait blocks until an event matching match is published.
func (w *Waiters) Wait(ctx context.Context, match Predicate, timeout time.Duration) (Event, error) {
	id, ch := w.register(match)
	defer w.unregister(id)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-ch:
		return ev, nil
	case <-timer.C:
		return Event{}, fmt.Errorf("%w: no response within %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (w *Waiters) register(match Predicate) (uint64, chan Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.next++
	ch := make(chan Event, 1)
	w.pending[w.next] = &waiter{match: match, ch: ch}
	return w.next, ch
}

func (w *Waiters) unregister(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, id)
}

// Publish delivers ev to every matching waiter and returns how many were resumed.
func (w *Waiters) Publish(ev Event) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	delivered := 0
	for id, p := range w.pending {
		if !p.match(ev) {
			continue
		}
		select {
		case p.ch <- ev:
			delivered++
		default:
		}
		delete(w.pending, id)
	}
	return delivered
}

// Len returns the number of pending waits.
func (w *Waiters) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
