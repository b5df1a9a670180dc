// package chat defines the platform-neutral conversation surface used by interactive flows
package chat

import (
	"context"
	"time"
)

// Reaction emoji offered by interactive prompts.
const (
	EmojiAccept   = "✅"
	EmojiDecline  = "❌"
	EmojiPrevious = "⏪"
	EmojiNext     = "⏩"
)

// Ordinals are the selectors for up to four entries on a page.
var Ordinals = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣"}

// User identifies a chat member.
type User struct {
	ID          string
	DisplayName string
}

// Name returns the display name, falling back to the ID.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}

// Field is a titled block inside an [Embed].
type Field struct {
	Name  string
	Value string
}

// Embed is a rich message card.
type Embed struct {
	Title       string
	Description string
	ImageURL    string
	Fields      []Field
}

// Outgoing is a message to post, with the reactions the bot adds to it afterwards.
type Outgoing struct {
	Content   string
	Embed     *Embed
	Reactions []string
}

// Text builds a plain text message.
func Text(content string) Outgoing {
	return Outgoing{Content: content}
}

// Conversation is one channel as seen by a running command.
//
// Await calls block until a matching event arrives, ctx is done, or timeout elapses.
// A timeout returns an error wrapping shared.ErrTimeout.
type Conversation interface {
	// ChannelID identifies the channel the command was invoked in.
	ChannelID() string
	// Send posts a message and returns its ID.
	Send(ctx context.Context, msg Outgoing) (string, error)
	// Delete retracts a previously sent message.
	Delete(ctx context.Context, messageID string) error
	// AwaitReaction waits for userID to react to messageID with one of allowed and returns that emoji.
	AwaitReaction(ctx context.Context, messageID, userID string, allowed []string, timeout time.Duration) (string, error)
	// AwaitReply waits for userID's next message in this channel and returns its content.
	AwaitReply(ctx context.Context, userID string, timeout time.Duration) (string, error)
}
