package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/desertthunder/flicklog/internal/chat"
)

// MaxMessageLength is Discord's limit on message content.
const MaxMessageLength = 2000

// Sender is the part of [discordgo.Session] a conversation writes through.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// Conversation is a channel bound to a sender and the gateway's waiter registry.
type Conversation struct {
	channelID string
	sender    Sender
	waiters   *chat.Waiters
}

// NewConversation creates a conversation for channelID.
func NewConversation(channelID string, sender Sender, waiters *chat.Waiters) *Conversation {
	return &Conversation{channelID: channelID, sender: sender, waiters: waiters}
}

func (c *Conversation) ChannelID() string {
	return c.channelID
}

// Send posts msg and adds its reactions in order. Long content is sent as several messages; the
// embed and reactions go on the last one, whose ID is returned.
func (c *Conversation) Send(ctx context.Context, msg chat.Outgoing) (string, error) {
	chunks := SplitMessage(msg.Content, MaxMessageLength)
	if len(chunks) == 0 {
		chunks = []string{""}
	}

	var sent *discordgo.Message
	for i, chunk := range chunks {
		data := &discordgo.MessageSend{Content: chunk}
		if i == len(chunks)-1 && msg.Embed != nil {
			data.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
		}

		m, err := c.sender.ChannelMessageSendComplex(c.channelID, data, discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("failed to send message: %w", err)
		}
		sent = m
	}

	for _, emoji := range msg.Reactions {
		if err := c.sender.MessageReactionAdd(c.channelID, sent.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			return sent.ID, fmt.Errorf("failed to add reaction %s: %w", emoji, err)
		}
	}
	return sent.ID, nil
}

func (c *Conversation) Delete(ctx context.Context, messageID string) error {
	if err := c.sender.ChannelMessageDelete(c.channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

func (c *Conversation) AwaitReaction(ctx context.Context, messageID, userID string, allowed []string, timeout time.Duration) (string, error) {
	ev, err := c.waiters.Wait(ctx, chat.ReactionFrom(messageID, userID, allowed), timeout)
	if err != nil {
		return "", err
	}
	return ev.Emoji, nil
}

func (c *Conversation) AwaitReply(ctx context.Context, userID string, timeout time.Duration) (string, error) {
	ev, err := c.waiters.Wait(ctx, chat.ReplyFrom(c.channelID, userID), timeout)
	if err != nil {
		return "", err
	}
	return ev.Content, nil
}

func toEmbed(e *chat.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: e.Title, Description: e.Description}
	if e.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
	}
	return embed
}

// SplitMessage breaks content into chunks of at most limit runes, preferring line breaks.
// A single line longer than limit is cut mid-line.
func SplitMessage(content string, limit int) []string {
	if content == "" {
		return nil
	}
	if limit <= 0 || len([]rune(content)) <= limit {
		return []string{content}
	}

	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if n > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		runes := []rune(line)
		if n+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		cur.WriteString(string(runes))
		n += len(runes)
	}
	flush()

	out := chunks[:0]
	for _, c := range chunks {
		if c = strings.TrimSuffix(c, "\n"); c != "" {
			out = append(out, c)
		}
	}
	return out
}
