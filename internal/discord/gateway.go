package discord

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/bot"
	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/shared"
)

// Intents requested by the gateway: guild messages with content, and their reactions.
const Intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsDirectMessageReactions

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// Dispatcher parses and runs commands.
type Dispatcher interface {
	Parse(content string) (name, args string, ok bool)
	Handle(ctx context.Context, inv *bot.Invocation)
}

// Gateway routes Discord events to the waiter registry and the command dispatcher.
type Gateway struct {
	session    *discordgo.Session
	sender     Sender
	dispatcher Dispatcher
	waiters    *chat.Waiters
	logger     *log.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	closing bool
	wg      sync.WaitGroup
}

// NewGateway creates a gateway for a bot token.
func NewGateway(token string, dispatcher Dispatcher, logger *log.Logger) (*Gateway, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: discord token", shared.ErrMissingCredentials)
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = Intents

	g := newGateway(session, dispatcher, logger)
	g.session = session
	session.AddHandler(g.onReady)
	session.AddHandler(g.onMessageCreate)
	session.AddHandler(g.onReactionAdd)
	return g, nil
}

func newGateway(sender Sender, dispatcher Dispatcher, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		sender:     sender,
		dispatcher: dispatcher,
		waiters:    chat.NewWaiters(),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Waiters returns the registry fed by gateway events.
func (g *Gateway) Waiters() *chat.Waiters {
	return g.waiters
}

// Run opens the session and blocks until ctx is done. On shutdown the session is closed first,
// then commands still running are cancelled and awaited.
func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.mu.Lock()
	g.ctx, g.cancel = ctx, cancel
	g.mu.Unlock()

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	g.logger.Info("gateway connected")

	<-ctx.Done()
	g.logger.Info("gateway shutting down")

	closeErr := g.session.Close()
	g.drain()
	if closeErr != nil {
		return fmt.Errorf("failed to close discord session: %w", closeErr)
	}
	return nil
}

// drain stops accepting commands, cancels the running ones and waits for them to return.
func (g *Gateway) drain() {
	g.mu.Lock()
	g.closing = true
	cancel := g.cancel
	g.mu.Unlock()

	cancel()
	g.wg.Wait()
}

// track registers a command goroutine. It reports false once shutdown has begun.
func (g *Gateway) track() (context.Context, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closing || g.ctx.Err() != nil {
		return nil, false
	}
	g.wg.Add(1)
	return g.ctx, true
}

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	g.logger.Info("logged in", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (g *Gateway) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	g.waiters.Publish(chat.Event{
		Kind:      chat.MessageCreated,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		UserID:    m.Author.ID,
		Content:   m.Content,
	})

	name, args, ok := g.dispatcher.Parse(m.Content)
	if !ok {
		return
	}

	inv := &bot.Invocation{
		Command:  name,
		Args:     args,
		Author:   chat.User{ID: m.Author.ID, DisplayName: DisplayName(m.Author, m.Member)},
		Mentions: Mentions(m.Content, m.Mentions),
		Conv:     NewConversation(m.ChannelID, g.sender, g.waiters),
	}

	ctx, ok := g.track()
	if !ok {
		g.logger.Debug("dropping command during shutdown", "command", name, "user", m.Author.ID)
		return
	}
	go func() {
		defer g.wg.Done()
		g.dispatcher.Handle(ctx, inv)
	}()
}

func (g *Gateway) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	n := g.waiters.Publish(chat.Event{
		Kind:      chat.ReactionAdded,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
	})
	if n > 0 {
		g.logger.Debug("reaction resumed flow", "message", r.MessageID, "emoji", r.Emoji.Name)
	}
}

// DisplayName picks the guild nickname, then the global name, then the username.
func DisplayName(u *discordgo.User, member *discordgo.Member) string {
	switch {
	case member != nil && member.Nick != "":
		return member.Nick
	case u == nil:
		return ""
	case u.GlobalName != "":
		return u.GlobalName
	default:
		return u.Username
	}
}

// Mentions returns the mentioned users in the order they appear in content.
func Mentions(content string, users []*discordgo.User) []chat.User {
	byID := make(map[string]*discordgo.User, len(users))
	for _, u := range users {
		if u != nil {
			byID[u.ID] = u
		}
	}

	var mentions []chat.User
	for _, match := range mentionPattern.FindAllStringSubmatch(content, -1) {
		id := match[1]
		u, ok := byID[id]
		if !ok {
			continue
		}
		mentions = append(mentions, chat.User{ID: id, DisplayName: DisplayName(u, nil)})
	}
	return mentions
}
