// package bot maps prefixed chat commands onto watchlist operations
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/desertthunder/flicklog/internal/tasks"
)

const DefaultPrefix = "."

// Invocation is a single command message.
type Invocation struct {
	Command  string
	Args     string
	Author   chat.User
	Mentions []chat.User // users mentioned in the message, in order
	Conv     chat.Conversation
}

// HandlerFunc runs one command. A returned error is turned into a notice with [Notice].
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Command describes a registered command.
type Command struct {
	Name        string
	Usage       string // arguments shown in help, e.g. "[movie name]"
	Description string
	Handler     HandlerFunc
}

// Bot dispatches commands. It holds no per-conversation state; every invocation runs independently.
type Bot struct {
	prefix      string
	engine      tasks.Engine
	recommender services.Recommender
	logger      *log.Logger
	commands    map[string]Command
	order       []string
}

// Option configures a [Bot].
type Option func(*Bot)

// WithPrefix sets the command prefix.
func WithPrefix(prefix string) Option {
	return func(b *Bot) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithLogger sets the bot logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecommender enables the movie recommendation command.
func WithRecommender(r services.Recommender) Option {
	return func(b *Bot) {
		b.recommender = r
	}
}

// New creates a bot with the standard command set.
func New(engine tasks.Engine, opts ...Option) *Bot {
	b := &Bot{
		prefix:   DefaultPrefix,
		engine:   engine,
		logger:   log.Default(),
		commands: make(map[string]Command),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.register(Command{Name: "commands", Description: "Show this help.", Handler: b.help})
	b.register(Command{Name: "movie", Usage: "[prompt]", Description: "Ask GPT for recommendations.", Handler: b.movie})
	b.register(Command{Name: "log", Usage: "[movie name]", Description: "Search and log a movie to your watchlist.", Handler: b.log})
	b.register(Command{Name: "unlog", Usage: "[movie name]", Description: "Remove a movie from your watchlist.", Handler: b.unlog})
	b.register(Command{Name: "watchlist", Usage: "[@user]", Description: "View yours or another user’s watchlist.", Handler: b.watchlist})
	b.register(Command{Name: "syncletterboxd", Usage: "[link]", Description: "Link your Letterboxd profile.", Handler: b.syncLetterboxd})
	b.register(Command{Name: "importletterboxd", Description: "Import watched films from Letterboxd.", Handler: b.importLetterboxd})
	b.register(Command{Name: "compare", Usage: "@user1 @user2", Description: "Compare two users’ watchlists.", Handler: b.compare})
	return b
}

func (b *Bot) register(c Command) {
	b.commands[c.Name] = c
	b.order = append(b.order, c.Name)
}

// Prefix returns the command prefix.
func (b *Bot) Prefix() string {
	return b.prefix
}

// Commands returns the registered commands in help order.
func (b *Bot) Commands() []Command {
	commands := make([]Command, len(b.order))
	for i, name := range b.order {
		commands[i] = b.commands[name]
	}
	return commands
}

// Parse splits "{prefix}{name} {args}" into a known command name and its arguments.
func (b *Bot) Parse(content string) (name, args string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, b.prefix) {
		return "", "", false
	}

	rest := strings.TrimPrefix(content, b.prefix)
	name, args, _ = strings.Cut(rest, " ")
	name = strings.ToLower(name)
	if _, ok := b.commands[name]; !ok {
		return "", "", false
	}
	return name, strings.TrimSpace(args), true
}

// Handle runs inv.Command and reports any failure to the conversation.
//
// A panic in a handler is recovered and logged.
func (b *Bot) Handle(ctx context.Context, inv *Invocation) {
	logger := shared.WithLogger(b.logger, "command", inv.Command, "user", inv.Author.ID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("command panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	cmd, ok := b.commands[inv.Command]
	if !ok {
		logger.Debug("unknown command")
		return
	}

	logger.Debug("running command", "args", inv.Args)
	err := cmd.Handler(ctx, inv)
	if err == nil {
		return
	}

	notice := Notice(err)
	if errors.Is(err, shared.ErrMissingArgument) || errors.Is(err, shared.ErrInvalidArgument) {
		notice = fmt.Sprintf("%s Usage: `%s`", notice, b.usage(cmd))
	}

	switch {
	case notice == "":
		logger.Debug("command ended without notice", "err", err)
		return
	case isUserError(err):
		logger.Info("command rejected", "err", err)
	default:
		logger.Error("command failed", "err", err)
	}

	if _, sendErr := inv.Conv.Send(ctx, chat.Text(notice)); sendErr != nil {
		logger.Error("failed to send notice", "err", sendErr)
	}
}

func (b *Bot) usage(c Command) string {
	if c.Usage == "" {
		return b.prefix + c.Name
	}
	return fmt.Sprintf("%s%s %s", b.prefix, c.Name, c.Usage)
}
