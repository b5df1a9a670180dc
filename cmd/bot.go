package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/flicklog/internal/bot"
	"github.com/desertthunder/flicklog/internal/discord"
	"github.com/desertthunder/flicklog/internal/server"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Bot connects to Discord and serves commands until interrupted.
//
// With --port (or server.port) set, the HTTP status API runs alongside.
func (r *Runner) Bot(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []bot.Option{
		bot.WithPrefix(r.config.Bot.Prefix),
		bot.WithLogger(shared.WithLogger(r.logger, "component", "bot")),
	}
	if r.recommender != nil {
		opts = append(opts, bot.WithRecommender(r.recommender))
	} else {
		r.logger.Warn("no OpenAI key configured; .movie is disabled")
	}
	if r.searcher == nil {
		r.logger.Warn("no TMDB key configured; .log is disabled")
	}

	gateway, err := discord.NewGateway(r.config.Credentials.Discord.Token, bot.New(engine, opts...),
		shared.WithLogger(r.logger, "component", "gateway"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gateway.Run(ctx) })

	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}
	if port > 0 {
		addr := net.JoinHostPort(r.config.Server.Host, strconv.Itoa(port))
		srv := server.New(addr, r.config.Storage.Backend, engine, shared.WithLogger(r.logger, "component", "http"))
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}

	r.logger.Info("bot starting", "prefix", r.config.Bot.Prefix, "storage", r.config.Storage.Backend)
	return g.Wait()
}

// Serve runs the HTTP status API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}
	if port == 0 {
		port = 8080
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: port %d", shared.ErrInvalidArgument, port)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return server.New(addr, r.config.Storage.Backend, engine, r.logger).ListenAndServe(ctx)
}
