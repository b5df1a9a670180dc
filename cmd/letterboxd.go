package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/flicklog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LetterboxdLink stores a user's profile URL.
func (r *Runner) LetterboxdLink(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	link, err := engine.LinkProfile(ctx, cmd.String("user"), cmd.String("url"))
	if err != nil {
		return err
	}
	return r.writePlain("🔗 Linked Letterboxd profile: %s\n", link.URL)
}

// LetterboxdImport scrapes the linked profile and merges its films into the watchlist.
func (r *Runner) LetterboxdImport(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	progress := make(chan tasks.ProgressUpdate, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.ImportProfile(ctx, cmd.String("user"), progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	if result.Found == 0 {
		return r.writePlain("⚠️ Couldn't find movies.\n")
	}
	return r.writePlain("📥 Imported %d movies from Letterboxd (%d new).\n", result.Found, result.Added)
}
