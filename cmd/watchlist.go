package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/desertthunder/flicklog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// WatchlistList prints a user's watchlist in insertion order.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	userID := cmd.String("user")
	entries, err := engine.Watchlist(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list watchlist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("📭 No movies logged.\n")
	}

	r.writePlainHeader(fmt.Sprintf("%s's Watchlist (%d)", userID, len(entries)))
	for i, e := range entries {
		r.writePlain("%3d. %s  [%s]\n", i+1, e.Title, e.AddedAt.Local().Format("2006-01-02"))
	}
	return nil
}

// WatchlistAdd stores "{title} ({year})" for a user.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.String("title"))
	if title == "" {
		return fmt.Errorf("%w: --title", shared.ErrMissingArgument)
	}

	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	stored := models.FormatTitle(title, cmd.String("year"))
	added, err := engine.Store().AddEntry(ctx, cmd.String("user"), stored)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	if !added {
		return r.writePlain("• %s is already on the watchlist\n", stored)
	}
	return r.writePlain("✓ Logged %s\n", stored)
}

// WatchlistRemove deletes an exact stored title.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	title := cmd.String("title")
	removed, err := engine.Store().RemoveEntry(ctx, cmd.String("user"), title)
	if err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: %q", shared.ErrEntryNotFound, title)
	}
	return r.writePlain("✓ Removed %s\n", title)
}

// WatchlistExport writes one file per user plus a manifest.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	userIDs := cmd.StringSlice("user")
	progress := make(chan tasks.ProgressUpdate, len(userIDs)*2+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.BulkExport(ctx, progress, userIDs, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainHeader("Export Complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported:  %d/%d\n", result.SuccessfulExports, result.TotalUsers)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  ✗ %s: %s\n", res.UserID, res.Error)
		}
	}
	return nil
}

// Search prints metadata lookup candidates for a query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if r.searcher == nil {
		return fmt.Errorf("%w: set TMDB_API_KEY to enable search", shared.ErrServiceUnavailable)
	}

	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	candidates, err := r.searcher.SearchMovies(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}
	if len(candidates) == 0 {
		return r.writePlain("❌ No results found.\n")
	}
	for i, c := range candidates {
		r.writePlain("%2d. %s\n", i+1, c.DisplayTitle())
	}
	return nil
}

// Recommend prints AI recommendations for a prompt.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	if r.recommender == nil {
		return fmt.Errorf("%w: set OPENAI_API_KEY to enable recommendations", shared.ErrServiceUnavailable)
	}

	prompt := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	reply, err := r.recommender.Recommend(ctx, prompt)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", reply)
}

// Compare prints the overlap of two watchlists.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	engine, closeStore, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := engine.Compare(ctx, cmd.String("a"), cmd.String("b"), nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s vs %s", result.UserA, result.UserB))
	r.writePlain("Shared: %d of %d\n", result.SharedCount(), result.Total)
	r.writePlain("Match:  %.1f%%\n", result.MatchPercent)
	if len(result.Shared) > 0 {
		r.writePlainln("Shared titles:")
		for _, title := range result.Shared {
			r.writePlain("  • %s\n", title)
		}
	}
	return nil
}
