package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/flicklog/internal/formatter"
	"github.com/desertthunder/flicklog/internal/models"
)

// BulkExportOpts contains configuration for bulk watchlist exports.
type BulkExportOpts struct {
	Format     string            // Export format: json, csv, markdown, txt
	OutputDir  string            // Base output directory (default: watchlist_export_{epoch})
	NumWorkers int               // Concurrent workers (default: 4)
	Names      map[string]string // Optional display names keyed by user ID
	Now        func() time.Time  // Clock for ExportedAt (default: time.Now)
}

// WatchlistExportResult is the outcome of exporting one user's watchlist.
type WatchlistExportResult struct {
	UserID  string `json:"user_id"`
	Entries int    `json:"entries"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	TotalUsers        int                     `json:"total_users"`
	SuccessfulExports int                     `json:"successful_exports"`
	FailedExports     int                     `json:"failed_exports"`
	OutputDirectory   string                  `json:"output_directory"`
	Format            string                  `json:"format"`
	Results           []WatchlistExportResult `json:"results"`
	ManifestPath      string                  `json:"-"`
}

// BulkExport writes the watchlists of userIDs concurrently and generates a manifest file summarizing the results.
//
// Individual failures are recorded in the result; only setup and manifest failures return an error.
func (e *WatchlistEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, userIDs []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("watchlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalUsers:      len(userIDs),
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		Results:         make([]WatchlistExportResult, 0, len(userIDs)),
	}

	jobs := make(chan string, len(userIDs))
	results := make(chan WatchlistExportResult, len(userIDs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, userID := range userIDs {
		e.sendProgress(prog, exportingWatchlistUpdate(i+1, len(userIDs), userID))
		jobs <- userID
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(userIDs), res.UserID, res.Entries))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(userIDs), res.UserID, fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports watchlists from the jobs channel.
func (e *WatchlistEngine) exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan string, results chan<- WatchlistExportResult, opts BulkExportOpts) {
	defer wg.Done()

	for userID := range jobs {
		if err := ctx.Err(); err != nil {
			results <- WatchlistExportResult{UserID: userID, Error: err.Error()}
			continue
		}
		results <- e.exportSingleWatchlist(ctx, userID, opts)
	}
}

// exportSingleWatchlist exports a single watchlist in the requested format.
func (e *WatchlistEngine) exportSingleWatchlist(ctx context.Context, userID string, opts BulkExportOpts) WatchlistExportResult {
	result := WatchlistExportResult{UserID: userID}

	entries, err := e.store.ListEntries(ctx, userID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to fetch watchlist: %v", err)
		return result
	}

	export := &models.WatchlistExport{
		UserID:     userID,
		Name:       opts.Names[userID],
		ExportedAt: opts.Now().UTC(),
		Entries:    entries,
	}

	path, err := formatter.WriteExportFile(export, opts.Format, opts.OutputDir)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Entries = len(entries)
	result.File = path
	result.Success = true
	return result
}
