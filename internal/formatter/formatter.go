// package formatter provides functions to export watchlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

const dateLayout = "2006-01-02"

// Formats lists the accepted --format values.
func Formats() []string {
	return []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatCSV, FormatText:
		return format
	default:
		return FormatJSON
	}
}

// ExportToCSV converts a WatchlistExport to CSV format with columns: Title, Year, Added
func ExportToCSV(export *models.WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Year", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range export.Entries {
		title, year := models.SplitTitle(entry.Title)
		record := []string{title, year, formatDate(entry)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a WatchlistExport to Markdown format
func ExportToMarkdown(export *models.WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s's Watchlist\n\n", displayName(export)))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n", len(export.Entries)))
	if !export.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format(dateLayout)))
	}
	buf.WriteString("\n## Movies\n\n")

	if len(export.Entries) == 0 {
		buf.WriteString("_No movies logged._\n")
	}
	for i, entry := range export.Entries {
		if added := formatDate(entry); added != "" {
			buf.WriteString(fmt.Sprintf("%d. %s [added %s]\n", i+1, entry.Title, added))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, entry.Title))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a WatchlistExport to plain text format
func ExportToText(export *models.WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Watchlist: %s\n", displayName(export)))
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(export.Entries)))

	for i, entry := range export.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, entry.Title))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a WatchlistExport to indented JSON
func ExportToJSON(export *models.WatchlistExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders export in the named format.
func Export(export *models.WatchlistExport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown, "md":
		return ExportToMarkdown(export)
	case FormatText, "text":
		return ExportToText(export)
	case FormatJSON, "":
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// Write renders export in the named format to w.
func Write(w io.Writer, export *models.WatchlistExport, format string) error {
	data, err := Export(export, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExportFile writes export into dir as {user}_watchlist.{ext} and returns the path.
//
// The directory is created if needed. An empty dir means the working directory.
func WriteExportFile(export *models.WatchlistExport, format, dir string) (string, error) {
	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_watchlist.%s", safeName(export.UserID), Extension(strings.ToLower(format))))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func displayName(export *models.WatchlistExport) string {
	if export.Name != "" {
		return export.Name
	}
	return export.UserID
}

func formatDate(entry models.WatchlistEntry) string {
	if entry.AddedAt.IsZero() {
		return ""
	}
	return entry.AddedAt.Format(dateLayout)
}

// safeName keeps user IDs usable as file names.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
