package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	th "github.com/desertthunder/flicklog/internal/testing"
)

func sampleExport() *models.WatchlistExport {
	added := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	return &models.WatchlistExport{
		UserID:     "1234",
		Name:       "Ada",
		ExportedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Entries: []models.WatchlistEntry{
			{UserID: "1234", Title: "Inception (2010)", AddedAt: added},
			{UserID: "1234", Title: "Untitled (N/A)", AddedAt: added},
			{UserID: "1234", Title: "Past Lives"},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Title,Year,Added\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Inception,2010,2024-03-09") {
			t.Errorf("CSV missing split title row, got: %s", output)
		}
		if !strings.Contains(output, "Untitled,N/A,2024-03-09") {
			t.Errorf("CSV missing unknown-year row, got: %s", output)
		}
		if !strings.Contains(output, "Past Lives,,") {
			t.Errorf("CSV missing imported row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("with entries", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport())
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Ada's Watchlist",
				"**Movies**: 3",
				"**Exported**: 2024-04-01",
				"## Movies",
				"1. Inception (2010) [added 2024-03-09]",
				"3. Past Lives\n",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
		})

		t.Run("empty watchlist", func(t *testing.T) {
			data, _ := ExportToMarkdown(&models.WatchlistExport{UserID: "42"})
			output := string(data)
			if !strings.Contains(output, "# 42's Watchlist") {
				t.Errorf("expected user ID fallback, got:\n%s", output)
			}
			if !strings.Contains(output, "_No movies logged._") {
				t.Errorf("expected empty notice, got:\n%s", output)
			}
			if strings.Contains(output, "**Exported**") {
				t.Errorf("expected no export date for zero time")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Watchlist: Ada\nMovies: 3\n\n") {
			t.Errorf("Text missing header, got:\n%s", output)
		}
		if !strings.Contains(output, "2. Untitled (N/A)\n") {
			t.Errorf("Text missing entry, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.WatchlistExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Entries) != 3 || decoded.Entries[0].Title != "Inception (2010)" {
			t.Errorf("unexpected entries %+v", decoded.Entries)
		}
	})
}

func TestExport(t *testing.T) {
	tests := []struct {
		format  string
		prefix  string
		wantErr bool
	}{
		{format: "csv", prefix: "Title,Year,Added"},
		{format: "markdown", prefix: "# Ada's Watchlist"},
		{format: "md", prefix: "# Ada's Watchlist"},
		{format: "txt", prefix: "Watchlist: Ada"},
		{format: "", prefix: "{"},
		{format: "JSON", prefix: "{"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Export(sampleExport(), tt.format)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, string(data))
			}
		})
	}
}

func TestWrite(t *testing.T) {
	t.Run("writes to writer", func(t *testing.T) {
		var buf strings.Builder
		if err := Write(&buf, sampleExport(), FormatText); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Inception (2010)") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("propagates writer failure", func(t *testing.T) {
		if err := Write(&th.FWriter{}, sampleExport(), FormatText); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestWriteExportFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			path, err := WriteExportFile(sampleExport(), format, dir)
			if err != nil {
				t.Fatalf("WriteExportFile failed: %v", err)
			}

			want := filepath.Join(dir, "1234_watchlist."+Extension(format))
			if path != want {
				t.Errorf("expected %s, got %s", want, path)
			}
			th.AssertFileExists(t, path)
		})
	}

	t.Run("sanitizes user IDs", func(t *testing.T) {
		export := sampleExport()
		export.UserID = "a/b c"
		path, err := WriteExportFile(export, FormatText, dir)
		if err != nil {
			t.Fatalf("WriteExportFile failed: %v", err)
		}
		if filepath.Base(path) != "a_b_c_watchlist.txt" {
			t.Errorf("unexpected file name %s", filepath.Base(path))
		}
	})
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(map[string]int{"exports": 2}, path); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	content := th.MustReadFile(t, path)
	if !strings.Contains(content, `"exports": 2`) {
		t.Errorf("unexpected manifest %s", content)
	}

	if err := WriteManifest(map[string]int{}, filepath.Join(t.TempDir(), "missing", "m.json")); err == nil {
		t.Error("expected error for missing directory")
	}
	_ = os.Remove(path)
}
