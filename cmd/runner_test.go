package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	tu "github.com/desertthunder/flicklog/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner returns a runner on a JSON file store inside a temp dir.
func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.Storage.Backend = shared.BackendFile
	config.File.Path = filepath.Join(t.TempDir(), "watchlists.json")

	output := &bytes.Buffer{}
	opts.Config = config
	opts.Output = output
	opts.Logger = log.New(io.Discard)
	return NewRunner(opts), output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "flicklog", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"flicklog"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			searcher := &tu.MockSearcher{}
			recommender := &tu.MockRecommender{}
			scraper := &tu.MockScraper{}

			runner := NewRunner(RunnerOpts{
				Config:      config,
				Logger:      logger,
				Output:      output,
				Searcher:    searcher,
				Recommender: recommender,
				Scraper:     scraper,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.searcher != searcher {
				t.Error("expected searcher to be set")
			}
			if runner.recommender != recommender {
				t.Error("expected recommender to be set")
			}
			if runner.scraper != scraper {
				t.Error("expected scraper to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "bot", "serve", "watchlist", "search", "recommend", "compare", "letterboxd", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestWatchlistCommands(t *testing.T) {
	runner, output := newTestRunner(t, RunnerOpts{})

	if err := run(t, runner, "watchlist", "add", "--user", "u1", "--title", "Heat", "--year", "1995"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := run(t, runner, "watchlist", "add", "--user", "u1", "--title", "Nameless"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := run(t, runner, "watchlist", "add", "--user", "u1", "--title", "Heat", "--year", "1995"); err != nil {
		t.Fatalf("repeat add failed: %v", err)
	}
	if !strings.Contains(output.String(), "already on the watchlist") {
		t.Errorf("expected duplicate notice, got %q", output.String())
	}

	t.Run("list", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "watchlist", "list", "--user", "u1", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var entries []models.WatchlistEntry
		if err := json.Unmarshal(output.Bytes(), &entries); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		titles := models.Titles(entries)
		if len(titles) != 2 || titles[0] != "Heat (1995)" || titles[1] != "Nameless (N/A)" {
			t.Errorf("unexpected titles %v", titles)
		}
	})

	t.Run("remove", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "watchlist", "remove", "--user", "u1", "--title", "Nameless (N/A)"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		err := run(t, runner, "watchlist", "remove", "--user", "u1", "--title", "Nameless (N/A)")
		if !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("export", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		if err := run(t, runner, "watchlist", "export", "--user", "u1", "--user", "u2", "--format", "csv", "--output", dir); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "u1_watchlist.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})

	t.Run("compare", func(t *testing.T) {
		run(t, runner, "watchlist", "add", "--user", "u2", "--title", "Heat", "--year", "1995")
		run(t, runner, "watchlist", "add", "--user", "u2", "--title", "Ran", "--year", "1985")

		output.Reset()
		if err := run(t, runner, "compare", "--a", "u1", "--b", "u2"); err != nil {
			t.Fatalf("compare failed: %v", err)
		}
		if !strings.Contains(output.String(), "Match:  50.0%") || !strings.Contains(output.String(), "• Heat (1995)") {
			t.Errorf("unexpected comparison output %q", output.String())
		}

		err := run(t, runner, "compare", "--a", "u1", "--b", "nobody")
		if !errors.Is(err, shared.ErrInsufficientData) {
			t.Errorf("expected ErrInsufficientData, got %v", err)
		}
	})
}

func TestServiceCommands(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		searcher := &tu.MockSearcher{Candidates: []models.Candidate{{Title: "Inception", Year: "2010"}, {Title: "Inception: The Cobol Job"}}}
		runner, output := newTestRunner(t, RunnerOpts{Searcher: searcher})

		if err := run(t, runner, "search", "inception", "2010"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if searcher.Queries[0] != "inception 2010" {
			t.Errorf("expected joined query, got %q", searcher.Queries[0])
		}
		if !strings.Contains(output.String(), " 1. Inception (2010)") || !strings.Contains(output.String(), "(N/A)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("search without service", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})

		if err := run(t, runner, "search", "heat"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("recommend", func(t *testing.T) {
		recommender := &tu.MockRecommender{Reply: "1. Heat (1995)"}
		runner, output := newTestRunner(t, RunnerOpts{Recommender: recommender})

		if err := run(t, runner, "recommend", "slow", "heists"); err != nil {
			t.Fatalf("recommend failed: %v", err)
		}
		if recommender.Prompts[0] != "slow heists" || output.String() != "1. Heat (1995)\n" {
			t.Errorf("unexpected prompt %q or output %q", recommender.Prompts[0], output.String())
		}
	})

	t.Run("letterboxd link and import", func(t *testing.T) {
		scraper := &tu.MockScraper{Titles: []string{"Aftersun", "Past Lives"}}
		runner, output := newTestRunner(t, RunnerOpts{Scraper: scraper})

		err := run(t, runner, "letterboxd", "import", "--user", "u1")
		if !errors.Is(err, shared.ErrNoLinkedProfile) {
			t.Fatalf("expected ErrNoLinkedProfile, got %v", err)
		}

		if err := run(t, runner, "letterboxd", "link", "--user", "u1", "--url", "https://letterboxd.com/ada/"); err != nil {
			t.Fatalf("link failed: %v", err)
		}
		if err := run(t, runner, "letterboxd", "import", "--user", "u1"); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if scraper.Usernames[0] != "ada" {
			t.Errorf("expected username ada, got %v", scraper.Usernames)
		}
		if !strings.Contains(output.String(), "📥 Imported 2 movies from Letterboxd (2 new).") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run(t, runner, "setup", "config", "--output", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "Config written to") {
			t.Errorf("unexpected output %q", output.String())
		}

		if err := run(t, runner, "setup", "config", "--output", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		conf := "[storage]\nbackend = \"sqlite\"\n\n[database]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "flicklog.db")) + "\"\n"
		if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_URL", "")
		t.Setenv("FLICKLOG_STORAGE", "")

		runner, output := newTestRunner(t, RunnerOpts{})
		if err := run(t, runner, "setup", "database", "--config", path); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "flicklog.db"))
		if !strings.Contains(output.String(), "Storage ready (sqlite)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}
