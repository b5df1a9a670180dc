package shared

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want log.Level
	}{
		{name: "debug", in: "debug", want: log.DebugLevel},
		{name: "mixed case with spaces", in: "  WARN ", want: log.WarnLevel},
		{name: "error", in: "error", want: log.ErrorLevel},
		{name: "empty falls back to info", in: "", want: log.InfoLevel},
		{name: "unknown falls back to info", in: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggers(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "command", "log")
		logger.Info("handled")

		if !strings.Contains(buf.String(), "command=log") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info message to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "flicklog.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger returned error: %v", err)
		}
		logger.Info("written")
	})
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", first, err)
	}
	if first == second {
		t.Error("expected unique ids")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrInvalidConfig, ErrMissingCredentials,
		ErrServiceUnavailable, ErrLookupUnavailable, ErrImportFailed, ErrTimeout,
		ErrNoLinkedProfile, ErrInsufficientData, ErrInvalidSelection, ErrEntryNotFound,
		ErrMissingArgument, ErrInvalidArgument,
	}

	for i, sentinel := range sentinels {
		t.Run(sentinel.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", sentinel)
			for j, other := range sentinels {
				if got := errors.Is(wrapped, other); got != (i == j) {
					t.Errorf("errors.Is(%q, %q) = %v", wrapped, other, got)
				}
			}
		})
	}
}
