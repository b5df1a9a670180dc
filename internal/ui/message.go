package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgWatchlistFetched MsgKind = iota
	MsgEntryRemoved
	MsgProgressUpdate
	MsgImportComplete
)

type watchlistData struct {
	entries []models.WatchlistEntry
	err     error
}

type removedData struct {
	title string
	err   error
}

type importData struct {
	result *tasks.ImportResult
	err    error
}

// watchlistFetchedMsg is the constructor for [MsgWatchlistFetched]
func watchlistFetchedMsg(entries []models.WatchlistEntry, err error) Msg {
	return Msg{kind: MsgWatchlistFetched, data: watchlistData{entries, err}}
}

// entryRemovedMsg is the constructor for [MsgEntryRemoved]
func entryRemovedMsg(title string, err error) Msg {
	return Msg{kind: MsgEntryRemoved, data: removedData{title, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// importCompleteMsg is the constructor for [MsgImportComplete]
func importCompleteMsg(result *tasks.ImportResult, err error) Msg {
	return Msg{kind: MsgImportComplete, data: importData{result, err}}
}
