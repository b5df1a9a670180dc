package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/desertthunder/flicklog/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	WatchlistView ViewState = iota
	ConfirmView
	ImportView
	ResultView
)

// Engine is the part of [tasks.WatchlistEngine] the browser drives.
type Engine interface {
	Watchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	ImportProfile(ctx context.Context, userID string, progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)
	Store() models.WatchlistStore
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	userID       string
	engine       Engine
	logger       *log.Logger
	width        int
	height       int
	entries      list.Model
	selected     string
	status       string
	progressChan <-chan tasks.ProgressUpdate
	done         <-chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.ImportResult
	importErr    error
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a browser for userID's watchlist. Logs go to logger since the terminal belongs to the UI.
func NewModel(ctx context.Context, userID string, engine Engine, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	return &Model{
		ctx:     ctx,
		view:    WatchlistView,
		userID:  userID,
		engine:  engine,
		logger:  shared.WithLogger(logger, "user", userID),
		entries: newList(nil, userID),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func newList(entries []models.WatchlistEntry, userID string) list.Model {
	l := list.New(entryItems(entries), list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%s's Watchlist", userID)
	l.SetStatusBarItemName("movie", "movies")
	return l
}

// State returns the current view state.
func (m *Model) State() ViewState {
	return m.view
}

// Init initializes the TUI by fetching the watchlist.
func (m *Model) Init() tea.Cmd {
	return m.fetchWatchlist()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.entries.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case WatchlistView:
			return m.handleWatchlistKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ImportView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == WatchlistView {
		m.entries, cmd = m.entries.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgWatchlistFetched:
		data := msg.data.(watchlistData)
		if data.err != nil {
			m.logger.Error("failed to fetch watchlist", "err", data.err)
			m.err = data.err
			return m, nil
		}
		m.err = nil
		cmd := m.entries.SetItems(entryItems(data.entries))
		return m, cmd

	case MsgEntryRemoved:
		data := msg.data.(removedData)
		m.view = WatchlistView
		m.selected = ""
		if data.err != nil {
			m.logger.Error("failed to remove entry", "title", data.title, "err", data.err)
			m.status = styles.err.Render(fmt.Sprintf("Could not remove %s: %v", data.title, data.err))
			return m, nil
		}
		m.logger.Info("removed entry", "title", data.title)
		m.status = styles.ok.Render(fmt.Sprintf("Removed %s", data.title))
		return m, m.fetchWatchlist()

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgImportComplete:
		data := msg.data.(importData)
		m.result = data.result
		m.importErr = data.err
		m.progressChan, m.done = nil, nil
		m.view = ResultView
		if data.err != nil {
			m.logger.Error("import failed", "err", data.err)
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case WatchlistView:
		return m.renderWatchlist()
	case ConfirmView:
		return m.renderConfirm()
	case ImportView:
		return m.renderImport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entries.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.entries, cmd = m.entries.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.entries.SelectedItem().(entryItem); ok {
			m.selected = item.entry.Title
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.imports):
		m.view = ImportView
		m.status = ""
		return m, m.startImport()
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.fetchWatchlist()
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.removeEntry(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = WatchlistView
		m.selected = ""
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.refresh):
		m.view = WatchlistView
		m.result = nil
		m.importErr = nil
		return m, m.fetchWatchlist()
	}
	return m, nil
}

func (m *Model) fetchWatchlist() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.engine.Watchlist(m.ctx, m.userID)
		return watchlistFetchedMsg(entries, err)
	}
}

func (m *Model) removeEntry(title string) tea.Cmd {
	return func() tea.Msg {
		removed, err := m.engine.Store().RemoveEntry(m.ctx, m.userID, title)
		if err == nil && !removed {
			err = shared.ErrEntryNotFound
		}
		return entryRemovedMsg(title, err)
	}
}

func (m *Model) startImport() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan Msg, 1)
	m.progressChan, m.done = progress, done

	go func() {
		result, err := m.engine.ImportProfile(m.ctx, m.userID, progress)
		done <- importCompleteMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	return func() tea.Msg {
		if progress == nil {
			return nil
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderWatchlist() string {
	helpKeys := []key.Binding{m.keys.remove, m.keys.imports, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n\n%s", m.entries.View(), m.status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.entries.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Remove '%s' from the watchlist?", m.selected))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderImport() string {
	title := styles.title.Render("Importing from Letterboxd")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchProfile:
		phase = "Looking up linked profile..."
	case tasks.ScrapeFilms:
		phase = "Fetching film list..."
	case tasks.ImportTitles:
		phase = fmt.Sprintf("Saving titles (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	switch {
	case errors.Is(m.importErr, shared.ErrNoLinkedProfile):
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("No Letterboxd profile linked. Use `flicklog letterboxd link` first."), helpView)
	case m.importErr != nil:
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Import failed: %v", m.importErr)), helpView)
	case m.result == nil || m.result.Found == 0:
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("Couldn't find movies."), helpView)
	}

	title := styles.ok.Render("✓ Import Complete!")
	info := fmt.Sprintf("\nProfile: %s\nFound: %d\nNew: %d", m.result.Username, m.result.Found, m.result.Added)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
