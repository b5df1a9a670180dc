// Package ui implements an interactive terminal watchlist browser using bubbletea's Elm architecture.
//
// The TUI provides a small workflow over one member's watchlist:
//  1. [WatchlistView] : Browse logged movies (filterable)
//  2. [ConfirmView] : Confirm removing the selected movie
//  3. [ImportView] : Monitor a Letterboxd import
//  4. [ResultView] : Show import counts or a failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Import progress flows through a channel from the WatchlistEngine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, d, i, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
