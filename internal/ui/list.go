package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/flicklog/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.WatchlistEntry] to implement [list.Item].
type entryItem struct {
	entry models.WatchlistEntry
}

func (i entryItem) FilterValue() string { return i.entry.Title }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string {
	_, year := models.SplitTitle(i.entry.Title)
	if i.entry.AddedAt.IsZero() {
		return fmt.Sprintf("Year %s", year)
	}
	return fmt.Sprintf("Year %s • added %s", year, i.entry.AddedAt.Local().Format("2006-01-02"))
}

func entryItems(entries []models.WatchlistEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}
