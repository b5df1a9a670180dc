package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

// RemovalResult describes the outcome of an unlog request.
type RemovalResult struct {
	Matches []string // titles that matched the fragment, in watchlist order
	Removed string   // removed title, empty when nothing was removed
}

// MatchTitles returns the titles containing fragment, ignoring case.
func MatchTitles(titles []string, fragment string) []string {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	var matches []string
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), needle) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Unlog removes the title matching fragment from user's watchlist.
//
// No match returns [shared.ErrEntryNotFound]. Several matches are listed and the user's next reply picks one;
// a timeout returns [shared.ErrTimeout] and any reply that is not an integer in range returns
// [shared.ErrInvalidSelection]. Neither removes anything.
func (e *WatchlistEngine) Unlog(ctx context.Context, conv chat.Conversation, user chat.User, fragment string) (*RemovalResult, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, fmt.Errorf("%w: movie name", shared.ErrMissingArgument)
	}

	entries, err := e.store.ListEntries(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	result := &RemovalResult{Matches: MatchTitles(models.Titles(entries), fragment)}
	logger := shared.WithLogger(e.logger, "user", user.ID, "fragment", fragment)

	var target string
	switch len(result.Matches) {
	case 0:
		return result, fmt.Errorf("%w: %q", shared.ErrEntryNotFound, fragment)
	case 1:
		target = result.Matches[0]
	default:
		var b strings.Builder
		b.WriteString("Multiple matches found:\n")
		for i, m := range result.Matches {
			fmt.Fprintf(&b, "%d. %s\n", i+1, m)
		}
		b.WriteString("Reply with the number to remove.")
		if _, err := conv.Send(ctx, chat.Text(b.String())); err != nil {
			return result, err
		}

		reply, err := conv.AwaitReply(ctx, user.ID, e.timeout)
		if err != nil {
			logger.Debug("removal wait ended", "err", err)
			return result, err
		}

		n, err := parseOrdinal(reply)
		if err != nil || n < 1 || n > len(result.Matches) {
			return result, fmt.Errorf("%w: %q is not a number between 1 and %d", shared.ErrInvalidSelection, reply, len(result.Matches))
		}
		target = result.Matches[n-1]
	}

	removed, err := e.store.RemoveEntry(ctx, user.ID, target)
	if err != nil {
		return result, err
	}
	if !removed {
		return result, fmt.Errorf("%w: %q", shared.ErrEntryNotFound, target)
	}

	result.Removed = target
	logger.Info("removed watchlist entry", "title", target)
	if _, err := conv.Send(ctx, chat.Text(fmt.Sprintf("🗑️ Removed **%s** from your watchlist.", target))); err != nil {
		logger.Warn("failed to send removal notice", "err", err)
	}
	return result, nil
}

// parseOrdinal accepts only a bare run of ASCII digits, so signs and spacing inside the number are rejected.
func parseOrdinal(reply string) (int, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range reply {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(reply)
}
