package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/flicklog/internal/chat"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
)

func (b *Bot) help(ctx context.Context, inv *Invocation) error {
	var sb strings.Builder
	sb.WriteString("📖 **Available Commands**")
	for _, c := range b.Commands() {
		if c.Name == "commands" {
			continue
		}
		fmt.Fprintf(&sb, "\n`%s` – %s", b.usage(c), c.Description)
	}
	_, err := inv.Conv.Send(ctx, chat.Text(sb.String()))
	return err
}

func (b *Bot) movie(ctx context.Context, inv *Invocation) error {
	if b.recommender == nil {
		return fmt.Errorf("%w: recommendations not configured", shared.ErrServiceUnavailable)
	}
	if inv.Args == "" {
		return fmt.Errorf("%w: prompt", shared.ErrMissingArgument)
	}

	if _, err := inv.Conv.Send(ctx, chat.Text("🧠 Finding movie recommendations...")); err != nil {
		return err
	}

	reply, err := b.recommender.Recommend(ctx, inv.Args)
	if err != nil {
		return err
	}
	_, err = inv.Conv.Send(ctx, chat.Text(reply))
	return err
}

func (b *Bot) log(ctx context.Context, inv *Invocation) error {
	_, err := b.engine.Log(ctx, inv.Conv, inv.Author, inv.Args)
	return err
}

func (b *Bot) unlog(ctx context.Context, inv *Invocation) error {
	_, err := b.engine.Unlog(ctx, inv.Conv, inv.Author, inv.Args)
	return err
}

func (b *Bot) watchlist(ctx context.Context, inv *Invocation) error {
	member := inv.Author
	if len(inv.Mentions) > 0 {
		member = inv.Mentions[0]
	}

	entries, err := b.engine.Watchlist(ctx, member.ID)
	if err != nil {
		return err
	}

	_, err = inv.Conv.Send(ctx, chat.Text(WatchlistMessage(member, entries)))
	return err
}

// WatchlistMessage renders a member's watchlist.
func WatchlistMessage(member chat.User, entries []models.WatchlistEntry) string {
	if len(entries) == 0 {
		return "📭 No movies logged."
	}
	return fmt.Sprintf("🎞️ **%s's Watchlist:**\n%s", member.Name(), strings.Join(models.Titles(entries), "\n"))
}

func (b *Bot) syncLetterboxd(ctx context.Context, inv *Invocation) error {
	link, err := b.engine.LinkProfile(ctx, inv.Author.ID, inv.Args)
	if err != nil {
		return err
	}
	_, err = inv.Conv.Send(ctx, chat.Text("🔗 Linked Letterboxd profile: "+link.URL))
	return err
}

func (b *Bot) importLetterboxd(ctx context.Context, inv *Invocation) error {
	result, err := b.engine.ImportProfile(ctx, inv.Author.ID, nil)
	if err != nil {
		return err
	}

	msg := "⚠️ Couldn't find movies."
	if result.Found > 0 {
		msg = fmt.Sprintf("📥 Imported %d movies from Letterboxd.", result.Found)
	}
	_, err = inv.Conv.Send(ctx, chat.Text(msg))
	return err
}

func (b *Bot) compare(ctx context.Context, inv *Invocation) error {
	if len(inv.Mentions) < 2 {
		return fmt.Errorf("%w: two members to compare", shared.ErrMissingArgument)
	}
	a, c := inv.Mentions[0], inv.Mentions[1]

	result, err := b.engine.Compare(ctx, a.ID, c.ID, nil)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("🎭 **%s** and **%s** share %d movies.\nMatch: **%.1f%%**\n\n🎬 Shared:\n%s",
		a.Name(), c.Name(), result.SharedCount(), result.MatchPercent, strings.Join(result.Shared, "\n"))
	_, err = inv.Conv.Send(ctx, chat.Text(msg))
	return err
}
