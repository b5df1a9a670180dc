// Package tasks runs watchlist operations for the chat bot and the CLI.
//
// # Core Operations
//
// The [Engine] interface defines the operations:
//
//  1. [Engine.Log] : metadata lookup followed by a [SelectionFlow]
//     - Confirming: the top candidate with ✅ (log it) and ❌ (browse)
//     - Browsing(page): four candidates per page with 1️⃣..4️⃣, ⏩ always and ⏪ after the first page
//     - Done, Cancelled or TimedOut, with at most one store mutation
//
//  2. [Engine.Unlog] : case-insensitive substring removal
//     - one match is removed immediately
//     - several matches are listed and the user's next reply picks one
//
//  3. [Engine.LinkProfile] and [Engine.ImportProfile] : link and import a Letterboxd profile
//     - the full page is scraped before anything is written; titles are added as one batch
//     - [ImportResult.Found] counts titles on the page, [ImportResult.Added] counts new rows
//
//  4. [Engine.Compare] : set overlap of two watchlists with a match percentage
//
// # Waiting
//
// Flows never read gateway events directly. Every wait goes through a [chat.Conversation],
// which bounds it with the configured timeout (30 seconds by default). A timeout surfaces as
// [shared.ErrTimeout] and cancellation of the context ends a flow quietly.
//
// # Progress Reporting
//
// Import, comparison and [WatchlistEngine.BulkExport] accept an optional progress channel.
// Updates use select with default to prevent blocking.
package tasks
