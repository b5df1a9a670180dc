// Package models defines domain entities and the persistence interface for the watchlist bot.
//
// The package contains two categories of types:
//
// 1. Transient values produced by external services
//   - [Candidate] : a metadata search hit, discarded when a selection flow ends
//
// 2. Persistent entities owned by a [WatchlistStore]
//   - [WatchlistEntry] : one logged title per (user, title) pair
//   - [ProfileLink] : one linked Letterboxd profile per user
//
// Titles are stored exactly as formatted by [FormatTitle] ("Inception (2010)", "Untitled (N/A)")
// or exactly as scraped, so every later lookup is an exact string match.
package models
