// Package repositories implements watchlist persistence behind [models.WatchlistStore].
//
// Three backends share the same contract:
//   - [SQLStore] : SQLite (default) or Postgres through sqlx, schema managed by shared.RunMigrations
//   - [RedisStore] : one sorted set per user (score = time added) and one hash per profile link
//   - [FileStore] : a JSON document on disk, or purely in memory when no path is given
//
// Inserts are idempotent per (user, title); profile links are upserted per user, last write wins.
// Batch inserts ([models.WatchlistStore.AddEntries]) are atomic in every backend.
// Concurrent writes for the same user are not serialized beyond each backend's per-statement atomicity.
package repositories
