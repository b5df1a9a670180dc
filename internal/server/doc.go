// Package server provides the HTTP status and read-only watchlist API served next to the bot.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] patterns, so path values such as {user}
// are available through [http.Request.PathValue].
//
// # Routes
//
//   - GET /healthz reports liveness and the storage backend
//   - GET /api/watchlists/{user} returns a watchlist; ?format=csv|markdown|txt|json picks the encoding
//   - GET /api/compare?a={user}&b={user} returns the overlap of two watchlists
//
// Errors are JSON objects with an "error" field. Watchlist sentinel errors map onto status codes
// in [StatusFor].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
