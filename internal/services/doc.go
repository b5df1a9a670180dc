// Package services implements the outbound adapters of the watchlist bot.
//
// # Adapters
//
//   - [TMDBService] implements [MovieSearcher] against the TMDB search API
//   - [OpenAIService] implements [Recommender] with an OpenAI-compatible chat completion client
//   - [LetterboxdService] implements [ProfileScraper] by scraping a profile's film grid with goquery
//
// Each adapter makes exactly one attempt per call; there are no automatic retries.
// TMDB and Letterboxd calls pass through an optional [rate.Limiter].
//
// # Error Handling
//
// Adapters wrap sentinel errors from the shared package:
//   - [shared.ErrLookupUnavailable] : TMDB transport, status or decode failure
//   - [shared.ErrServiceUnavailable] : completion request failed
//   - [shared.ErrImportFailed] : profile URL, fetch or parse failure
//   - [shared.ErrMissingCredentials] : no API key configured
package services
