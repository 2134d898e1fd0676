// Package server exposes a [player.Player] over a small JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Remote Control
//
// [PlayerHandler] registers the player routes:
//
//	GET    /api/state          → full player state
//	POST   /api/play           → {"id": n} plays a song from the queue, open list or API
//	POST   /api/next           → next song
//	POST   /api/prev           → previous song
//	POST   /api/ended          → advance after the current song finished
//	POST   /api/toggle         → play/pause
//	POST   /api/mode           → {"mode": "random"} or cycle when empty
//	POST   /api/like           → {"id": n} or the current song
//	POST   /api/collect        → collect/uncollect the open list
//	POST   /api/queue/delete   → {"id": n} removes a song from the queue
//	DELETE /api/queue          → empty the queue
//	GET    /api/collector      → liked songs and collected playlists
//
// [EventsHandler] streams every dispatched action as a server-sent event on /api/events.
//
// Errors render as {"error": "..."} with 400 for bad input, 404 for unknown resources and 502 when the music API fails.
package server
