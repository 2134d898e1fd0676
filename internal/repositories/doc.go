// Package repositories implements the local document store on SQLite.
//
// The store keeps one JSON body per named document, the way a browser player keeps small preference objects.
// Typed repositories sit on top of [DocumentRepository]:
//   - [CollectorRepository] : liked songs and collected playlists (document "collector")
//   - [SessionRepository] : the play queue between runs (document "session")
//
// [HistoryRepository] is a plain table of songs that became current, used by the "recent" command.
package repositories
