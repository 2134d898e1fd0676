// Package models defines the domain entities of the nmx music client.
//
// The package contains three categories of types:
//
// 1. Catalogue entities shaped from remote API responses
//   - [Music] : a playable song with its singer, album, artwork and resolved stream URL
//   - [MusicList] : a playlist or an album with its tracks
//   - [SingerInfo] : an artist profile with hot songs
//   - [Lyric] : raw LRC text (original and translated)
//
// 2. Locally persisted documents
//   - [Collector] : liked songs and collected playlists
//   - [Session] : play queue, current index and play mode
//
// 3. Player settings
//   - [PlayMode] : sequence, loop or random playback
//
// [FindIndex] locates an entity in a slice by ID and is the single equality rule used by the play queue and the collector.
package models
