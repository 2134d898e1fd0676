// Package player implements the action layer of the music client.
//
// Every [Player] method is a short "call the API, shape the response, dispatch state" sequence over three collaborators:
// the remote catalogue ([services.MusicAPI]), the local document store ([CollectorStore]) and the dispatch bus ([store.Store]).
//
// # Play Queue
//
// The queue is State.PlayList with State.CurrentIndex as cursor. [Player.ChangeCurrentMusic] appends unknown songs,
// [Player.PlayNext] and [Player.PlayPrev] wrap around both ends or jump randomly in [models.RandomPlay] mode,
// and [Player.DeleteMusic] keeps the cursor on the same song (or hands playback to the next one when the current song is removed).
//
// # Fetch Then Merge
//
// Selecting a song dispatches it immediately, then resolves its lyric, stream URL and (for search results) artwork in parallel.
// Each result is merged into the current song only if that song is still current when the result arrives.
package player
