// Package services defines the [MusicAPI] interface for the remote music catalogue and implements it for NetEase Cloud Music.
//
// # NetEase Implementation
//
// [NeteaseService] talks to a NeteaseCloudMusicApi compatible proxy over plain JSON GET requests.
// An optional login cookie copied from the browser is sent on every request.
// Requests are paced by a token bucket limiter so bulk CLI commands don't trip the proxy's own throttling.
//
// # Response Shaping
//
// Raw tracks (`id`, `name`, `ar[]`, `al{}`) are converted to [models.Music] by [FormatTracks]:
// only the first artist is kept and the album artwork becomes the song artwork.
// Search results carry no artwork, which is why the player fetches song detail for them.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or API code other than 200
//   - [shared.ErrTrackNotFound] : the API returned no song data
//   - [shared.ErrPlaylistNotFound], [shared.ErrAlbumNotFound], [shared.ErrSingerNotFound] : empty lookups
package services
