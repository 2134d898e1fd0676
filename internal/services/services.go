// package services defines interface MusicAPI for interacting with the remote music HTTP API
package services

import (
	"context"

	"github.com/desertthunder/nmx/internal/models"
)

// MusicAPI defines the remote catalogue operations the player depends on.
type MusicAPI interface {
	// GetMusicURL resolves the stream URL of a song.
	GetMusicURL(ctx context.Context, id int64) (string, error)

	// GetMusicLyric fetches the LRC lyric of a song.
	GetMusicLyric(ctx context.Context, id int64) (*models.Lyric, error)

	// GetSingerInfo fetches an artist profile and their hot songs.
	GetSingerInfo(ctx context.Context, id int64) (*models.SingerInfo, error)

	// GetAlbumInfo fetches an album with its songs, shaped as a [models.MusicList].
	GetAlbumInfo(ctx context.Context, id int64) (*models.MusicList, error)

	// GetMusicDetail fetches a single song including album artwork.
	GetMusicDetail(ctx context.Context, id int64) (*models.Music, error)

	// GetMusicListDetail fetches a playlist with all its tracks.
	GetMusicListDetail(ctx context.Context, id int64) (*models.MusicList, error)

	// SearchMusic searches songs by keywords. Results have no artwork.
	SearchMusic(ctx context.Context, keywords string, limit int) ([]models.Music, error)

	// Name returns the name of the service
	Name() string
}

// rawArtist is an artist reference in API track payloads.
type rawArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// rawAlbum is an album reference in API track payloads.
type rawAlbum struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

// RawTrack is a song as returned by the playlist, album and detail endpoints.
type RawTrack struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Ar   []rawArtist `json:"ar"`
	Al   rawAlbum    `json:"al"`
}

// FormatTrack shapes a [RawTrack] into a [models.Music] keeping only the first artist.
func FormatTrack(t RawTrack) models.Music {
	m := models.Music{
		ID:        t.ID,
		MusicName: t.Name,
		ImgURL:    t.Al.PicURL,
		Album:     models.Album{ID: t.Al.ID, Name: t.Al.Name},
	}
	if len(t.Ar) > 0 {
		m.Singer = models.Singer{ID: t.Ar[0].ID, Name: t.Ar[0].Name}
	}
	return m
}

// FormatTracks shapes every track of a playlist or album.
func FormatTracks(tracks []RawTrack) []models.Music {
	out := make([]models.Music, len(tracks))
	for i, t := range tracks {
		out[i] = FormatTrack(t)
	}
	return out
}
