package models

// Singer is the (first) artist credited on a song.
type Singer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album is the album a song belongs to.
type Album struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Music represents a playable song.
//
// MusicURL is resolved lazily when the song becomes current; ImgURL is empty for search results.
type Music struct {
	ID        int64  `json:"id"`
	MusicName string `json:"musicName"`
	ImgURL    string `json:"imgUrl,omitempty"`
	MusicURL  string `json:"musicUrl,omitempty"`
	Singer    Singer `json:"singer"`
	Album     Album  `json:"album"`
}

func (m Music) Key() int64 { return m.ID }

// MusicList represents a playlist or an album.
//
// Company, PublishTime, Artist and Type are only set for albums.
type MusicList struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CoverImgURL string  `json:"coverImgUrl,omitempty"`
	Tracks      []Music `json:"tracks"`
	Company     string  `json:"company,omitempty"`
	PublishTime int64   `json:"publishTime,omitempty"` // ms since epoch
	Artist      *Singer `json:"artist,omitempty"`
	Type        string  `json:"type,omitempty"`
}

func (l MusicList) Key() int64 { return l.ID }

// IsAlbum reports whether the list was built from an album.
func (l MusicList) IsAlbum() bool {
	return l.Artist != nil
}

// Clone returns a copy of the list that shares no track storage with l.
func (l MusicList) Clone() MusicList {
	c := l
	c.Tracks = CloneTracks(l.Tracks)
	if l.Artist != nil {
		a := *l.Artist
		c.Artist = &a
	}
	return c
}

// CloneTracks copies tracks, keeping nil as nil.
func CloneTracks(tracks []Music) []Music {
	if tracks == nil {
		return nil
	}
	return append(make([]Music, 0, len(tracks)), tracks...)
}

// Artist is an artist profile.
type Artist struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PicURL    string `json:"picUrl,omitempty"`
	BriefDesc string `json:"briefDesc,omitempty"`
	AlbumSize int    `json:"albumSize"`
	MusicSize int    `json:"musicSize"`
}

// SingerInfo is an artist with their most popular songs.
type SingerInfo struct {
	Artist   Artist  `json:"artist"`
	HotSongs []Music `json:"hotSongs"`
}

// Lyric holds raw LRC text for a song.
type Lyric struct {
	Lrc    string `json:"lrc"`
	TLyric string `json:"tlyric,omitempty"` // translation
}
