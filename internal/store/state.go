package store

import "github.com/desertthunder/nmx/internal/models"

// State is the complete player state.
type State struct {
	Collector         *models.Collector  `json:"collector"`
	CurrentMusicList  *models.MusicList  `json:"currentMusicList"`
	ShowLoading       bool               `json:"showLoading"`
	ShowMusicList     bool               `json:"showMusicList"`
	SingerInfo        *models.SingerInfo `json:"singerInfo"`
	ShowSingerInfo    bool               `json:"showSingerInfo"`
	ShowMusicDetail   bool               `json:"showMusicDetail"`
	CurrentMusic      *models.Music      `json:"currentMusic"`
	CurrentMusicLyric *models.Lyric      `json:"currentMusicLyric"`
	PlayList          []models.Music     `json:"playList"`
	CurrentIndex      int                `json:"currentIndex"`
	PlayingStatus     bool               `json:"playingStatus"`
	PlayMode          models.PlayMode    `json:"playMode"`
}

// InitialState returns the state of a freshly started player.
func InitialState() State {
	return State{
		Collector: models.NewCollector(),
		PlayList:  []models.Music{},
		PlayMode:  models.SequencePlay,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Collector = s.Collector.Clone()
	if s.CurrentMusicList != nil {
		l := s.CurrentMusicList.Clone()
		c.CurrentMusicList = &l
	}
	if s.SingerInfo != nil {
		info := *s.SingerInfo
		info.HotSongs = models.CloneTracks(s.SingerInfo.HotSongs)
		c.SingerInfo = &info
	}
	if s.CurrentMusic != nil {
		m := *s.CurrentMusic
		c.CurrentMusic = &m
	}
	if s.CurrentMusicLyric != nil {
		l := *s.CurrentMusicLyric
		c.CurrentMusicLyric = &l
	}
	c.PlayList = append(make([]models.Music, 0, len(s.PlayList)), s.PlayList...)
	return c
}

// Current returns the queue entry at CurrentIndex, if any.
func (s State) Current() (models.Music, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.PlayList) {
		return models.Music{}, false
	}
	return s.PlayList[s.CurrentIndex], true
}
