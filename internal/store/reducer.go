package store

import "github.com/desertthunder/nmx/internal/models"

// Reduce returns the state that results from applying a to s.
//
// s is not modified. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ChangeCollector:
		s.Collector = a.Collector.Clone()
	case RefreshCollector:
		s.Collector = s.Collector.Clone()
	case ChangeCurrentMusicList:
		if a.List == nil {
			s.CurrentMusicList = nil
			break
		}
		l := a.List.Clone()
		s.CurrentMusicList = &l
		s.ShowMusicList = true
	case ChangeShowLoading:
		s.ShowLoading = a.Value
	case HideMusicList:
		s.ShowMusicList = false
	case HideSingerInfo:
		s.ShowSingerInfo = false
	case ToggleShowMusicDetail:
		s.ShowMusicDetail = !s.ShowMusicDetail
	case ChangeCurrentMusic:
		if a.Music == nil {
			s.CurrentMusic = nil
			break
		}
		m := *a.Music
		s.CurrentMusic = &m
	case ChangeSingerInfo:
		if a.Info == nil {
			s.SingerInfo = nil
			break
		}
		info := *a.Info
		info.HotSongs = models.CloneTracks(a.Info.HotSongs)
		s.SingerInfo = &info
		s.ShowSingerInfo = true
	case ChangePlayList:
		s.PlayList = append(make([]models.Music, 0, len(a.List)), a.List...)
	case ChangeCurrentIndex:
		s.CurrentIndex = a.Index
	case ChangePlayingStatus:
		s.PlayingStatus = a.Status
	case ChangePlayMode:
		s.PlayMode = a.Mode
	case ChangeCurrentMusicLyric:
		if a.Lyric == nil {
			s.CurrentMusicLyric = nil
			break
		}
		l := *a.Lyric
		s.CurrentMusicLyric = &l
	}
	return s
}
