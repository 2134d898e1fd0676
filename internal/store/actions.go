package store

import "github.com/desertthunder/nmx/internal/models"

// ActionType names an action for logging and subscribers.
type ActionType string

const (
	TypeChangeCollector         ActionType = "CHANGE_COLLECTOR"
	TypeRefreshCollector        ActionType = "REFRESH_COLLECTOR"
	TypeChangeCurrentMusicList  ActionType = "CHANGE_CURRENT_MUSIC_LIST"
	TypeChangeShowLoading       ActionType = "CHANGE_SHOW_LOADING"
	TypeHideMusicList           ActionType = "HIDE_MUSIC_LIST"
	TypeHideSingerInfo          ActionType = "HIDE_SINGER_INFO"
	TypeToggleShowMusicDetail   ActionType = "TOGGLE_SHOW_MUSIC_DETAIL"
	TypeChangeCurrentMusic      ActionType = "CHANGE_CURRENT_MUSIC"
	TypeChangeSingerInfo        ActionType = "CHANGE_SINGER_INFO"
	TypeChangePlayList          ActionType = "CHANGE_PLAY_LIST"
	TypeChangeCurrentIndex      ActionType = "CHANGE_CURRENT_INDEX"
	TypeChangePlayingStatus     ActionType = "CHANGE_PLAYING_STATUS"
	TypeChangePlayMode          ActionType = "CHANGE_PLAY_MODE"
	TypeChangeCurrentMusicLyric ActionType = "CHANGE_CURRENT_MUSIC_LYRIC"
)

// Action is a single state change request.
type Action interface {
	Type() ActionType
}

var (
	_ Action = ChangeCollector{}
	_ Action = RefreshCollector{}
	_ Action = ChangeCurrentMusicList{}
	_ Action = ChangeShowLoading{}
	_ Action = HideMusicList{}
	_ Action = HideSingerInfo{}
	_ Action = ToggleShowMusicDetail{}
	_ Action = ChangeCurrentMusic{}
	_ Action = ChangeSingerInfo{}
	_ Action = ChangePlayList{}
	_ Action = ChangeCurrentIndex{}
	_ Action = ChangePlayingStatus{}
	_ Action = ChangePlayMode{}
	_ Action = ChangeCurrentMusicLyric{}
)

// ChangeCollector replaces the liked/collected document.
type ChangeCollector struct{ Collector *models.Collector }

// RefreshCollector re-publishes the collector so subscribers redraw.
type RefreshCollector struct{}

// ChangeCurrentMusicList shows a playlist or album; nil clears it.
type ChangeCurrentMusicList struct{ List *models.MusicList }

// ChangeShowLoading toggles the loading indicator.
type ChangeShowLoading struct{ Value bool }

type HideMusicList struct{}

type HideSingerInfo struct{}

type ToggleShowMusicDetail struct{}

// ChangeCurrentMusic sets the song being played.
type ChangeCurrentMusic struct{ Music *models.Music }

// ChangeSingerInfo shows an artist profile; nil clears it.
type ChangeSingerInfo struct{ Info *models.SingerInfo }

// ChangePlayList replaces the play queue.
type ChangePlayList struct{ List []models.Music }

// ChangeCurrentIndex moves the queue cursor.
type ChangeCurrentIndex struct{ Index int }

// ChangePlayingStatus starts or stops playback.
type ChangePlayingStatus struct{ Status bool }

// ChangePlayMode selects sequence, loop or random playback.
type ChangePlayMode struct{ Mode models.PlayMode }

// ChangeCurrentMusicLyric sets the lyric of the current song; nil clears it.
type ChangeCurrentMusicLyric struct{ Lyric *models.Lyric }

func (ChangeCollector) Type() ActionType         { return TypeChangeCollector }
func (RefreshCollector) Type() ActionType        { return TypeRefreshCollector }
func (ChangeCurrentMusicList) Type() ActionType  { return TypeChangeCurrentMusicList }
func (ChangeShowLoading) Type() ActionType       { return TypeChangeShowLoading }
func (HideMusicList) Type() ActionType           { return TypeHideMusicList }
func (HideSingerInfo) Type() ActionType          { return TypeHideSingerInfo }
func (ToggleShowMusicDetail) Type() ActionType   { return TypeToggleShowMusicDetail }
func (ChangeCurrentMusic) Type() ActionType      { return TypeChangeCurrentMusic }
func (ChangeSingerInfo) Type() ActionType        { return TypeChangeSingerInfo }
func (ChangePlayList) Type() ActionType          { return TypeChangePlayList }
func (ChangeCurrentIndex) Type() ActionType      { return TypeChangeCurrentIndex }
func (ChangePlayingStatus) Type() ActionType     { return TypeChangePlayingStatus }
func (ChangePlayMode) Type() ActionType          { return TypeChangePlayMode }
func (ChangeCurrentMusicLyric) Type() ActionType { return TypeChangeCurrentMusicLyric }
