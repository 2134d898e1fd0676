package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/nmx/internal/models"
)

var (
	_ list.Item = musicListItem{}
	_ list.Item = musicItem{}
)

// musicListItem wraps [models.MusicList] to implement [list.Item].
type musicListItem struct {
	list  models.MusicList
	liked bool
}

func (i musicListItem) FilterValue() string { return i.list.Name }
func (i musicListItem) Title() string {
	if i.liked {
		return "♥ " + i.list.Name
	}
	return i.list.Name
}
func (i musicListItem) Description() string {
	desc := fmt.Sprintf("%d tracks", len(i.list.Tracks))
	if i.list.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.list.Description)
	}
	return desc
}

// musicItem wraps [models.Music] to implement [list.Item].
type musicItem struct {
	music   models.Music
	current bool
	liked   bool
}

func (i musicItem) FilterValue() string { return i.music.MusicName }
func (i musicItem) Title() string {
	title := i.music.MusicName
	if i.liked {
		title = "♥ " + title
	}
	if i.current {
		title = "▶ " + title
	}
	return title
}
func (i musicItem) Description() string {
	desc := i.music.Singer.Name
	if i.music.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.music.Album.Name)
	}
	return desc
}

func musicItems(tracks []models.Music, current *models.Music, liked func(models.Music) bool) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, m := range tracks {
		items[i] = musicItem{
			music:   m,
			current: current != nil && current.ID == m.ID,
			liked:   liked(m),
		}
	}
	return items
}

// selectedMusic returns the highlighted song of l.
func selectedMusic(l list.Model) (models.Music, bool) {
	item, ok := l.SelectedItem().(musicItem)
	return item.music, ok
}
