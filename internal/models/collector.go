package models

// LikedListName is the name of the collector's liked songs list.
const LikedListName = "Liked Songs"

// Collector is the locally persisted user preference document.
//
// FoundList[0] is always the liked songs list; CollectList holds playlists the user collected.
type Collector struct {
	FoundList   []MusicList `json:"foundList"`
	CollectList []MusicList `json:"collectList"`
}

// NewCollector returns the initial collector document with an empty liked list.
func NewCollector() *Collector {
	return &Collector{
		FoundList:   []MusicList{{Name: LikedListName, Tracks: []Music{}}},
		CollectList: []MusicList{},
	}
}

// Liked returns the liked songs list, creating it when the document has none.
func (c *Collector) Liked() *MusicList {
	if len(c.FoundList) == 0 {
		c.FoundList = []MusicList{{Name: LikedListName, Tracks: []Music{}}}
	}
	return &c.FoundList[0]
}

// Clone returns a deep copy of the collector.
func (c *Collector) Clone() *Collector {
	if c == nil {
		return nil
	}
	return &Collector{
		FoundList:   cloneLists(c.FoundList),
		CollectList: cloneLists(c.CollectList),
	}
}

func cloneLists(lists []MusicList) []MusicList {
	if lists == nil {
		return nil
	}
	out := make([]MusicList, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}

// Session is the persisted play queue.
type Session struct {
	PlayList     []Music  `json:"playList"`
	CurrentIndex int      `json:"currentIndex"`
	PlayMode     PlayMode `json:"playMode"`
}
