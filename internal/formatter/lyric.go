package formatter

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/nmx/internal/models"
)

var timeTag = regexp.MustCompile(`\[(\d{1,3}):(\d{1,2})(?:[.:](\d{1,3}))?\]`)

// LyricLine is one timed line of an LRC lyric.
type LyricLine struct {
	Time        time.Duration
	Text        string
	Translation string
}

// ParseLyric parses LRC text into lines sorted by time.
//
// A line may carry several time tags and is repeated for each. Lines without a time tag (metadata such as [ar:...]) are skipped.
func ParseLyric(lrc string) []LyricLine {
	var lines []LyricLine
	for raw := range strings.SplitSeq(lrc, "\n") {
		raw = strings.TrimSpace(raw)
		tags := timeTag.FindAllStringSubmatchIndex(raw, -1)
		if len(tags) == 0 {
			continue
		}

		text := strings.TrimSpace(raw[tags[len(tags)-1][1]:])
		for _, loc := range tags {
			lines = append(lines, LyricLine{
				Time: tagTime(raw, loc),
				Text: text,
			})
		}
	}

	slices.SortStableFunc(lines, func(a, b LyricLine) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return lines
}

func tagTime(raw string, loc []int) time.Duration {
	minutes, _ := strconv.Atoi(raw[loc[2]:loc[3]])
	seconds, _ := strconv.Atoi(raw[loc[4]:loc[5]])

	d := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	if loc[6] < 0 {
		return d
	}

	frac := raw[loc[6]:loc[7]]
	n, _ := strconv.Atoi(frac)
	switch len(frac) {
	case 1:
		d += time.Duration(n) * 100 * time.Millisecond
	case 2:
		d += time.Duration(n) * 10 * time.Millisecond
	default:
		d += time.Duration(n) * time.Millisecond
	}
	return d
}

// ParseLyrics parses the original lyric and attaches translated lines that share a timestamp.
func ParseLyrics(l *models.Lyric) []LyricLine {
	if l == nil {
		return nil
	}

	lines := ParseLyric(l.Lrc)
	if l.TLyric == "" {
		return lines
	}

	translated := make(map[time.Duration]string)
	for _, t := range ParseLyric(l.TLyric) {
		translated[t.Time] = t.Text
	}
	for i := range lines {
		lines[i].Translation = translated[lines[i].Time]
	}
	return lines
}

// LineAt returns the index of the line active at pos, or -1 before the first line.
func LineAt(lines []LyricLine, pos time.Duration) int {
	i, _ := slices.BinarySearchFunc(lines, pos, func(l LyricLine, t time.Duration) int {
		if l.Time <= t {
			return -1
		}
		return 1
	})
	return i - 1
}
