package formatter

import (
	"testing"
	"time"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestParseLyric(t *testing.T) {
	lrc := `[ar:Someone]
[ti:Title]
[00:01.50]first
[00:10.123][01:00.00]chorus
[00:05]second

not a lyric line`

	want := []LyricLine{
		{Time: 1500 * time.Millisecond, Text: "first"},
		{Time: 5 * time.Second, Text: "second"},
		{Time: 10123 * time.Millisecond, Text: "chorus"},
		{Time: time.Minute, Text: "chorus"},
	}

	if diff := cmp.Diff(want, ParseLyric(lrc)); diff != "" {
		t.Errorf("ParseLyric mismatch (-want +got):\n%s", diff)
	}

	if got := ParseLyric(""); len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}
}

func TestParseLyrics(t *testing.T) {
	l := &models.Lyric{
		Lrc:    "[00:01.00]hello\n[00:02.00]world",
		TLyric: "[00:01.00]hola",
	}

	got := ParseLyrics(l)
	want := []LyricLine{
		{Time: time.Second, Text: "hello", Translation: "hola"},
		{Time: 2 * time.Second, Text: "world"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseLyrics mismatch (-want +got):\n%s", diff)
	}

	if ParseLyrics(nil) != nil {
		t.Error("expected nil for nil lyric")
	}
}

func TestLineAt(t *testing.T) {
	lines := []LyricLine{
		{Time: time.Second},
		{Time: 5 * time.Second},
		{Time: 9 * time.Second},
	}

	tc := []struct {
		pos  time.Duration
		want int
	}{
		{pos: 0, want: -1},
		{pos: time.Second, want: 0},
		{pos: 4 * time.Second, want: 0},
		{pos: 5 * time.Second, want: 1},
		{pos: time.Minute, want: 2},
	}
	for _, tt := range tc {
		if got := LineAt(lines, tt.pos); got != tt.want {
			t.Errorf("LineAt(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}

	if got := LineAt(nil, time.Second); got != -1 {
		t.Errorf("expected -1 for no lines, got %d", got)
	}

	tied := []LyricLine{{Time: time.Second}, {Time: 2 * time.Second, Text: "a"}, {Time: 2 * time.Second, Text: "b"}}
	if got := LineAt(tied, 2*time.Second); got != 2 {
		t.Errorf("expected last line of a shared timestamp, got %d", got)
	}
}
