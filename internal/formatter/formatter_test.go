package formatter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/nmx/internal/models"
	th "github.com/desertthunder/nmx/internal/testing"
)

func testList() *models.MusicList {
	return &models.MusicList{
		ID:          123,
		Name:        "Test Playlist",
		Description: "A test playlist",
		Tracks: []models.Music{
			{ID: 1, MusicName: "Song One", Singer: models.Singer{Name: "Artist One"}, Album: models.Album{Name: "Album One"}},
			{ID: 2, MusicName: "Song Two", Singer: models.Singer{Name: "Artist Two"}},
		},
	}
}

func TestFormatPublishTime(t *testing.T) {
	tc := []struct {
		ms   int64
		want string
	}{
		{ms: 0, want: ""},
		{ms: 1577836800000, want: "2020-01-01"},
		{ms: 1700000000000, want: "2023-11-14"},
	}
	for _, tt := range tc {
		if got := FormatPublishTime(tt.ms); got != tt.want {
			t.Errorf("FormatPublishTime(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testList())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Singer,Album") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Song One,Artist One,Album One") {
			t.Errorf("CSV missing track 1, got: %s", output)
		}
		if !strings.Contains(output, "2,Song Two,Artist Two,") {
			t.Errorf("CSV missing track 2, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testList(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Test Playlist",
				"**Description**: A test playlist",
				"**Tracks**: 2",
				"## Tracks",
				"1. Artist One - Song One (Album One)",
				"2. Artist Two - Song Two\n",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got: %s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not reference a cover")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testList(), "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})

		t.Run("album header", func(t *testing.T) {
			album := testList()
			album.Artist = &models.Singer{ID: 9, Name: "Band"}
			album.Company = "Label"
			album.PublishTime = 1577836800000

			data, err := ExportToMarkdown(album, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{"**Artist**: Band", "**Company**: Label", "**Published**: 2020-01-01"} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q", want)
				}
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testList())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Playlist: Test Playlist",
			"Description: A test playlist",
			"Tracks: 2",
			"1. Artist One - Song One",
			"2. Artist Two - Song Two",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Text missing %q", want)
			}
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testList())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, `"name": "Test Playlist"`) {
			t.Errorf("JSON missing name, got: %s", output)
		}
		if strings.Contains(output, "Song One") {
			t.Errorf("JSON should not contain tracks")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(ctx, nil, ""); err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg"))
		}))
		defer srv.Close()

		data, err := DownloadImage(ctx, srv.Client(), srv.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpeg" {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("BadStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := DownloadImage(ctx, srv.Client(), srv.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteCSVExport(testList(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.TracksFile != "123_tracks.csv" {
				t.Errorf("Expected tracks file '123_tracks.csv', got '%s'", result.TracksFile)
			}
			if result.MetadataFile != "123_metadata.json" {
				t.Errorf("Expected metadata file '123_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.TracksFile)
			th.AssertFileExists(t, result.MetadataFile)

			if content := th.MustReadFile(t, result.TracksFile); !strings.Contains(content, "Song One") {
				t.Errorf("CSV missing track data")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "custom")

			result, err := WriteCSVExport(testList(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			th.AssertFileExists(t, base+"_tracks.csv")
			th.AssertFileExists(t, result.MetadataFile)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		ctx := context.Background()

		t.Run("WithCover", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpeg"))
			}))
			defer srv.Close()

			list := testList()
			list.CoverImgURL = srv.URL + "/cover.jpg"
			dir := filepath.Join(t.TempDir(), "export")

			result, err := WriteMarkdownExport(ctx, srv.Client(), list, dir)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if result.CoverErr != nil {
				t.Errorf("unexpected cover error: %v", result.CoverErr)
			}
			if len(result.Files) != 2 {
				t.Errorf("expected 2 files, got %v", result.Files)
			}

			readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
			if !strings.Contains(readme, "![Cover](cover.jpg)") {
				t.Errorf("README missing cover reference")
			}
		})

		t.Run("CoverFailureStillExports", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			list := testList()
			list.CoverImgURL = srv.URL
			dir := filepath.Join(t.TempDir(), "export")

			result, err := WriteMarkdownExport(ctx, srv.Client(), list, dir)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if result.CoverErr == nil {
				t.Error("expected cover error")
			}
			th.AssertFileExists(t, filepath.Join(dir, "README.md"))
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.txt")

		got, err := WriteTextExport(testList(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if !strings.Contains(th.MustReadFile(t, path), "Playlist: Test Playlist") {
			t.Error("text export missing header")
		}
	})
}
