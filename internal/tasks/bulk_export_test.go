package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
	tu "github.com/desertthunder/nmx/internal/testing"
	"github.com/google/go-cmp/cmp"
)

func testLists(n int) []models.MusicList {
	lists := make([]models.MusicList, n)
	for i := range n {
		lists[i] = models.MusicList{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("Playlist %d", i+1),
			Description: fmt.Sprintf("Test playlist %d", i+1),
			Tracks:      tu.Songs(2),
		}
	}
	return lists
}

func newTestExporter(api *tu.MockAPI) *Exporter {
	if api == nil {
		return NewExporter(nil, nil, shared.NewLogger(io.Discard))
	}
	return NewExporter(api, nil, shared.NewLogger(io.Discard))
}

func TestBulkExport_SuccessfulExport(t *testing.T) {
	tests := []struct {
		name           string
		format         string
		listCount      int
		wantFiles      int
		validateResult func(t *testing.T, result *BulkExportResult, dir string)
	}{
		{
			name:      "single list json export",
			format:    "json",
			listCount: 1,
			wantFiles: 1,
			validateResult: func(t *testing.T, result *BulkExportResult, dir string) {
				var got models.MusicList
				if err := json.Unmarshal([]byte(tu.MustReadFile(t, filepath.Join(dir, "1.json"))), &got); err != nil {
					t.Fatalf("invalid JSON export: %v", err)
				}
				if got.Name != "Playlist 1" || len(got.Tracks) != 2 {
					t.Errorf("unexpected export %+v", got)
				}
			},
		},
		{
			name:      "multiple lists csv export",
			format:    "csv",
			listCount: 3,
			wantFiles: 2,
			validateResult: func(t *testing.T, result *BulkExportResult, dir string) {
				for i := 1; i <= 3; i++ {
					tu.AssertFileExists(t, filepath.Join(dir, fmt.Sprintf("%d_tracks.csv", i)))
					tu.AssertFileExists(t, filepath.Join(dir, fmt.Sprintf("%d_metadata.json", i)))
				}
			},
		},
		{
			name:      "text export",
			format:    "txt",
			listCount: 2,
			wantFiles: 1,
			validateResult: func(t *testing.T, result *BulkExportResult, dir string) {
				content := tu.MustReadFile(t, filepath.Join(dir, "2_tracks.txt"))
				if !strings.Contains(content, "Playlist: Playlist 2") {
					t.Errorf("unexpected text export:\n%s", content)
				}
			},
		},
		{
			name:      "markdown export without cover",
			format:    "markdown",
			listCount: 1,
			wantFiles: 1,
			validateResult: func(t *testing.T, result *BulkExportResult, dir string) {
				tu.AssertFileExists(t, filepath.Join(dir, "1", "README.md"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			exporter := newTestExporter(nil)

			result, err := exporter.BulkExport(context.Background(), nil, testLists(tt.listCount), BulkExportOpts{
				Format:    tt.format,
				OutputDir: dir,
			})
			if err != nil {
				t.Fatalf("BulkExport failed: %v", err)
			}

			if result.TotalLists != tt.listCount {
				t.Errorf("expected %d total, got %d", tt.listCount, result.TotalLists)
			}
			if result.SuccessfulExports != tt.listCount || result.FailedExports != 0 {
				t.Errorf("expected %d successes and 0 failures, got %d/%d",
					tt.listCount, result.SuccessfulExports, result.FailedExports)
			}
			for _, res := range result.Results {
				if len(res.Files) != tt.wantFiles {
					t.Errorf("%s: expected %d files, got %d", res.ListName, tt.wantFiles, len(res.Files))
				}
				if res.Refreshed {
					t.Errorf("%s: expected stored copy without refresh", res.ListName)
				}
			}

			tu.AssertFileExists(t, result.ManifestPath)
			tt.validateResult(t, result, dir)
		})
	}
}

func TestBulkExport_Refresh(t *testing.T) {
	dir := t.TempDir()
	api := tu.NewMockAPI()

	lists := testLists(2)
	fresh := lists[0].Clone()
	fresh.Name = "Playlist 1 (updated)"
	fresh.Tracks = tu.Songs(4)
	api.Lists[1] = fresh

	album := models.MusicList{ID: 30, Name: "Album", Tracks: tu.Songs(1), Artist: &models.Singer{Name: "Singer 1"}}
	api.Albums[30] = album
	lists = append(lists, album)

	result, err := newTestExporter(api).BulkExport(context.Background(), nil, lists, BulkExportOpts{
		Format:    "json",
		OutputDir: dir,
		Refresh:   true,
		RateLimit: 1000,
	})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}

	refreshed := map[int64]bool{}
	for _, res := range result.Results {
		refreshed[res.ListID] = res.Refreshed
	}
	if diff := cmp.Diff(map[int64]bool{1: true, 2: false, 30: true}, refreshed); diff != "" {
		t.Errorf("refreshed mismatch (-want +got):\n%s", diff)
	}

	var got models.MusicList
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, filepath.Join(dir, "1.json"))), &got); err != nil {
		t.Fatalf("invalid JSON export: %v", err)
	}
	if got.Name != "Playlist 1 (updated)" || len(got.Tracks) != 4 {
		t.Errorf("expected refreshed copy to be exported, got %q with %d tracks", got.Name, len(got.Tracks))
	}

	if n := api.CallCount("GetAlbumInfo"); n != 1 {
		t.Errorf("expected albums to be refreshed through GetAlbumInfo, got %d calls", n)
	}
	if result.FailedExports != 0 {
		t.Errorf("expected failed refreshes to fall back to stored copies, got %d failures", result.FailedExports)
	}
}

func TestBulkExport_UnknownFormat(t *testing.T) {
	dir := t.TempDir()

	result, err := newTestExporter(nil).BulkExport(context.Background(), nil, testLists(2), BulkExportOpts{
		Format:    "xml",
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}

	if result.FailedExports != 2 {
		t.Errorf("expected 2 failures, got %d", result.FailedExports)
	}

	var manifest struct {
		FailedExports int `json:"failed_exports"`
		Results       []struct {
			ListID int64  `json:"list_id"`
			Error  string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	if manifest.FailedExports != 2 {
		t.Errorf("manifest: expected 2 failures, got %d", manifest.FailedExports)
	}
	for _, r := range manifest.Results {
		if !strings.Contains(r.Error, "unknown export format") {
			t.Errorf("list %d: expected format error in manifest, got %q", r.ListID, r.Error)
		}
	}
}

func TestBulkExport_Progress(t *testing.T) {
	progress := make(chan ProgressUpdate, 10)

	_, err := newTestExporter(nil).BulkExport(context.Background(), progress, testLists(3), BulkExportOpts{
		Format:     "txt",
		OutputDir:  t.TempDir(),
		NumWorkers: 2,
	})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}
	close(progress)

	var steps []int
	for u := range progress {
		if u.Phase != ExportList {
			t.Errorf("unexpected phase %v", u.Phase)
		}
		if u.Total != 3 {
			t.Errorf("expected total 3, got %d", u.Total)
		}
		steps = append(steps, u.Step)
	}
	sort.Ints(steps)
	if diff := cmp.Diff([]int{1, 2, 3}, steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestBulkExport_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	result, err := newTestExporter(nil).BulkExport(context.Background(), nil, nil, BulkExportOpts{})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}

	if !strings.HasPrefix(result.OutputDirectory, "nmx_export_") {
		t.Errorf("expected default output directory, got %q", result.OutputDirectory)
	}
	if _, err := os.Stat(result.ManifestPath); err != nil {
		t.Errorf("expected manifest to be written: %v", err)
	}
}

func TestBulkExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExporter(nil).BulkExport(ctx, nil, testLists(2), BulkExportOpts{
		Format:    "json",
		OutputDir: t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "export cancelled") {
		t.Errorf("expected cancellation error, got %v", err)
	}
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{FetchList: "fetch_list", ExportList: "export_list", Phase(99): ""} {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
