package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/nmx/internal/formatter"
	"github.com/desertthunder/nmx/internal/models"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: nmx_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max 10)
	RateLimit  float64 // Remote refreshes per second (default: 5)
	Refresh    bool    // Re-fetch each list from the API before exporting
}

type exportJob struct {
	ListExportJob
	refreshed bool
}

// BulkExport exports lists concurrently and writes a manifest summarizing the results.
//
// Partial failures are recorded per list; the returned error is only set when the output directory or the manifest could not be written.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	lists []models.MusicList,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("nmx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	opts.NumWorkers = min(opts.NumWorkers, 10)
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalLists:      len(lists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ListExportResult, 0, len(lists)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(lists))
	results := make(chan ListExportResult, len(lists))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, list := range lists {
			if ctx.Err() != nil {
				return
			}

			job := exportJob{ListExportJob: ListExportJob{List: list}}
			if opts.Refresh && e.api != nil {
				e.sendProgress(prog, fetchingListUpdate(i+1, len(lists), list.Name))
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				if fresh, err := e.refresh(ctx, list); err != nil {
					e.logger.Warn("refresh failed, exporting stored copy", "id", list.ID, "error", err)
				} else {
					job.List = *fresh
					job.refreshed = true
				}
			}
			jobs <- job
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(lists), res.ListName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(lists), res.ListName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *Exporter) refresh(ctx context.Context, list models.MusicList) (*models.MusicList, error) {
	if list.IsAlbum() {
		return e.api.GetAlbumInfo(ctx, list.ID)
	}
	return e.api.GetMusicListDetail(ctx, list.ID)
}

// exportWorker exports lists from the jobs channel until it is drained.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- ListExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		res := e.exportSingleList(ctx, job.List, opts)
		res.Refreshed = job.refreshed
		results <- res
	}
}

// exportSingleList writes one list in the requested format under opts.OutputDir.
func (e *Exporter) exportSingleList(ctx context.Context, list models.MusicList, opts BulkExportOpts) ListExportResult {
	result := ListExportResult{
		ListID:   list.ID,
		ListName: list.Name,
		Files:    []string{},
	}
	id := strconv.FormatInt(list.ID, 10)

	switch opts.Format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(&list, filepath.Join(opts.OutputDir, id))
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.TracksFile, csvRes.MetadataFile}

	case "markdown":
		mdRes, err := formatter.WriteMarkdownExport(ctx, e.client, &list, filepath.Join(opts.OutputDir, id))
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		if mdRes.CoverErr != nil {
			e.logger.Warn("cover image not saved", "id", list.ID, "error", mdRes.CoverErr)
		}
		result.Files = mdRes.Files

	case "txt":
		path, err := formatter.WriteTextExport(&list, filepath.Join(opts.OutputDir, id+"_tracks.txt"))
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	case "json":
		path := filepath.Join(opts.OutputDir, id+".json")
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		result.Error = fmt.Errorf("unknown export format %q", opts.Format)
		return result
	}

	result.Success = true
	return result
}

type manifestEntry struct {
	ListExportResult
	Error string `json:"error,omitempty"`
}

// writeManifest records every result, with errors flattened to strings.
func writeManifest(result *BulkExportResult, format, path string) error {
	entries := make([]manifestEntry, len(result.Results))
	for i, r := range result.Results {
		entries[i] = manifestEntry{ListExportResult: r}
		if r.Error != nil {
			entries[i].Error = r.Error.Error()
		}
	}

	manifest := struct {
		ExportedAt        time.Time       `json:"exported_at"`
		Format            string          `json:"format"`
		TotalLists        int             `json:"total_lists"`
		SuccessfulExports int             `json:"successful_exports"`
		FailedExports     int             `json:"failed_exports"`
		Results           []manifestEntry `json:"results"`
	}{
		ExportedAt:        time.Now().UTC(),
		Format:            format,
		TotalLists:        result.TotalLists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Results:           entries,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
