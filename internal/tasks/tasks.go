package tasks

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/services"
	"github.com/desertthunder/nmx/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchList Phase = iota
	ExportList
)

func (p Phase) String() string {
	switch p {
	case FetchList:
		return "fetch_list"
	case ExportList:
		return "export_list"
	default:
		return ""
	}
}

// ListExportJob is one list waiting for a worker.
type ListExportJob struct {
	List models.MusicList
}

// ListExportResult is the outcome of exporting one list.
type ListExportResult struct {
	ListID   int64    `json:"list_id"`
	ListName string   `json:"list_name"`
	Success  bool     `json:"success"`
	Files    []string `json:"files"`
	Error    error    `json:"-"`
	// Refreshed is false when the stored copy was exported because the remote fetch failed or was skipped.
	Refreshed bool `json:"refreshed"`
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalLists        int                `json:"total_lists"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	ManifestPath      string             `json:"-"`
	Results           []ListExportResult `json:"results"`
}

// Exporter writes collected playlists and albums to disk.
type Exporter struct {
	api    services.MusicAPI
	client *http.Client
	logger *log.Logger
}

// NewExporter creates an Exporter. api may be nil, in which case stored copies are exported as-is.
func NewExporter(api services.MusicAPI, client *http.Client, logger *log.Logger) *Exporter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Exporter{api: api, client: client, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchingListUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
