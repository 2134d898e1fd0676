// package formatter renders lyrics and exports music lists to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/nmx/internal/models"
)

// FormatPublishTime renders a millisecond epoch as a date. Zero renders as "".
func FormatPublishTime(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

// FormatMusic renders a song as "Singer - Name".
func FormatMusic(m models.Music) string {
	if m.Singer.Name == "" {
		return m.MusicName
	}
	return fmt.Sprintf("%s - %s", m.Singer.Name, m.MusicName)
}

// ExportToCSV converts a MusicList to CSV with columns: ID, Name, Singer, Album
func ExportToCSV(list *models.MusicList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Singer", "Album"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range list.Tracks {
		record := []string{strconv.FormatInt(m.ID, 10), m.MusicName, m.Singer.Name, m.Album.Name}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown converts a MusicList to Markdown. imageFilename is optional.
//
// Albums get their artist, company and publish date in the header.
func ExportToMarkdown(list *models.MusicList, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", list.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if list.IsAlbum() {
		fmt.Fprintf(&buf, "**Artist**: %s\n", list.Artist.Name)
		if list.Company != "" {
			fmt.Fprintf(&buf, "**Company**: %s\n", list.Company)
		}
		if d := FormatPublishTime(list.PublishTime); d != "" {
			fmt.Fprintf(&buf, "**Published**: %s\n", d)
		}
		buf.WriteString("\n")
	}

	if list.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", list.Description)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(list.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, m := range list.Tracks {
		album := ""
		if m.Album.Name != "" {
			album = fmt.Sprintf(" (%s)", m.Album.Name)
		}
		fmt.Fprintf(&buf, "%d. %s%s\n", i+1, FormatMusic(m), album)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a MusicList to plain text
func ExportToText(list *models.MusicList) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", list.Name)
	if list.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", list.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(list.Tracks))

	for i, m := range list.Tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, FormatMusic(m))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON renders the list without its tracks.
func ToMetadataJSON(list *models.MusicList) ([]byte, error) {
	meta := *list
	meta.Tracks = nil
	return json.MarshalIndent(meta, "", "  ")
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_tracks.csv and {base}_metadata.json. base defaults to the list ID.
func WriteCSVExport(list *models.MusicList, base string) (*CSVExportResult, error) {
	if base == "" {
		base = strconv.FormatInt(list.ID, 10)
	}

	csvData, err := ExportToCSV(list)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := base + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	meta, err := ToMetadataJSON(list)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := base + "_metadata.json"
	if err := os.WriteFile(metadataFile, meta, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
	// CoverErr is set when the cover could not be downloaded; the export itself still succeeded.
	CoverErr error
}

// WriteMarkdownExport writes {dir}/README.md and, when the list has a cover, {dir}/cover.jpg.
//
// dir defaults to the list ID.
func WriteMarkdownExport(ctx context.Context, client *http.Client, list *models.MusicList, dir string) (*MarkdownExportResult, error) {
	if dir == "" {
		dir = strconv.FormatInt(list.ID, 10)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: dir, Files: []string{}}

	var cover string
	if list.CoverImgURL != "" {
		data, err := DownloadImage(ctx, client, list.CoverImgURL)
		if err == nil {
			path := filepath.Join(dir, "cover.jpg")
			err = os.WriteFile(path, data, 0644)
			if err == nil {
				cover = "cover.jpg"
				result.CoverImage = path
				result.Files = append(result.Files, path)
			}
		}
		result.CoverErr = err
	}

	md, err := ExportToMarkdown(list, cover)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes the plain text export. path defaults to {list.ID}_tracks.txt.
func WriteTextExport(list *models.MusicList, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%d_tracks.txt", list.ID)
	}

	data, err := ExportToText(list)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}
