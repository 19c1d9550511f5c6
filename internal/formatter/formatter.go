// package formatter provides functions to export a speaker queue to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/samber/lo"
)

// QueueExport is a speaker's queue together with what it is currently playing.
//
// Playing is the queue index of the now-playing item, or -1.
type QueueExport struct {
	Speaker    models.SpeakerInfo `json:"speaker"`
	NowPlaying *models.TrackInfo  `json:"now_playing,omitempty"`
	Playing    int                `json:"playing"`
	Items      []models.QueueItem `json:"items"`
}

// NewQueueExport builds an export, locating the now-playing track in items by URI.
func NewQueueExport(speaker models.SpeakerInfo, items []models.QueueItem, nowPlaying *models.TrackInfo) *QueueExport {
	export := &QueueExport{Speaker: speaker, NowPlaying: nowPlaying, Playing: -1, Items: items}
	if nowPlaying != nil && nowPlaying.URI != "" {
		_, export.Playing, _ = lo.FindIndexOf(items, func(item models.QueueItem) bool { return item.URI == nowPlaying.URI })
	}
	return export
}

func (e *QueueExport) title() string {
	if e.Speaker.Name == "" {
		return "Queue"
	}
	return "Queue: " + models.DisplayName(e.Speaker)
}

// ExportToCSV converts a QueueExport to CSV format with columns: Position, Creator, Title, URI, Playing
func ExportToCSV(export *QueueExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Creator", "Title", "URI", "Playing"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	records := lo.Map(export.Items, func(item models.QueueItem, i int) []string {
		return []string{
			strconv.Itoa(i + 1),
			item.Creator,
			item.Title,
			item.URI,
			strconv.FormatBool(i == export.Playing),
		}
	})
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a QueueExport to Markdown format with optional cover image
func ExportToMarkdown(export *QueueExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.title()))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if np := export.NowPlaying; np != nil && np.Title != "" {
		buf.WriteString(fmt.Sprintf("**Now Playing**: %s - %s", np.Artist, np.Title))
		if np.Album != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", np.Album))
		}
		if np.Duration > 0 {
			buf.WriteString(fmt.Sprintf(" [%s/%s]", shared.FormatDuration(np.Position), shared.FormatDuration(np.Duration)))
		}
		buf.WriteString("\n\n")
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(export.Items)))

	buf.WriteString("## Tracks\n\n")
	for i, item := range export.Items {
		line := fmt.Sprintf("%d. %s", i+1, item.Label())
		if i == export.Playing {
			line = fmt.Sprintf("%d. **%s** _(playing)_", i+1, item.Label())
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a QueueExport to plain text format
func ExportToText(export *QueueExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(export.title() + "\n")
	if np := export.NowPlaying; np != nil && np.Title != "" {
		buf.WriteString(fmt.Sprintf("Now Playing: %s - %s\n", np.Artist, np.Title))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		marker := " "
		if i == export.Playing {
			marker = ">"
		}
		buf.WriteString(fmt.Sprintf("%s %d. %s\n", marker, i+1, item.Label()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a QueueExport to indented JSON
func ExportToJSON(export *QueueExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal queue: %w", err)
	}
	return data, nil
}

// WriteCSVExport writes the queue to {base}_queue.csv.
//
// Defaults to the speaker uid as the base filename.
func WriteCSVExport(export *QueueExport, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = export.Speaker.UID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	queueFile := baseFilepath + "_queue.csv"
	if err := os.WriteFile(queueFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return queueFile, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a queue to Markdown format in a dedicated directory.
//
// Directory name defaults to the speaker uid. cover is optional album art for the
// now-playing track; when present it is saved next to the README.
func WriteMarkdownExport(export *QueueExport, outputDir string, cover []byte) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Speaker.UID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if len(cover) > 0 {
		coverImageFilename = "cover.jpg"
		coverImagePath := filepath.Join(outputDir, coverImageFilename)
		if err := os.WriteFile(coverImagePath, cover, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
			coverImageFilename = ""
		} else {
			result.CoverImage = coverImagePath
			result.Files = append(result.Files, coverImagePath)
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a queue to plain text format.
//
// Defaults to {speaker.UID}_queue.txt as the filename.
func WriteTextExport(export *QueueExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_queue.txt", export.Speaker.UID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
