package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/lecture-insights/internal/analysis"
	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// LocalStorage handles saving transcripts and analysis reports to the
// local filesystem
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage handler
func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{
		outputDir: outputDir,
	}
}

// SaveLecture saves the transcript, the analysis report and metadata to
// local disk and returns the transcript path
func (ls *LocalStorage) SaveLecture(requestName string, result *types.TranscriptionResult, report *analysis.Result) (string, error) {
	// Create dated directory structure: outputs/2025/01/23/
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %v", err)
	}

	// Generate filename: 20250123_143022_thermodynamics_intro.txt
	timestamp := now.Format("20060102_150405")
	baseFilename := fmt.Sprintf("%s_%s", timestamp, sanitizeFilename(requestName))

	txtPath := filepath.Join(dateDir, baseFilename+".txt")
	analysisPath := filepath.Join(dateDir, baseFilename+"_analysis.json")
	metaPath := filepath.Join(dateDir, baseFilename+"_meta.json")

	// Save transcript text
	if err := os.WriteFile(txtPath, []byte(result.Text), 0644); err != nil {
		return "", fmt.Errorf("failed to save transcript: %v", err)
	}

	// Save the analysis report
	if report != nil {
		reportJSON, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal analysis: %v", err)
		}
		if err := os.WriteFile(analysisPath, reportJSON, 0644); err != nil {
			return "", fmt.Errorf("failed to save analysis: %v", err)
		}
	}

	// Save metadata JSON
	metadata := map[string]interface{}{
		"job_id":           result.JobID,
		"request_name":     requestName,
		"duration_seconds": result.Duration,
		"word_count":       result.WordCount,
		"language":         result.Language,
		"created_at":       result.ProcessedAt,
		"segments":         result.Segments,
		"local_path":       txtPath,
		"gdrive_url":       result.GDriveURL,
	}

	metaJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %v", err)
	}

	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to save metadata: %v", err)
	}

	return txtPath, nil
}

// sanitizeFilename removes path separators and invalid characters
func sanitizeFilename(name string) string {
	result := filepath.Base(name)
	for _, c := range []string{":", "*", "?", "\"", "<", ">", "|"} {
		result = strings.ReplaceAll(result, c, "_")
	}
	if len(result) > 100 {
		result = result[:100] // Limit length
	}
	return result
}
