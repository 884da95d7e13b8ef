package types

import "time"

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Source type constants
const (
	SourceUpload = "upload"
)

// Processing stage constants, reported to the browser while a job runs
const (
	StageExtracting   = "extracting"
	StageTranscribing = "transcribing"
	StageAnalyzing    = "analyzing"
	StageSaving       = "saving"
)

// Failure kind constants
const (
	FailMediaDecode     = "media_decode"
	FailTranscription   = "transcription"
	FailAnalysisService = "analysis_service"
	FailAnalysisParse   = "analysis_parse"
	FailStorage         = "storage"
)

// TranscriptionResult represents the output from Whisper
type TranscriptionResult struct {
	JobID       string
	Text        string
	Language    string
	Duration    float64
	Segments    []Segment
	WordCount   int
	ProcessedAt time.Time
	LocalPath   string
	GDriveURL   string
}

// Segment represents a timestamped segment of transcription
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
