package queue

import (
	"time"

	"github.com/codebuildervaibhav/lecture-insights/internal/analysis"
	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// Job represents one uploaded lecture moving through the pipeline
type Job struct {
	ID          string
	RequestName string
	SourceType  string
	FilePath    string
	Status      string
	Stage       string
	ErrorKind   string
	Error       string
	Result      *types.TranscriptionResult
	Analysis    *analysis.Result
	CreatedAt   time.Time
}

// Event is one progress update pushed to watchers of a job
type Event struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Stage     string `json:"stage,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// NewJob creates a new job with default values
func NewJob(id, requestName, sourceType, filePath string) *Job {
	return &Job{
		ID:          id,
		RequestName: requestName,
		SourceType:  sourceType,
		FilePath:    filePath,
		Status:      types.StatusQueued,
		CreatedAt:   time.Now(),
	}
}
