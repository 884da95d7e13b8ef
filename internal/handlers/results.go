package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/lecture-insights/internal/queue"
	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// ResultsHandler renders job status and analysis results
type ResultsHandler struct {
	workerPool *queue.WorkerPool
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(workerPool *queue.WorkerPool) *ResultsHandler {
	return &ResultsHandler{
		workerPool: workerPool,
	}
}

// Handle returns the current state of a job. Partial results render
// gracefully: a completed job always carries a summary field even when
// keywords or categories came back empty.
func (h *ResultsHandler) Handle(c *fiber.Ctx) error {
	jobID := c.Params("id")

	job, ok := h.workerPool.GetJob(jobID)
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "Job not found",
			"code":  "ERR_JOB_NOT_FOUND",
		})
	}

	response := fiber.Map{
		"job_id":     job.ID,
		"name":       job.RequestName,
		"status":     job.Status,
		"stage":      job.Stage,
		"created_at": job.CreatedAt,
	}

	if job.Status == types.StatusFailed {
		response["error"] = job.Error
		response["error_kind"] = job.ErrorKind
	}

	if job.Status == types.StatusCompleted {
		response["transcript"] = job.Result.Text
		response["language"] = job.Result.Language
		response["duration"] = job.Result.Duration
		response["word_count"] = job.Result.WordCount

		// Missing analysis fields render as empty values, never an error
		if job.Analysis != nil {
			response["summary"] = job.Analysis.Summary
			response["keywords"] = job.Analysis.Keywords
			response["categories"] = job.Analysis.Categories
		}
	}

	return c.JSON(response)
}
