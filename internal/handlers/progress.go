package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/lecture-insights/internal/queue"
	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// ProgressHandler pushes per-job stage updates to the browser over a
// WebSocket, driving the upload page's progress display
type ProgressHandler struct {
	workerPool *queue.WorkerPool
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(workerPool *queue.WorkerPool) *ProgressHandler {
	return &ProgressHandler{
		workerPool: workerPool,
	}
}

// progressConn is the slice of the WebSocket connection the stream loop
// needs; tests substitute a fake
type progressConn interface {
	Params(key string, defaultValue ...string) string
	WriteMessage(messageType int, data []byte) error
}

// Handle streams progress events for the job in the :id route param until
// the job finishes or the client disconnects
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()
	h.stream(c)
}

func (h *ProgressHandler) stream(c progressConn) {
	jobID := c.Params("id")

	// Subscribe before taking the snapshot. A job that turns terminal
	// between the two is then visible in the snapshot; the other order
	// can miss the terminal event entirely and block on the channel
	// forever.
	events, cancel := h.workerPool.Watch(jobID)
	defer cancel()

	job, ok := h.workerPool.GetJob(jobID)
	if !ok {
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"job not found"}`))
		return
	}

	// Send the current state first so late subscribers see something
	h.send(c, queue.Event{
		JobID:     job.ID,
		Status:    job.Status,
		Stage:     job.Stage,
		Error:     job.Error,
		ErrorKind: job.ErrorKind,
	})
	if job.Status == types.StatusCompleted || job.Status == types.StatusFailed {
		return
	}

	for event := range events {
		if !h.send(c, event) {
			return
		}
		if event.Status == types.StatusCompleted || event.Status == types.StatusFailed {
			return
		}
	}
}

func (h *ProgressHandler) send(c progressConn, event queue.Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		return false
	}
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("WebSocket write error for job %s: %v", event.JobID, err)
		return false
	}
	return true
}
