package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/codebuildervaibhav/lecture-insights/internal/analysis"
	"github.com/codebuildervaibhav/lecture-insights/internal/storage"
	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// AudioExtractor decodes the audio track of an uploaded file
type AudioExtractor interface {
	Extract(inputPath string) (string, error)
}

// Transcriber converts an audio file into a transcript
type Transcriber interface {
	Transcribe(audioPath string) (*types.TranscriptionResult, error)
}

// Analyzer produces summary/keywords/categories for a transcript
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// AnalysisOptions carries the configured analysis parameters applied to
// every job
type AnalysisOptions struct {
	KeywordCount  int
	Categories    []string
	MaxCategories int
}

// WorkerPool manages a pool of workers processing lecture jobs
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	extractor    AudioExtractor
	transcriber  Transcriber
	analyzer     Analyzer
	localStorage *storage.LocalStorage
	driveClient  *storage.DriveClient
	db           *storage.MetadataDB
	opts         AnalysisOptions

	mu       sync.Mutex
	jobs     map[string]*Job
	watchers map[string][]chan Event
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(
	workerCount int,
	extractor AudioExtractor,
	transcriber Transcriber,
	analyzer Analyzer,
	localStorage *storage.LocalStorage,
	driveClient *storage.DriveClient,
	db *storage.MetadataDB,
	opts AnalysisOptions,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100), // Buffer of 100 jobs
		workerCount:  workerCount,
		extractor:    extractor,
		transcriber:  transcriber,
		analyzer:     analyzer,
		localStorage: localStorage,
		driveClient:  driveClient,
		db:           db,
		opts:         opts,
		jobs:         make(map[string]*Job),
		watchers:     make(map[string][]chan Event),
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob registers a job and adds it to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	job.CreatedAt = time.Now()

	wp.mu.Lock()
	wp.jobs[job.ID] = job
	wp.mu.Unlock()
	wp.update(job.ID, func(j *Job) {
		j.Status = types.StatusQueued
	})

	wp.jobQueue <- job
	log.Printf("Job %s enqueued (source: %s, name: %s)", job.ID, job.SourceType, job.RequestName)
}

// GetJob returns a snapshot of the job with the given ID
func (wp *WorkerPool) GetJob(jobID string) (Job, bool) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	job, ok := wp.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Watch subscribes to progress events for a job. The returned cancel
// function must be called to release the subscription.
func (wp *WorkerPool) Watch(jobID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	wp.mu.Lock()
	wp.watchers[jobID] = append(wp.watchers[jobID], ch)
	wp.mu.Unlock()

	cancel := func() {
		wp.mu.Lock()
		defer wp.mu.Unlock()
		subs := wp.watchers[jobID]
		for i, sub := range subs {
			if sub == ch {
				wp.watchers[jobID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(wp.watchers[jobID]) == 0 {
			delete(wp.watchers, jobID)
		}
	}
	return ch, cancel
}

// update mutates a job under the lock and publishes the new state to
// watchers
func (wp *WorkerPool) update(jobID string, fn func(*Job)) {
	wp.mu.Lock()
	job, ok := wp.jobs[jobID]
	if !ok {
		wp.mu.Unlock()
		return
	}
	fn(job)
	event := Event{
		JobID:     job.ID,
		Status:    job.Status,
		Stage:     job.Stage,
		Error:     job.Error,
		ErrorKind: job.ErrorKind,
	}
	subs := append([]chan Event(nil), wp.watchers[jobID]...)
	wp.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default: // Slow watcher, drop the event
		}
	}
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		// Panic recovery
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					wp.update(job.ID, func(j *Job) {
						j.Status = types.StatusFailed
						j.Error = fmt.Sprintf("worker panic: %v", r)
					})
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob runs the full pipeline: extract audio, transcribe, analyze,
// save. Both temp files (the upload and the extracted audio) are removed
// on every exit path, including panics.
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s", workerID, job.ID)
	defer wp.cleanupTempFile(job.FilePath)

	wp.update(job.ID, func(j *Job) {
		j.Status = types.StatusProcessing
		j.Stage = types.StageExtracting
	})

	// Step 1: Extract audio track
	audioPath, err := wp.extractor.Extract(job.FilePath)
	if err != nil {
		log.Printf("Worker %d: Audio extraction failed for job %s: %v", workerID, job.ID, err)
		wp.fail(job.ID, types.FailMediaDecode, err)
		return
	}
	defer wp.cleanupTempFile(audioPath)

	// Step 2: Transcribe with Whisper
	wp.update(job.ID, func(j *Job) { j.Stage = types.StageTranscribing })

	result, err := wp.transcriber.Transcribe(audioPath)
	if err != nil {
		log.Printf("Worker %d: Transcription failed for job %s: %v", workerID, job.ID, err)
		wp.fail(job.ID, types.FailTranscription, err)
		return
	}

	result.JobID = job.ID
	result.WordCount = len(strings.Fields(result.Text))
	result.ProcessedAt = time.Now()

	// Step 3: Generative analysis
	wp.update(job.ID, func(j *Job) { j.Stage = types.StageAnalyzing })

	analysisResult, err := wp.analyzer.Analyze(context.Background(), analysis.Request{
		Transcript:    result.Text,
		KeywordCount:  wp.opts.KeywordCount,
		Categories:    wp.opts.Categories,
		MaxCategories: wp.opts.MaxCategories,
	})
	if err != nil {
		log.Printf("Worker %d: Analysis failed for job %s: %v", workerID, job.ID, err)
		wp.fail(job.ID, classifyAnalysisError(err), err)
		return
	}

	// Step 4: Save locally
	wp.update(job.ID, func(j *Job) { j.Stage = types.StageSaving })

	localPath, err := wp.localStorage.SaveLecture(job.RequestName, result, analysisResult)
	if err != nil {
		log.Printf("Worker %d: Local save failed for job %s: %v", workerID, job.ID, err)
		wp.fail(job.ID, types.FailStorage, err)
		return
	}
	result.LocalPath = localPath

	// Step 5: Upload to Google Drive (with retry)
	if wp.driveClient != nil {
		var driveURL string
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, err = wp.driveClient.Upload(job.RequestName, result, analysisResult)
			if err == nil {
				result.GDriveURL = driveURL
				break
			}
			log.Printf("Worker %d: Google Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second) // Exponential backoff
			}
		}
		if err != nil {
			log.Printf("Worker %d: WARNING - Google Drive upload failed after 3 attempts, continuing with local save only", workerID)
		}
	}

	// Step 6: Save metadata to database
	if wp.db != nil {
		err = wp.db.SaveLecture(job.ID, job.RequestName, job.SourceType,
			analysisResult, result.GDriveURL, localPath, result.Duration, result.WordCount)
		if err != nil {
			log.Printf("Worker %d: Database save failed: %v", workerID, err)
		}
	}

	wp.update(job.ID, func(j *Job) {
		j.Status = types.StatusCompleted
		j.Stage = ""
		j.Result = result
		j.Analysis = analysisResult
	})
	log.Printf("Worker %d: Job %s completed successfully (local: %s)", workerID, job.ID, localPath)
}

// fail marks a job failed with the given kind
func (wp *WorkerPool) fail(jobID, kind string, cause error) {
	wp.update(jobID, func(j *Job) {
		j.Status = types.StatusFailed
		j.Stage = ""
		j.ErrorKind = kind
		j.Error = cause.Error()
	})
}

// classifyAnalysisError maps pipeline errors to failure kinds
func classifyAnalysisError(err error) string {
	var svcErr *analysis.ServiceError
	if errors.As(err, &svcErr) {
		return types.FailAnalysisService
	}
	var parseErr *analysis.ParseError
	if errors.As(err, &parseErr) {
		return types.FailAnalysisParse
	}
	return types.FailAnalysisService
}

// cleanupTempFile removes a temporary file
func (wp *WorkerPool) cleanupTempFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to cleanup temp file %s: %v", filePath, err)
	}
}
