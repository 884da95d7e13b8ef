package handlers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/codebuildervaibhav/lecture-insights/internal/analysis"
	"github.com/codebuildervaibhav/lecture-insights/internal/queue"
	"github.com/codebuildervaibhav/lecture-insights/internal/storage"
	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

type stubExtractor struct {
	dir string
}

func (s *stubExtractor) Extract(inputPath string) (string, error) {
	path := filepath.Join(s.dir, "audio.wav")
	return path, os.WriteFile(path, []byte("audio"), 0644)
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(string) (*types.TranscriptionResult, error) {
	return &types.TranscriptionResult{Text: "hello from the lecture"}, nil
}

// gatedAnalyzer holds the job in the analyzing stage until released
type gatedAnalyzer struct {
	gate chan struct{}
}

func (g *gatedAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	<-g.gate
	return &analysis.Result{Summary: "s"}, nil
}

type fakeConn struct {
	jobID    string
	mu       sync.Mutex
	messages [][]byte
}

func (f *fakeConn) Params(key string, defaultValue ...string) string {
	return f.jobID
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeConn) lastStatus() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	var event queue.Event
	json.Unmarshal(f.messages[len(f.messages)-1], &event)
	return event.Status
}

func newProgressFixture(t *testing.T, gate chan struct{}) (*ProgressHandler, *queue.WorkerPool) {
	t.Helper()
	dir := t.TempDir()

	uploaded := filepath.Join(dir, "upload.mp4")
	if err := os.WriteFile(uploaded, []byte("fake video"), 0644); err != nil {
		t.Fatal(err)
	}

	pool := queue.NewWorkerPool(
		1,
		&stubExtractor{dir: dir},
		stubTranscriber{},
		&gatedAnalyzer{gate: gate},
		storage.NewLocalStorage(filepath.Join(dir, "outputs")),
		nil,
		nil,
		queue.AnalysisOptions{KeywordCount: 10, MaxCategories: 2},
	)
	pool.Start()
	pool.EnqueueJob(queue.NewJob("job-1", "lecture", types.SourceUpload, uploaded))

	return NewProgressHandler(pool), pool
}

func waitForStatus(t *testing.T, pool *queue.WorkerPool, jobID, status string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if job, ok := pool.GetJob(jobID); ok && job.Status == status {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s never reached status %s", jobID, status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamReturnsForFinishedJob(t *testing.T) {
	gate := make(chan struct{})
	close(gate) // analyzer never blocks
	handler, pool := newProgressFixture(t, gate)
	waitForStatus(t, pool, "job-1", types.StatusCompleted)

	// The terminal event was published with no subscriber attached; the
	// stream must still terminate via its snapshot instead of waiting
	// for an event that will never come.
	conn := &fakeConn{jobID: "job-1"}
	done := make(chan struct{})
	go func() {
		handler.stream(conn)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not return for an already-finished job")
	}

	if got := conn.lastStatus(); got != types.StatusCompleted {
		t.Errorf("last streamed status = %q, want %s", got, types.StatusCompleted)
	}
}

func TestStreamFollowsJobToCompletion(t *testing.T) {
	gate := make(chan struct{})
	handler, pool := newProgressFixture(t, gate)
	waitForStatus(t, pool, "job-1", types.StatusProcessing)

	conn := &fakeConn{jobID: "job-1"}
	done := make(chan struct{})
	go func() {
		handler.stream(conn)
		close(done)
	}()

	// Wait for the snapshot write so the subscription is in place, then
	// let the job finish
	deadline := time.Now().Add(2 * time.Second)
	for conn.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never sent the initial snapshot")
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(gate)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not return after the job completed")
	}

	if got := conn.lastStatus(); got != types.StatusCompleted {
		t.Errorf("last streamed status = %q, want %s", got, types.StatusCompleted)
	}
}

func TestStreamUnknownJob(t *testing.T) {
	gate := make(chan struct{})
	close(gate)
	handler, _ := newProgressFixture(t, gate)

	conn := &fakeConn{jobID: "no-such-job"}
	done := make(chan struct{})
	go func() {
		handler.stream(conn)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not return for an unknown job")
	}
}
