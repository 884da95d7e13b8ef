package transcription

import (
	"errors"
	"testing"

	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

type fakeTranscriber struct {
	calls int
	err   error
}

func (f *fakeTranscriber) Transcribe(audioPath string) (*types.TranscriptionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &types.TranscriptionResult{Text: "transcript of " + audioPath}, nil
}

func TestCacheMemoizesByPath(t *testing.T) {
	fake := &fakeTranscriber{}
	cache := NewCache(fake)

	first, err := cache.Transcribe("temp/a.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	second, err := cache.Transcribe("temp/a.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if fake.calls != 1 {
		t.Errorf("underlying transcriber called %d times, want 1", fake.calls)
	}
	if first != second {
		t.Error("cache returned a different result for the same path")
	}
}

func TestCacheDistinctPaths(t *testing.T) {
	fake := &fakeTranscriber{}
	cache := NewCache(fake)

	cache.Transcribe("temp/a.wav")
	cache.Transcribe("temp/b.wav")

	if fake.calls != 2 {
		t.Errorf("underlying transcriber called %d times, want 2", fake.calls)
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	fake := &fakeTranscriber{err: errors.New("whisper exploded")}
	cache := NewCache(fake)

	if _, err := cache.Transcribe("temp/a.wav"); err == nil {
		t.Fatal("expected error")
	}

	fake.err = nil
	if _, err := cache.Transcribe("temp/a.wav"); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}

	if fake.calls != 2 {
		t.Errorf("underlying transcriber called %d times, want 2", fake.calls)
	}
}
