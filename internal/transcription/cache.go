package transcription

import (
	"log"
	"sync"

	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// Cache memoizes transcription results by audio file path. Entries are
// never evicted within the process lifetime; uploaded files are keyed by
// unique temp paths, so the cache only pays off when the same path is
// transcribed again (e.g. a re-queued job).
type Cache struct {
	transcriber Transcriber
	mu          sync.Mutex
	results     map[string]*types.TranscriptionResult
}

// NewCache wraps a transcriber with path-keyed memoization
func NewCache(transcriber Transcriber) *Cache {
	return &Cache{
		transcriber: transcriber,
		results:     make(map[string]*types.TranscriptionResult),
	}
}

// Transcribe returns the cached result for audioPath, transcribing on miss.
// Failed transcriptions are not cached.
func (c *Cache) Transcribe(audioPath string) (*types.TranscriptionResult, error) {
	c.mu.Lock()
	if result, ok := c.results[audioPath]; ok {
		c.mu.Unlock()
		log.Printf("Transcript cache hit: %s", audioPath)
		return result, nil
	}
	c.mu.Unlock()

	result, err := c.transcriber.Transcribe(audioPath)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.results[audioPath] = result
	c.mu.Unlock()

	return result, nil
}

// Len reports the number of cached transcripts
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
