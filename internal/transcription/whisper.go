package transcription

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codebuildervaibhav/lecture-insights/internal/types"
)

// Transcriber converts an audio file into a transcript
type Transcriber interface {
	Transcribe(audioPath string) (*types.TranscriptionResult, error)
}

// WhisperTranscriber wraps Python's OpenAI Whisper for transcription
type WhisperTranscriber struct {
	modelName string
	language  string
	tempDir   string
	mu        sync.Mutex // Whisper loads the model per run; serialize to bound memory
}

// NewWhisperTranscriber creates a new transcriber using Python Whisper.
// modelName is one of tiny/base/small/medium/large.
func NewWhisperTranscriber(modelName, language, tempDir string) (*WhisperTranscriber, error) {
	if modelName == "" {
		modelName = "base"
	}
	if language == "" {
		language = "en"
	}

	log.Printf("Initializing Python Whisper with model: %s", modelName)
	log.Printf("Whisper will be called via: python -m whisper")
	log.Printf("Note: Whisper availability will be verified on first transcription")

	return &WhisperTranscriber{
		modelName: modelName,
		language:  language,
		tempDir:   tempDir,
	}, nil
}

// Transcribe processes an audio file and returns the transcript
func (wt *WhisperTranscriber) Transcribe(audioPath string) (*types.TranscriptionResult, error) {
	wt.mu.Lock()
	defer wt.mu.Unlock()

	log.Printf("Transcribing with Python Whisper: %s", audioPath)

	// Create temp directory for Whisper output
	outDir := filepath.Join(wt.tempDir, "whisper_output")
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir) // Clean up after

	// Get absolute path for audio file
	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	cmd := exec.Command("python", "-m", "whisper",
		absAudioPath,
		"--model", wt.modelName,
		"--output_dir", outDir,
		"--output_format", "json", // Get JSON for segments
		"--language", wt.language,
		"--fp16", "False", // Disable fp16 for CPU compatibility
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %v\nOutput: %s", err, string(output))
	}

	// Read the JSON output file
	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outDir, baseName+".json")

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %v", err)
	}

	// Parse Whisper JSON output
	var whisperOutput WhisperOutput
	if err := json.Unmarshal(jsonData, &whisperOutput); err != nil {
		return nil, fmt.Errorf("failed to parse whisper JSON: %v", err)
	}

	// Convert to our format
	segments := make([]types.Segment, len(whisperOutput.Segments))
	for i, seg := range whisperOutput.Segments {
		segments[i] = types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
	}

	// Calculate duration (last segment end time)
	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	result := &types.TranscriptionResult{
		Text:     strings.TrimSpace(whisperOutput.Text),
		Language: whisperOutput.Language,
		Duration: duration,
		Segments: segments,
	}

	log.Printf("Transcription completed: %d segments, %.2fs duration", len(segments), duration)
	return result, nil
}

// WhisperOutput matches Python Whisper's JSON output format
type WhisperOutput struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []WhisperSegment `json:"segments"`
}

// WhisperSegment represents a timestamped segment from Whisper
type WhisperSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
