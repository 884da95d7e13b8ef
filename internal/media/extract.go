package media

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DecodeError indicates ffmpeg could not decode the input file
// (unsupported container/codec or corrupt data).
type DecodeError struct {
	Path   string
	Output string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Extractor decodes the audio track of an uploaded file into a WAV
// suitable for Whisper. Output files land in tempDir.
type Extractor struct {
	tempDir string
}

// NewExtractor creates an audio extractor writing into tempDir
func NewExtractor(tempDir string) *Extractor {
	return &Extractor{tempDir: tempDir}
}

// Extract decodes inputPath to 16kHz mono WAV and returns the output path
func (e *Extractor) Extract(inputPath string) (string, error) {
	outputPath := filepath.Join(e.tempDir, fmt.Sprintf("audio_%s.wav", uuid.New().String()))

	// -vn drops the video stream; for audio-only uploads it is a no-op
	cmd := exec.Command("ffmpeg",
		"-i", inputPath,
		"-vn",
		"-ar", "16000",      // 16kHz sample rate
		"-ac", "1",          // Mono
		"-c:a", "pcm_s16le", // 16-bit PCM
		"-y",                // Overwrite output
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &DecodeError{Path: inputPath, Output: string(output), Err: err}
	}

	return outputPath, nil
}

// ValidateFormat checks if the uploaded file extension is supported
func ValidateFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	supportedFormats := []string{
		".mp4", ".mov", ".avi", ".mpeg", ".webm", // video containers
		".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac", ".wma", // audio
	}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
