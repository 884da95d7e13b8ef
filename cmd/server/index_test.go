package main

import (
	"strings"
	"testing"

	"github.com/codebuildervaibhav/lecture-insights/internal/media"
)

// The form's accept filter must offer everything the server accepts
func TestIndexAcceptFilterMatchesServer(t *testing.T) {
	extensions := []string{
		".mp4", ".mov", ".avi", ".mpeg", ".webm",
		".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac", ".wma",
	}

	for _, ext := range extensions {
		if !media.ValidateFormat("lecture" + ext) {
			t.Errorf("server rejects %s, update this list", ext)
		}
		if !strings.Contains(indexHTML, ext) {
			t.Errorf("upload form accept filter is missing %s", ext)
		}
	}
}
