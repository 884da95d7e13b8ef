package media

import "testing"

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"lecture.mp4", true},
		{"lecture.MOV", true},
		{"lecture.avi", true},
		{"lecture.mpeg", true},
		{"recording.m4a", true},
		{"recording.wav", true},
		{"recording.mp3", true},
		{"recording.flac", true},
		{"recording.wma", true},
		{"recording.webm", true},
		{"slides.pdf", false},
		{"script.sh", false},
		{"noextension", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ValidateFormat(tt.filename); got != tt.want {
				t.Errorf("ValidateFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor(t.TempDir())

	_, err := e.Extract("does-not-exist.mp4")
	if err == nil {
		t.Fatal("Extract() succeeded on a missing file")
	}

	decodeErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("Extract() error = %T, want *DecodeError", err)
	}
	if decodeErr.Path != "does-not-exist.mp4" {
		t.Errorf("DecodeError.Path = %q", decodeErr.Path)
	}
}
