package analysis

import (
	"encoding/json"
	"strings"
)

const fenceMarker = "```"

// ParseResponse recovers a Result from raw model output. The model is
// asked for bare JSON but sometimes wraps it in a markdown code fence, so
// one leading and one trailing fence marker are stripped before parsing.
// The categories field is truncated to maxCategories (0 = unlimited) no
// matter what the model returned.
func ParseResponse(raw string, maxCategories int) (*Result, error) {
	text := stripFence(strings.TrimSpace(raw))

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	if maxCategories > 0 && len(result.Categories) > maxCategories {
		result.Categories = result.Categories[:maxCategories]
	}

	return &result, nil
}

// stripFence removes one leading fence marker (with an optional language
// tag after it) and one trailing fence marker. Leading and trailing
// markers are handled independently; text without fencing passes through
// unchanged.
func stripFence(text string) string {
	if strings.HasPrefix(text, fenceMarker) {
		rest := text[len(fenceMarker):]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			// Drop the marker line including any language tag
			text = rest[i+1:]
		} else {
			text = strings.TrimPrefix(rest, "json")
		}
	}

	if strings.HasSuffix(text, fenceMarker) {
		text = text[:len(text)-len(fenceMarker)]
	}

	return strings.TrimSpace(text)
}
