package analysis

import (
	"fmt"
	"strings"
)

const promptTemplate = `The following text is a transcript of a lecture.

### Instructions ###
1. Summarize the lecture in roughly 200 words.
2. Extract exactly %d keywords most relevant to the summary.
3. %s Do not invent categories outside the list.
4. Output the result as a single JSON object in exactly this format, with no surrounding prose:
{
  "summary": "(summary text here)",
  "keywords": ["keyword1", "keyword2", ...],
  "categories": ["categoryA", "categoryB", ...]
}

### Category list ###
%s

### Transcript ###
---
%s
---`

// BuildPrompt renders the analysis request into the model instruction.
// Pure: identical requests yield byte-identical prompts.
func BuildPrompt(req Request) string {
	var categoryRule string
	if req.MaxCategories > 0 {
		categoryRule = fmt.Sprintf(
			"From the category list below, select at most %d entries that best match the lecture.",
			req.MaxCategories)
	} else {
		categoryRule = "From the category list below, select every entry that matches the lecture."
	}

	return fmt.Sprintf(promptTemplate,
		req.KeywordCount,
		categoryRule,
		strings.Join(req.Categories, ", "),
		req.Transcript,
	)
}
