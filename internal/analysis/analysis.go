package analysis

import (
	"context"
	"fmt"
	"strings"
)

// Request describes one analysis of a lecture transcript
type Request struct {
	Transcript    string
	KeywordCount  int
	Categories    []string // allowed category labels, in display order
	MaxCategories int      // 0 means no cap
}

// Result is the structured output of the generative model
type Result struct {
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords"`
	Categories []string `json:"categories"`
}

// ServiceError indicates the generative API call itself failed
// (network, credential, quota).
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("analysis service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ParseError indicates the model returned text that could not be
// recovered into the requested JSON shape. Raw holds the unmodified
// model output for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("analysis response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Generator produces raw text from a prompt. Implemented by GeminiClient;
// swapped for a fake in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline sequences prompt building, the model call and response
// recovery. It keeps no state between calls.
type Pipeline struct {
	generator Generator
}

// NewPipeline creates an analysis pipeline backed by the given generator
func NewPipeline(generator Generator) *Pipeline {
	return &Pipeline{generator: generator}
}

// Analyze produces a summary, keyword list and category tags for the
// transcript. The request is validated before any API call is made; a
// failed call is never retried here.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}
	if req.KeywordCount <= 0 {
		return nil, fmt.Errorf("keyword count must be positive, got %d", req.KeywordCount)
	}

	prompt := BuildPrompt(req)

	raw, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	return ParseResponse(raw, req.MaxCategories)
}
