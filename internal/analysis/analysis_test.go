package analysis

import (
	"context"
	"errors"
	"testing"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnalyzeSuccess(t *testing.T) {
	gen := &fakeGenerator{
		response: "```json\n{\"summary\":\"s\",\"keywords\":[\"a\",\"b\"],\"categories\":[\"X\",\"Y\",\"Z\"]}\n```",
	}
	pipeline := NewPipeline(gen)

	result, err := pipeline.Analyze(context.Background(), Request{
		Transcript:    "some lecture",
		KeywordCount:  2,
		Categories:    []string{"X", "Y", "Z"},
		MaxCategories: 2,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.Summary != "s" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(result.Categories) != 2 {
		t.Errorf("len(Categories) = %d, want 2", len(result.Categories))
	}
}

func TestAnalyzeRejectsEmptyTranscript(t *testing.T) {
	gen := &fakeGenerator{}
	pipeline := NewPipeline(gen)

	for _, transcript := range []string{"", "   ", "\n\t"} {
		_, err := pipeline.Analyze(context.Background(), Request{
			Transcript:   transcript,
			KeywordCount: 10,
		})
		if err == nil {
			t.Errorf("Analyze(%q) succeeded, want error", transcript)
		}
	}

	if gen.calls != 0 {
		t.Errorf("generator called %d times before validation, want 0", gen.calls)
	}
}

func TestAnalyzeRejectsBadKeywordCount(t *testing.T) {
	gen := &fakeGenerator{}
	pipeline := NewPipeline(gen)

	for _, count := range []int{0, -1} {
		_, err := pipeline.Analyze(context.Background(), Request{
			Transcript:   "some lecture",
			KeywordCount: count,
		})
		if err == nil {
			t.Errorf("Analyze with keyword count %d succeeded, want error", count)
		}
	}

	if gen.calls != 0 {
		t.Errorf("generator called %d times before validation, want 0", gen.calls)
	}
}

func TestAnalyzeServiceFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	gen := &fakeGenerator{err: cause}
	pipeline := NewPipeline(gen)

	_, err := pipeline.Analyze(context.Background(), Request{
		Transcript:   "some lecture",
		KeywordCount: 5,
	})

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %T, want *ServiceError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ServiceError does not wrap the underlying cause")
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1 (no retry)", gen.calls)
	}
}

func TestAnalyzeParseFailure(t *testing.T) {
	gen := &fakeGenerator{response: "the model rambled instead"}
	pipeline := NewPipeline(gen)

	_, err := pipeline.Analyze(context.Background(), Request{
		Transcript:   "some lecture",
		KeywordCount: 5,
	})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if parseErr.Raw != "the model rambled instead" {
		t.Errorf("ParseError.Raw = %q", parseErr.Raw)
	}
}

func TestAnalyzeSendsBuiltPrompt(t *testing.T) {
	gen := &fakeGenerator{response: `{"summary":"s"}`}
	pipeline := NewPipeline(gen)

	req := Request{
		Transcript:    "some lecture",
		KeywordCount:  5,
		Categories:    []string{"X"},
		MaxCategories: 2,
	}
	if _, err := pipeline.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if gen.prompt != BuildPrompt(req) {
		t.Error("generator received a prompt different from BuildPrompt output")
	}
}
