package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRuntime struct {
	resp    *GenerateResponse
	err     error
	lastReq GenerateRequest
}

func (f *fakeRuntime) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestNarrateReturnsTrimmedContent(t *testing.T) {
	rt := &fakeRuntime{resp: &GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "  The data shows...\n"}}}}}
	e := &Engine{Runtime: rt}
	out, err := e.Narrate(context.Background(), "summary text")
	if err != nil {
		t.Fatalf("Narrate error: %v", err)
	}
	if out != "The data shows..." {
		t.Fatalf("unexpected narrative: %q", out)
	}
	if rt.lastReq.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", rt.lastReq.Model)
	}
	if rt.lastReq.MaxTokens != defaultMaxTokens {
		t.Fatalf("expected default max tokens, got %d", rt.lastReq.MaxTokens)
	}
	if len(rt.lastReq.Messages) != 2 || !strings.Contains(rt.lastReq.Messages[1].Content, "summary text") {
		t.Fatalf("summary missing from request: %+v", rt.lastReq.Messages)
	}
}

func TestNarrateEmptyChoices(t *testing.T) {
	rt := &fakeRuntime{resp: &GenerateResponse{}}
	e := &Engine{Runtime: rt}
	if _, err := e.Narrate(context.Background(), "summary"); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}

func TestNarratePropagatesRuntimeError(t *testing.T) {
	wantErr := errors.New("backend down")
	rt := &fakeRuntime{err: wantErr}
	e := &Engine{Runtime: rt}
	if _, err := e.Narrate(context.Background(), "summary"); !errors.Is(err, wantErr) {
		t.Fatalf("expected runtime error, got: %v", err)
	}
}

func TestNarrateStreamFallsBackWithoutStreaming(t *testing.T) {
	rt := &fakeRuntime{resp: &GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "full text"}}}}}
	e := &Engine{Runtime: rt}
	var got string
	err := e.NarrateStream(context.Background(), "summary", func(d string) { got += d })
	if err != nil {
		t.Fatalf("NarrateStream error: %v", err)
	}
	if got != "full text" {
		t.Fatalf("fallback should deliver the whole narrative once, got %q", got)
	}
}

type fakeStreamRuntime struct {
	fakeRuntime
	deltas []string
}

func (f *fakeStreamRuntime) GenerateStream(_ context.Context, req GenerateRequest, onDelta func(string)) error {
	f.lastReq = req
	for _, d := range f.deltas {
		onDelta(d)
	}
	return nil
}

func TestNarrateStreamUsesStreamingRuntime(t *testing.T) {
	rt := &fakeStreamRuntime{deltas: []string{"part one, ", "part two"}}
	e := &Engine{Runtime: rt, Model: "gpt-4o", MaxTokens: 256, Temperature: 0.2}
	var got string
	if err := e.NarrateStream(context.Background(), "summary", func(d string) { got += d }); err != nil {
		t.Fatalf("NarrateStream error: %v", err)
	}
	if got != "part one, part two" {
		t.Fatalf("unexpected accumulation: %q", got)
	}
	if rt.lastReq.Model != "gpt-4o" || rt.lastReq.MaxTokens != 256 {
		t.Fatalf("request should carry engine settings: %+v", rt.lastReq)
	}
}
