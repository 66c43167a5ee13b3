package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// captureRecorder collects events in memory.
type captureRecorder struct {
	events []RequestEvent
	err    error
}

func (c *captureRecorder) RecordLLMRequest(_ context.Context, ev RequestEvent) error {
	c.events = append(c.events, ev)
	return c.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	rec := &captureRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 45},
	})
	p := WithLogging(mock, "anthropic", rec)

	ctx := WithPurpose(context.Background(), "question-gen")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("events = %d, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if !ev.Success {
		t.Error("event not marked successful")
	}
	if ev.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", ev.Provider)
	}
	if ev.Model == ev.Provider {
		t.Errorf("model = %q, must carry the model ID, not the provider name", ev.Model)
	}
	if ev.Purpose != "question-gen" {
		t.Errorf("purpose = %q, want question-gen", ev.Purpose)
	}
	if ev.InputTokens != 120 || ev.OutputTokens != 45 {
		t.Errorf("tokens = %d/%d, want 120/45", ev.InputTokens, ev.OutputTokens)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	rec := &captureRecorder{}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, "openai", rec)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(rec.events) != 1 {
		t.Fatalf("events = %d, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Success {
		t.Error("failed request marked successful")
	}
	if ev.ErrorMessage == "" {
		t.Error("error message not captured")
	}
	if ev.Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown without context label", ev.Purpose)
	}
}

func TestLogging_RecorderFailureDoesNotFailRequest(t *testing.T) {
	rec := &captureRecorder{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	p := WithLogging(mock, "gemini", rec)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("request failed over a recording error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
}
