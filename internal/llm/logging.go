package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// RequestEvent is the audit record for a single LLM API call.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRecorder persists LLM request events. The store package provides the
// SQLite-backed implementation.
type EventRecorder interface {
	RecordLLMRequest(ctx context.Context, ev RequestEvent) error
}

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner    Provider
	name     string
	recorder EventRecorder
}

// WithLogging wraps a Provider with event recording. name is the provider
// name stored on each event (anthropic, openai, gemini).
func WithLogging(p Provider, name string, recorder EventRecorder) Provider {
	return &LoggingProvider{inner: p, name: name, recorder: recorder}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	ev := RequestEvent{
		Provider:  l.name,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
	}

	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// Record the event but never fail the request over a logging failure.
	if recErr := l.recorder.RecordLLMRequest(ctx, ev); recErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record LLM request event: %v\n", recErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
