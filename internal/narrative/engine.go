// Package narrative turns analysis results into model-written prose. It
// builds a deterministic summary of the dataset, sends it to a configured
// runtime (hosted proxy or local Ollama), and returns the narrative text
// for inclusion in the report.
package narrative

import (
	"context"
	"errors"
	"strings"
)

const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.7
)

// Engine wraps a runtime with generation defaults.
type Engine struct {
	Runtime     Runtime
	Model       string
	MaxTokens   int
	Temperature float64
}

// Narrate sends the summary to the model and returns its prose.
func (e *Engine) Narrate(ctx context.Context, summary string) (string, error) {
	resp, err := e.Runtime.Generate(ctx, e.request(summary))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no content returned from model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// NarrateStream streams deltas through onDelta when the runtime supports
// streaming, and falls back to a single Narrate call otherwise.
func (e *Engine) NarrateStream(ctx context.Context, summary string, onDelta func(string)) error {
	if sr, ok := e.Runtime.(StreamRuntime); ok {
		return sr.GenerateStream(ctx, e.request(summary), onDelta)
	}
	text, err := e.Narrate(ctx, summary)
	if err != nil {
		return err
	}
	onDelta(text)
	return nil
}

func (e *Engine) request(summary string) GenerateRequest {
	model := e.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := e.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temp := e.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}
	return GenerateRequest{
		Model:       model,
		Messages:    BuildMessages(summary, model, maxTokens),
		MaxTokens:   maxTokens,
		Temperature: temp,
	}
}
