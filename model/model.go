package model

import (
	"context"
	"fmt"
)

// Message is one conversational turn, role "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request captures the normalized model input produced by the analysis
// routes.
type Request struct {
	// System carries the persona / task instructions.
	System string `json:"system"`
	// Messages is the conversation, oldest first.
	Messages []Message `json:"messages"`
	// Temperature in provider units; 0 selects deterministic output.
	Temperature float64 `json:"temperature"`
	// MaxTokens caps the completion length.
	MaxTokens int64 `json:"max_tokens"`
	// JSONOnly asks the provider for a JSON object response where the
	// provider supports a native JSON mode; otherwise adapters fall back to
	// instructing the model.
	JSONOnly bool `json:"json_only,omitempty"`
}

// Usage captures token usage statistics for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completed (non-streaming) model answer.
type Response struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Model is the minimal interface the analysis backend needs to drive
// generation.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Mock is a lightweight in-memory Model useful for tests. Responses are
// keyed by the last user message; unknown prompts get a generic echo.
type Mock struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMock constructs an empty mock model.
func NewMock() *Mock {
	return &Mock{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input
// prompt.
func (m *Mock) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Complete call return err.
func (m *Mock) FailWith(err error) { m.err = err }

// Complete implements Model.
func (m *Mock) Complete(_ context.Context, req Request) (Response, error) {
	if m.err != nil {
		return Response{}, m.err
	}
	if len(req.Messages) == 0 {
		return Response{}, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Content
	text, ok := m.responses[last]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", last)
	}
	return Response{Text: text, Usage: Usage{TotalTokens: len(text)}}, nil
}

// Info implements Model.
func (m *Mock) Info() Info { return m.info }
