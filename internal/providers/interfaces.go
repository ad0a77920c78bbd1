package providers

import (
	"context"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

// LLMProvider performs one chat-completion call. Implementations make exactly one upstream
// request per call and leave retries to the caller.
type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}

// KeyChecker is implemented by providers that can validate their credential without
// spending a completion.
type KeyChecker interface {
	CheckKey(ctx context.Context) (int, error)
}

// Candidate is one entry of the fallback chain.
type Candidate struct {
	Ref           ProviderRef
	Provider      LLMProvider
	Shape         string
	Timeout       time.Duration
	ContextBudget int
	MaxTokens     int
	Temperature   *float32
	RequiresKey   bool
	KeyConfigured bool
}

func (c Candidate) Info() ProviderInfo {
	return ProviderInfo{Name: c.Ref.Name, Model: c.Ref.Model}
}
