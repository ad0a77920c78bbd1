package providers

import (
	"context"
	"strings"
)

const mockAnswer = "Mock response based on the provided documents."

// MockProvider answers offline and deterministically, for local runs without credentials.
type MockProvider struct {
	text string
}

func NewMockProvider(text string) *MockProvider {
	if strings.TrimSpace(text) == "" {
		text = mockAnswer
	}
	return &MockProvider{text: text}
}

func (m *MockProvider) Generate(_ context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	model := req.Model
	if model == "" {
		model = "mock-llm-v1"
	}
	return GenerateResponse{Text: m.text}, ProviderInfo{Name: "mock", Model: model}, nil
}
