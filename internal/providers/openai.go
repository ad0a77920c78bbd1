package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pdfqa/internal/util"

	openai "github.com/sashabaranov/go-openai"
)

var defaultBaseURLs = map[string]string{
	"openrouter": "https://openrouter.ai/api/v1",
	"openai":     "https://api.openai.com/v1",
	"groq":       "https://api.groq.com/openai/v1",
}

type OpenAICompatConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	// Referer and Title are sent as OpenRouter app attribution headers when set.
	Referer string
	Title   string
}

// OpenAIProvider talks to any OpenAI-compatible chat completions API (OpenRouter, OpenAI, Groq).
type OpenAIProvider struct {
	name    string
	baseURL string
	apiKey  string
	client  *openai.Client
	http    *http.Client
}

func NewOpenAIProvider(cfg OpenAICompatConfig) *OpenAIProvider {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURLs[name]
	}
	httpClient := &http.Client{Transport: &headerTransport{
		name: name,
		base: http.DefaultTransport,
		headers: map[string]string{
			"HTTP-Referer": cfg.Referer,
			"X-Title":      cfg.Title,
		},
	}}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = httpClient
	return &OpenAIProvider{
		name:    name,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  openai.NewClientWithConfig(clientCfg),
		http:    httpClient,
	}
}

func (o *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: o.name, Model: req.Model}
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	creq := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		creq.Temperature = *req.Temperature
	}
	resp, err := o.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return GenerateResponse{}, info, o.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("%s returned empty choices: %w", o.name, util.ErrEmptyAnswer)
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return GenerateResponse{}, info, fmt.Errorf("%s returned blank content: %w", o.name, util.ErrEmptyAnswer)
	}
	return GenerateResponse{Text: text}, info, nil
}

// CheckKey asks the provider whether the credential is accepted. OpenRouter exposes
// /auth/key for this; other OpenAI-compatible APIs require auth on /models.
func (o *OpenAIProvider) CheckKey(ctx context.Context) (int, error) {
	path := "/models"
	if o.name == "openrouter" {
		path = "/auth/key"
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("build key check request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	resp, err := o.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%s key check failed: %w", o.name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (o *OpenAIProvider) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: o.name, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{Provider: o.name, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return fmt.Errorf("%s chat request failed: %w", o.name, err)
}

// headerTransport adds fixed headers. On the chat path any status other than 200 that the
// chat client would not treat as an error (1xx, other 2xx, 3xx) is rejected here.
type headerTransport struct {
	name    string
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(req.URL.Path, "/chat/completions") &&
		resp.StatusCode != http.StatusOK && resp.StatusCode < http.StatusBadRequest {
		_ = resp.Body.Close()
		return nil, &StatusError{Provider: t.name, StatusCode: resp.StatusCode, Message: "unexpected upstream status"}
	}
	return resp, nil
}
