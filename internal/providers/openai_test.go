package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdfqa/internal/testutil"
	"pdfqa/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouter(baseURL string) *OpenAIProvider {
	return NewOpenAIProvider(OpenAICompatConfig{
		Name:    "openrouter",
		APIKey:  "sk-or-v1-test",
		BaseURL: baseURL,
		Referer: "http://localhost:5000",
		Title:   "PDF Chatbot",
	})
}

func TestOpenAIProviderGenerate(t *testing.T) {
	up := testutil.NewUpstream(t).On("google/gemma-2b-it:free", testutil.ReplyText("  The invoice total is $500.  "))
	p := newTestOpenRouter(up.URL)
	temp := float32(0.3)

	resp, info, err := p.Generate(context.Background(), GenerateRequest{
		Model:       "google/gemma-2b-it:free",
		Messages:    []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "q"}},
		Temperature: &temp,
		MaxTokens:   300,
	})
	require.NoError(t, err)
	assert.Equal(t, "  The invoice total is $500.  ", resp.Text)
	assert.Equal(t, ProviderInfo{Name: "openrouter", Model: "google/gemma-2b-it:free"}, info)

	calls := up.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/chat/completions", calls[0].Path)
	assert.Equal(t, "Bearer sk-or-v1-test", calls[0].Header.Get("Authorization"))
	assert.Equal(t, "http://localhost:5000", calls[0].Header.Get("HTTP-Referer"))
	assert.Equal(t, "PDF Chatbot", calls[0].Header.Get("X-Title"))
	assert.EqualValues(t, 300, calls[0].Body["max_tokens"])
	assert.InDelta(t, 0.3, calls[0].Body["temperature"], 0.0001)
	msgs, ok := calls[0].Body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestOpenAIProviderStatusErrors(t *testing.T) {
	for _, code := range []int{401, 429, 500, 400} {
		up := testutil.NewUpstream(t).Otherwise(testutil.ReplyError(code, "nope"))
		_, _, err := newTestOpenRouter(up.URL).Generate(context.Background(), GenerateRequest{Model: "m"})
		require.Error(t, err)
		assert.Equal(t, code, StatusCode(err), "status %d", code)
	}
}

func TestOpenAIProviderRejectsEmptyAnswers(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no choices":    testutil.ReplyRaw(200, `{"id":"x","choices":[]}`),
		"blank message": testutil.ReplyText("   \n"),
	}
	for name, h := range cases {
		up := testutil.NewUpstream(t).Otherwise(h)
		_, _, err := newTestOpenRouter(up.URL).Generate(context.Background(), GenerateRequest{Model: "m"})
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, util.ErrEmptyAnswer), name)
	}
}

func TestOpenAIProviderRequiresStatusOK(t *testing.T) {
	body := `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`
	for _, code := range []int{http.StatusAccepted, http.StatusMultipleChoices, http.StatusNotModified} {
		up := testutil.NewUpstream(t).Otherwise(testutil.ReplyRaw(code, body))
		_, _, err := newTestOpenRouter(up.URL).Generate(context.Background(), GenerateRequest{Model: "m"})
		require.Error(t, err, "status %d", code)
		assert.Equal(t, code, StatusCode(err), "status %d", code)
		assert.Equal(t, ErrorPermanent, ClassifyError(err), "status %d", code)
	}
}

func TestOpenAIProviderCheckKeyPassesNonChatStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	code, err := newTestOpenRouter(srv.URL).CheckKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestOpenAIProviderUndecodableBody(t *testing.T) {
	up := testutil.NewUpstream(t).Otherwise(testutil.ReplyRaw(200, `<html>oops</html>`))
	_, _, err := newTestOpenRouter(up.URL).Generate(context.Background(), GenerateRequest{Model: "m"})
	require.Error(t, err)
}

func TestOpenAIProviderCheckKey(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	code, err := newTestOpenRouter(srv.URL).CheckKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 401, code)
	assert.Equal(t, "/auth/key", gotPath)
	assert.Equal(t, "Bearer sk-or-v1-test", gotAuth)

	groq := NewOpenAIProvider(OpenAICompatConfig{Name: "groq", APIKey: "gsk", BaseURL: srv.URL})
	_, err = groq.CheckKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/models", gotPath)
}

func TestOpenAIProviderDefaultBaseURL(t *testing.T) {
	p := NewOpenAIProvider(OpenAICompatConfig{Name: "OpenRouter"})
	assert.Equal(t, "https://openrouter.ai/api/v1", p.baseURL)
	assert.Equal(t, "openrouter", p.name)
}
