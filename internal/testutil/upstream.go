package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ChatCall is one request received by an Upstream.
type ChatCall struct {
	Path   string
	Header http.Header
	Body   map[string]any
}

// Upstream is a stub chat-completions server that records every call and answers with
// the handler registered for the requested model.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []ChatCall
	byModel  map[string]http.HandlerFunc
	fallback http.HandlerFunc
}

func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{byModel: map[string]http.HandlerFunc{}}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// On registers the response for a model id.
func (u *Upstream) On(model string, h http.HandlerFunc) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.byModel[model] = h
	return u
}

// Otherwise registers the response for models without their own handler.
func (u *Upstream) Otherwise(h http.HandlerFunc) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fallback = h
	return u
}

func (u *Upstream) Calls() []ChatCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]ChatCall, len(u.calls))
	copy(out, u.calls)
	return out
}

// Models lists the model of every recorded call, in arrival order.
func (u *Upstream) Models() []string {
	calls := u.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		m, _ := c.Body["model"].(string)
		out = append(out, m)
	}
	return out
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	model, _ := body["model"].(string)

	u.mu.Lock()
	u.calls = append(u.calls, ChatCall{Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
	h, ok := u.byModel[model]
	if !ok {
		h = u.fallback
	}
	u.mu.Unlock()

	if h == nil {
		ReplyError(http.StatusNotFound, "no stub for model "+model)(w, r)
		return
	}
	h(w, r)
}

// ReplyText answers with a single assistant message.
func ReplyText(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "stub",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			}},
		})
	}
}

// ReplyError answers with an OpenAI-style error body and the given status.
func ReplyError(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": msg, "type": "stub_error", "code": status},
		})
	}
}

// ReplyRaw answers with an arbitrary status and body.
func ReplyRaw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}
