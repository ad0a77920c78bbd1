package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdfqa/internal/config"

	"go.uber.org/zap"
)

const (
	ShapeDetailed = "detailed"
	ShapeCompact  = "compact"

	primaryMaxTokens  = 300
	fallbackMaxTokens = 200
	primaryTemp       = float32(0.3)

	primaryTimeout  = 30 * time.Second
	fallbackTimeout = 20 * time.Second
	primaryBudget   = 2000
	fallbackBudget  = 1500
)

// placeholderKeys are values shipped in sample .env files; they count as "not configured".
var placeholderKeys = map[string]bool{
	"your-api-key-here":       true,
	"your_openrouter_api_key": true,
	"sk-or-v1-your-key-here":  true,
	"replace-me":              true,
}

// Manager owns the ordered fallback chain. The first candidate is the primary.
type Manager struct {
	candidates []Candidate
	logger     *zap.Logger
}

func NewManager(cfg config.Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var specs []CandidateSpec
	if cfg.CandidatesFile != "" {
		fromFile, err := LoadCandidateFile(cfg.CandidatesFile)
		if err != nil {
			return nil, err
		}
		specs = fromFile
	} else {
		specs = specsFromRefs(ParseProviderList(cfg.LLMCandidates))
	}

	m := &Manager{logger: logger}
	clients := map[string]LLMProvider{}
	for i, spec := range specs {
		c, err := buildCandidate(cfg, i, spec, clients)
		if err != nil {
			return nil, fmt.Errorf("candidate %d (%s): %w", i, spec.Provider, err)
		}
		m.candidates = append(m.candidates, c)
	}
	return m, nil
}

func buildCandidate(cfg config.Config, pos int, spec CandidateSpec, clients map[string]LLMProvider) (Candidate, error) {
	c := Candidate{
		Ref:           ProviderRef{Raw: spec.Provider + ":" + spec.Model, Name: spec.Provider, Model: spec.Model},
		Shape:         ShapeCompact,
		Timeout:       time.Duration(cfg.FallbackTimeoutSecs) * time.Second,
		ContextBudget: cfg.FallbackContextBudget,
		MaxTokens:     fallbackMaxTokens,
	}
	if pos == 0 {
		t := primaryTemp
		c.Shape = ShapeDetailed
		c.Timeout = time.Duration(cfg.PrimaryTimeoutSecs) * time.Second
		c.ContextBudget = cfg.ContextBudget
		c.MaxTokens = primaryMaxTokens
		c.Temperature = &t
	}
	if c.Timeout <= 0 {
		c.Timeout = fallbackTimeout
		if pos == 0 {
			c.Timeout = primaryTimeout
		}
	}
	if c.ContextBudget <= 0 {
		c.ContextBudget = fallbackBudget
		if pos == 0 {
			c.ContextBudget = primaryBudget
		}
	}
	if spec.Shape != "" {
		shape := strings.ToLower(spec.Shape)
		if shape != ShapeDetailed && shape != ShapeCompact {
			return Candidate{}, fmt.Errorf("unknown prompt shape %q", spec.Shape)
		}
		c.Shape = shape
	}
	if spec.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(spec.TimeoutSeconds) * time.Second
	}
	if spec.ContextBudget > 0 {
		c.ContextBudget = spec.ContextBudget
	}
	if spec.MaxTokens > 0 {
		c.MaxTokens = spec.MaxTokens
	}
	if spec.Temperature != nil {
		c.Temperature = spec.Temperature
	}

	key := cfg.APIKey(spec.Provider)
	c.RequiresKey = spec.Provider != "mock"
	c.KeyConfigured = KeyConfigured(key)

	baseURL := spec.BaseURL
	if baseURL == "" {
		baseURL = cfg.BaseURL(spec.Provider)
	}
	cacheKey := spec.Provider + "|" + baseURL
	if p, ok := clients[cacheKey]; ok {
		c.Provider = p
		return c, nil
	}
	p, err := buildProvider(cfg, spec.Provider, key, baseURL)
	if err != nil {
		return Candidate{}, err
	}
	clients[cacheKey] = p
	c.Provider = p
	return c, nil
}

func buildProvider(cfg config.Config, name, key, baseURL string) (LLMProvider, error) {
	switch name {
	case "mock":
		return NewMockProvider(""), nil
	case "openrouter", "openai", "groq":
		return NewOpenAIProvider(OpenAICompatConfig{
			Name:    name,
			APIKey:  key,
			BaseURL: baseURL,
			Referer: cfg.PublicURL,
			Title:   cfg.AppTitle,
		}), nil
	case "anthropic":
		return NewAnthropicProvider(key, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// KeyConfigured reports whether key looks like a real credential.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !placeholderKeys[strings.ToLower(key)]
}

func (m *Manager) Candidates() []Candidate {
	out := make([]Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out
}

func (m *Manager) Primary() (Candidate, bool) {
	if len(m.candidates) == 0 {
		return Candidate{}, false
	}
	return m.candidates[0], true
}

func (m *Manager) Count() int {
	return len(m.candidates)
}

// CheckPrimaryKey probes the primary candidate's credential and renders the result for
// the status endpoint: "Working (200)", "Error (401)", "Not configured", and so on.
func (m *Manager) CheckPrimaryKey(ctx context.Context) string {
	primary, ok := m.Primary()
	if !ok {
		return "Not configured"
	}
	if !primary.RequiresKey {
		return "Working (offline)"
	}
	if !primary.KeyConfigured {
		return "Not configured"
	}
	checker, ok := primary.Provider.(KeyChecker)
	if !ok {
		return "Configured (unchecked)"
	}
	code, err := checker.CheckKey(ctx)
	if err != nil {
		m.logger.Warn("api key check failed", zap.String("provider", primary.Ref.Name), zap.Error(err))
		return "Connection failed"
	}
	if code == 200 {
		return fmt.Sprintf("Working (%d)", code)
	}
	return fmt.Sprintf("Error (%d)", code)
}
