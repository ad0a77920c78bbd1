package providers

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProviderRef names a provider and model, written "provider:model". Everything after the
// first colon is the model, so OpenRouter ids such as "google/gemma-2b-it:free" survive.
type ProviderRef struct {
	Raw   string
	Name  string
	Model string
}

func ParseProviderList(raw string) []ProviderRef {
	parts := strings.Split(raw, "|")
	out := make([]ProviderRef, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := ProviderRef{Raw: p}
		if strings.Contains(p, ":") {
			x := strings.SplitN(p, ":", 2)
			ref.Name = strings.ToLower(strings.TrimSpace(x[0]))
			ref.Model = strings.TrimSpace(x[1])
		} else {
			ref.Name = strings.ToLower(p)
		}
		out = append(out, ref)
	}
	if len(out) == 0 {
		out = append(out, ProviderRef{Raw: "mock", Name: "mock"})
	}
	return out
}

// CandidateSpec is the YAML form of a candidate. Zero fields take position-based defaults.
type CandidateSpec struct {
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	BaseURL        string   `yaml:"base_url"`
	Shape          string   `yaml:"shape"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	ContextBudget  int      `yaml:"context_budget"`
	MaxTokens      int      `yaml:"max_tokens"`
	Temperature    *float32 `yaml:"temperature"`
}

type candidateFile struct {
	Candidates []CandidateSpec `yaml:"candidates"`
}

func ParseCandidateFile(b []byte) ([]CandidateSpec, error) {
	var f candidateFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode candidates yaml: %w", err)
	}
	if len(f.Candidates) == 0 {
		return nil, fmt.Errorf("candidates yaml lists no candidates")
	}
	for i := range f.Candidates {
		f.Candidates[i].Provider = strings.ToLower(strings.TrimSpace(f.Candidates[i].Provider))
		if f.Candidates[i].Provider == "" {
			return nil, fmt.Errorf("candidate %d: provider is required", i)
		}
	}
	return f.Candidates, nil
}

func LoadCandidateFile(path string) ([]CandidateSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}
	return ParseCandidateFile(b)
}

func specsFromRefs(refs []ProviderRef) []CandidateSpec {
	out := make([]CandidateSpec, 0, len(refs))
	for _, r := range refs {
		out = append(out, CandidateSpec{Provider: r.Name, Model: r.Model})
	}
	return out
}
