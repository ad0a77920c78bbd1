package providers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProviderList(t *testing.T) {
	refs := ParseProviderList("openrouter:google/gemma-2b-it:free| Anthropic:claude-haiku-4-5 |mock")
	require.Len(t, refs, 3)
	require.Equal(t, ProviderRef{Raw: "openrouter:google/gemma-2b-it:free", Name: "openrouter", Model: "google/gemma-2b-it:free"}, refs[0])
	require.Equal(t, "anthropic", refs[1].Name)
	require.Equal(t, "claude-haiku-4-5", refs[1].Model)
	require.Equal(t, "mock", refs[2].Name)
}

func TestParseProviderListEmptyFallsBackToMock(t *testing.T) {
	refs := ParseProviderList(" | ")
	require.Equal(t, []ProviderRef{{Raw: "mock", Name: "mock"}}, refs)
}

func TestParseCandidateFile(t *testing.T) {
	specs, err := ParseCandidateFile([]byte(`
candidates:
  - provider: OpenRouter
    model: google/gemma-2b-it:free
    shape: detailed
    timeout_seconds: 30
    temperature: 0.3
  - provider: groq
    model: llama-3.1-8b-instant
    base_url: https://api.groq.com/openai/v1
`))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	require.Equal(t, "openrouter", specs[0].Provider)
	require.NotNil(t, specs[0].Temperature)
	require.InDelta(t, 0.3, *specs[0].Temperature, 1e-6)
	require.Nil(t, specs[1].Temperature)
	require.Equal(t, "https://api.groq.com/openai/v1", specs[1].BaseURL)
}

func TestParseCandidateFileRejectsEmpty(t *testing.T) {
	_, err := ParseCandidateFile([]byte("candidates: []\n"))
	require.Error(t, err)
	_, err = ParseCandidateFile([]byte("candidates:\n  - model: x\n"))
	require.Error(t, err)
}
