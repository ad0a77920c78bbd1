package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "PDFQA_PDF_DIR", "PDFQA_LLM_CANDIDATES", "PDFQA_ON_UNAUTHORIZED", "OPENROUTER_API_KEY", "PDFQA_TEXT_CACHE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, 5000, cfg.Port)
	require.Equal(t, ":5000", cfg.Addr())
	require.Equal(t, "uploads", cfg.PDFDir)
	require.Equal(t, DefaultCandidates, cfg.LLMCandidates)
	require.Equal(t, 2000, cfg.ContextBudget)
	require.Equal(t, 1500, cfg.FallbackContextBudget)
	require.Equal(t, "fallback", cfg.OnUnauthorized)
	require.False(t, cfg.TextCache)
	require.Empty(t, cfg.APIKey("openrouter"))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("PDFQA_PDF_DIR", "/srv/pdfs")
	t.Setenv("OPENROUTER_API_KEY", "  sk-or-v1-abc  ")
	t.Setenv("PDFQA_ON_UNAUTHORIZED", "STOP")
	t.Setenv("PDFQA_TEXT_CACHE", "true")
	t.Setenv("PDFQA_OPENROUTER_BASE_URL", "http://127.0.0.1:9999/v1")
	cfg := Load()
	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, "/srv/pdfs", cfg.PDFDir)
	require.Equal(t, "sk-or-v1-abc", cfg.APIKey("OpenRouter"))
	require.Equal(t, "stop", cfg.OnUnauthorized)
	require.True(t, cfg.TextCache)
	require.Equal(t, "http://127.0.0.1:9999/v1", cfg.BaseURL("openrouter"))
}

func TestNonPositiveTimeoutsAndBudgetsFallBack(t *testing.T) {
	t.Setenv("PDFQA_PRIMARY_TIMEOUT_SECONDS", "0")
	t.Setenv("PDFQA_FALLBACK_TIMEOUT_SECONDS", "-5")
	t.Setenv("PDFQA_CONTEXT_BUDGET", "0")
	t.Setenv("PDFQA_FALLBACK_CONTEXT_BUDGET", "-1")
	cfg := Load()
	require.Equal(t, 30, cfg.PrimaryTimeoutSecs)
	require.Equal(t, 20, cfg.FallbackTimeoutSecs)
	require.Equal(t, 2000, cfg.ContextBudget)
	require.Equal(t, 1500, cfg.FallbackContextBudget)

	t.Setenv("PDFQA_PRIMARY_TIMEOUT_SECONDS", "12")
	require.Equal(t, 12, Load().PrimaryTimeoutSecs)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("PDFQA_TEXT_CACHE", "maybe")
	cfg := Load()
	require.Equal(t, 5000, cfg.Port)
	require.False(t, cfg.TextCache)
}
