package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultCandidates mirrors the free OpenRouter models the service was first deployed with:
// gemma-2b as the primary and four alternates tried in order.
const DefaultCandidates = "openrouter:google/gemma-2b-it:free" +
	"|openrouter:google/gemma-7b-it:free" +
	"|openrouter:huggingfaceh4/zephyr-7b-beta:free" +
	"|openrouter:microsoft/phi-3-mini-128k-instruct:free" +
	"|openrouter:openchat/openchat-7b:free"

type Config struct {
	Port                  int
	PDFDir                string
	LLMCandidates         string
	CandidatesFile        string
	ContextBudget         int
	FallbackContextBudget int
	PrimaryTimeoutSecs    int
	FallbackTimeoutSecs   int
	OnUnauthorized        string
	APIKeys               map[string]string
	BaseURLs              map[string]string
	PublicURL             string
	AppTitle              string
	TextCache             bool
	AskRatePerMinute      int
	PostgresURL           string
	LogLevel              string
	LogFormat             string
	LogFile               string
}

func Load() Config {
	return Config{
		Port:                  getenvInt("PORT", 5000),
		PDFDir:                getenv("PDFQA_PDF_DIR", "uploads"),
		LLMCandidates:         getenv("PDFQA_LLM_CANDIDATES", DefaultCandidates),
		CandidatesFile:        getenv("PDFQA_CANDIDATES_FILE", ""),
		ContextBudget:         getenvPositiveInt("PDFQA_CONTEXT_BUDGET", 2000),
		FallbackContextBudget: getenvPositiveInt("PDFQA_FALLBACK_CONTEXT_BUDGET", 1500),
		PrimaryTimeoutSecs:    getenvPositiveInt("PDFQA_PRIMARY_TIMEOUT_SECONDS", 30),
		FallbackTimeoutSecs:   getenvPositiveInt("PDFQA_FALLBACK_TIMEOUT_SECONDS", 20),
		OnUnauthorized:        strings.ToLower(getenv("PDFQA_ON_UNAUTHORIZED", "fallback")),
		APIKeys: map[string]string{
			"openrouter": strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
			"openai":     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			"groq":       strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
			"anthropic":  strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		},
		BaseURLs: map[string]string{
			"openrouter": getenv("PDFQA_OPENROUTER_BASE_URL", ""),
			"openai":     getenv("PDFQA_OPENAI_BASE_URL", ""),
			"groq":       getenv("PDFQA_GROQ_BASE_URL", ""),
			"anthropic":  getenv("PDFQA_ANTHROPIC_BASE_URL", ""),
		},
		PublicURL:        getenv("PDFQA_PUBLIC_URL", ""),
		AppTitle:         getenv("PDFQA_APP_TITLE", "PDF Chatbot"),
		TextCache:        getenvBool("PDFQA_TEXT_CACHE", false),
		AskRatePerMinute: getenvInt("PDFQA_ASK_RATE_PER_MIN", 0),
		PostgresURL:      getenv("PDFQA_POSTGRES_URL", ""),
		LogLevel:         getenv("PDFQA_LOG_LEVEL", "info"),
		LogFormat:        getenv("PDFQA_LOG_FORMAT", "json"),
		LogFile:          getenv("PDFQA_LOG_FILE", ""),
	}
}

// APIKey returns the credential configured for a provider name, or "".
func (c Config) APIKey(provider string) string {
	return c.APIKeys[strings.ToLower(provider)]
}

// BaseURL returns the base URL override for a provider name, or "".
func (c Config) BaseURL(provider string) string {
	return c.BaseURLs[strings.ToLower(provider)]
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getenv(k, fallback string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

// getenvPositiveInt is getenvInt for values that must stay above zero, such as timeouts
// and context budgets.
func getenvPositiveInt(k string, fallback int) int {
	n := getenvInt(k, fallback)
	if n <= 0 {
		return fallback
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}
