package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyPrefix(t *testing.T) {
	cases := map[string]string{
		"":                                 "",
		"sk-or-v1-0123456789abcdef":        "sk-or-v1-012345...",
		"short":                            "sh...",
		"  sk-or-v1-0123456789abcdef\n   ": "sk-or-v1-012345...",
	}
	for in, want := range cases {
		require.Equal(t, want, KeyPrefix(in), "input %q", in)
	}
}

func TestKeyPrefixNeverReturnsWholeKey(t *testing.T) {
	key := "sk-or-v1-d3772a0055958f307efe5b255fbdf9cba613525d"
	out := KeyPrefix(key)
	require.NotContains(t, out, key)
	require.True(t, strings.HasSuffix(out, "..."))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfqa.log")
	logger, err := New(Options{Level: "debug", Format: "console", File: path})
	require.NoError(t, err)
	logger.Info("hello from test")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "hello from test")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}
