package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// HasPDFSuffix reports whether name ends in ".pdf", ignoring case.
func HasPDFSuffix(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func BaseNames(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, filepath.Base(p))
	}
	return out
}
