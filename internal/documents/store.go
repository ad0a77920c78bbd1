package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"pdfqa/internal/util"

	"go.uber.org/zap"
)

// Store reads PDFs from a single directory. It holds no state between requests unless a
// TextCache is attached.
type Store struct {
	dir       string
	extractor Extractor
	cache     *TextCache
	logger    *zap.Logger
}

type StoreOption func(*Store)

// WithCache attaches a modification-aware text cache.
func WithCache(c *TextCache) StoreOption {
	return func(s *Store) { s.cache = c }
}

func NewStore(dir string, extractor Extractor, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		dir:       filepath.Clean(dir),
		extractor: extractor,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

// List returns the paths of PDF files directly inside the directory. A missing directory
// yields no documents.
func (s *Store) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pdf dir: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !util.HasPDFSuffix(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	return paths, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	paths, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return util.BaseNames(paths), nil
}

// Extract returns the document's text, or "" when it cannot be read. Failures are logged and
// never returned.
func (s *Store) Extract(_ context.Context, path string) string {
	path = filepath.Clean(path)
	if s.cache == nil {
		return s.extract(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("stat pdf failed", zap.String("path", path), zap.Error(err))
		s.cache.Evict(path)
		return ""
	}
	if text, ok := s.cache.Get(path, info); ok {
		return text
	}
	text := s.extract(path)
	s.cache.Put(path, info, text)
	return text
}

func (s *Store) extract(path string) string {
	text, err := s.extractor.ExtractText(path)
	if err != nil {
		s.logger.Warn("pdf extraction failed",
			zap.String("path", path),
			zap.String("document", filepath.Base(path)),
			zap.Error(err),
		)
		return ""
	}
	return text
}
