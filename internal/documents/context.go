package documents

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Context is the grounding text handed to the model, plus what went into it.
type Context struct {
	Text      string
	Documents []string
	Listed    int
}

func (c Context) Empty() bool {
	return c.Text == ""
}

type Assembler struct {
	store  *Store
	logger *zap.Logger
}

func NewAssembler(store *Store, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{store: store, logger: logger}
}

// Build extracts every listed PDF in order and joins the non-empty texts, each preceded by a
// "[Document: name]" label. An empty Text means no document produced usable text.
func (a *Assembler) Build(ctx context.Context) (Context, error) {
	paths, err := a.store.List(ctx)
	if err != nil {
		return Context{}, err
	}
	a.logger.Debug("listing pdfs", zap.Int("count", len(paths)))

	out := Context{Listed: len(paths)}
	var b strings.Builder
	for _, p := range paths {
		name := filepath.Base(p)
		text := a.store.Extract(ctx, p)
		if text == "" {
			continue
		}
		b.WriteString("\n\n[Document: ")
		b.WriteString(name)
		b.WriteString("]\n")
		b.WriteString(text)
		b.WriteString("\n")
		out.Documents = append(out.Documents, name)
	}
	out.Text = strings.TrimSpace(b.String())
	a.logger.Info("context assembled",
		zap.Int("listed", out.Listed),
		zap.Int("used", len(out.Documents)),
		zap.Int("chars", len(out.Text)),
	)
	return out, nil
}
