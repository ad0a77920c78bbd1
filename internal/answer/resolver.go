// Package answer turns a question and an assembled document context into an answer by
// walking the configured fallback chain of model candidates.
package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"pdfqa/internal/providers"
	"pdfqa/internal/storage"
	"pdfqa/internal/util"

	"go.uber.org/zap"
)

const (
	NoDocumentsMessage       = "No PDFs found in uploads folder. Please add PDF files to the uploads directory."
	MissingCredentialMessage = "Error: OpenRouter API key not configured. Please set OPENROUTER_API_KEY environment variable."
	UnauthorizedMessage      = "Error: The AI service rejected the configured API key. Please check OPENROUTER_API_KEY."
	RateLimitedMessage       = "Rate limit exceeded. Please wait a moment."
	UnavailableMessage       = "I have access to your PDFs but encountered an issue with the AI service. Please try again or check your API key."
)

type Outcome string

const (
	OutcomeAnswered          Outcome = "answered"
	OutcomeNoDocuments       Outcome = "no_documents"
	OutcomeMissingCredential Outcome = "missing_credential"
	OutcomeUnauthorized      Outcome = "unauthorized"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeExhausted         Outcome = "exhausted"
)

const (
	PolicyFallback = "fallback"
	PolicyStop     = "stop"
)

const pingPrompt = "Say hello in one word"

const (
	// defaultCallTimeout bounds a candidate that was built without its own timeout.
	defaultCallTimeout  = 30 * time.Second
	defaultAuditTimeout = 2 * time.Second
)

// Attempt is the record of one candidate call.
type Attempt struct {
	Index      int
	Provider   string
	Model      string
	Status     string // "ok", "failed" or "skipped"
	StatusCode int
	ErrorType  providers.ErrorType
	Err        error
	Duration   time.Duration
}

type Result struct {
	Answer   string
	Outcome  Outcome
	Provider string
	Model    string
	Attempts []Attempt
}

// Auditor persists candidate calls. storage.LLMAuditRepo satisfies it.
type Auditor interface {
	Insert(ctx context.Context, rec storage.LLMCallRecord) error
}

type nopAuditor struct{}

func (nopAuditor) Insert(context.Context, storage.LLMCallRecord) error { return nil }

type Option func(*Resolver)

func WithAuditor(a Auditor) Option {
	return func(r *Resolver) {
		if a != nil {
			r.auditor = a
		}
	}
}

// WithUnauthorizedPolicy selects what a 401 from the primary candidate does: PolicyFallback
// keeps walking the chain, PolicyStop returns UnauthorizedMessage.
func WithUnauthorizedPolicy(p string) Option {
	return func(r *Resolver) {
		if strings.EqualFold(strings.TrimSpace(p), PolicyStop) {
			r.onUnauthorized = PolicyStop
		} else {
			r.onUnauthorized = PolicyFallback
		}
	}
}

type Resolver struct {
	candidates     []providers.Candidate
	onUnauthorized string
	auditor        Auditor
	auditTimeout   time.Duration
	logger         *zap.Logger
}

func NewResolver(candidates []providers.Candidate, logger *zap.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		candidates:     candidates,
		onUnauthorized: PolicyFallback,
		auditor:        nopAuditor{},
		auditTimeout:   defaultAuditTimeout,
		logger:         logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Resolver) Policy() string {
	return r.onUnauthorized
}

// Resolve never returns an error: every terminal state maps to a user-facing answer.
func (r *Resolver) Resolve(ctx context.Context, question, contextText string) Result {
	if strings.TrimSpace(contextText) == "" {
		return Result{Answer: NoDocumentsMessage, Outcome: OutcomeNoDocuments}
	}
	if len(r.candidates) > 0 {
		primary := r.candidates[0]
		if primary.RequiresKey && !primary.KeyConfigured {
			r.logger.Warn("primary candidate has no credential",
				zap.String("provider", primary.Ref.Name), zap.String("model", primary.Ref.Model))
			return Result{Answer: MissingCredentialMessage, Outcome: OutcomeMissingCredential}
		}
	}

	var res Result
	for i, c := range r.candidates {
		if c.RequiresKey && !c.KeyConfigured {
			a := Attempt{Index: i, Provider: c.Ref.Name, Model: c.Ref.Model, Status: "skipped"}
			res.Attempts = append(res.Attempts, a)
			r.logger.Info("skipping candidate without credential", zap.Int("candidate", i),
				zap.String("provider", c.Ref.Name), zap.String("model", c.Ref.Model))
			continue
		}

		text, a := r.try(ctx, i, c, question, contextText)
		res.Attempts = append(res.Attempts, a)
		r.audit(ctx, "answer", a)
		if a.Status == "ok" {
			res.Answer = text
			res.Outcome = OutcomeAnswered
			res.Provider = a.Provider
			res.Model = a.Model
			return res
		}

		r.logger.Warn("candidate failed",
			zap.Int("candidate", i),
			zap.String("provider", a.Provider),
			zap.String("model", a.Model),
			zap.Int("status_code", a.StatusCode),
			zap.String("error_type", string(a.ErrorType)),
			zap.Duration("elapsed", a.Duration),
			zap.Error(a.Err),
		)
		switch {
		case a.ErrorType == providers.ErrorRate:
			res.Answer = RateLimitedMessage
			res.Outcome = OutcomeRateLimited
			return res
		case a.ErrorType == providers.ErrorUnauthorized && i == 0 && r.onUnauthorized == PolicyStop:
			res.Answer = UnauthorizedMessage
			res.Outcome = OutcomeUnauthorized
			return res
		}
	}

	r.logger.Error("all candidates failed", zap.Int("attempts", len(res.Attempts)))
	res.Answer = UnavailableMessage
	res.Outcome = OutcomeExhausted
	return res
}

func (r *Resolver) try(ctx context.Context, i int, c providers.Candidate, question, contextText string) (string, Attempt) {
	req := providers.GenerateRequest{
		Model:       c.Ref.Model,
		Messages:    BuildMessages(c.Shape, c.ContextBudget, question, contextText),
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	return r.call(ctx, i, c, req)
}

func (r *Resolver) call(ctx context.Context, i int, c providers.Candidate, req providers.GenerateRequest) (string, Attempt) {
	a := Attempt{Index: i, Provider: c.Ref.Name, Model: c.Ref.Model}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()
	resp, info, err := c.Provider.Generate(callCtx, req)
	a.Duration = time.Since(start)
	if info.Name != "" {
		a.Provider = info.Name
	}
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = util.ErrEmptyAnswer
	}
	if err != nil {
		a.Status = "failed"
		a.Err = err
		a.StatusCode = providers.StatusCode(err)
		a.ErrorType = providers.ClassifyError(err)
		return "", a
	}
	a.Status = "ok"
	return resp.Text, a
}

// Ping sends a one-word greeting to the primary candidate, for connectivity checks.
func (r *Resolver) Ping(ctx context.Context) (string, Attempt, error) {
	if len(r.candidates) == 0 {
		return "", Attempt{}, errors.New("no candidates configured")
	}
	c := r.candidates[0]
	if c.RequiresKey && !c.KeyConfigured {
		return "", Attempt{Provider: c.Ref.Name, Model: c.Ref.Model}, errors.New("API key not configured")
	}
	text, a := r.call(ctx, 0, c, providers.GenerateRequest{
		Model:     c.Ref.Model,
		Messages:  []providers.Message{{Role: providers.RoleUser, Content: pingPrompt}},
		MaxTokens: 5,
	})
	r.audit(ctx, "ping", a)
	return text, a, a.Err
}

func (r *Resolver) audit(ctx context.Context, op string, a Attempt) {
	rec := storage.LLMCallRecord{
		Operation:    op,
		ProviderName: a.Provider,
		Model:        a.Model,
		RequestID:    util.RequestID(ctx),
		Status:       a.Status,
		ErrorType:    string(a.ErrorType),
		StatusCode:   a.StatusCode,
		LatencyMS:    a.Duration.Milliseconds(),
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.auditTimeout)
	defer cancel()
	if err := r.auditor.Insert(auditCtx, rec); err != nil {
		r.logger.Warn("audit insert failed", zap.Error(err))
	}
}
