package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"pdfqa/internal/answer"
	"pdfqa/internal/config"
	"pdfqa/internal/documents"
	"pdfqa/internal/models"
	"pdfqa/internal/providers"
	"pdfqa/internal/util"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const maxErrorDescription = 200

const questionRequiredMessage = "Question is required"

var errQuestionRequired = errors.New("question is required")

type Deps struct {
	Store     *documents.Store
	Assembler *documents.Assembler
	Resolver  *answer.Resolver
	Providers *providers.Manager
	Logger    *zap.Logger
}

type Server struct {
	cfg       config.Config
	store     *documents.Store
	assembler *documents.Assembler
	resolver  *answer.Resolver
	providers *providers.Manager
	limiter   *rate.Limiter
	logger    *zap.Logger
}

func NewServer(cfg config.Config, d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:       cfg,
		store:     d.Store,
		assembler: d.Assembler,
		resolver:  d.Resolver,
		providers: d.Providers,
		logger:    logger,
	}
	if cfg.AskRatePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(float64(cfg.AskRatePerMinute)/60), cfg.AskRatePerMinute)
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/ask", s.handleAsk).Methods(http.MethodPost)
	r.HandleFunc("/api/pdfs", s.handlePDFs).Methods(http.MethodGet)
	r.HandleFunc("/api/check", s.handleCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/test", s.handleTest).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	})
	r.Use(s.withRequestLog, s.withRecover)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Names(r.Context())
	if err != nil {
		s.logger.Warn("list pdfs for index failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]any{
		"Title":    s.cfg.AppTitle,
		"PDFCount": len(names),
		"PDFDir":   s.store.Dir(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error("render index failed", zap.Error(err))
	}
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeErr(w, http.StatusTooManyRequests, fmt.Errorf("too many questions"))
		return
	}
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeErr(w, http.StatusBadRequest, errQuestionRequired)
		return
	}

	// The answer is computed even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	docCtx, err := s.assembler.Build(ctx)
	if err != nil {
		s.logger.Error("build context failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if docCtx.Empty() {
		writeJSON(w, http.StatusOK, models.AskResponse{
			Answer:  answer.NoDocumentsMessage,
			Outcome: string(answer.OutcomeNoDocuments),
		})
		return
	}

	res := s.resolver.Resolve(ctx, req.Question, docCtx.Text)
	s.logger.Info("question answered",
		zap.String("request_id", util.RequestID(r.Context())),
		zap.String("outcome", string(res.Outcome)),
		zap.String("provider", res.Provider),
		zap.String("model", res.Model),
		zap.Int("attempts", len(res.Attempts)),
		zap.Int("pdf_count", docCtx.Listed),
	)
	writeJSON(w, http.StatusOK, models.AskResponse{
		Answer:   res.Answer,
		PDFCount: docCtx.Listed,
		Success:  true,
		Outcome:  string(res.Outcome),
		Provider: res.Provider,
		Model:    res.Model,
	})
}

func (s *Server) handlePDFs(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Names(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PDFListResponse{PDFs: names, Count: len(names)})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Names(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	configured := false
	if primary, ok := s.providers.Primary(); ok {
		configured = !primary.RequiresKey || primary.KeyConfigured
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Status:           "running",
		PDFCount:         len(names),
		PDFFiles:         names,
		APIKeyConfigured: configured,
		APIStatus:        s.providers.CheckPrimaryKey(r.Context()),
		Timestamp:        time.Now().UTC(),
	})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	text, attempt, err := s.resolver.Ping(ctx)
	if err != nil {
		if code := providers.StatusCode(err); code != 0 {
			writeJSON(w, http.StatusOK, map[string]any{
				"status_code": code,
				"response":    util.Excerpt(err.Error(), maxErrorDescription),
				"model":       attempt.Model,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"error": util.Excerpt(err.Error(), maxErrorDescription)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status_code": http.StatusOK,
		"response":    text,
		"model":       attempt.Model,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, models.ErrorResponse{
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Success: false,
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	raw := ""
	if err != nil {
		raw = err.Error()
	}
	switch {
	case status >= 500:
		msg := util.Excerpt(raw, maxErrorDescription)
		if msg == "" {
			msg = "Internal server error. Please retry or check service logs."
		}
		return apiError{Code: "PDFQA-API-5000", Message: msg}
	case errors.Is(err, errQuestionRequired):
		return apiError{Code: "PDFQA-API-4001", Message: questionRequiredMessage}
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(raw), "invalid json"):
		// A malformed body is reported like a missing question.
		return apiError{Code: "PDFQA-API-4002", Message: questionRequiredMessage}
	case status == http.StatusBadRequest:
		return apiError{Code: "PDFQA-API-4000", Message: "Invalid request. Check inputs and retry."}
	case status == http.StatusNotFound:
		return apiError{Code: "PDFQA-API-4004", Message: "Requested resource was not found."}
	case status == http.StatusMethodNotAllowed:
		return apiError{Code: "PDFQA-API-4005", Message: "This endpoint does not support the requested method."}
	case status == http.StatusTooManyRequests:
		return apiError{Code: "PDFQA-API-4029", Message: "Too many questions. Please wait a moment."}
	default:
		return apiError{Code: "PDFQA-API-4000", Message: "Request failed."}
	}
}
