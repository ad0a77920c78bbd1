package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pdfqa/internal/util"
)

type ErrorType string

const (
	ErrorUnauthorized ErrorType = "unauthorized"
	ErrorQuota        ErrorType = "quota"
	ErrorRate         ErrorType = "rate"
	ErrorTransient    ErrorType = "transient"
	ErrorPermanent    ErrorType = "permanent"
	ErrorContext      ErrorType = "context"
	ErrorEmpty        ErrorType = "empty"
)

// StatusError is an upstream response with a non-success HTTP status.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, util.Excerpt(e.Message, 200))
}

// Unwrap exposes both the client error and the matching util sentinel, so callers can
// test with errors.Is(err, util.ErrUnauthorized).
func (e *StatusError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Err != nil {
		out = append(out, e.Err)
	}
	if s := sentinelFor(e.StatusCode); s != nil {
		out = append(out, s)
	}
	return out
}

func sentinelFor(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return util.ErrUnauthorized
	case code == http.StatusTooManyRequests:
		return util.ErrRateLimited
	case code == http.StatusPaymentRequired:
		return util.ErrQuotaExhausted
	case code >= 500:
		return util.ErrTransient
	case code >= 400:
		return util.ErrPermanent
	}
	return nil
}

// StatusCode returns the upstream HTTP status carried by err, or 0 for transport failures.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	switch code := StatusCode(err); {
	case code == http.StatusUnauthorized:
		return ErrorUnauthorized
	case code == http.StatusTooManyRequests:
		return ErrorRate
	case code == http.StatusPaymentRequired:
		return ErrorQuota
	case code >= 500:
		return ErrorTransient
	case code >= 400:
		return ErrorPermanent
	}
	if errors.Is(err, util.ErrEmptyAnswer) {
		return ErrorEmpty
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTransient
	}
	// Without a status only soft hints are read from the text; rate and unauthorized
	// are reserved for real 429 and 401 responses.
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "context length"), strings.Contains(e, "too long"):
		return ErrorContext
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"),
		strings.Contains(e, "connection refused"), strings.Contains(e, "eof"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}
