package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrEmptyPath         = errors.New("empty PDF path provided")

	ErrUnauthorized   = errors.New("provider rejected credential")
	ErrQuotaExhausted = errors.New("provider quota exhausted")
	ErrRateLimited    = errors.New("provider rate limited")
	ErrTransient      = errors.New("transient provider error")
	ErrPermanent      = errors.New("permanent provider error")
	ErrEmptyAnswer    = errors.New("provider returned no answer text")
)
