package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pdfqa/internal/util"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]struct {
		err  error
		want ErrorType
	}{
		"401":              {&StatusError{Provider: "openrouter", StatusCode: 401}, ErrorUnauthorized},
		"429":              {&StatusError{Provider: "openrouter", StatusCode: 429}, ErrorRate},
		"402":              {&StatusError{Provider: "openrouter", StatusCode: 402}, ErrorQuota},
		"503":              {&StatusError{Provider: "openrouter", StatusCode: 503}, ErrorTransient},
		"400":              {&StatusError{Provider: "openrouter", StatusCode: 400}, ErrorPermanent},
		"wrapped 401":      {fmt.Errorf("candidate 0: %w", &StatusError{StatusCode: 401}), ErrorUnauthorized},
		"deadline":         {fmt.Errorf("post: %w", context.DeadlineExceeded), ErrorTransient},
		"empty":            {fmt.Errorf("openrouter: %w", util.ErrEmptyAnswer), ErrorEmpty},
		"insufficient":     {errors.New("insufficient_quota"), ErrorQuota},
		"rate text":        {errors.New("rate limit reached"), ErrorPermanent},
		"port 429":         {errors.New(`Post "http://127.0.0.1:42913/v1/chat/completions": dial tcp: connection refused`), ErrorTransient},
		"host 429":         {errors.New(`Post "http://llm-429.internal/v1": i/o failure`), ErrorPermanent},
		"context too long": {errors.New("context too long"), ErrorContext},
		"refused":          {errors.New("dial tcp: connection refused"), ErrorTransient},
		"bad request":      {errors.New("bad request"), ErrorPermanent},
	}
	for name, tc := range cases {
		if got := ClassifyError(tc.err); got != tc.want {
			t.Fatalf("%s: got %s want %s", name, got, tc.want)
		}
	}
	if ClassifyError(nil) != "" {
		t.Fatalf("nil error should not classify")
	}
}

func TestStatusErrorMatchesSentinels(t *testing.T) {
	cause := errors.New("upstream said no")
	err := fmt.Errorf("attempt: %w", &StatusError{Provider: "openrouter", StatusCode: 401, Err: cause})
	if !errors.Is(err, util.ErrUnauthorized) {
		t.Fatalf("401 should match ErrUnauthorized")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if errors.Is(&StatusError{StatusCode: 429}, util.ErrUnauthorized) {
		t.Fatalf("429 must not match ErrUnauthorized")
	}
	if !errors.Is(&StatusError{StatusCode: 502}, util.ErrTransient) {
		t.Fatalf("502 should be transient")
	}
}

func TestStatusCode(t *testing.T) {
	if StatusCode(errors.New("plain")) != 0 {
		t.Fatalf("plain errors carry no status")
	}
	if StatusCode(fmt.Errorf("x: %w", &StatusError{StatusCode: 429})) != 429 {
		t.Fatalf("wrapped status lost")
	}
}
