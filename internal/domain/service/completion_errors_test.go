package service

import (
	"errors"
	"testing"
)

func TestClassifyCompletionError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		kind       CompletionErrorKind
	}{
		{"429 status", errors.New("too many requests"), 429, ErrKindRateLimited},
		{"401 status", errors.New("unauthorized"), 401, ErrKindAuthConfiguration},
		{"403 status", errors.New("forbidden"), 403, ErrKindAuthConfiguration},
		{"rate limit substring", errors.New("provider: rate limit exceeded"), 0, ErrKindRateLimited},
		{"api key substring", errors.New("invalid API key provided"), 0, ErrKindAuthConfiguration},
		{"anything else", errors.New("connection reset by peer"), 0, ErrKindUnknown},
		{"500 status", errors.New("internal server error"), 500, ErrKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := ClassifyCompletionError(tt.err, tt.statusCode)
			if ce.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, ce.Kind)
			}
			if !errors.Is(ce, tt.err) {
				t.Error("cause chain broken")
			}
		})
	}
}

func TestClassifyCompletionError_AlreadyClassified(t *testing.T) {
	orig := &CompletionError{Kind: ErrKindRateLimited}
	if got := ClassifyCompletionError(orig, 500); got != orig {
		t.Error("already classified error should be returned as-is")
	}
}

func TestClassifyCompletionError_Nil(t *testing.T) {
	if ClassifyCompletionError(nil, 0) != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestApology_DistinctPerKind(t *testing.T) {
	seen := map[string]CompletionErrorKind{}
	for _, k := range []CompletionErrorKind{ErrKindUnknown, ErrKindRateLimited, ErrKindAuthConfiguration} {
		text := k.Apology()
		if text == "" {
			t.Errorf("kind %s has empty apology", k)
		}
		if prev, ok := seen[text]; ok {
			t.Errorf("kinds %s and %s share apology text", prev, k)
		}
		seen[text] = k
	}
}
