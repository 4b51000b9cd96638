// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate defines the translation backend interface, its error
// taxonomy, and one implementation per supported provider. The provider
// is selected once at configuration time; the pipeline only sees the
// Backend interface.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// PlaceholderPrefix marks a field the backend permanently refused to
// translate. The pipeline stores the prefix concatenated with the source
// text instead of failing the item.
const PlaceholderPrefix = "[未翻译/Untranslated] "

// Backend translates text between the languages fixed at construction.
type Backend interface {
	// Name returns the provider identifier.
	Name() string

	// Translate returns the translation of text. Failures are either
	// *TransientError (retry-eligible) or *RejectedContentError
	// (permanent); anything else is treated as transient by callers.
	Translate(ctx context.Context, text string) (string, error)
}

// TransientError marks a failure worth retrying: the provider was
// unreachable, timed out, or returned a server-side error.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient translation failure: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// RejectedContentError marks a permanent structural rejection of the
// input (policy-filtered content, malformed request). Retrying cannot
// succeed; the caller substitutes a placeholder.
type RejectedContentError struct {
	Err error
}

func (e *RejectedContentError) Error() string {
	return fmt.Sprintf("content rejected by translation backend: %v", e.Err)
}
func (e *RejectedContentError) Unwrap() error { return e.Err }

// IsRejected reports whether err is a permanent content rejection.
func IsRejected(err error) bool {
	var rejected *RejectedContentError
	return errors.As(err, &rejected)
}

// classifyStatus maps an HTTP status to the error taxonomy: 4xx is a
// structural rejection (except 429, which is load-related), everything
// else transient.
func classifyStatus(status int, provider string) error {
	err := fmt.Errorf("%s returned HTTP %d", provider, status)
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return &RejectedContentError{Err: err}
	}
	return &TransientError{Err: err}
}

// New constructs the backend named by cfg. Secrets are resolved by the
// caller before this point.
func New(cfg types.TranslationConfig) (Backend, error) {
	switch cfg.Provider {
	case types.TranslatorGoogle:
		return NewGoogle(cfg), nil
	case types.TranslatorTencent:
		return NewTencent(cfg)
	case types.TranslatorOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("translator %q not implemented", cfg.Provider)
	}
}

// httpClient builds the provider HTTP client from shared settings.
func httpClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// languages applies the configured language pair defaults.
func languages(cfg types.TranslationConfig) (source, target string) {
	source, target = cfg.SourceLanguage, cfg.TargetLanguage
	if source == "" {
		source = "en"
	}
	if target == "" {
		target = "zh"
	}
	return source, target
}
