package search

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stable error type discriminators, surfaced in API error bodies so the
// calling UI can branch on them.
const (
	TypeValidation = "validation_error"
	TypeTimeout    = "timeout"
	TypeExtraction = "extraction_error"
	TypeRepair     = "repair_failure"
	TypeProvider   = "provider_error"
	TypeNoResults  = "no_results"
)

// ValidationError reports a malformed or out-of-bounds request. Raised
// before any provider call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "search: validation: " + e.Message }
func (e *ValidationError) Type() string  { return TypeValidation }

// TimeoutError reports that a provider call exceeded its budget. Stage
// names the pipeline step that timed out.
type TimeoutError struct {
	Stage  string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("search: %s exceeded budget %s", e.Stage, e.Budget)
}
func (e *TimeoutError) Type() string { return TypeTimeout }

// ExtractionError reports that no JSON could be located in provider text.
// Snippet holds a bounded sample of the raw input for diagnostics.
type ExtractionError struct {
	Stage   string
	Snippet string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("search: %s: no JSON in provider response (head: %q)", e.Stage, e.Snippet)
}
func (e *ExtractionError) Type() string { return TypeExtraction }

// RepairFailure reports that a JSON candidate was located but every repair
// strategy failed to make it parse.
type RepairFailure struct {
	Stage   string
	Snippet string
}

func (e *RepairFailure) Error() string {
	return fmt.Sprintf("search: %s: JSON repair exhausted (head: %q)", e.Stage, e.Snippet)
}
func (e *RepairFailure) Type() string { return TypeRepair }

// ProviderError reports an HTTP or network failure from a provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("search: provider %s: %v", e.Provider, e.Err)
}
func (e *ProviderError) Type() string  { return TypeProvider }
func (e *ProviderError) Unwrap() error { return e.Err }

// NoResultsError reports that the pipeline ran to completion but produced
// zero qualifying entities. Suggestion hints at loosening criteria.
type NoResultsError struct {
	Suggestion string
}

func (e *NoResultsError) Error() string {
	return "search: no qualifying results: " + e.Suggestion
}
func (e *NoResultsError) Type() string { return TypeNoResults }

// TypeOf returns the stable discriminator for a pipeline error, or "" for
// errors outside the taxonomy.
func TypeOf(err error) string {
	var typed interface{ Type() string }
	if errors.As(err, &typed) {
		return typed.Type()
	}
	return ""
}

// providerCallError classifies a failed provider call: a deadline hit
// becomes a TimeoutError naming the stage, anything else a ProviderError.
func providerCallError(ctx context.Context, err error, provider, stage string, budget time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return &TimeoutError{Stage: stage, Budget: budget}
	}
	return &ProviderError{Provider: provider, Err: err}
}
