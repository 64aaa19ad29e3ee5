// Package generative asks a hosted language model to analyze resume text and parses what
// comes back. Every failure surfaces as a *ServiceError; callers decide how to degrade.
package generative

import (
	"context"
	"errors"
	"fmt"
)

// Generator sends one prompt to a model and returns its final text response.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	ErrEmptyResponse          = errors.New("empty response from model")
	ErrNoJSONObject           = errors.New("response contains no json object")
	ErrJobDescriptionRequired = errors.New("job description is required")
)

// Op names the analyzer operation a ServiceError came from.
type Op string

const (
	OpAnalyze Op = "analyze"
	OpSuggest Op = "suggest"
	OpCompare Op = "compare"
)

type ServiceError struct {
	Op  Op
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generative %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether the call ran out of its time budget.
func (e *ServiceError) IsTimeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
