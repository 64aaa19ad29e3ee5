package generative

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/muhammadolammi/resumeworker/internal/analysis"
)

const (
	DefaultTimeout      = 45 * time.Second
	DefaultMaxTextChars = 12000
)

// JobComparison is the model's assessment of a resume against one job description.
type JobComparison struct {
	MatchScore      int      `json:"match_score"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

type comparisonShape struct {
	MatchScore      analysis.FlexScore `json:"match_score"`
	MatchingSkills  []string           `json:"matching_skills"`
	MissingSkills   []string           `json:"missing_skills"`
	Strengths       []string           `json:"strengths"`
	Concerns        []string           `json:"concerns"`
	Recommendations []string           `json:"recommendations"`
}

type Option func(*Analyzer)

// WithTimeout bounds every call to the model. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxTextChars caps how much resume text is put in a prompt. Non-positive values are ignored.
func WithMaxTextChars(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxTextChars = n
		}
	}
}

// Analyzer turns resume text into model prompts and parses the answers.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	gen          Generator
	timeout      time.Duration
	maxTextChars int
}

func NewAnalyzer(gen Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:          gen,
		timeout:      DefaultTimeout,
		maxTextChars: DefaultMaxTextChars,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Timeout() time.Duration {
	return a.timeout
}

// Analyze asks for a structured analysis of text.
func (a *Analyzer) Analyze(ctx context.Context, text string) (analysis.GenerativeShape, error) {
	var shape analysis.GenerativeShape

	raw, err := a.generate(ctx, analyzePrompt(a.truncate(text)))
	if err != nil {
		return shape, &ServiceError{Op: OpAnalyze, Err: err}
	}
	obj, err := extractObject(raw)
	if err != nil {
		return shape, &ServiceError{Op: OpAnalyze, Err: err}
	}
	if err := decodeValidated(analysisSchema, obj, &shape); err != nil {
		return analysis.GenerativeShape{}, &ServiceError{Op: OpAnalyze, Err: err}
	}
	return shape, nil
}

// Suggest asks for free-text improvement suggestions.
func (a *Analyzer) Suggest(ctx context.Context, text string) (string, error) {
	raw, err := a.generate(ctx, suggestPrompt(a.truncate(text)))
	if err != nil {
		return "", &ServiceError{Op: OpSuggest, Err: err}
	}
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", &ServiceError{Op: OpSuggest, Err: ErrEmptyResponse}
	}
	return out, nil
}

// Compare rates text against jobDescription. The match score is clamped to 0-100.
func (a *Analyzer) Compare(ctx context.Context, text, jobDescription string) (JobComparison, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return JobComparison{}, &ServiceError{Op: OpCompare, Err: ErrJobDescriptionRequired}
	}

	raw, err := a.generate(ctx, comparePrompt(a.truncate(text), jobDescription))
	if err != nil {
		return JobComparison{}, &ServiceError{Op: OpCompare, Err: err}
	}
	obj, err := extractObject(raw)
	if err != nil {
		return JobComparison{}, &ServiceError{Op: OpCompare, Err: err}
	}
	var shape comparisonShape
	if err := decodeValidated(comparisonSchema, obj, &shape); err != nil {
		return JobComparison{}, &ServiceError{Op: OpCompare, Err: err}
	}
	score, err := shape.MatchScore.Int()
	if err != nil {
		return JobComparison{}, &ServiceError{Op: OpCompare, Err: err}
	}

	return JobComparison{
		MatchScore:      analysis.ClampScore(score),
		MatchingSkills:  nonNil(shape.MatchingSkills),
		MissingSkills:   nonNil(shape.MissingSkills),
		Strengths:       nonNil(shape.Strengths),
		Concerns:        nonNil(shape.Concerns),
		Recommendations: nonNil(shape.Recommendations),
	}, nil
}

type generated struct {
	text string
	err  error
}

// generate runs one call under the analyzer's timeout. It returns as soon as ctx is done,
// even when the Generator does not watch ctx itself.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan generated, 1)
	go func() {
		text, err := a.gen.Generate(ctx, prompt)
		done <- generated{text: text, err: err}
	}()

	var res generated
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return "", res.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(res.text) == "" {
		return "", ErrEmptyResponse
	}
	return res.text, nil
}

// truncate cuts text to maxTextChars runes.
func (a *Analyzer) truncate(text string) string {
	if utf8.RuneCountInString(text) <= a.maxTextChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:a.maxTextChars])
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
