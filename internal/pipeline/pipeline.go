// Package pipeline runs one uploaded document through extraction and analysis and reconciles
// the generative and heuristic results into a single stored analysis.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/muhammadolammi/resumeworker/internal/analysis"
	"github.com/muhammadolammi/resumeworker/internal/extract"
	"github.com/muhammadolammi/resumeworker/internal/generative"
	"go.uber.org/zap"
)

var ErrGenerativeUnavailable = errors.New("generative analysis is not configured")

type State string

const (
	StateExtracting  State = "extracting"
	StateAnalyzing   State = "analyzing"
	StateNormalizing State = "normalizing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// GenerativeAnalyzer is the part of generative.Analyzer the reconciler depends on.
type GenerativeAnalyzer interface {
	Analyze(ctx context.Context, text string) (analysis.GenerativeShape, error)
	Suggest(ctx context.Context, text string) (string, error)
	Compare(ctx context.Context, text, jobDescription string) (generative.JobComparison, error)
}

type Option func(*Reconciler)

// WithGenerativeTimeout bounds the generative step of Run. Non-positive values are ignored.
func WithGenerativeTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Reconciler is safe for concurrent use; Run keeps all state on its own stack.
type Reconciler struct {
	extractor extract.Extractor
	heuristic *analysis.Heuristic
	gen       GenerativeAnalyzer
	timeout   time.Duration
	logger    *zap.Logger
}

// New builds a Reconciler. gen may be nil, in which case every run is heuristic only.
func New(extractor extract.Extractor, heuristic *analysis.Heuristic, gen GenerativeAnalyzer, logger *zap.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reconciler{
		extractor: extractor,
		heuristic: heuristic,
		gen:       gen,
		timeout:   generative.DefaultTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run extracts doc and analyzes the text. It never returns a partial success: either the
// outcome is Completed with a normalized analysis, or Failed with the reason.
func (r *Reconciler) Run(ctx context.Context, doc extract.RawDocument) Outcome {
	log := r.logger.With(
		zap.String("filename", doc.Filename),
		zap.String("media_type", doc.MediaType),
	)

	r.enter(log, StateExtracting)
	text, err := r.extractor.Extract(doc)
	if err != nil {
		return r.fail(log, err)
	}
	if err := ctx.Err(); err != nil {
		return r.fail(log, err)
	}

	r.enter(log, StateAnalyzing)
	heuristic := r.heuristic.Analyze(text)
	var result analysis.Result = analysis.HeuristicResult{Analysis: heuristic}
	if r.gen != nil {
		shape, err := r.analyzeGenerative(ctx, text)
		switch {
		case ctx.Err() != nil:
			return r.fail(log, ctx.Err())
		case err != nil:
			log.Warn("generative analysis failed, using heuristic analysis", zap.Error(err))
		default:
			result = analysis.GenerativeResult{Shape: shape}
		}
	}

	r.enter(log, StateNormalizing)
	a, warning := analysis.Normalize(result, heuristic)
	if warning != nil {
		log.Warn("generative score replaced",
			zap.String("raw", warning.Raw),
			zap.Int("applied", warning.Applied),
			zap.Error(warning.Err),
		)
	}

	r.enter(log, StateDone)
	log.Info("resume analyzed",
		zap.String("source", string(result.Source())),
		zap.Int("score", a.Score),
		zap.Int("skills", len(a.Skills)),
	)
	return Completed(a, text)
}

// Suggest asks the generative service for improvement suggestions on already extracted text.
func (r *Reconciler) Suggest(ctx context.Context, text string) (string, error) {
	if r.gen == nil {
		return "", ErrGenerativeUnavailable
	}
	return r.gen.Suggest(ctx, text)
}

// Compare rates already extracted text against a job description.
func (r *Reconciler) Compare(ctx context.Context, text, jobDescription string) (generative.JobComparison, error) {
	if r.gen == nil {
		return generative.JobComparison{}, ErrGenerativeUnavailable
	}
	return r.gen.Compare(ctx, text, jobDescription)
}

func (r *Reconciler) analyzeGenerative(ctx context.Context, text string) (analysis.GenerativeShape, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.gen.Analyze(ctx, text)
}

func (r *Reconciler) enter(log *zap.Logger, s State) {
	log.Debug("analysis state", zap.String("state", string(s)))
}

func (r *Reconciler) fail(log *zap.Logger, err error) Outcome {
	r.enter(log, StateFailed)
	log.Warn("resume analysis failed", zap.Error(err))
	return Failed(err)
}
