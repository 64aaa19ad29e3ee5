package main

import (
	"context"
	"fmt"

	"github.com/muhammadolammi/resumeworker/internal/analysis"
	"github.com/muhammadolammi/resumeworker/internal/config"
	"github.com/muhammadolammi/resumeworker/internal/extract"
	"github.com/muhammadolammi/resumeworker/internal/generative"
	"github.com/muhammadolammi/resumeworker/internal/pipeline"
	"go.uber.org/zap"
)

const agentName = "resume_analyzer"

// GetGenerator builds the configured generative backend.
func GetGenerator(ctx context.Context, cfg config.GenerativeConfig, logger *zap.Logger) (generative.Generator, error) {
	switch cfg.Backend {
	case config.BackendAgent:
		return generative.NewAgentGenerator(ctx, cfg.APIKey, cfg.Model, agentName, logger)
	case config.BackendGenAI:
		return generative.NewGenAIGenerator(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown generative backend %q", cfg.Backend)
	}
}

// newAnalyzer wires extraction, heuristic and generative analysis. Without an API key the
// reconciler runs heuristic only.
func newAnalyzer(ctx context.Context, cfg config.GenerativeConfig, logger *zap.Logger) (*pipeline.Reconciler, error) {
	heuristic := analysis.NewHeuristic(analysis.DefaultKeywords())

	if !cfg.Enabled() {
		logger.Warn("GOOGLE_API_KEY not set, generative analysis disabled")
		return pipeline.New(extract.New(), heuristic, nil, logger), nil
	}

	gen, err := GetGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	gAnalyzer := generative.NewAnalyzer(gen,
		generative.WithTimeout(cfg.Timeout),
		generative.WithMaxTextChars(cfg.MaxTextChars),
	)
	logger.Info("generative analysis enabled",
		zap.String("backend", cfg.Backend),
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout),
	)
	return pipeline.New(extract.New(), heuristic, gAnalyzer, logger,
		pipeline.WithGenerativeTimeout(cfg.Timeout),
	), nil
}
