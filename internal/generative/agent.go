package generative

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const agentUserID = "resume-worker"

// AgentGenerator drives an ADK llm agent on a Gemini model. Each Generate call gets its own
// throwaway session so concurrent calls never share conversation history.
type AgentGenerator struct {
	name     string
	runner   *runner.Runner
	sessions session.Service
	logger   *zap.Logger
}

func NewAgentGenerator(ctx context.Context, apiKey, modelName, agentName string, logger *zap.Logger) (*AgentGenerator, error) {
	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	analyzer, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Analyze Resume",
		Instruction: Instruction(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        analyzer.Name(),
		Agent:          analyzer,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &AgentGenerator{
		name:     analyzer.Name(),
		runner:   r,
		sessions: sessions,
		logger:   logger,
	}, nil
}

func (g *AgentGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.name,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	s := created.Session
	defer func() {
		// the call's ctx may already be done; cleanup of the in-memory session must still run
		err := g.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   s.AppName(),
			UserID:    s.UserID(),
			SessionID: s.ID(),
		})
		if err != nil {
			g.logger.Warn("failed to delete agent session", zap.String("session_id", s.ID()), zap.Error(err))
		}
	}()

	stream := g.runner.Run(ctx, s.UserID(), s.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", ErrEmptyResponse
	}
	return output, nil
}
