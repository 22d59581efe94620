package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	agentName        = "roadmap_planner"
	agentUserID      = "roadmap"
	agentInstruction = "You are an expert engineering career advisor. Follow the user's formatting instructions exactly and answer with a single JSON object."
)

// Agent runs the prompt through an adk llm agent. Every call gets its own
// throwaway in-memory session, so no conversation state crosses requests.
type Agent struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
	logger   *zap.Logger
}

func NewAgent(ctx context.Context, opts Options, logger *zap.Logger) (*Agent, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	cfg, err := opts.GenerateConfig()
	if err != nil {
		return nil, err
	}

	m, err := gemini.NewModel(ctx, opts.Model, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return newAgent(m, cfg, session.InMemoryService(), logger)
}

func newAgent(m model.LLM, cfg *genai.GenerateContentConfig, sessions session.Service, logger *zap.Logger) (*Agent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	planner, err := llmagent.New(llmagent.Config{
		Name:                  agentName,
		Model:                 m,
		Description:           "Generate engineering career roadmaps",
		Instruction:           agentInstruction,
		GenerateContentConfig: cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	r, err := runner.New(runner.Config{
		AppName:        planner.Name(),
		Agent:          planner,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Agent{
		runner:   r,
		sessions: sessions,
		appName:  planner.Name(),
		logger:   logger,
	}, nil
}

func (a *Agent) Complete(ctx context.Context, prompt string) (string, error) {
	created, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	sess := created.Session
	defer func() {
		err := a.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   sess.AppName(),
			UserID:    sess.UserID(),
			SessionID: sess.ID(),
		})
		if err != nil {
			a.logger.Warn("failed to delete agent session", zap.String("session_id", sess.ID()), zap.Error(err))
		}
	}()

	stream := a.runner.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", Classify(fmt.Errorf("agent run failed: %w", err))
		}
		if event == nil {
			continue
		}
		if err := responseError(event.ErrorCode, event.FinishReason, event.ErrorMessage); err != nil {
			return "", err
		}
		if !event.IsFinalResponse() || event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			if part != nil {
				output += part.Text
			}
		}
	}

	if strings.TrimSpace(output) == "" {
		return "", ErrEmptyResponse
	}
	a.logger.Debug("agent response", zap.String("session_id", sess.ID()), zap.Int("chars", len(output)))
	return output, nil
}

// responseError turns the error code adk copies from a blocked or failed
// candidate into an error.
func responseError(code string, reason genai.FinishReason, msg string) error {
	switch {
	case isBlockReason(genai.FinishReason(code)):
		return fmt.Errorf("%w: %s %s", ErrBlocked, code, msg)
	case isBlockReason(reason):
		return fmt.Errorf("%w: finish reason %s", ErrBlocked, reason)
	case code != "":
		return Classify(fmt.Errorf("model returned %s: %s", code, msg))
	}
	return nil
}
