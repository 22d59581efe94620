package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// New builds the Client for the named engine.
func New(ctx context.Context, engine string, opts Options, logger *zap.Logger) (Client, error) {
	switch engine {
	case EngineGemini, "":
		return NewGemini(ctx, opts, logger)
	case EngineAgent:
		return NewAgent(ctx, opts, logger)
	default:
		return nil, fmt.Errorf("unknown llm engine %q (valid: %s, %s)", engine, EngineGemini, EngineAgent)
	}
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
