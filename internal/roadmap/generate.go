package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muhammadolammi/careerroadmap/internal/llm"
	"go.uber.org/zap"
)

// Generator runs the prompt -> model -> extract -> validate pipeline.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Generate makes exactly one model call. Failures come back as *Error.
func (g *Generator) Generate(ctx context.Context, in ProfileInput) (*Roadmap, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, newError(KindInput, MsgMissingFields,
			fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", ")))
	}

	prompt := BuildPrompt(in)
	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		g.logger.Error("error calling model", zap.Error(err))
		return nil, modelError(err)
	}
	g.logger.Debug("raw model response", zap.String("text", raw))

	rm, err := Process(raw)
	if err != nil {
		g.logger.Error("failed to process model response", zap.Error(err), zap.String("raw", raw))
		return nil, err
	}
	return rm, nil
}

// Run is Generate folded into a Result.
func (g *Generator) Run(ctx context.Context, in ProfileInput) Result {
	return NewResult(g.Generate(ctx, in))
}

func modelError(err error) *Error {
	err = llm.Classify(err)
	switch {
	case errors.Is(err, llm.ErrInvalidCredential):
		return newError(KindCredential, MsgInvalidKey, err)
	case errors.Is(err, llm.ErrBlocked):
		return newError(KindPolicy, MsgBlocked, err)
	default:
		return newError(KindGeneration, MsgGeneration, err)
	}
}
