package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid key text", errors.New("Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT"), ErrInvalidCredential},
		{"unauthenticated", errors.New("rpc error: code = UNAUTHENTICATED"), ErrInvalidCredential},
		{"safety text", errors.New("candidate was blocked due to SAFETY"), ErrBlocked},
		{"already wrapped", ErrBlocked, ErrBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Classify(tt.err), tt.want)
		})
	}

	other := errors.New("connection reset by peer")
	got := Classify(other)
	assert.Same(t, other, got)
	assert.NoError(t, Classify(nil))
}

func TestParseThreshold(t *testing.T) {
	got, err := ParseThreshold(" block_only_high ")
	require.NoError(t, err)
	assert.Equal(t, genai.HarmBlockThresholdBlockOnlyHigh, got)

	_, err = ParseThreshold("SOMETIMES")
	assert.Error(t, err)
}

func TestGenerateConfig(t *testing.T) {
	cfg, err := DefaultOptions().GenerateConfig()
	require.NoError(t, err)

	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.8, *cfg.Temperature, 1e-6)
	assert.Equal(t, float32(1), *cfg.TopK)
	assert.Equal(t, float32(1), *cfg.TopP)
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)

	require.Len(t, cfg.SafetySettings, 4)
	for _, s := range cfg.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
	}

	opts := DefaultOptions()
	opts.SafetyThreshold = "nope"
	_, err = opts.GenerateConfig()
	assert.Error(t, err)
}

func TestBlocked(t *testing.T) {
	assert.ErrorIs(t, blocked(nil), ErrEmptyResponse)

	prompt := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}
	assert.ErrorIs(t, blocked(prompt), ErrBlocked)

	candidate := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}
	assert.ErrorIs(t, blocked(candidate), ErrBlocked)

	ok := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
	}
	assert.NoError(t, blocked(ok))
}

func TestNewRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	_, err := New(ctx, EngineGemini, DefaultOptions(), logger)
	assert.Error(t, err, "missing API key")

	opts := DefaultOptions()
	opts.APIKey = "test-key"
	_, err = New(ctx, "openai", opts, logger)
	assert.ErrorContains(t, err, "unknown llm engine")
}

func TestFunc(t *testing.T) {
	var c Client = Func(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	got, err := c.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", got)
}
