// Package llm wraps the Gemini text-generation collaborator behind a single
// prompt-in, text-out interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrInvalidCredential means the provider rejected the API key.
	ErrInvalidCredential = errors.New("llm: invalid API key")
	// ErrBlocked means the prompt or the response was stopped by safety filtering.
	ErrBlocked = errors.New("llm: blocked by safety settings")
	// ErrEmptyResponse means the model returned no text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Client executes one prompt and returns the raw completion text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	EngineGemini = "gemini"
	EngineAgent  = "agent"
)

const DefaultModel = "gemini-2.0-flash"

// Options carries model selection and generation parameters.
type Options struct {
	APIKey          string
	Model           string
	BaseURL         string // empty means the public Gemini endpoint
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
	SafetyThreshold string
}

// DefaultOptions returns the generation settings the roadmap prompt is tuned for.
func DefaultOptions() Options {
	return Options{
		Model:           DefaultModel,
		Temperature:     0.8,
		TopK:            1,
		TopP:            1,
		MaxOutputTokens: 8192,
		SafetyThreshold: string(genai.HarmBlockThresholdBlockMediumAndAbove),
	}
}

var thresholds = map[string]genai.HarmBlockThreshold{
	string(genai.HarmBlockThresholdBlockLowAndAbove):    genai.HarmBlockThresholdBlockLowAndAbove,
	string(genai.HarmBlockThresholdBlockMediumAndAbove): genai.HarmBlockThresholdBlockMediumAndAbove,
	string(genai.HarmBlockThresholdBlockOnlyHigh):       genai.HarmBlockThresholdBlockOnlyHigh,
	string(genai.HarmBlockThresholdBlockNone):           genai.HarmBlockThresholdBlockNone,
}

// ParseThreshold validates a safety threshold name such as BLOCK_ONLY_HIGH.
func ParseThreshold(s string) (genai.HarmBlockThreshold, error) {
	t, ok := thresholds[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown safety threshold %q", s)
	}
	return t, nil
}

// GenerateConfig builds the genai request config for o.
func (o Options) GenerateConfig() (*genai.GenerateContentConfig, error) {
	threshold, err := ParseThreshold(o.SafetyThreshold)
	if err != nil {
		return nil, err
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	safety := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		safety = append(safety, &genai.SafetySetting{Category: c, Threshold: threshold})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(o.Temperature),
		TopK:            genai.Ptr(o.TopK),
		TopP:            genai.Ptr(o.TopP),
		MaxOutputTokens: o.MaxOutputTokens,
		SafetySettings:  safety,
	}, nil
}

// isBlockReason reports whether a finish reason means a content filter
// stopped the candidate.
func isBlockReason(r genai.FinishReason) bool {
	switch r {
	case genai.FinishReasonSafety,
		genai.FinishReasonProhibitedContent,
		genai.FinishReasonBlocklist,
		genai.FinishReasonSPII:
		return true
	}
	return false
}

// Classify maps provider error text onto the package sentinels. Errors that
// already wrap a sentinel are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrBlocked) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key not valid"),
		strings.Contains(msg, "API_KEY_INVALID"),
		strings.Contains(msg, "UNAUTHENTICATED"):
		return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	case strings.Contains(msg, "SAFETY"):
		return fmt.Errorf("%w: %v", ErrBlocked, err)
	}
	return err
}
