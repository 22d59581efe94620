package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOOGLE_API_KEY", "GEMINI_API_KEY", "LLM_ENGINE", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"GEMINI_SAFETY_THRESHOLD", "GEMINI_TEMPERATURE", "GEMINI_TOP_K", "GEMINI_TOP_P",
		"GEMINI_MAX_OUTPUT_TOKENS", "ADDRESS", "PORT", "CORS_ALLOWED_ORIGINS",
		"RABBITMQ_URL", "RABBITMQ_EXCHANGE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Gemini.Engine)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.InDelta(t, 0.8, cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, int32(8192), cfg.Gemini.MaxOutputTokens)
	assert.Equal(t, "BLOCK_MEDIUM_AND_ABOVE", cfg.Gemini.SafetyThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "roadmap_updates", cfg.RabbitMQ.Exchange)

	assert.NoError(t, cfg.Validate(false))
	assert.ErrorContains(t, cfg.Validate(true), "GEMINI_API_KEY")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "roadmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  api_key: from-file
  engine: agent
  temperature: 0.2
server:
  port: 9000
  cors_allowed_origins: ["http://localhost:5173"]
log:
  level: debug
`), 0o600))

	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("GEMINI_BASE_URL", "http://127.0.0.1:9999/")
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, "agent", cfg.Gemini.Engine)
	assert.InDelta(t, 0.2, cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate(true))

	opts := cfg.LLMOptions()
	assert.Equal(t, "from-file", opts.APIKey)
	assert.Equal(t, "gemini-2.5-pro", opts.Model)
	assert.Equal(t, "http://127.0.0.1:9999/", opts.BaseURL)
}

func TestLoad_GeminiKeyWinsOverGoogleKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google")
	t.Setenv("GEMINI_API_KEY", "gemini")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Gemini.APIKey)
}

func TestLoad_BadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("GEMINI_TEMPERATURE", "warm")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorContains(t, err, "PORT")
	assert.ErrorContains(t, err, "GEMINI_TEMPERATURE")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Gemini.Engine = "openai"
	cfg.Gemini.TopP = 1.5
	cfg.Gemini.SafetyThreshold = "LOUD"
	cfg.Server.Port = 0

	err := cfg.Validate(false)
	require.Error(t, err)
	for _, want := range []string{"openai", "top_p", "LOUD", "port"} {
		assert.ErrorContains(t, err, want)
	}
}
