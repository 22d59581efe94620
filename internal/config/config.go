// Package config loads service configuration from an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/careerroadmap/internal/events"
	"github.com/muhammadolammi/careerroadmap/internal/llm"
	"gopkg.in/yaml.v3"
)

type GeminiConfig struct {
	APIKey          string  `yaml:"api_key"`
	Engine          string  `yaml:"engine"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	Temperature     float32 `yaml:"temperature"`
	TopK            float32 `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	SafetyThreshold string  `yaml:"safety_threshold"`
}

type ServerConfig struct {
	Address            string   `yaml:"address"`
	Port               int      `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Gemini   GeminiConfig   `yaml:"gemini"`
	Server   ServerConfig   `yaml:"server"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	opts := llm.DefaultOptions()
	return &Config{
		Gemini: GeminiConfig{
			Engine:          llm.EngineGemini,
			Model:           opts.Model,
			Temperature:     opts.Temperature,
			TopK:            opts.TopK,
			TopP:            opts.TopP,
			MaxOutputTokens: opts.MaxOutputTokens,
			SafetyThreshold: opts.SafetyThreshold,
		},
		Server: ServerConfig{
			Port:               8080,
			CORSAllowedOrigins: []string{"*"},
		},
		RabbitMQ: RabbitMQConfig{Exchange: events.DefaultExchange},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Gemini.APIKey, "GOOGLE_API_KEY")
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Engine, "LLM_ENGINE")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Gemini.BaseURL, "GEMINI_BASE_URL")
	setString(&c.Gemini.SafetyThreshold, "GEMINI_SAFETY_THRESHOLD")
	setString(&c.Server.Address, "ADDRESS")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSAllowedOrigins = origins
	}

	var errs []error
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PORT: %w", err))
		}
		c.Server.Port = port
	}
	errs = append(errs,
		setFloat(&c.Gemini.Temperature, "GEMINI_TEMPERATURE"),
		setFloat(&c.Gemini.TopK, "GEMINI_TOP_K"),
		setFloat(&c.Gemini.TopP, "GEMINI_TOP_P"),
	)
	if v := os.Getenv("GEMINI_MAX_OUTPUT_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			errs = append(errs, fmt.Errorf("GEMINI_MAX_OUTPUT_TOKENS: %w", err))
		}
		c.Gemini.MaxOutputTokens = int32(n)
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float32, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = float32(f)
	return nil
}

// Validate checks the configuration. requireKey is false for commands that
// never call the model.
func (c *Config) Validate(requireKey bool) error {
	var errs []error
	if requireKey && c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is not set in the environment variables"))
	}
	switch c.Gemini.Engine {
	case llm.EngineGemini, llm.EngineAgent:
	default:
		errs = append(errs, fmt.Errorf("unknown llm engine %q", c.Gemini.Engine))
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %v out of range 0..2", c.Gemini.Temperature))
	}
	if c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		errs = append(errs, fmt.Errorf("top_p %v out of range 0..1", c.Gemini.TopP))
	}
	if c.Gemini.TopK < 1 {
		errs = append(errs, fmt.Errorf("top_k %v must be at least 1", c.Gemini.TopK))
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("max_output_tokens %d must be positive", c.Gemini.MaxOutputTokens))
	}
	if _, err := llm.ParseThreshold(c.Gemini.SafetyThreshold); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	return errors.Join(errs...)
}

// LLMOptions converts the Gemini section into llm.Options.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		APIKey:          c.Gemini.APIKey,
		Model:           c.Gemini.Model,
		BaseURL:         c.Gemini.BaseURL,
		Temperature:     c.Gemini.Temperature,
		TopK:            c.Gemini.TopK,
		TopP:            c.Gemini.TopP,
		MaxOutputTokens: c.Gemini.MaxOutputTokens,
		SafetyThreshold: c.Gemini.SafetyThreshold,
	}
}
