package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadolammi/careerroadmap/internal/buildinfo"
	"github.com/muhammadolammi/careerroadmap/internal/config"
	"github.com/muhammadolammi/careerroadmap/internal/events"
	"github.com/muhammadolammi/careerroadmap/internal/llm"
	"github.com/muhammadolammi/careerroadmap/internal/logging"
	"github.com/muhammadolammi/careerroadmap/internal/roadmap"
	"github.com/muhammadolammi/careerroadmap/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	profile  roadmap.ProfileInput
	outPath  string
	markdown bool
)

var rootCmd = &cobra.Command{
	Use:           "roadmap",
	Short:         "Generate personalized 4-year engineering career roadmaps with Gemini",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = os.Getenv("ROADMAP_CONFIG")
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Log.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one roadmap and print it as JSON",
	Long: `Runs the full pipeline once: builds the prompt, calls the model,
extracts and validates the JSON roadmap.

Example:
  roadmap generate --discipline "Computer Science" \
    --goals "Backend engineer" --interests "Distributed systems" --out plan.txt`,
	RunE: runGenerate,
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent to the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), roadmap.BuildPrompt(profile))
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (env ROADMAP_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	for _, c := range []*cobra.Command{generateCmd, promptCmd} {
		c.Flags().StringVar(&profile.Discipline, "discipline", "", "engineering discipline (required)")
		c.Flags().StringVar(&profile.Goals, "goals", "", "career goals (required)")
		c.Flags().StringVar(&profile.Interests, "interests", "", "technical interests (required)")
		c.Flags().StringVar(&profile.Strengths, "strengths", "", "strengths")
		c.Flags().StringVar(&profile.Weaknesses, "weaknesses", "", "weaknesses / areas for improvement")
	}
	generateCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the export file here instead of stdout")
	generateCmd.Flags().BoolVar(&markdown, "markdown", false, "print a readable markdown rendering instead of JSON")
	generateCmd.MarkFlagsMutuallyExclusive("out", "markdown")

	rootCmd.AddCommand(serveCmd, generateCmd, promptCmd, versionCmd)
}

func newGenerator(ctx context.Context) (*roadmap.Generator, error) {
	if err := cfg.Validate(true); err != nil {
		return nil, err
	}
	client, err := llm.New(ctx, cfg.Gemini.Engine, cfg.LLMOptions(), logger)
	if err != nil {
		return nil, err
	}
	return roadmap.NewGenerator(client, logger), nil
}

func newPublisher() (events.Publisher, error) {
	if cfg.RabbitMQ.URL == "" {
		return events.Nop{}, nil
	}
	return events.DialAMQP(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := newGenerator(ctx)
	if err != nil {
		return err
	}
	pub, err := newPublisher()
	if err != nil {
		return err
	}
	defer pub.Close()

	logger.Info("roadmap service starting",
		zap.String("build", buildinfo.String()),
		zap.String("engine", cfg.Gemini.Engine),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("events", cfg.RabbitMQ.URL != ""),
	)
	srv := server.New(server.Config{
		Address:        cfg.Server.Address,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}, gen, pub, logger)
	return srv.Run(ctx)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := newGenerator(ctx)
	if err != nil {
		return err
	}
	res := gen.Run(ctx, profile)
	return writeResult(cmd.OutOrStdout(), res)
}

func writeResult(w io.Writer, res roadmap.Result) error {
	if !res.OK() {
		return errors.New(res.Error)
	}

	if markdown {
		_, err := fmt.Fprint(w, roadmap.Markdown(res.Roadmap))
		return err
	}

	body, err := roadmap.Export(res.Roadmap)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}
	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	logger.Info("roadmap written", zap.String("path", outPath), zap.String("suggested_name", roadmap.ExportFilename(profile.Discipline)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
