package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsift/internal/collection"
	"github.com/jackzampolin/docsift/internal/config"
	"github.com/jackzampolin/docsift/internal/home"
	"github.com/jackzampolin/docsift/internal/ingest"
	"github.com/jackzampolin/docsift/internal/output"
	"github.com/jackzampolin/docsift/internal/providers"
	"github.com/jackzampolin/docsift/internal/runner"
	"github.com/jackzampolin/docsift/internal/svcctx"
	"github.com/jackzampolin/docsift/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string

	// levelVar lets config reloads change the log level of a running watch.
	levelVar = new(slog.LevelVar)
)

// skipServices marks commands that run without loading configuration.
const skipServices = "skip-services"

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Document outline extraction and persona-driven section ranking",
	Long: `Docsift reads PDFs and recovers their structure: a title and an H1-H3
outline per document, derived from font sizes and boldness.

For collections of documents it ranks every section against a persona and
a job to be done, and refines the most relevant sections into a few
representative sentences.

Similarity uses an OpenAI-compatible embeddings endpoint when one is
configured and falls back to keyword overlap otherwise.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipServices] == "true" {
			return nil
		}
		svc, err := buildServices()
		if err != nil {
			return err
		}
		cmd.SetContext(svcctx.WithServices(cmd.Context(), svc))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docsift home directory (default: ~/.docsift)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)

	rootCmd.AddCommand(versionCmd)
}

// buildServices loads configuration and wires the shared services.
func buildServices() (*svcctx.Services, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	if err := applyLogLevel(cfg); err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
	slog.SetDefault(logger)
	if f := mgr.ConfigFile(); f != "" {
		logger.Debug("loaded config", "path", f)
	}

	return &svcctx.Services{
		Config:   mgr,
		Logger:   logger,
		Home:     h,
		Embedder: newEmbedder(cfg),
		Loader:   ingest.NewLoader(logger),
	}, nil
}

// applyLogLevel sets the level from --log-level, or from config when the
// flag is empty.
func applyLogLevel(cfg *config.Config) error {
	name := cfg.LogLevel
	if logLevel != "" {
		name = logLevel
	}
	level, err := config.ParseLogLevel(name)
	if err != nil {
		return err
	}
	levelVar.Set(level)
	return nil
}

// newEmbedder returns the configured embedding provider, or nil when vector
// similarity is disabled.
func newEmbedder(cfg *config.Config) providers.Embedder {
	if !cfg.Embedding.Enabled {
		return nil
	}
	switch cfg.Embedding.Type {
	case config.EmbeddingMock:
		return providers.NewMockEmbedder()
	default:
		return providers.NewOpenAIEmbedder(cfg.ToEmbedderConfig())
	}
}

// newRunner builds a batch runner from the services and a config snapshot.
func newRunner(svc *svcctx.Services, cfg *config.Config) *runner.Runner {
	analyzer := collection.NewAnalyzer(collection.Config{
		Loader:        svc.Loader,
		Thresholds:    cfg.Thresholds,
		Scoring:       cfg.Scoring,
		Workers:       cfg.WorkerCount(),
		Embedder:      svc.Embedder,
		ReadyAttempts: uint(cfg.Embedding.ReadyAttempts),
		ReadyDelay:    secondsToDuration(cfg.Embedding.ReadyDelaySeconds),
		Logger:        svc.Logger,
	})
	return runner.New(runner.Config{
		Loader:     svc.Loader,
		Thresholds: cfg.Thresholds,
		Workers:    cfg.WorkerCount(),
		Analyzer:   analyzer,
		Logger:     svc.Logger,
	})
}

// servicesFor returns the services PersistentPreRunE attached.
func servicesFor(cmd *cobra.Command) (*svcctx.Services, error) {
	svc := svcctx.ServicesFrom(cmd.Context())
	if svc == nil {
		return nil, fmt.Errorf("services not initialized")
	}
	return svc, nil
}

// printResult writes v to stdout in the --output format.
func printResult(v any) error {
	return output.WriteTo(os.Stdout, output.ParseFormat(outputFormat), v)
}
