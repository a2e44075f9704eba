package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"scout-cli/internal/agent"
	"scout-cli/internal/config"
	"scout-cli/internal/events"
	"scout-cli/internal/llm"
	"scout-cli/internal/render"
	"scout-cli/internal/tools"
	"scout-cli/internal/version"
	"scout-cli/internal/workspace"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scout [question]",
		Short:         "scout - sandboxed directory exploration agent",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}

			apiKey := os.Getenv("OPENROUTER_API_KEY")
			if apiKey == "" {
				apiKey = os.Getenv("OPENAI_API_KEY")
			}
			mockMode := os.Getenv("SCOUT_MOCK_LLM") == "1"
			if apiKey == "" && !mockMode {
				return fmt.Errorf("OPENROUTER_API_KEY is required")
			}

			logger := buildLogger(cfg.Verbose)
			defer func() { _ = logger.Sync() }()

			baseDir, err := workspace.ResolveBase(cfg.Dir)
			if err != nil {
				return fmt.Errorf("invalid working directory %q: %w", cfg.Dir, err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			wsCtx := workspace.BuildContext(ctx, baseDir, cfg.ToolLimits.ContextMaxBytes)

			registry := tools.NewRegistry(
				tools.NewBashTool(),
				tools.NewReadFileTool(),
				tools.NewSearchDocsTool(),
			)
			dispatcher := tools.NewDispatcher(registry, baseDir, tools.Limits{
				Timeout:          cfg.ToolTimeout,
				ReadMaxBytes:     cfg.ToolLimits.ReadMaxBytes,
				ReadMaxLines:     cfg.ToolLimits.ReadMaxLines,
				ShellMaxBytes:    cfg.ToolLimits.ShellMaxBytes,
				ShellMaxLines:    cfg.ToolLimits.ShellMaxLines,
				SearchMaxBytes:   cfg.ToolLimits.SearchMaxBytes,
				SearchMaxLines:   cfg.ToolLimits.SearchMaxLines,
				SearchMaxResults: cfg.ToolLimits.SearchMaxResults,
			}, logger)

			var client llm.Client
			if mockMode {
				client = llm.NewMockClient()
			} else {
				client = llm.NewOpenRouterClient(apiKey, cfg.OpenRouterBaseURL, cfg.HTTPReferer, cfg.Title)
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question != "" {
				return runOneShot(ctx, client, dispatcher, logger, cfg, wsCtx, question)
			}
			return runRepl(ctx, client, dispatcher, logger, cfg, wsCtx)
		},
	}

	cmd.Flags().String("model", config.DefaultModel, "Model name")
	cmd.Flags().Int("max-steps", config.DefaultMaxSteps, "Maximum tool steps per question")
	cmd.Flags().String("dir", ".", "Working directory to explore")
	cmd.Flags().String("tool-timeout", config.DefaultToolTimeout.String(), "Per-tool timeout (e.g. 30s)")
	cmd.Flags().Bool("quiet", false, "Only print final answers")
	cmd.Flags().Bool("json", false, "Output JSON only (one-shot mode)")
	cmd.Flags().Bool("verbose", false, "Enable verbose logging")
	cmd.Flags().String("log-file", "", "Write plain-text output to a file")
	cmd.Flags().Bool("persist-runs", false, "Persist turn results under the user data directory")

	return cmd
}

func runOneShot(ctx context.Context, client llm.Client, dispatcher *tools.Dispatcher, logger *zap.Logger, cfg config.Config, wsCtx workspace.Context, question string) error {
	usage := agent.NewUsageAccumulator()

	if cfg.JSON {
		ag := agent.NewAgent(client, dispatcher, nil, nil, usage, logger, cfg, wsCtx)
		result, runErr := ag.RunTurn(ctx, question)
		if cfg.PersistRuns {
			persistTurn(logger, result)
		}
		payload, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(os.Stdout, string(payload))
		return runErr
	}

	writer, closeWriter, err := outputWriter(cfg)
	if err != nil {
		return err
	}
	defer closeWriter()

	renderer := render.NewStdoutRenderer(writer, cfg.Verbose, cfg.Quiet)
	tracker := render.NewTracker(os.Stderr, progressEnabled(cfg))
	ag := agent.NewAgent(client, dispatcher, renderer, tracker, usage, logger, cfg, wsCtx)
	result, runErr := ag.RunTurn(ctx, question)
	_ = renderer.Close()
	if cfg.PersistRuns {
		persistTurn(logger, result)
	}
	return runErr
}

func runRepl(ctx context.Context, client llm.Client, dispatcher *tools.Dispatcher, logger *zap.Logger, cfg config.Config, wsCtx workspace.Context) error {
	writer, closeWriter, err := outputWriter(cfg)
	if err != nil {
		return err
	}
	defer closeWriter()

	renderer := render.NewStdoutRenderer(writer, cfg.Verbose, cfg.Quiet)
	tracker := render.NewTracker(os.Stderr, progressEnabled(cfg))
	usage := agent.NewUsageAccumulator()
	ag := agent.NewAgent(client, dispatcher, renderer, tracker, usage, logger, cfg, wsCtx)

	renderer.Emit(events.Event{Type: events.SessionStarted, Timestamp: time.Now(), Payload: events.SessionStartedPayload{
		Version:   version.Version,
		BaseDir:   wsCtx.BaseDir,
		Model:     cfg.Model,
		SessionID: uuid.NewString(),
		StartedAt: time.Now(),
	}})

	repl := agent.NewRepl(ag, os.Stdin, writer)
	err = repl.Run(ctx)
	_ = renderer.Close()
	if err != nil && ctx.Err() != nil {
		// interrupted; the goodbye was already printed or the user bailed
		return nil
	}
	return err
}

func outputWriter(cfg config.Config) (io.Writer, func(), error) {
	writer := io.Writer(os.Stdout)
	closeWriter := func() {}
	if cfg.LogFile == "" {
		return writer, closeWriter, nil
	}
	logPath := cfg.LogFile
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Clean(logPath)
	}
	file, err := os.Create(logPath)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(os.Stdout, file), func() { _ = file.Close() }, nil
}

func progressEnabled(cfg config.Config) bool {
	if cfg.JSON || cfg.Quiet {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func buildLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func persistTurn(logger *zap.Logger, result agent.TurnResult) {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("failed to get home dir", zap.Error(err))
		return
	}
	path := filepath.Join(home, ".local", "share", "scout-cli", "runs")
	if err := os.MkdirAll(path, 0o755); err != nil {
		logger.Warn("failed to create run directory", zap.Error(err))
		return
	}
	file := filepath.Join(path, result.TurnID+".json")
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Warn("failed to marshal turn log", zap.Error(err))
		return
	}
	if err := os.WriteFile(file, payload, 0o600); err != nil {
		logger.Warn("failed to write turn log", zap.Error(err))
	}
}
