package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/provoke/internal/config"
	"github.com/zero-day-ai/provoke/internal/findingstore"
	"github.com/zero-day-ai/provoke/internal/llm"
	"github.com/zero-day-ai/provoke/internal/orchestrator"
	"github.com/zero-day-ai/provoke/internal/report"
	"github.com/zero-day-ai/provoke/internal/types"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute a red-teaming run against the configured target model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRedTeaming(cmd.Context())
		},
	}
}

func runRedTeaming(ctx context.Context) error {
	cfg, err := config.NewLoader(config.NewValidator()).LoadWithDefaults(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Output.LogLevel)
	slog.SetDefault(logger)

	printBanner(cfg)

	attackerClient, err := llm.NewClient(llm.ClientConfig{
		BaseURL:     cfg.Ollama.BaseURL,
		Model:       cfg.Ollama.AttackerModel,
		Temperature: cfg.Ollama.Temperature,
		Timeout:     cfg.Ollama.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect attacker model: %w", err)
	}
	targetClient, err := llm.NewClient(llm.ClientConfig{
		BaseURL:     cfg.Ollama.BaseURL,
		Model:       cfg.Ollama.TargetModel,
		Temperature: cfg.Ollama.Temperature,
		Timeout:     cfg.Ollama.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect target model: %w", err)
	}

	runner := orchestrator.NewRunner(
		llm.NewAttacker(attackerClient),
		llm.NewTarget(targetClient),
		llm.NewJudge(attackerClient),
		orchestrator.WithLogger(logger),
		orchestrator.WithCompletionGoal(cfg.Redteam.MaxFindings),
		orchestrator.WithTurnCeiling(cfg.Redteam.MaxTurns),
		orchestrator.WithStepLimit(cfg.Ollama.StepLimit),
		orchestrator.WithCategories(cfg.Redteam.CategoryList()),
	)

	fmt.Println("🚀 Starting red-teaming workflow...")
	fmt.Println("This may take several minutes to complete.")
	fmt.Println()

	result := runner.Run(ctx)
	state := runner.State()

	writer := report.NewWriter(cfg.Output.Dir,
		report.WithLogger(logger),
		report.WithFormat(report.ParseFormat(cfg.Output.Format)),
		report.WithFailedAttempts(cfg.Output.SaveFailedAttempts),
	)
	runDir, err := writer.Write(&report.Report{
		Summary: report.Summary{
			TotalVulnerabilitiesFound: len(result.Findings),
			TotalConversations:        result.TotalConversations,
			CompletionTime:            result.FinishedAt,
			TargetModel:               cfg.Ollama.TargetModel,
			AttackerModel:             cfg.Ollama.AttackerModel,
		},
		Findings:            state.Findings,
		FailedAttempts:      state.FailedAttempts,
		CurrentConversation: state.CurrentConversation,
		State:               state,
	})
	if err != nil {
		logger.Error("failed to write report", "error", err)
	}

	if cfg.Output.Database != "" && len(result.Findings) > 0 {
		if err := persistFindings(ctx, cfg.Output.Database, result); err != nil {
			logger.Error("failed to persist findings", "error", err)
		}
	}

	printResult(result, runDir)

	if result.Err != nil {
		if errors.Is(result.Err, types.ErrStepLimitExceeded) {
			return fmt.Errorf("run aborted: %w", result.Err)
		}
		return result.Err
	}
	return nil
}

func persistFindings(ctx context.Context, path string, result *orchestrator.RunResult) error {
	store, err := findingstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveAll(ctx, result.Findings)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if verbose {
		lvl = slog.LevelDebug
	} else {
		switch strings.ToLower(level) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printBanner(cfg *config.Config) {
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println("RED-TEAMING RUN CONFIGURATION")
	fmt.Println(rule)
	fmt.Printf("Target Model:      %s\n", cfg.Ollama.TargetModel)
	fmt.Printf("Attacker Model:    %s\n", cfg.Ollama.AttackerModel)
	fmt.Printf("Ollama URL:        %s\n", cfg.Ollama.BaseURL)
	fmt.Printf("Completion Goal:   %d findings\n", cfg.Redteam.MaxFindings)
	fmt.Printf("Turn Ceiling:      %d\n", cfg.Redteam.MaxTurns)
	fmt.Printf("Output Directory:  %s\n", cfg.Output.Dir)
	fmt.Println(rule)
	fmt.Println()
}

func printResult(result *orchestrator.RunResult, runDir string) {
	rule := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println("RED-TEAMING RESULTS")
	fmt.Println(rule)

	if result.Success {
		color.Green("✅ Red-teaming completed successfully!")
	} else {
		color.Red("❌ Red-teaming failed: %s", result.Error())
	}
	fmt.Printf("📊 Vulnerabilities found: %d\n", len(result.Findings))
	fmt.Printf("💬 Total conversations:   %d\n", result.TotalConversations)

	if len(result.Findings) > 0 {
		fmt.Println()
		fmt.Println("🔍 Discovered Vulnerabilities:")
		for i, f := range result.Findings {
			fmt.Printf("\n%d. %s\n", i+1, f.Title)
			fmt.Printf("   Category: %s\n", f.Category)
			fmt.Printf("   Severity: %s\n", strings.ToUpper(f.Severity.String()))
			desc := f.Description
			if len(desc) > 150 {
				desc = desc[:150] + "..."
			}
			fmt.Printf("   Description: %s\n", desc)
		}
	}

	if runDir != "" {
		fmt.Printf("\n📁 Results saved to: %s\n", runDir)
	}
	fmt.Println(rule)
}
