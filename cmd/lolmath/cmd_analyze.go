package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lolmath/internal/articulation"
	"lolmath/internal/perception"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeRole     string
	analyzeMarkdown bool
	analyzeOutFile  string
)

// analyzeCmd runs one matchup analysis
var analyzeCmd = &cobra.Command{
	Use:   "analyze [champion] [opponent]",
	Short: "Analyze a lane matchup",
	Long: `Asks Gemini (with Google Search grounding) for the optimal runes, build,
skill order and power curve for your champion against an opponent.

Example:
  lolmath analyze Darius Aatrox --role top`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRole, "role", "r", "top", "Role: top, jungle, mid, bot, support")
	analyzeCmd.Flags().BoolVar(&analyzeMarkdown, "markdown", false, "Print raw Markdown instead of styled output")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "output", "o", "", "Also write the Markdown report to a file")
}

// signalContext returns a context cancelled by SIGINT/SIGTERM or timeout.
// withTimeout applies the global --timeout; zero disables it.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := withTimeout(context.Background())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	m := perception.Matchup{Champion: args[0], Opponent: args[1], Role: perception.Role(analyzeRole)}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gen, err := perception.NewGeminiGenerator(ctx, cfg.GeminiOptions())
	if err != nil {
		return err
	}
	return analyzeWith(ctx, cmd, perception.NewAdvisor(gen), m)
}

// analyzeWith runs the advisor and prints the result. Icons are resolved
// when the catalog loads; a catalog failure only costs the icons.
func analyzeWith(ctx context.Context, cmd *cobra.Command, adv *perception.Advisor, m perception.Matchup) error {
	out := cmd.OutOrStdout()

	var assets articulation.AssetResolver = articulation.NoAssets{}
	cat, cleanup, err := loadCatalog(ctx)
	defer cleanup()
	if err != nil {
		logger.Warn("catalog unavailable, rendering without icons", zap.Error(err))
	} else {
		assets = cat
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %s...\n", m)
	a, err := adv.Analyze(ctx, m)
	if err != nil && !errors.Is(err, perception.ErrNoAnalysis) {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(a); encErr != nil {
			return encErr
		}
		return err
	}

	renderer := articulation.NewRenderer(assets)
	md := renderer.Markdown(ctx, a)
	if analyzeOutFile != "" {
		if werr := os.WriteFile(analyzeOutFile, []byte(md), 0644); werr != nil {
			return fmt.Errorf("failed to write report: %w", werr)
		}
	}

	if analyzeMarkdown {
		fmt.Fprint(out, md)
		return err
	}

	fmt.Fprintln(out, articulation.Header(a))
	styled, rerr := renderer.Terminal(ctx, a)
	if rerr != nil {
		logger.Warn("styled rendering failed, falling back to markdown", zap.Error(rerr))
		styled = md
	}
	fmt.Fprint(out, styled)
	return err
}
