package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"lolmath/internal/analysis"
	"lolmath/internal/articulation"
	"lolmath/internal/perception"

	"github.com/spf13/cobra"
)

var extractMetadata string

// extractCmd resolves a saved model answer offline
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract an analysis from a saved model answer",
	Long: `Reads a model answer from a file (or stdin when the file is "-" or
omitted) and reduces it to a validated record. Grounding metadata in the
Gemini JSON format may be supplied with --metadata to recover citations.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractMetadata, "metadata", "m", "", "Grounding metadata JSON file")
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func runExtract(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}

	var meta []byte
	if extractMetadata != "" {
		meta, err = os.ReadFile(extractMetadata)
		if err != nil {
			return fmt.Errorf("failed to read metadata: %w", err)
		}
	}

	rec, citations := analysis.ResolveJSON(string(raw), meta)
	if jsonOutput {
		if err := printJSON(cmd, map[string]any{"record": rec, "citations": citations}); err != nil {
			return err
		}
	} else {
		a := &perception.Analysis{Record: rec, Citations: citations}
		fmt.Fprint(cmd.OutOrStdout(), articulation.NewRenderer(nil).Markdown(context.Background(), a))
	}

	if rec == nil {
		if _, err := analysis.Extract(string(raw)); err != nil {
			return fmt.Errorf("%w: %w", perception.ErrNoAnalysis, err)
		}
		return perception.ErrNoAnalysis
	}
	return nil
}
