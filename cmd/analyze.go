package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/analyze"
	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/envutil"
)

var (
	analyzeStatic  bool
	analyzeMinSize string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Explore reclaimable space",
	Long: `Measure every location clean would touch and list the large ones, without
deleting anything. With a path, list that directory's children by size instead.
Interactive on a terminal; use --static for plain output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeStatic, "static", false, "Print a plain table instead of the interactive view")
	analyzeCmd.Flags().StringVar(&analyzeMinSize, "min-size", "", "Minimum size to display (e.g., 100MB)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	threshold := settings.DisplayThreshold
	if analyzeMinSize != "" {
		n, err := core.ParseSize(analyzeMinSize)
		if err != nil {
			return err
		}
		threshold = n
	}

	var root string
	if len(args) == 1 {
		root = envutil.ExpandPath(args[0])
	}

	build := func(ctx context.Context) (*analyze.Report, error) {
		sections := clean.Prepare(config.GetSections(""), clean.Discovery{
			TempMaxAge:    settings.DeepScanMaxAge,
			TempThreshold: settings.DeepScanMinTotal,
			VolumesDir:    "/Volumes",
			UID:           os.Getuid(),
		})
		return analyze.BuildPreflightReport(ctx, sections, threshold, settings.PreflightWorkers)
	}

	if analyzeStatic || !isTerminal(os.Stdout) {
		if root != "" {
			entry, err := analyze.NewScanner(settings.PreflightWorkers).Scan(root, nil)
			if err != nil {
				return err
			}
			analyze.PrintStaticTree(out, entry, threshold)
			return nil
		}
		r, err := build(ctx)
		if err != nil {
			return err
		}
		analyze.PrintPreflight(out, r)
		return nil
	}

	p := tea.NewProgram(analyze.NewAnalyzeModel(ctx, build, root), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
