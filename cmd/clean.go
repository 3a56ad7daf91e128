package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/analyze"
	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
	"github.com/lakshaymaurya-felt/macmole/pkg/whitelist"
)

var (
	jsonOut      bool
	onlySections []string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Measure every reclaimable location, ask once, then clean each section in
order: caches, logs, browsers, xcode, packages, docker, backups, snapshots,
temp, mail, trash. Backups, archives, snapshots and Docker ask again before
anything is removed.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	addCleanFlags(cleanCmd)
}

func addCleanFlags(c *cobra.Command) {
	c.Flags().BoolP("yes", "y", false, "Answer yes to every prompt")
	c.Flags().Bool("dry-run", false, "Measure and report without deleting")
	c.Flags().BoolVar(&jsonOut, "json", false, "Write the run report as JSON")
	c.Flags().StringSliceVar(&onlySections, "only", nil, "Run only these sections (comma separated)")
	c.Flags().StringSlice("skip", nil, "Skip these sections (comma separated)")

	for _, name := range []string{"only", "skip"} {
		_ = c.RegisterFlagCompletionFunc(name, completeSections)
	}
}

func completeSections(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return config.SectionNames(), cobra.ShellCompDirectiveNoFileComp
}

func runClean(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s := settings

	// Progress and prompts move to stderr so --json output stays parseable.
	out := cmd.OutOrStdout()
	human := out
	if jsonOut {
		human = cmd.ErrOrStderr()
	}

	sections := clean.Prepare(config.GetSections(""), clean.Discovery{
		TempMaxAge:    s.DeepScanMaxAge,
		TempThreshold: s.DeepScanMinTotal,
		VolumesDir:    "/Volumes",
		UID:           os.Getuid(),
	})
	sections, err := clean.Filter(sections, onlySections, s.SkipSections)
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(human, debug)
	printer.Banner("macmole " + appVersion)

	report, err := analyze.BuildPreflightReport(ctx, sections, s.DisplayThreshold, s.PreflightWorkers)
	if err != nil {
		return err
	}
	analyze.PrintPreflight(human, report)

	confirmer := newConfirmer(s.AssumeYes, cmd.InOrStdin(), human)
	if !s.DryRun && !confirmer.Confirm("Proceed with cleanup?") {
		printer.Infof("No changes made.")
		return nil
	}
	if !s.AssumeYes && !isTerminal(os.Stdin) {
		slog.Debug("stdin is not a terminal, prompts will decline")
	}

	wl := whitelist.New(s.Whitelist)
	if patterns := wl.Patterns(); len(patterns) > 0 {
		slog.Debug("whitelist loaded", "patterns", patterns)
	}

	proc := clean.NewProcessor(clean.Options{
		DryRun:    s.DryRun,
		Whitelist: wl,
		Confirmer: confirmer,
		FreeSpace: func(ctx context.Context) (uint64, error) {
			return core.FreeSpace(ctx, s.FreeSpaceRoot)
		},
		Logger: slog.Default(),
	})

	run, err := proc.Run(ctx, sections, printer)
	if err != nil {
		return err
	}

	if jsonOut {
		return ui.WriteJSON(out, run)
	}
	// Zero hides the "free space now" line.
	free, _ := core.FreeSpace(ctx, s.FreeSpaceRoot)
	printer.Summary(run, free)
	return nil
}

func newConfirmer(assumeYes bool, in io.Reader, out io.Writer) clean.Confirmer {
	if assumeYes {
		return ui.AutoConfirmer{}
	}
	return ui.NewStdinConfirmer(in, out)
}
