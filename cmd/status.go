package cmd

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/status"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var (
	statusJSON    bool
	statusWatch   bool
	statusRefresh time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show free space and local snapshots",
	Long:  "Free space on the boot volume and mounted volumes, local Time Machine snapshots with their age, memory and macOS version.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := &status.Collector{
			Root:      settings.FreeSpaceRoot,
			Snapshots: clean.NewTmutil(clean.ExecRunner{}),
		}

		if statusWatch && !statusJSON && isTerminal(os.Stdout) {
			p := tea.NewProgram(status.NewStatusModel(ctx, c.Collect, statusRefresh), tea.WithAltScreen())
			_, err := p.Run()
			return err
		}

		m, err := c.Collect(ctx)
		if err != nil {
			return err
		}
		if statusJSON {
			return ui.WriteJSON(cmd.OutOrStdout(), m)
		}
		status.RenderStatic(cmd.OutOrStdout(), m, 80)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output metrics as JSON")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Keep refreshing until q is pressed")
	statusCmd.Flags().DurationVar(&statusRefresh, "refresh", 2*time.Second, "Refresh interval for --watch")
}
