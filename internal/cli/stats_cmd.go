package cli

import (
	"context"
	"fmt"

	"coachflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Stats.Report(context.Background(), days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatsReport(report))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Window in days")

	return cmd
}
