package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"coachflow/internal/cli/formatter"
	"coachflow/internal/registry"
	"github.com/spf13/cobra"
)

func newFrameworkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "framework",
		Short: "Inspect coaching frameworks",
	}

	cmd.AddCommand(
		newFrameworkListCmd(app),
		newFrameworkShowCmd(app),
		newFrameworkValidateCmd(),
	)

	return cmd
}

func newFrameworkListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available frameworks",
		RunE: func(cmd *cobra.Command, args []string) error {
			frameworks := app.Frameworks.List()

			headers := []string{"ID", "STEPS", "DESCRIPTION"}
			rows := make([][]string, 0, len(frameworks))
			for _, fw := range frameworks {
				rows = append(rows, []string{
					fw.ID,
					fmt.Sprintf("%d", len(fw.Steps)),
					formatter.Truncate(fw.Description, 60),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newFrameworkShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a framework's steps and fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fw, err := app.Frameworks.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFramework(fw))
			return nil
		},
	}
}

func newFrameworkValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a framework definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var def registry.FrameworkDefinition
			if err := json.Unmarshal(data, &def); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			problems := registry.ValidateDefinition(&def)
			if len(problems) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%s, %d steps)\n",
					args[0], def.ID, len(def.Steps))
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %v\n", formatter.StyleRed.Render("✗"), p)
			}
			return fmt.Errorf("%d problem(s) in %s", len(problems), args[0])
		},
	}
}
