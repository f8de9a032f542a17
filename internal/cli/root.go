package cli

import (
	"coachflow/internal/registry"
	"coachflow/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sessions   service.SessionService
	Stats      service.StatsService
	Frameworks *registry.Registry

	// IsInteractive reports whether stdin is a terminal; pickers and the
	// chat view are only offered interactively.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "coachflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "coachflow",
		Short: "Structured AI coaching sessions in the terminal",
	}

	root.AddCommand(
		newSessionCmd(app),
		newFrameworkCmd(app),
		newStatsCmd(app),
	)

	return root
}
