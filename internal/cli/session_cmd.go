package cli

import (
	"context"
	"fmt"
	"os"

	"coachflow/internal/cli/formatter"
	"coachflow/internal/service"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run and inspect coaching sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionTurnCmd(app),
		newSessionSkipCmd(app),
		newSessionAbortCmd(app),
		newSessionShowCmd(app),
		newSessionListCmd(app),
		newSessionChatCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	var frameworkID, userID, orgID string
	var noChat bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new coaching session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if frameworkID == "" {
				if !app.interactive() {
					return fmt.Errorf("--framework is required in non-interactive mode")
				}
				picked, err := pickFramework(app)
				if err != nil {
					return err
				}
				frameworkID = picked
			}

			out, err := app.Sessions.Start(ctx, service.StartRequest{
				OrgID:       orgID,
				UserID:      userID,
				FrameworkID: frameworkID,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started %s session %s\n",
				out.Session.FrameworkID, formatter.TruncID(out.Session.ID))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCoachReply(out.CoachReply))

			if app.interactive() && !noChat {
				return runChat(app, out.Session.ID, out.Session.FrameworkID, out.Session.CurrentStep)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&frameworkID, "framework", "", "Framework ID (GROW, COMPASS, CAREER, ...)")
	cmd.Flags().StringVar(&userID, "user", defaultUser(), "User the session belongs to")
	cmd.Flags().StringVar(&orgID, "org", "", "Organization scope")
	cmd.Flags().BoolVar(&noChat, "no-chat", false, "Do not open the interactive chat after starting")

	return cmd
}

func newSessionTurnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn ID TEXT",
		Short: "Send one conversational turn to a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "thinking")
			}
			out, err := app.Sessions.Turn(context.Background(), args[0], args[1])
			stop()
			if err != nil {
				return err
			}
			printTurnOutcome(cmd, out)
			return nil
		},
	}
	return cmd
}

func newSessionSkipCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "skip ID",
		Short: "Skip the current question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Sessions.Skip(context.Background(), args[0])
			if err != nil {
				return err
			}
			printTurnOutcome(cmd, out)
			return nil
		},
	}
}

func newSessionAbortCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "abort ID",
		Short: "Close a session without finishing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Abort(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s closed\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a session's state and reflection history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Sessions.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionDetail(
				detail.Session, detail.Captured, detail.Missing, detail.Reflections))
			return nil
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	var userID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.List(context.Background(), userID, limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}

			headers := []string{"ID", "FRAMEWORK", "STEP", "STATUS", "STARTED"}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, formatter.FormatSessionLine(s))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", defaultUser(), "User to list sessions for")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show")

	return cmd
}

func newSessionChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat ID",
		Short: "Resume a session in the interactive chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("chat requires an interactive terminal")
			}
			detail, err := app.Sessions.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			if detail.Session.IsClosed() {
				return fmt.Errorf("session %s is closed", formatter.TruncID(args[0]))
			}
			return runChat(app, detail.Session.ID, detail.Session.FrameworkID, detail.Session.CurrentStep)
		},
	}
}

func printTurnOutcome(cmd *cobra.Command, out *service.TurnOutcome) {
	w := cmd.OutOrStdout()
	if out.CompletedStep != "" {
		fmt.Fprintln(w, formatter.StyleGreen.Render(fmt.Sprintf("✓ completed %q", out.CompletedStep)))
	}
	if out.SessionClosed {
		fmt.Fprintln(w, formatter.Bold("Session closed."))
	} else if out.StepAdvanced {
		fmt.Fprintf(w, "%s %s\n", formatter.Bold("Now on step:"), out.CurrentStep)
	}
	fmt.Fprintln(w, formatter.FormatCoachReply(out.CoachReply))
}

// defaultUser falls back to the OS user when --user is not given.
func defaultUser() string {
	if u := os.Getenv("COACHFLOW_USER"); u != "" {
		return u
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
