package cli

import (
	"context"
	"log/slog"

	"github.com/sadopc/dayledger/internal/config"
	"github.com/sadopc/dayledger/internal/store"
	"github.com/sadopc/dayledger/internal/workspace"
	"github.com/spf13/cobra"
)

// App holds what every command needs.
type App struct {
	Workspace *workspace.Workspace
	Store     store.Backend
	Config    config.Config
	Logger    *slog.Logger

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// RunTUI starts the full-screen interface.
	RunTUI func(ctx context.Context) error
}

// NewRootCmd creates the top-level "dayledger" command and registers all
// subcommands against the provided App. Run without a subcommand it opens
// the TUI on a terminal and prints today's summary otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "dayledger",
		Short:         "Daily attendance, breaks and project time ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() && app.RunTUI != nil {
				return app.RunTUI(cmd.Context())
			}
			return printDay(cmd.OutOrStdout(), app, app.Workspace.Today())
		},
	}

	root.AddCommand(
		newDayCmd(app),
		newStatsCmd(app),
		newProjectCmd(app),
		newClockCmd(app),
		newBreakCmd(app),
		newWorkCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newSyncCmd(app),
		newSettingsCmd(app),
	)

	return root
}
