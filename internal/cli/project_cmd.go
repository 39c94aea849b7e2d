package cli

import (
	"fmt"

	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/spf13/cobra"
)

// findProject resolves ref as an id first and a case-insensitive name second.
func findProject(l *ledger.Ledger, ref string) (ledger.Project, error) {
	if p, ok := l.Project(ref); ok {
		return p, nil
	}
	if p, ok := l.FindProjectByName(ref); ok {
		return p, nil
	}
	return ledger.Project{}, fmt.Errorf("%q: %w", ref, ledger.ErrProjectNotFound)
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectAddCmd(app),
		newProjectEditCmd(app),
		newProjectRenameCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var projects []ledger.Project
			app.Workspace.Read(func(l *ledger.Ledger) { projects = l.Projects() })

			w := cmd.OutOrStdout()
			if len(projects) == 0 {
				_, _ = fmt.Fprintln(w, "No projects yet.")
				return nil
			}
			tbl := newTable()
			tbl.AddRow(boldColor.Sprint("NAME"), boldColor.Sprint("START"), boldColor.Sprint("END"), boldColor.Sprint("TASKS"), boldColor.Sprint("EXTERNAL"))
			for _, p := range projects {
				ext := ""
				if p.ExternalRef != nil {
					ext = p.ExternalRef.System + "#" + p.ExternalRef.ID
				}
				tbl.AddRow(p.Name, orDash(p.StartDate), orDash(p.EndDate), len(p.Tasks), orDash(ext))
			}
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}
}

func newProjectAddCmd(app *App) *cobra.Command {
	var in ledger.ProjectInput
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			var added ledger.Project
			err := app.Workspace.Mutate(cmd.Context(), "add project", func(l *ledger.Ledger) error {
				var err error
				added, err = l.AddProject(in)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added project %s (%s).\n", added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Description, "description", "", "Project description")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "End date (YYYY-MM-DD)")
	return cmd
}

func newProjectEditCmd(app *App) *cobra.Command {
	var name, description, start, end string
	cmd := &cobra.Command{
		Use:   "edit <project>",
		Short: "Rename or edit a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch ledger.ProjectPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("start") {
				patch.StartDate = &start
			}
			if flags.Changed("end") {
				patch.EndDate = &end
			}

			var updated ledger.Project
			err := app.Workspace.Mutate(cmd.Context(), "edit project", func(l *ledger.Ledger) error {
				p, err := findProject(l, args[0])
				if err != nil {
					return err
				}
				updated, err = l.UpdateProject(p.ID, patch)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s.\n", updated.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	return cmd
}

func newProjectRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <new-name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[1]
			err := app.Workspace.Mutate(cmd.Context(), "rename project", func(l *ledger.Ledger) error {
				p, err := findProject(l, args[0])
				if err != nil {
					return err
				}
				_, err = l.UpdateProject(p.ID, ledger.ProjectPatch{Name: &name})
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s.\n", args[0], name)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"delete"},
		Short:   "Delete a project; its day entries are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			err := app.Workspace.Mutate(cmd.Context(), "delete project", func(l *ledger.Ledger) error {
				p, err := findProject(l, args[0])
				if err != nil {
					return err
				}
				name = p.Name
				return l.DeleteProject(p.ID)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s.\n", name)
			return nil
		},
	}
}
