package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/dayledger/internal/export"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var date, month, format, out string
	cmd := &cobra.Command{
		Use:       "export [day|month|full]",
		Short:     "Export the ledger as JSON or CSV",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "month", "full"},
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := export.TypeFull
			if len(args) == 1 {
				typ = export.ExportType(args[0])
			}
			now := app.Workspace.Now()
			if date == "" {
				date = app.Workspace.Today()
			}
			if month == "" {
				month = now.Format("2006-01")
			}

			st := app.Workspace.State()
			var (
				doc export.Document
				rng stats.Range
				err error
			)
			switch typ {
			case export.TypeDay:
				doc, err = export.ExportDay(st, date, now)
				rng = stats.Range{From: date, To: date}
			case export.TypeMonth:
				doc, err = export.ExportMonth(st, month, now)
				if err == nil {
					rng, err = stats.MonthRange(month)
				}
			case export.TypeFull:
				doc = export.ExportAll(st, now)
			default:
				return fmt.Errorf("unknown export type %q (want day, month or full)", typ)
			}
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				err = export.Encode(w, doc)
			case "csv":
				err = export.WriteCSV(w, st, rng, now)
			default:
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}
			if err != nil {
				return err
			}
			if out != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d days to %s.\n", len(doc.Entries), out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to export (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&month, "month", "", "Month to export (YYYY-MM, default this month)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var applyUpdates, dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an exported JSON document into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := export.ReadJSON(args[0])
			if err != nil {
				if errors.Is(err, export.ErrMalformedDocument) {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return err
			}

			w := cmd.OutOrStdout()
			if dryRun {
				plan := export.PlanImport(app.Workspace, doc)
				tbl := newTable()
				for _, item := range plan.Items {
					action := "create"
					if item.MatchID != "" {
						action = "match by " + item.Rule
					}
					tbl.AddRow(item.Record.Name, action)
				}
				_, _ = fmt.Fprintln(w, tbl)
				_, _ = fmt.Fprintf(w, "%d to create, %d to update, %d skipped; %d day entries.\n",
					plan.Creates, plan.Updates, plan.Skipped, len(doc.Entries))
				return nil
			}

			res, err := export.Import(cmd.Context(), app.Workspace, doc, applyUpdates)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "Projects: %d created, %d updated, %d skipped.\n",
				res.Projects.Created, res.Projects.Updated, res.Projects.Skipped)
			_, _ = fmt.Fprintf(w, "Days: %d created, %d updated, %d skipped.\n",
				res.Days.Created, res.Days.Updated, res.Days.Skipped)
			if res.Days.Dropped > 0 {
				_, _ = fmt.Fprintln(w, warnColor.Sprintf("warning: %d project entries referenced unknown projects and were dropped", res.Days.Dropped))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&applyUpdates, "apply-updates", false, "Overwrite matching projects")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without importing")
	return cmd
}
