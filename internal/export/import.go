package export

import (
	"context"
	"fmt"

	"github.com/sadopc/dayledger/internal/ledger"
)

// Gate is the mutation gate every external change goes through.
type Gate interface {
	Mutate(ctx context.Context, label string, fn func(*ledger.Ledger) error) error
	Read(fn func(*ledger.Ledger))
}

type ImportResult struct {
	Projects ledger.ProjectImportResult
	Days     ledger.DayImportResult
}

// Apply merges doc into l. Projects are reconciled first so that day
// entries can resolve the names they reference.
func Apply(l *ledger.Ledger, doc Document, applyUpdates bool) ImportResult {
	var res ImportResult
	if len(doc.Projects) > 0 {
		res.Projects = l.ImportProjects(doc.Projects, applyUpdates)
	}
	res.Days = l.ImportDayEntries(doc.Entries, l.NameIndex())
	return res
}

// PlanImport reports what importing doc would do to its projects.
func PlanImport(g Gate, doc Document) ledger.ProjectImportPlan {
	var plan ledger.ProjectImportPlan
	g.Read(func(l *ledger.Ledger) { plan = l.PlanProjectImport(doc.Projects) })
	return plan
}

// Import applies doc as one undoable step.
func Import(ctx context.Context, g Gate, doc Document, applyUpdates bool) (ImportResult, error) {
	var res ImportResult
	label := fmt.Sprintf("import %s %s", doc.ExportType, doc.Period)
	err := g.Mutate(ctx, label, func(l *ledger.Ledger) error {
		res = Apply(l, doc, applyUpdates)
		return nil
	})
	return res, err
}
