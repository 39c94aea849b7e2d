package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
)

var csvHeader = []string{"Date", "Project", "Sessions", "Minutes", "Duration", "Hours", "Notes"}

// ToCSV writes one row per project per day inside r to path.
func ToCSV(st ledger.State, r stats.Range, now time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, st, r, now)
}

func WriteCSV(out io.Writer, st ledger.State, r stats.Range, now time.Time) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	names := make(map[string]string, len(st.Projects))
	for _, p := range st.Projects {
		names[p.ID] = p.Name
	}
	for _, d := range st.Days {
		if !r.Contains(d.Date) {
			continue
		}
		mode := stats.ModeFor(d, now)
		for _, pe := range d.Projects {
			projectName := "Unknown"
			if n, ok := names[pe.ProjectID]; ok {
				projectName = n
			}
			minutes := hhmm.Sum(pe.WorkSessions, mode)
			row := []string{
				d.Date,
				projectName,
				strconv.Itoa(len(pe.WorkSessions)),
				strconv.Itoa(minutes),
				formatDuration(minutes),
				strconv.FormatFloat(hours(minutes), 'f', 2, 64),
				pe.Notes,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
