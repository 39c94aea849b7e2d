package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	titleColor = color.New(color.Bold, color.Underline)
	boldColor  = color.New(color.Bold)
	faintColor = color.New(color.Faint)
	warnColor  = color.New(color.FgYellow)
)

func title(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, titleColor.Sprint(s))
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

// formatMinutes renders minutes as "7h 05m".
func formatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func percent(part, whole int) string {
	if whole <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", part*100/whole)
}

// bar draws a proportional bar of at most width cells.
func bar(part, whole, width int) string {
	if whole <= 0 || part <= 0 {
		return ""
	}
	n := part * width / whole
	return strings.Repeat("█", max(1, n))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
