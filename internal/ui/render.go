package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/courtsched/internal/recurrence"
	"github.com/javiermolinar/courtsched/internal/slotgrid"
	"github.com/javiermolinar/courtsched/internal/training"
)

const (
	timeColWidth   = 6
	minDayColWidth = 8
	maxDayColWidth = 24
)

// GridView holds what RenderGrid needs besides the grid itself.
type GridView struct {
	Width   int // total width available, borders included
	Profile termenv.Profile
}

// RenderGrid draws a slot grid as a table with one column per day.
// The first row of a training shows its team, the next shows its interval,
// and the rest are marked as continuation.
func RenderGrid(g *slotgrid.Grid, v GridView) string {
	if g == nil || g.NumDays() == 0 {
		return ""
	}

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(v.Profile)

	colWidth := dayColumnWidth(v.Width, g.NumDays())

	headers := make([]string, 0, g.NumDays()+1)
	headers = append(headers, "Time")
	for _, d := range g.Days() {
		headers = append(headers, d.Format("Mon 01-02"))
	}

	rows := make([][]string, 0, g.NumRows())
	styles := make([][]lipgloss.Style, 0, g.NumRows())
	base := r.NewStyle().Padding(0, 1)

	for i, minutes := range g.Rows() {
		row := make([]string, 0, g.NumDays()+1)
		rowStyles := make([]lipgloss.Style, 0, g.NumDays()+1)

		row = append(row, training.FormatTime(minutes))
		rowStyles = append(rowStyles, base.Faint(true).Width(timeColWidth+2))

		for day := 0; day < g.NumDays(); day++ {
			cell := g.Cell(i, day)
			label := cellLabel(g, cell, i, day)
			row = append(row, ansi.Truncate(label, colWidth, "…"))
			rowStyles = append(rowStyles, cellStyle(base, cell).Width(colWidth+2))
		}

		rows = append(rows, row)
		styles = append(styles, rowStyles)
	}

	header := base.Bold(true)
	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(r.NewStyle().Faint(true)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(styles) || col < 0 || col >= len(styles[row]) {
				return base
			}
			return styles[row][col]
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	for _, a := range g.Anomalies() {
		fmt.Fprintf(&b, "! %s #%s on %s: %s\n", a.Kind, a.TrainingID, a.Date.Format("2006-01-02"), a.Detail)
	}
	return b.String()
}

// dayColumnWidth splits the width left after the time column and borders.
func dayColumnWidth(width, days int) int {
	if width <= 0 {
		width = 80
	}
	// one border per column plus the outer one, and one space of padding each side
	avail := width - (timeColWidth + 2) - (days + 2) - 2*days
	w := avail / days
	switch {
	case w < minDayColWidth:
		return minDayColWidth
	case w > maxDayColWidth:
		return maxDayColWidth
	}
	return w
}

func cellLabel(g *slotgrid.Grid, cell slotgrid.Cell, row, day int) string {
	t := cell.Training
	switch cell.Kind {
	case slotgrid.Occupied:
		name := t.TeamName
		if name == "" {
			name = t.TeamID
		}
		return name
	case slotgrid.Continuation:
		if row > 0 && g.Cell(row-1, day).Kind == slotgrid.Occupied {
			return t.Interval()
		}
		return "┆"
	}
	return ""
}

func cellStyle(base lipgloss.Style, cell slotgrid.Cell) lipgloss.Style {
	if cell.Kind == slotgrid.Empty || cell.Training == nil {
		return base
	}
	s := base
	if cell.Kind == slotgrid.Occupied {
		s = s.Bold(true)
	}
	if cell.Training.Color != "" {
		s = s.Background(lipgloss.Color(cell.Training.Color)).Foreground(lipgloss.Color("#000000"))
	}
	return s
}

// PrintReport writes one line per week followed by the summary.
func PrintReport(w io.Writer, rep *recurrence.Report) {
	if rep == nil {
		return
	}
	for _, res := range rep.Results {
		date := res.Date.Format("2006-01-02 Mon")
		switch res.Outcome {
		case recurrence.Added:
			fmt.Fprintf(w, "  week %2d  %s  %s %s\n", res.Week, date, formatOK("added"), formatMuted("#"+res.TrainingID))
		case recurrence.SkippedClosed, recurrence.SkippedConflict:
			fmt.Fprintf(w, "  week %2d  %s  %s %s\n", res.Week, date, formatSkipped("skipped"), res.Reason)
		case recurrence.Failed:
			fmt.Fprintf(w, "  week %2d  %s  %s %v\n", res.Week, date, formatFailed("failed"), res.Err)
		}
	}
	fmt.Fprintln(w, formatHeader(rep.Summary()))
}
