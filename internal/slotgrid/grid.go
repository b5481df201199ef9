// Package slotgrid lays out a court's trainings on a time-by-day grid.
//
// A Grid is a plain value: Build computes which training occupies which cell
// and nothing else. Drawing it is left to a renderer.
package slotgrid

import (
	"time"

	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/training"
)

// DefaultSlotWidth is the row height in minutes when none is configured.
const DefaultSlotWidth = 30

// CellKind is the state of one (row, day) cell.
type CellKind int

const (
	Empty CellKind = iota
	Occupied
	Continuation
)

func (k CellKind) String() string {
	switch k {
	case Occupied:
		return "occupied"
	case Continuation:
		return "continuation"
	default:
		return "empty"
	}
}

// Cell is one slot of one day.
// Occupied cells carry the training and its row span. Continuation cells
// point back at the training that covers them; RowSpan is zero there.
type Cell struct {
	Kind     CellKind
	Training *training.Training
	RowSpan  int
}

// Position addresses a cell by row and day index.
type Position struct {
	Row int
	Day int
}

// TimeSlot is one row of one day column.
type TimeSlot struct {
	CourtID      string
	Date         time.Time
	StartMinutes int
	EndMinutes   int
	Training     *training.Training // nil when free
}

// Free reports whether no training covers the slot.
func (s TimeSlot) Free() bool {
	return s.Training == nil
}

// Grid is an immutable layout of trainings.
type Grid struct {
	courtID   string
	window    training.Window
	slotWidth int
	rows      []int
	days      []time.Time
	cells     [][]Cell // [row][day]
	anomalies []Anomaly
}

// CourtID returns the court the grid was built for.
func (g *Grid) CourtID() string { return g.courtID }

// Window returns the effective time window covered by the rows.
func (g *Grid) Window() training.Window { return g.window }

// SlotWidth returns the row height in minutes.
func (g *Grid) SlotWidth() int { return g.slotWidth }

// Rows returns the start minute of every row in ascending order.
func (g *Grid) Rows() []int {
	return append([]int(nil), g.rows...)
}

// Days returns the grid's day columns in the order they were requested.
func (g *Grid) Days() []time.Time {
	return append([]time.Time(nil), g.days...)
}

// NumRows returns the number of rows.
func (g *Grid) NumRows() int { return len(g.rows) }

// NumDays returns the number of day columns.
func (g *Grid) NumDays() int { return len(g.days) }

// Cell returns the cell at (row, day). Out of range positions are Empty.
func (g *Grid) Cell(row, day int) Cell {
	if row < 0 || row >= len(g.rows) || day < 0 || day >= len(g.days) {
		return Cell{}
	}
	return g.cells[row][day]
}

// CellAt returns the cell covering a minute on a date, and false when the
// minute or the date falls outside the grid.
func (g *Grid) CellAt(minutes int, date time.Time) (Cell, bool) {
	row := g.rowOf(minutes)
	day := g.dayIndex(date)
	if row < 0 || day < 0 {
		return Cell{}, false
	}
	return g.cells[row][day], true
}

// TrainingSlots returns every cell claimed by the training with the given ID,
// anchor first.
func (g *Grid) TrainingSlots(id string) []Position {
	var out []Position
	for d := range g.days {
		for r := range g.rows {
			c := g.cells[r][d]
			if c.Kind != Empty && c.Training != nil && c.Training.ID == id {
				out = append(out, Position{Row: r, Day: d})
			}
		}
	}
	return out
}

// Slots returns the time slots of one day column.
func (g *Grid) Slots(day int) []TimeSlot {
	if day < 0 || day >= len(g.days) {
		return nil
	}
	out := make([]TimeSlot, len(g.rows))
	for r, start := range g.rows {
		out[r] = TimeSlot{
			CourtID:      g.courtID,
			Date:         g.days[day],
			StartMinutes: start,
			EndMinutes:   start + g.slotWidth,
			Training:     g.cells[r][day].Training,
		}
	}
	return out
}

// Anomalies returns the data problems found while building the grid.
func (g *Grid) Anomalies() []Anomaly {
	return append([]Anomaly(nil), g.anomalies...)
}

// Counts returns how many cells of each kind the grid holds.
func (g *Grid) Counts() map[CellKind]int {
	counts := map[CellKind]int{}
	for _, row := range g.cells {
		for _, c := range row {
			counts[c.Kind]++
		}
	}
	return counts
}

func (g *Grid) rowOf(minutes int) int {
	if len(g.rows) == 0 || minutes < g.rows[0] {
		return -1
	}
	r := (minutes - g.rows[0]) / g.slotWidth
	if r >= len(g.rows) {
		return -1
	}
	return r
}

func (g *Grid) dayIndex(date time.Time) int {
	for i, d := range g.days {
		if dateutil.SameDay(d, date) {
			return i
		}
	}
	return -1
}
