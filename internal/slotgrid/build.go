package slotgrid

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/courtsched/internal/availability"
	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/training"
)

// AnomalyKind classifies a data problem met while building a grid.
type AnomalyKind int

const (
	// AnomalyMalformed is a training with end <= start. It is drawn as one row.
	AnomalyMalformed AnomalyKind = iota
	// AnomalyOutOfRange is a training starting outside the day. It is skipped.
	AnomalyOutOfRange
	// AnomalyCollision is a training whose cells are already claimed.
	AnomalyCollision
	// AnomalyClipped is a training running past the last row or past midnight.
	AnomalyClipped
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyMalformed:
		return "malformed"
	case AnomalyOutOfRange:
		return "out_of_range"
	case AnomalyCollision:
		return "collision"
	case AnomalyClipped:
		return "clipped"
	default:
		return fmt.Sprintf("AnomalyKind(%d)", int(k))
	}
}

// Anomaly records a training that could not be laid out as stored.
type Anomaly struct {
	Kind       AnomalyKind
	TrainingID string
	Date       time.Time
	Detail     string
}

// Options configures Build.
type Options struct {
	// SlotWidth is the row height in minutes. Defaults to DefaultSlotWidth.
	SlotWidth int
	// DefaultWindow is used when no requested day is open.
	// Defaults to training.DefaultWindow.
	DefaultWindow training.Window
	// Logger receives one warning per anomaly. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.SlotWidth <= 0 {
		o.SlotWidth = DefaultSlotWidth
	}
	o.SlotWidth = min(o.SlotWidth, training.MinutesPerDay)
	if o.DefaultWindow.Len() == 0 {
		o.DefaultWindow = training.DefaultWindow
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Build lays out the court's trainings for the given days.
//
// The window is the court's widest operating window over the days' weekdays,
// widened to fit every qualifying training up to midnight, with its start
// rounded down to a multiple of the slot width. A training qualifies when its
// court matches and its date is one of days. Each one is anchored on the row
// holding its start and covers ceil(duration/width) rows. Bad records are
// recorded as anomalies and never abort the build.
func Build(court *training.Court, trainings []*training.Training, days []time.Time, opts Options) *Grid {
	opts = opts.withDefaults()
	w := opts.SlotWidth

	g := &Grid{slotWidth: w}
	if court != nil {
		g.courtID = court.ID
	}
	g.days = uniqueDays(days)

	weekdays := make([]training.Weekday, len(g.days))
	for i, d := range g.days {
		weekdays[i] = training.WeekdayOf(d)
	}

	var placed []*training.Training
	for _, t := range trainings {
		if t == nil || court == nil || t.CourtID != court.ID || g.dayIndex(t.Date) < 0 {
			continue
		}
		if t.StartMinutes < 0 || t.StartMinutes >= training.MinutesPerDay {
			g.record(opts.Logger, AnomalyOutOfRange, t, fmt.Sprintf("start %d outside the day", t.StartMinutes))
			continue
		}
		placed = append(placed, t)
	}

	window := availability.GlobalWindow(court, weekdays, opts.DefaultWindow)
	for _, t := range placed {
		window.Start = min(window.Start, t.StartMinutes)
		window.End = max(window.End, min(t.EndMinutes, training.MinutesPerDay), t.StartMinutes+1)
	}
	window.Start -= window.Start % w
	rows := window.Len() / w
	if window.Len()%w != 0 {
		rows++
	}
	window.End = window.Start + rows*w
	g.window = window

	g.rows = make([]int, rows)
	for r := range g.rows {
		g.rows[r] = window.Start + r*w
	}
	g.cells = make([][]Cell, rows)
	for r := range g.cells {
		g.cells[r] = make([]Cell, len(g.days))
	}

	// Earliest start wins a contested cell; ID breaks ties so the layout is
	// stable regardless of input order.
	slices.SortStableFunc(placed, func(a, b *training.Training) int {
		return cmp.Or(
			cmp.Compare(a.StartMinutes, b.StartMinutes),
			cmp.Compare(a.ID, b.ID),
		)
	})
	for _, t := range placed {
		g.place(opts.Logger, t)
	}
	return g
}

// RowSpan returns the number of rows a training covers at the given width,
// never less than one.
func RowSpan(t *training.Training, slotWidth int) int {
	if slotWidth <= 0 {
		slotWidth = DefaultSlotWidth
	}
	if t.EndMinutes <= t.StartMinutes {
		return 1
	}
	d := t.EndMinutes - t.StartMinutes
	n := d / slotWidth
	if d%slotWidth != 0 {
		n++
	}
	return n
}

func (g *Grid) place(log *zap.Logger, t *training.Training) {
	day := g.dayIndex(t.Date)
	row := g.rowOf(t.StartMinutes)
	if row < 0 {
		g.record(log, AnomalyOutOfRange, t, "start outside the grid window")
		return
	}
	if t.EndMinutes <= t.StartMinutes {
		g.record(log, AnomalyMalformed, t, fmt.Sprintf("end %s not after start %s",
			training.FormatTime(t.EndMinutes), training.FormatTime(t.StartMinutes)))
	}
	if c := g.cells[row][day]; c.Kind != Empty {
		g.record(log, AnomalyCollision, t, fmt.Sprintf("anchor cell held by #%s", c.Training.ID))
		return
	}

	span := RowSpan(t, g.slotWidth)
	switch left := len(g.rows) - row; {
	case t.EndMinutes > training.MinutesPerDay:
		g.record(log, AnomalyClipped, t, fmt.Sprintf("end %d past midnight", t.EndMinutes))
		toMidnight := (training.MinutesPerDay - g.rows[row] + g.slotWidth - 1) / g.slotWidth
		span = min(span, left, toMidnight)
	case span > left:
		g.record(log, AnomalyClipped, t, fmt.Sprintf("%d rows past the grid end", span-left))
		span = left
	}
	for i := 1; i < span; i++ {
		if g.cells[row+i][day].Kind != Empty {
			g.record(log, AnomalyCollision, t, fmt.Sprintf("cut short at %s",
				training.FormatTime(g.rows[row+i])))
			span = i
			break
		}
	}

	g.cells[row][day] = Cell{Kind: Occupied, Training: t, RowSpan: span}
	for i := 1; i < span; i++ {
		g.cells[row+i][day] = Cell{Kind: Continuation, Training: t}
	}
}

func (g *Grid) record(log *zap.Logger, kind AnomalyKind, t *training.Training, detail string) {
	a := Anomaly{Kind: kind, TrainingID: t.ID, Date: t.Date, Detail: detail}
	g.anomalies = append(g.anomalies, a)
	log.Warn("slot grid anomaly",
		zap.String("court_id", g.courtID),
		zap.String("training_id", t.ID),
		zap.String("date", t.Date.Format(dateutil.DateLayout)),
		zap.Stringer("kind", kind),
		zap.String("detail", detail),
	)
}

func uniqueDays(days []time.Time) []time.Time {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		d = dateutil.TruncateToDay(d)
		if !slices.ContainsFunc(out, func(x time.Time) bool { return x.Equal(d) }) {
			out = append(out, d)
		}
	}
	return out
}
