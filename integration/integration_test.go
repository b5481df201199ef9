package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/courtsched/internal/booking"
	"github.com/javiermolinar/courtsched/internal/db"
	"github.com/javiermolinar/courtsched/internal/recurrence"
	"github.com/javiermolinar/courtsched/internal/slotgrid"
	"github.com/javiermolinar/courtsched/internal/training"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// mustParseDate parses a date string or fails the test.
func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", s, err)
	}
	return date
}

// seedWeekdayCourt stores a court open Mon-Fri 08:00-22:00 and closed on weekends.
func seedWeekdayCourt(t *testing.T, repo *db.SQLite) *training.Court {
	t.Helper()
	open := training.DaySchedule{Active: true, OpeningMinutes: 480, ClosingMinutes: 1320}
	court := &training.Court{
		ID:   "center",
		Name: "Center Court",
		WeeklySchedule: map[training.Weekday]training.DaySchedule{
			training.Monday:    open,
			training.Tuesday:   open,
			training.Wednesday: open,
			training.Thursday:  open,
			training.Friday:    open,
			training.Saturday:  {Active: false},
			training.Sunday:    {Active: false},
		},
	}
	ctx := context.Background()
	if err := repo.SaveCourt(ctx, court); err != nil {
		t.Fatalf("SaveCourt failed: %v", err)
	}
	if err := repo.SaveTeam(ctx, &training.Team{ID: "u12", Name: "U12 Girls", Color: "#ff8800"}); err != nil {
		t.Fatalf("SaveTeam failed: %v", err)
	}
	stored, err := repo.GetCourt(ctx, "center")
	if err != nil {
		t.Fatalf("GetCourt failed: %v", err)
	}
	return stored
}

// book creates and stores a training through the booking service.
func book(t *testing.T, svc *booking.Service, date, start, end string) *training.Training {
	t.Helper()
	tr, err := training.New("center", "u12", date, start, end)
	if err != nil {
		t.Fatalf("failed to build training: %v", err)
	}
	booked, err := svc.Book(context.Background(), tr)
	if err != nil {
		t.Fatalf("Book %s %s-%s failed: %v", date, start, end, err)
	}
	return booked
}

func outcomes(rep *recurrence.Report) []recurrence.Outcome {
	out := make([]recurrence.Outcome, len(rep.Results))
	for i, r := range rep.Results {
		out[i] = r.Outcome
	}
	return out
}

func TestDuplicateTwoFreeWeeks(t *testing.T) {
	repo := openRepo(t)
	court := seedWeekdayCourt(t, repo)
	svc := booking.NewService(repo, repo, repo, nil)
	ctx := context.Background()

	// 2025-03-10 is a Monday.
	source := book(t, svc, "2025-03-10", "18:00", "19:30")

	rep := recurrence.New(repo, nil).Duplicate(ctx, court, source, 2)
	got := outcomes(rep)
	if len(got) != 2 || got[0] != recurrence.Added || got[1] != recurrence.Added {
		t.Fatalf("outcomes = %v, want [added added]", got)
	}

	for i, want := range []string{"2025-03-17", "2025-03-24"} {
		day := mustParseDate(t, want)
		ts, err := repo.TrainingsForCourtAndDate(ctx, "center", day)
		if err != nil {
			t.Fatalf("TrainingsForCourtAndDate failed: %v", err)
		}
		if len(ts) != 1 {
			t.Fatalf("%s: got %d trainings, want 1", want, len(ts))
		}
		if ts[0].ID != rep.Results[i].TrainingID {
			t.Errorf("%s: stored id %s, report id %s", want, ts[0].ID, rep.Results[i].TrainingID)
		}
		if ts[0].Interval() != "18:00-19:30" || ts[0].TeamName != "U12 Girls" {
			t.Errorf("%s: copied training = %+v", want, ts[0])
		}
	}
}

func TestDuplicateOntoClosedSaturday(t *testing.T) {
	repo := openRepo(t)
	court := seedWeekdayCourt(t, repo)
	ctx := context.Background()

	// Stored directly: the court is closed, so booking would be refused.
	sat := &training.Training{
		CourtID:      "center",
		TeamID:       "u12",
		Date:         mustParseDate(t, "2025-03-08"),
		StartMinutes: 600,
		EndMinutes:   660,
	}
	id, err := repo.CreateTraining(ctx, sat)
	if err != nil {
		t.Fatalf("CreateTraining failed: %v", err)
	}
	sat.ID = id

	rep := recurrence.New(repo, nil).Duplicate(ctx, court, sat, 1)
	got := outcomes(rep)
	if len(got) != 1 || got[0] != recurrence.SkippedClosed {
		t.Fatalf("outcomes = %v, want [skipped_closed]", got)
	}
	if rep.Results[0].Reason != "court closed" {
		t.Errorf("reason = %q", rep.Results[0].Reason)
	}

	ts, err := repo.TrainingsForCourtAndDate(ctx, "center", mustParseDate(t, "2025-03-15"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 0 {
		t.Errorf("closed week got %d trainings", len(ts))
	}
}

func TestConflictOnSameCourtAndDate(t *testing.T) {
	repo := openRepo(t)
	court := seedWeekdayCourt(t, repo)
	svc := booking.NewService(repo, repo, repo, nil)
	ctx := context.Background()

	existing := book(t, svc, "2025-03-12", "17:00", "18:00")

	candidate, err := training.New("center", "u12", "2025-03-12", "17:30", "18:30")
	if err != nil {
		t.Fatal(err)
	}

	stored, err := repo.TrainingsForCourtAndDate(ctx, "center", candidate.Date)
	if err != nil {
		t.Fatal(err)
	}
	conflict, other := training.HasConflict(candidate, stored)
	if !conflict || other == nil || other.ID != existing.ID {
		t.Fatalf("HasConflict = %v, %v; want true and #%s", conflict, other, existing.ID)
	}

	err = svc.Check(ctx, court, candidate)
	var ce *training.ConflictError
	if !errors.As(err, &ce) || ce.Existing.ID != existing.ID {
		t.Errorf("Check = %v, want ConflictError naming #%s", err, existing.ID)
	}

	// Touching the existing booking is fine.
	touching, _ := training.New("center", "u12", "2025-03-12", "18:00", "19:00")
	if err := svc.Check(ctx, court, touching); err != nil {
		t.Errorf("touching booking rejected: %v", err)
	}
}

func TestGridFromStoredTrainings(t *testing.T) {
	repo := openRepo(t)
	court := seedWeekdayCourt(t, repo)
	svc := booking.NewService(repo, repo, repo, nil)
	ctx := context.Background()

	tr := book(t, svc, "2025-03-10", "09:00", "10:15")
	book(t, svc, "2025-03-11", "20:00", "22:00")

	from, to := mustParseDate(t, "2025-03-10"), mustParseDate(t, "2025-03-16")
	trainings, err := repo.TrainingsForCourtBetween(ctx, "center", from, to)
	if err != nil {
		t.Fatalf("TrainingsForCourtBetween failed: %v", err)
	}
	if len(trainings) != 2 {
		t.Fatalf("got %d trainings, want 2", len(trainings))
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	g := slotgrid.Build(court, trainings, days, slotgrid.Options{SlotWidth: 30})

	if w := g.Window(); w != (training.Window{Start: 480, End: 1320}) {
		t.Errorf("window = %v, want 08:00-22:00", w)
	}

	monday := mustParseDate(t, "2025-03-10")
	anchor, ok := g.CellAt(540, monday)
	if !ok || anchor.Kind != slotgrid.Occupied || anchor.RowSpan != 3 || anchor.Training.ID != tr.ID {
		t.Fatalf("09:00 cell = %+v", anchor)
	}
	for _, m := range []int{570, 600} {
		c, _ := g.CellAt(m, monday)
		if c.Kind != slotgrid.Continuation || c.Training.ID != tr.ID {
			t.Errorf("%s cell = %+v, want continuation", training.FormatTime(m), c)
		}
	}
	if c, _ := g.CellAt(630, monday); c.Kind != slotgrid.Empty {
		t.Errorf("10:30 cell = %v, want empty", c.Kind)
	}

	counts := g.Counts()
	if total := counts[slotgrid.Empty] + counts[slotgrid.Occupied] + counts[slotgrid.Continuation]; total != g.NumRows()*g.NumDays() {
		t.Errorf("cell total %d, want %d", total, g.NumRows()*g.NumDays())
	}
	if counts[slotgrid.Occupied] != 2 || counts[slotgrid.Continuation] != 2+3 {
		t.Errorf("counts = %v", counts)
	}
	if len(g.Anomalies()) != 0 {
		t.Errorf("unexpected anomalies: %v", g.Anomalies())
	}
}

func TestRescheduleKeepsIDAcrossStore(t *testing.T) {
	repo := openRepo(t)
	seedWeekdayCourt(t, repo)
	svc := booking.NewService(repo, repo, repo, nil)
	ctx := context.Background()

	tr := book(t, svc, "2025-03-10", "09:00", "10:00")
	book(t, svc, "2025-03-10", "12:00", "13:00")

	if _, err := svc.Reschedule(ctx, tr.ID, "", "11:30", "12:30"); !errors.Is(err, training.ErrConflict) {
		t.Fatalf("overlapping reschedule: got %v, want ErrConflict", err)
	}

	moved, err := svc.Reschedule(ctx, tr.ID, "2025-03-11", "12:00", "13:00")
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	got, err := repo.GetTraining(ctx, tr.ID)
	if err != nil {
		t.Fatalf("GetTraining failed: %v", err)
	}
	if got.ID != moved.ID || got.Date.Format("2006-01-02") != "2025-03-11" || got.Interval() != "12:00-13:00" {
		t.Errorf("stored training = %+v", got)
	}
}
