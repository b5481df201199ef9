package ui

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/courtsched/internal/config"
	"github.com/javiermolinar/courtsched/internal/db"
	"github.com/javiermolinar/courtsched/internal/training"
)

func newTestRepo(t *testing.T) *db.SQLite {
	t.Helper()
	DisableColor()

	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	weekday := training.DaySchedule{Active: true, OpeningMinutes: 8 * 60, ClosingMinutes: 22 * 60}
	court := &training.Court{
		ID:   "center",
		Name: "Center Court",
		WeeklySchedule: map[training.Weekday]training.DaySchedule{
			training.Monday:    weekday,
			training.Tuesday:   weekday,
			training.Wednesday: weekday,
			training.Thursday:  weekday,
			training.Friday:    weekday,
			training.Saturday:  {Active: false, OpeningMinutes: 9 * 60, ClosingMinutes: 13 * 60},
		},
	}
	if err := repo.SaveCourt(ctx, court); err != nil {
		t.Fatalf("SaveCourt failed: %v", err)
	}
	for _, team := range []*training.Team{
		{ID: "u12", Name: "U12 Girls", Color: "#ff8800"},
		{ID: "sen", Name: "Seniors"},
	} {
		if err := repo.SaveTeam(ctx, team); err != nil {
			t.Fatalf("SaveTeam failed: %v", err)
		}
	}
	return repo
}

// run executes one command on a fresh App so flag values never leak between runs.
func run(t *testing.T, repo *db.SQLite, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.MaxWeeks = 10

	a := NewApp(repo, repo, repo, cfg, nil)
	var buf bytes.Buffer
	a.SetOutput(&buf)
	a.root.SetArgs(args)
	err := a.Execute(context.Background())
	return buf.String(), err
}

func mustRun(t *testing.T, repo *db.SQLite, args ...string) string {
	t.Helper()
	out, err := run(t, repo, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func onlyTraining(t *testing.T, repo *db.SQLite) *training.Training {
	t.Helper()
	ts, err := repo.TrainingsForCourt(context.Background(), "center")
	if err != nil {
		t.Fatalf("TrainingsForCourt failed: %v", err)
	}
	if len(ts) != 1 {
		t.Fatalf("got %d trainings, want 1", len(ts))
	}
	return ts[0]
}

func TestVersion(t *testing.T) {
	repo := newTestRepo(t)
	out := mustRun(t, repo, "version")
	if !strings.HasPrefix(out, "courtsched dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestBookAndList(t *testing.T) {
	repo := newTestRepo(t)

	out := mustRun(t, repo, "book", "--court", "center", "--team", "u12",
		"--date", "2025-03-10", "--start", "09:00", "--end", "10:00")
	if !strings.Contains(out, "Booked #") || !strings.Contains(out, "U12 Girls on center 2025-03-10 Mon 09:00-10:00") {
		t.Errorf("book output = %q", out)
	}

	stored := onlyTraining(t, repo)
	if stored.Color != "#ff8800" {
		t.Errorf("color = %q, want team color", stored.Color)
	}

	out = mustRun(t, repo, "list", "--court", "center", "--date", "2025-03-10")
	if !strings.Contains(out, "#"+stored.ID) || !strings.Contains(out, "09:00-10:00  U12 Girls") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, repo, "list", "--court", "center", "--date", "2025-03-11")
	if !strings.Contains(out, "No trainings.") {
		t.Errorf("list output for empty day = %q", out)
	}

	_, err := run(t, repo, "book", "--court", "center", "--team", "sen",
		"--date", "2025-03-10", "--start", "09:30", "--end", "10:30")
	if !errors.Is(err, training.ErrConflict) {
		t.Errorf("overlapping book: got %v, want ErrConflict", err)
	}

	_, err = run(t, repo, "book", "--court", "center", "--team", "nobody",
		"--date", "2025-03-10", "--start", "12:00", "--end", "13:00")
	if !errors.Is(err, training.ErrTeamNotFound) {
		t.Errorf("unknown team: got %v, want ErrTeamNotFound", err)
	}
}

func TestCheck(t *testing.T) {
	repo := newTestRepo(t)
	mustRun(t, repo, "book", "--court", "center", "--team", "u12",
		"--date", "2025-03-10", "--start", "09:00", "--end", "10:00")
	booked := onlyTraining(t, repo)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "free",
			args: []string{"--date", "2025-03-10", "--start", "10:00", "--end", "11:00"},
			want: "✓ center 2025-03-10 Mon 10:00-11:00 is free",
		},
		{
			name:    "overlap",
			args:    []string{"--date", "2025-03-10", "--start", "09:30", "--end", "10:30"},
			want:    "already booked by U12 Girls",
			wantErr: ErrUnavailable,
		},
		{
			name: "overlap ignoring itself",
			args: []string{"--date", "2025-03-10", "--start", "09:30", "--end", "10:30", "--exclude", booked.ID},
			want: "is free",
		},
		{
			name:    "closed saturday",
			args:    []string{"--date", "2025-03-08", "--start", "10:00", "--end", "11:00"},
			want:    "court closed",
			wantErr: ErrUnavailable,
		},
		{
			name:    "before opening",
			args:    []string{"--date", "2025-03-10", "--start", "07:00", "--end", "08:00"},
			want:    "outside opening hours 08:00-22:00",
			wantErr: ErrUnavailable,
		},
		{
			name:    "bad time",
			args:    []string{"--date", "2025-03-10", "--start", "7am", "--end", "08:00"},
			wantErr: training.ErrInvalidTimeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"check", "--court", "center"}, tt.args...)
			out, err := run(t, repo, args...)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestRescheduleAndCancel(t *testing.T) {
	repo := newTestRepo(t)
	mustRun(t, repo, "book", "--court", "center", "--team", "u12",
		"--date", "2025-03-10", "--start", "09:00", "--end", "10:00")
	id := onlyTraining(t, repo).ID

	out := mustRun(t, repo, "reschedule", id, "--start", "11:00", "--end", "12:00")
	if !strings.Contains(out, "Moved #"+id) || !strings.Contains(out, "2025-03-10 Mon 11:00-12:00") {
		t.Errorf("reschedule output = %q", out)
	}
	moved := onlyTraining(t, repo)
	if moved.ID != id || moved.StartMinutes != 660 {
		t.Errorf("moved training = %+v", moved)
	}

	_, err := run(t, repo, "reschedule", id, "--date", "2025-03-08", "--start", "10:00", "--end", "11:00")
	if err == nil || !strings.Contains(err.Error(), "closed") {
		t.Errorf("reschedule onto closed day: got %v", err)
	}

	out = mustRun(t, repo, "cancel", id)
	if !strings.Contains(out, "Cancelled training #"+id) {
		t.Errorf("cancel output = %q", out)
	}

	_, err = run(t, repo, "cancel", id)
	if !errors.Is(err, training.ErrTrainingNotFound) {
		t.Errorf("second cancel: got %v, want ErrTrainingNotFound", err)
	}
}

func TestRepeat(t *testing.T) {
	repo := newTestRepo(t)
	mustRun(t, repo, "book", "--court", "center", "--team", "u12",
		"--date", "2025-03-10", "--start", "09:00", "--end", "10:00")
	id := onlyTraining(t, repo).ID

	// Week 2 is already taken by another team.
	mustRun(t, repo, "book", "--court", "center", "--team", "sen",
		"--date", "2025-03-24", "--start", "09:30", "--end", "10:30")

	out := mustRun(t, repo, "repeat", id, "--weeks", "3")
	for _, want := range []string{
		"Repeating U12 Girls on center 2025-03-10 Mon 09:00-10:00",
		"2025-03-17 Mon  added",
		"2025-03-24 Mon  skipped already booked 09:30-10:30",
		"2025-03-31 Mon  added",
		"2 of 3 weeks added; 1 skipped: already booked",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("repeat output missing %q:\n%s", want, out)
		}
	}

	ts, err := repo.TrainingsForCourt(context.Background(), "center")
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 4 {
		t.Errorf("got %d trainings after repeat, want 4", len(ts))
	}

	if _, err := run(t, repo, "repeat", id, "--weeks", "11"); err == nil {
		t.Error("expected error above max_weeks")
	}
	if _, err := run(t, repo, "repeat", id, "--weeks", "0"); err == nil {
		t.Error("expected error for zero weeks")
	}
	if _, err := run(t, repo, "repeat", "missing", "--weeks", "2"); !errors.Is(err, training.ErrTrainingNotFound) {
		t.Errorf("unknown source: got %v", err)
	}
}

func TestGridCommand(t *testing.T) {
	repo := newTestRepo(t)
	mustRun(t, repo, "book", "--court", "center", "--team", "u12",
		"--date", "2025-03-10", "--start", "09:00", "--end", "10:15")

	out := mustRun(t, repo, "grid", "--court", "center", "--date", "2025-03-10", "--day")
	for _, want := range []string{"Center Court", "2025-03-10", "30 min slots", "Mon 03-10", "U12 Girls", "09:00-10:15"} {
		if !strings.Contains(out, want) {
			t.Errorf("grid output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, repo, "grid", "--court", "center", "--date", "2025-03-12", "--slot", "60")
	if !strings.Contains(out, "2025-03-10 to 2025-03-16") || !strings.Contains(out, "60 min slots") {
		t.Errorf("week grid header:\n%s", out)
	}

	if _, err := run(t, repo, "grid", "--court", "nowhere"); !errors.Is(err, training.ErrCourtNotFound) {
		t.Errorf("unknown court: got %v", err)
	}
}

func TestGridCommand_SlotBounds(t *testing.T) {
	repo := newTestRepo(t)

	for _, slot := range []string{"0", "4", "241", "100000", strconv.Itoa(math.MaxInt)} {
		t.Run(slot, func(t *testing.T) {
			_, err := run(t, repo, "grid", "--court", "center", "--date", "2025-03-10", "--slot", slot)
			if err == nil || !strings.Contains(err.Error(), "--slot must be between 5 and 240") {
				t.Errorf("--slot %s: got %v", slot, err)
			}
		})
	}

	for _, slot := range []string{"5", "240"} {
		out := mustRun(t, repo, "grid", "--court", "center", "--date", "2025-03-10", "--day", "--slot", slot)
		if !strings.Contains(out, slot+" min slots") {
			t.Errorf("--slot %s header:\n%s", slot, out)
		}
	}
}

func TestCourtImportAndShow(t *testing.T) {
	repo := newTestRepo(t)

	seed := `
courts:
  - id: annex
    name: Annex
    schedule:
      monday: {open: "17:00", close: "21:00"}
      sunday: {open: "10:00", close: "14:00", closed: true}
teams:
  - id: u14
    name: U14 Boys
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, repo, "court", "import", path)
	if !strings.Contains(out, "Imported 1 courts and 1 teams") {
		t.Errorf("import output = %q", out)
	}

	out = mustRun(t, repo, "court", "show", "annex")
	for _, want := range []string{"Annex", "Monday     17:00-21:00", "Sunday     closed", "Friday     closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, repo, "court", "list")
	if !strings.Contains(out, "annex") || !strings.Contains(out, "center") || !strings.Contains(out, "open 5 days") {
		t.Errorf("court list = %q", out)
	}

	out = mustRun(t, repo, "team", "list")
	if !strings.Contains(out, "U14 Boys") || !strings.Contains(out, "U12 Girls") {
		t.Errorf("team list = %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("courts:\n  - name: X\n    schedule:\n      funday: {open: \"08:00\", close: \"09:00\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, repo, "court", "import", bad); err == nil {
		t.Error("expected error for unknown weekday")
	}
}

func TestRunConfigInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	if err := runConfigInteractive(strings.NewReader("n\n"), &out, path); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if !strings.Contains(out.String(), "default_open   = 08:00") || !strings.Contains(out.String(), "(disabled)") {
		t.Errorf("output = %q", out.String())
	}

	// open, close, slot, max weeks, db path, redis, log level
	input := "y\n09:00\n\n15\nabc\n8\n\n\n\n"
	out.Reset()
	if err := runConfigInteractive(strings.NewReader(input), &out, path); err != nil {
		t.Fatalf("edit run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid number") || !strings.Contains(out.String(), "Configuration saved!") {
		t.Errorf("output = %q", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Schedule.DefaultOpen != "09:00" || cfg.Schedule.SlotMinutes != 15 || cfg.Schedule.MaxWeeks != 8 {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
}

func TestResolveDate(t *testing.T) {
	got, err := resolveDate("2025-03-10")
	if err != nil || !got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("resolveDate = %v, %v", got, err)
	}
	if _, err := resolveDate("someday"); err == nil {
		t.Error("expected error for bad date")
	}
}
