// Package courtfile reads courts and teams from YAML seed files.
//
// A seed file looks like:
//
//	courts:
//	  - id: center
//	    name: Center Court
//	    schedule:
//	      monday:   {open: "08:00", close: "22:00"}
//	      saturday: {open: "09:00", close: "13:00", closed: true}
//	teams:
//	  - id: u12
//	    name: U12 Girls
//	    color: "#ff8800"
package courtfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/courtsched/internal/training"
)

// Validation errors.
var (
	ErrUnknownWeekday = errors.New("unknown weekday")
	ErrBadHours       = errors.New("opening must be before closing")
	ErrMissingName    = errors.New("name cannot be empty")
)

// File is the YAML document.
type File struct {
	Courts []CourtEntry `yaml:"courts"`
	Teams  []TeamEntry  `yaml:"teams"`
}

// CourtEntry is one court in a seed file.
type CourtEntry struct {
	ID       string                `yaml:"id"`
	Name     string                `yaml:"name"`
	Schedule map[string]HoursEntry `yaml:"schedule"`
}

// HoursEntry is one weekday of a court schedule.
type HoursEntry struct {
	Open   string `yaml:"open"`
	Close  string `yaml:"close"`
	Closed bool   `yaml:"closed"`
}

// TeamEntry is one team in a seed file.
type TeamEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		// An empty document is an empty seed.
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// CourtList converts the court entries into domain courts.
func (f *File) CourtList() ([]*training.Court, error) {
	courts := make([]*training.Court, 0, len(f.Courts))
	for i, e := range f.Courts {
		c, err := e.court()
		if err != nil {
			return nil, fmt.Errorf("court %d (%s): %w", i+1, e.Name, err)
		}
		courts = append(courts, c)
	}
	return courts, nil
}

// TeamList converts the team entries into domain teams.
func (f *File) TeamList() ([]*training.Team, error) {
	teams := make([]*training.Team, 0, len(f.Teams))
	for i, e := range f.Teams {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("team %d: %w", i+1, ErrMissingName)
		}
		teams = append(teams, &training.Team{ID: e.ID, Name: strings.TrimSpace(e.Name), Color: e.Color})
	}
	return teams, nil
}

func (e CourtEntry) court() (*training.Court, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, ErrMissingName
	}
	c := &training.Court{
		ID:             e.ID,
		Name:           strings.TrimSpace(e.Name),
		WeeklySchedule: make(map[training.Weekday]training.DaySchedule, len(e.Schedule)),
	}
	for day, h := range e.Schedule {
		wd, err := ParseWeekday(day)
		if err != nil {
			return nil, err
		}
		if _, dup := c.WeeklySchedule[wd]; dup {
			return nil, fmt.Errorf("%s listed twice", wd)
		}
		ds, err := h.daySchedule()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", wd, err)
		}
		c.WeeklySchedule[wd] = ds
	}
	return c, nil
}

func (h HoursEntry) daySchedule() (training.DaySchedule, error) {
	open, err := parseHour(h.Open)
	if err != nil {
		return training.DaySchedule{}, fmt.Errorf("open: %w", err)
	}
	closing, err := parseHour(h.Close)
	if err != nil {
		return training.DaySchedule{}, fmt.Errorf("close: %w", err)
	}
	if open >= closing {
		return training.DaySchedule{}, fmt.Errorf("%w: %s-%s", ErrBadHours, h.Open, h.Close)
	}
	return training.DaySchedule{Active: !h.Closed, OpeningMinutes: open, ClosingMinutes: closing}, nil
}

// parseHour accepts HH:MM and "24:00" for closing at midnight.
func parseHour(s string) (int, error) {
	if s == "24:00" {
		return training.MinutesPerDay, nil
	}
	return training.ParseTime(s)
}

// ParseWeekday accepts full or three letter English day names in any case.
func ParseWeekday(s string) (training.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := training.Sunday; wd <= training.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// Result counts what an import wrote.
type Result struct {
	Courts int
	Teams  int
}

// Import validates the whole file and then saves every court and team.
// Nothing is written when any entry is invalid.
func Import(ctx context.Context, f *File, courts training.CourtRepository, teams training.TeamRepository) (Result, error) {
	var res Result

	cs, err := f.CourtList()
	if err != nil {
		return res, err
	}
	ts, err := f.TeamList()
	if err != nil {
		return res, err
	}

	for _, c := range cs {
		if err := courts.SaveCourt(ctx, c); err != nil {
			return res, fmt.Errorf("saving court %s: %w", c.Name, err)
		}
		res.Courts++
	}
	for _, t := range ts {
		if err := teams.SaveTeam(ctx, t); err != nil {
			return res, fmt.Errorf("saving team %s: %w", t.Name, err)
		}
		res.Teams++
	}
	return res, nil
}
