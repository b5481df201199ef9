package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/courtsched/internal/booking"
	"github.com/javiermolinar/courtsched/internal/config"
	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/recurrence"
	"github.com/javiermolinar/courtsched/internal/training"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store   training.Store
	courts  training.CourtRepository
	teams   training.TeamRepository
	booking *booking.Service
	sched   *recurrence.Scheduler
	config  *config.Config
	logger  *zap.Logger
	root    *cobra.Command
	noColor bool
}

// NewApp creates a new CLI application on top of the given repositories.
func NewApp(store training.Store, courts training.CourtRepository, teams training.TeamRepository, cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		store:   store,
		courts:  courts,
		teams:   teams,
		booking: booking.NewService(store, courts, teams, logger),
		sched:   recurrence.New(store, logger),
		config:  cfg,
		logger:  logger,
	}

	a.root = &cobra.Command{
		Use:   "courtsched",
		Short: "Court booking and training schedules",
		Long: `Courtsched books courts for team trainings.

It checks bookings against each court's weekly opening hours and
existing trainings, repeats trainings week by week, and draws the
week as a slot grid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
	}

	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.courtCmd())
	a.root.AddCommand(a.teamCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.bookCmd())
	a.root.AddCommand(a.rescheduleCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.repeatCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "courtsched %s (commit: %s)\n", Version, Commit)
		},
	}
}

// SetOutput redirects command output, mostly for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application. Cancelling ctx stops long running
// commands such as repeat between weeks.
func (a *App) Execute(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// resolveDate accepts YYYY-MM-DD or a relative date such as "tomorrow".
func resolveDate(s string) (time.Time, error) {
	return dateutil.ParseRelativeDate(s, time.Now(), false)
}
