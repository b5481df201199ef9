package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtsched/internal/availability"
	"github.com/javiermolinar/courtsched/internal/courtfile"
	"github.com/javiermolinar/courtsched/internal/training"
)

func (a *App) courtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "court",
		Short: "Manage courts and their opening hours",
	}
	cmd.AddCommand(a.courtImportCmd())
	cmd.AddCommand(a.courtListCmd())
	cmd.AddCommand(a.courtShowCmd())
	return cmd
}

func (a *App) courtImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import courts and teams from a YAML file",
		Long: `Import courts and teams from a YAML seed file.

Existing courts and teams with the same ID are replaced. The whole
file is validated first; nothing is saved if any entry is invalid.

Example file:
  courts:
    - id: center
      name: Center Court
      schedule:
        monday:   {open: "08:00", close: "22:00"}
        saturday: {open: "09:00", close: "13:00", closed: true}
  teams:
    - id: u12
      name: U12 Girls
      color: "#ff8800"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := courtfile.Load(args[0])
			if err != nil {
				return err
			}

			res, err := courtfile.Import(cmd.Context(), f, a.courts, a.teams)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d courts and %d teams\n", res.Courts, res.Teams)
			return nil
		},
	}
}

func (a *App) courtListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			courts, err := a.courts.ListCourts(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing courts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(courts) == 0 {
				fmt.Fprintln(out, "No courts. Add some with: courtsched court import <file>")
				return nil
			}
			for _, c := range courts {
				open := 0
				for _, ds := range c.WeeklySchedule {
					if ds.Active {
						open++
					}
				}
				fmt.Fprintf(out, "%-12s %-24s %s\n", c.ID, c.Name, formatMuted(fmt.Sprintf("open %d days", open)))
			}
			return nil
		},
	}
}

func (a *App) courtShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [court-id]",
		Short: "Show a court's weekly opening hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			court, err := a.courts.GetCourt(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("court %q: %w", args[0], err)
			}
			printSchedule(cmd.OutOrStdout(), court)
			return nil
		},
	}
}

// printSchedule lists opening hours Sunday through Saturday.
func printSchedule(w io.Writer, c *training.Court) {
	fmt.Fprintf(w, "%s %s\n", formatHeader(c.Name), formatMuted("("+c.ID+")"))
	for _, wd := range availability.AllWeekdays() {
		ds, ok := c.Schedule(wd)
		var hours string
		switch {
		case !ok || !ds.Active:
			hours = formatMuted("closed")
		case ds.Misconfigured():
			hours = formatFailed("misconfigured " + ds.Window().String())
		default:
			hours = ds.Window().String()
		}
		fmt.Fprintf(w, "  %-10s %s\n", wd, hours)
	}
}

func (a *App) teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			teams, err := a.teams.ListTeams(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing teams: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(teams) == 0 {
				fmt.Fprintln(out, "No teams.")
				return nil
			}
			for _, t := range teams {
				fmt.Fprintf(out, "%-12s %-24s %s\n", t.ID, t.Name, formatMuted(t.Color))
			}
			return nil
		},
	})
	return cmd
}
