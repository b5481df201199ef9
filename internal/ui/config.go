package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtsched/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
COURTSCHED_* environment variables override the file.

Example:
  courtsched config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.DefaultOpen = promptValue(reader, out, "Default opening (grid start)", cfg.Schedule.DefaultOpen)
	cfg.Schedule.DefaultClose = promptValue(reader, out, "Default closing (grid end)", cfg.Schedule.DefaultClose)
	cfg.Schedule.SlotMinutes = promptInt(reader, out, "Slot minutes", cfg.Schedule.SlotMinutes)
	cfg.Schedule.MaxWeeks = promptInt(reader, out, "Max weeks for repeat", cfg.Schedule.MaxWeeks)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Cache.RedisAddr = promptValue(reader, out, "Redis address", cfg.Cache.RedisAddr)
	cfg.Log.Level = promptValue(reader, out, "Log level", cfg.Log.Level)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  default_open   = %s\n", cfg.Schedule.DefaultOpen)
	fmt.Fprintf(out, "  default_close  = %s\n", cfg.Schedule.DefaultClose)
	fmt.Fprintf(out, "  slot_minutes   = %d\n", cfg.Schedule.SlotMinutes)
	fmt.Fprintf(out, "  max_weeks      = %d\n", cfg.Schedule.MaxWeeks)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path        = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[cache]")
	if cfg.CacheEnabled() {
		fmt.Fprintf(out, "  redis_addr     = %s\n", cfg.Cache.RedisAddr)
		fmt.Fprintf(out, "  redis_db       = %d\n", cfg.Cache.RedisDB)
		fmt.Fprintf(out, "  ttl            = %s\n", cfg.Cache.TTL)
	} else {
		fmt.Fprintln(out, "  (disabled)")
	}
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level          = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format         = %s\n", cfg.Log.Format)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}
