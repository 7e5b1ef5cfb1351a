package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/vacancy-engine/factory"
	"github.com/warp/vacancy-engine/generic"
)

var (
	calendarFile  string
	calendarMajor bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Edit the holiday lists of a YAML calendar file",
	Long: `Edit the holidays and storhelg lists of a YAML config file in place.
Other top-level keys in the file are preserved.

Examples:
  vakans calendar add --file config.yaml 2026-05-01
  vakans calendar add --file config.yaml --major 2026-12-24 2026-12-25
  vakans calendar remove --file config.yaml 2026-05-01
  vakans calendar list --file config.yaml
`,
}

var calendarAddCmd = &cobra.Command{
	Use:   "add DATE...",
	Short: "Add dates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCalendar(args, func(set map[string]generic.Holiday, d generic.TimePoint) {
			set[d.Key()] = generic.Holiday{Date: d, Major: calendarMajor}
		})
	},
}

var calendarRemoveCmd = &cobra.Command{
	Use:   "remove DATE...",
	Short: "Remove dates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCalendar(args, func(set map[string]generic.Holiday, d generic.TimePoint) {
			delete(set, d.Key())
		})
	},
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the dates in the file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(calendarFile)
		if err != nil {
			return err
		}
		_, holidays, err := factory.ParseCalendarYAML(data)
		if err != nil {
			return err
		}
		for _, h := range holidays {
			if h.Major {
				fmt.Fprintf(cmd.OutOrStdout(), "%s storhelg\n", h.Date)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.Date)
		}
		return nil
	},
}

func init() {
	calendarCmd.PersistentFlags().StringVarP(&calendarFile, "file", "f", "config.yaml", "YAML calendar file")
	calendarAddCmd.Flags().BoolVar(&calendarMajor, "major", false, "Mark the dates as storhelg")
	calendarCmd.AddCommand(calendarAddCmd, calendarRemoveCmd, calendarListCmd)
	rootCmd.AddCommand(calendarCmd)
}

func editCalendar(args []string, apply func(map[string]generic.Holiday, generic.TimePoint)) error {
	existing, err := os.ReadFile(calendarFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	set := make(map[string]generic.Holiday)
	if len(existing) > 0 {
		_, holidays, err := factory.ParseCalendarYAML(existing)
		if err != nil {
			return err
		}
		for _, h := range holidays {
			set[h.Date.Key()] = h
		}
	}

	for _, arg := range args {
		d, err := generic.ParseDate(arg)
		if err != nil {
			return err
		}
		apply(set, d)
	}

	holidays := make([]generic.Holiday, 0, len(set))
	for _, h := range set {
		holidays = append(holidays, h)
	}
	out, err := factory.MergeCalendarYAML(existing, holidays)
	if err != nil {
		return err
	}
	return os.WriteFile(calendarFile, out, 0o644)
}
