package cli

import (
	"fmt"
	"strconv"

	"github.com/sadopc/dayledger/internal/store"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Store.GetAllSettings()
			if err != nil {
				return err
			}
			tbl := newTable()
			for _, s := range settings {
				tbl.AddRow(boldColor.Sprint(s.Key), s.Value)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := validateSetting(key, value); err != nil {
				return err
			}
			if err := app.Store.SetSetting(key, value); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		},
	})
	return cmd
}

func validateSetting(key, value string) error {
	switch key {
	case store.SettingDailyGoal:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive number of minutes, got %q", key, value)
		}
	case store.SettingWeekStart:
		if value != "monday" {
			return fmt.Errorf("%s: only monday is supported", key)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
