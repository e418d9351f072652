package main

import (
	"fmt"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"

	"github.com/spf13/cobra"
)

func upcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the reminders of a day in firing order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			dateStr, _ := cmd.Flags().GetString("date")
			format, _ := cmd.Flags().GetString("output")
			day := time.Now().In(e.loc)
			if dateStr != "" {
				day, err = time.ParseInLocation(reminder.DateLayout, dateStr, e.loc)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}

			instants, err := e.tasks.Schedule(cmd.Context(), e.user.ID, day)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, day.Format(reminder.DateLayout), toRows(instants))
		},
	}
	cmd.Flags().String("date", "", "Day as YYYY-MM-DD (default today)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, yaml or json")
	return cmd
}
