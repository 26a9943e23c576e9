package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var reportMonth string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the summary of one month as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		month := reportMonth
		if month == "" {
			month = a.service.DefaultMonth()
		}
		data, err := a.service.SummaryJSON(cmd.Context(), month)
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		return nil
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the months in which complaints were entered",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		dates, err := a.service.AvailableDates(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range dates {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportMonth, "month", "m", "", "month to summarize as YYYY-MM (default: current month)")
}
