package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/db"
	"github.com/rtn-cli/rtn/internal/parser"
)

var reportCmd = &cobra.Command{
	Use:   "report [yyyy-mm-dd]",
	Short: "Aggregate session time for one calendar day",
	Long: `Sum active, paused and total seconds over every session overlapping a
calendar day in the given timezone.

Examples:
  rtn report 2026-01-31
  rtn report 2026-01-31 --tz Asia/Tokyo --json`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		day, err := parser.ParseCalendarDate(args[0])
		if err != nil {
			printError(err)
			return
		}

		tz, _ := cmd.Flags().GetString("tz")
		loc, err := time.LoadLocation(tz)
		if err != nil {
			fmt.Printf("Error: unknown timezone %q\n", tz)
			return
		}

		asOf, ok := asOfFlag(cmd)
		if !ok {
			return
		}

		report, err := db.ReportDay(day, loc, asOf)
		if err != nil {
			printError(err)
			return
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := printJSON(report); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		fmt.Printf("📊 %s (%s): %d session(s)\n", report.Date, report.Timezone, len(report.Sessions))
		for _, view := range report.Sessions {
			printView(view)
		}
		fmt.Printf("Total: active %s · paused %s · duration %s\n",
			formatSeconds(report.ActiveSeconds),
			formatSeconds(report.PausedSeconds),
			formatSeconds(report.DurationSeconds))
	}),
}

func init() {
	reportCmd.Flags().String("tz", "UTC", "IANA timezone anchoring the calendar day")
	reportCmd.Flags().String("as-of", "", "Query instant (RFC 3339 with offset), defaults to now")
	reportCmd.Flags().Bool("json", false, "JSON output")
}
