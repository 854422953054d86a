package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/db"
	"github.com/rtn-cli/rtn/internal/parser"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new routine",
	Long: `Create a new routine to track sessions against.

Examples:
  rtn add yoga --tz Asia/Tokyo --rule "daily"
  rtn add deep-work --tz UTC --rule "weekdays" --at 2026-01-31T09:00:00+09:00`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		timezone, _ := cmd.Flags().GetString("tz")
		rule, _ := cmd.Flags().GetString("rule")

		// Creation instant is bookkeeping, not derived state, so an
		// explicit --at is optional here.
		at := time.Now()
		if raw, _ := cmd.Flags().GetString("at"); raw != "" {
			parsed, err := parser.ParseInstant(raw)
			if err != nil {
				printError(err)
				return
			}
			at = parsed
		}

		routine, err := db.CreateRoutine(args[0], timezone, rule, at)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("📌 Created routine %s: %s (%s)\n", routine.ID, routine.Name, routine.Timezone)
	}),
}

func init() {
	addCmd.Flags().String("tz", "UTC", "IANA timezone for the routine")
	addCmd.Flags().String("rule", "", "Routine rule string (required, opaque to rtn)")
	addCmd.Flags().String("at", "", "Creation instant (RFC 3339 with offset), defaults to now")
	_ = addCmd.MarkFlagRequired("rule")
}
