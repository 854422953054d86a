package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/db"
	"github.com/rtn-cli/rtn/internal/timer"
)

var statusCmd = &cobra.Command{
	Use:   "status [session-id|routine]",
	Short: "Show the computed state of a session or routine",
	Long: `Show the duration breakdown of one session (by ses_... id) or of a
routine's open sessions (by rtn_... id or name). With no argument, behaves
like 'rtn active'.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		asOf, ok := asOfFlag(cmd)
		if !ok {
			return
		}

		var views []timer.View
		var err error
		if len(args) == 1 {
			views, err = db.SessionStatus(args[0], asOf)
		} else {
			views, err = db.ActiveSessions(asOf)
		}
		if err != nil {
			printError(err)
			return
		}

		renderViews(cmd, views)
	}),
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "List all currently open sessions",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		asOf, ok := asOfFlag(cmd)
		if !ok {
			return
		}

		views, err := db.ActiveSessions(asOf)
		if err != nil {
			printError(err)
			return
		}

		renderViews(cmd, views)
	}),
}

func renderViews(cmd *cobra.Command, views []timer.View) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printJSON(views); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}

	if len(views) == 0 {
		fmt.Println("No matching sessions")
		return
	}
	for _, view := range views {
		printView(view)
	}
}

func init() {
	statusCmd.Flags().String("as-of", "", "Query instant (RFC 3339 with offset), defaults to now")
	statusCmd.Flags().Bool("json", false, "JSON output")

	activeCmd.Flags().String("as-of", "", "Query instant (RFC 3339 with offset), defaults to now")
	activeCmd.Flags().Bool("json", false, "JSON output")
}
