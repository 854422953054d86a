package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch open sessions live",
	Long:  "Interactive view of all open sessions, recomputed against the clock once per second.",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		if err := tui.RunWatchTUI(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}
