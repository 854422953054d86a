package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/db"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List routines",
	Long:    "List all routines, active first, then archived",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		routines, err := db.ListRoutines()
		if err != nil {
			fmt.Printf("Error fetching routines: %v\n", err)
			return
		}

		if len(routines) == 0 {
			fmt.Println("No routines found. Use 'rtn add <name> --rule <rule>' to create your first routine.")
			return
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := printJSON(routines); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		// Print table header
		fmt.Printf("%-42s %-20s %-18s %-9s %s\n", "ID", "NAME", "TIMEZONE", "STATUS", "RULE")
		fmt.Println(strings.Repeat("-", 100))

		for _, routine := range routines {
			status := "active"
			if routine.Archived() {
				status = "archived"
			}

			// Truncate rule if too long
			rule := routine.Rule
			if len(rule) > 24 {
				rule = rule[:21] + "..."
			}

			fmt.Printf("%-42s %-20s %-18s %-9s %s\n",
				routine.ID,
				routine.Name,
				routine.Timezone,
				status,
				rule)
		}
	}),
}

func init() {
	listCmd.Flags().Bool("json", false, "JSON output")
}
