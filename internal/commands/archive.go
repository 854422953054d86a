package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/db"
	"github.com/rtn-cli/rtn/internal/parser"
)

var archiveCmd = &cobra.Command{
	Use:     "archive [routine]",
	Aliases: []string{"a"},
	Short:   "Archive a routine",
	Long:    "Soft-disable a routine. Archived routines keep their history but no longer resolve by name.",
	Args:    cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		at := time.Now()
		if raw, _ := cmd.Flags().GetString("at"); raw != "" {
			parsed, err := parser.ParseInstant(raw)
			if err != nil {
				printError(err)
				return
			}
			at = parsed
		}

		routine, err := db.ArchiveRoutine(args[0], at)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("🗃️  Archived routine %s: %s\n", routine.ID, routine.Name)
		if routine.ArchivedAt != nil {
			fmt.Printf("Archived at: %s\n", routine.ArchivedAt.Format(time.RFC3339))
		}
	}),
}

func init() {
	archiveCmd.Flags().String("at", "", "Archival instant (RFC 3339 with offset), defaults to now")
}
