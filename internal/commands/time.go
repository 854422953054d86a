package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/db"
)

var startCmd = &cobra.Command{
	Use:   "start [routine]",
	Short: "Start a session against a routine",
	Long: `Start a new timed session. The routine may be given by id (rtn_...) or by
name; an ambiguous name is rejected with the matching candidates.

Every state change needs an explicit --at instant so the stored history is
reproducible. rtn never stamps transitions with its own clock.

Examples:
  rtn start yoga --at 2026-01-31T09:00:00+09:00
  rtn start rtn_4f1f... --at 2026-01-31T09:00:00+09:00 --note "morning block" --tag focus`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		at, ok := requireInstantFlag(cmd)
		if !ok {
			return
		}
		note, _ := cmd.Flags().GetString("note")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		view, err := db.StartSession(args[0], at, note, tags)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("⏱️  Started session %s for routine %s\n", view.Session.ID, view.Session.Routine.Name)
		fmt.Printf("Started at: %s\n", formatInstant(view.Session.StartedAt))
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause [session-id]",
	Short: "Pause a running session",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		sessionID, ok := requireSessionArg(args)
		if !ok {
			return
		}
		at, ok := requireInstantFlag(cmd)
		if !ok {
			return
		}

		view, err := db.PauseSession(sessionID, at)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("⏸️  Paused session %s (%s)\n", view.Session.ID, view.Session.Routine.Name)
		printBreakdown(view)
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume a paused session",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		sessionID, ok := requireSessionArg(args)
		if !ok {
			return
		}
		at, ok := requireInstantFlag(cmd)
		if !ok {
			return
		}

		view, err := db.ResumeSession(sessionID, at)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("▶️  Resumed session %s (%s)\n", view.Session.ID, view.Session.Routine.Name)
		printBreakdown(view)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop [session-id]",
	Short: "Stop a session",
	Long: `Stop a session permanently. A paused session is resumed implicitly at the
stop instant, so no session ends mid-pause. --note overwrites the stored
note; --tag adds to the existing tags.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		sessionID, ok := requireSessionArg(args)
		if !ok {
			return
		}
		at, ok := requireInstantFlag(cmd)
		if !ok {
			return
		}

		var note *string
		if cmd.Flags().Changed("note") {
			value, _ := cmd.Flags().GetString("note")
			note = &value
		}
		tags, _ := cmd.Flags().GetStringSlice("tag")

		view, err := db.StopSession(sessionID, at, note, tags)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("⏹️  Stopped session %s (%s)\n", view.Session.ID, view.Session.Routine.Name)
		printBreakdown(view)
	}),
}

func init() {
	startCmd.Flags().String("at", "", "Start instant (RFC 3339 with offset, required)")
	startCmd.Flags().String("note", "", "Free-text note for the session")
	startCmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")

	pauseCmd.Flags().String("at", "", "Pause instant (RFC 3339 with offset, required)")
	resumeCmd.Flags().String("at", "", "Resume instant (RFC 3339 with offset, required)")

	stopCmd.Flags().String("at", "", "Stop instant (RFC 3339 with offset, required)")
	stopCmd.Flags().String("note", "", "Overwrite the session note")
	stopCmd.Flags().StringSlice("tag", nil, "Tag to add (repeatable)")
}
