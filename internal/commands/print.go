package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtn-cli/rtn/internal/apperr"
	"github.com/rtn-cli/rtn/internal/db"
	"github.com/rtn-cli/rtn/internal/parser"
	"github.com/rtn-cli/rtn/internal/timer"
)

// requireInstantFlag parses the mandatory --at flag. Mutating commands never
// fall back to the local clock.
func requireInstantFlag(cmd *cobra.Command) (time.Time, bool) {
	raw, _ := cmd.Flags().GetString("at")
	if raw == "" {
		fmt.Println("Error: --at is required, e.g. --at 2026-01-31T09:00:00+09:00")
		return time.Time{}, false
	}

	at, err := parser.ParseInstant(raw)
	if err != nil {
		printError(err)
		return time.Time{}, false
	}
	return at, true
}

// asOfFlag parses the optional --as-of flag for read commands, defaulting to
// now. Reads carry no persisted consequence, so ambient time is fine here.
func asOfFlag(cmd *cobra.Command) (time.Time, bool) {
	raw, _ := cmd.Flags().GetString("as-of")
	if raw == "" {
		return time.Now(), true
	}

	asOf, err := parser.ParseInstant(raw)
	if err != nil {
		printError(err)
		return time.Time{}, false
	}
	return asOf, true
}

// requireSessionArg returns the session id argument, or prints the currently
// active sessions so the caller can pick one.
func requireSessionArg(args []string) (string, bool) {
	if len(args) == 1 {
		return args[0], true
	}

	fmt.Println("Error: a session id is required")
	views, err := db.ActiveSessions(time.Now())
	if err != nil || len(views) == 0 {
		return "", false
	}

	fmt.Println("Currently active sessions:")
	for _, view := range views {
		fmt.Printf("  %s  %-20s %-8s started %s\n",
			view.Session.ID,
			view.Session.Routine.Name,
			view.Status,
			formatInstant(view.Session.StartedAt))
	}
	return "", false
}

// printError renders a failure; typed failures get their code and, for an
// ambiguous routine, the full candidate list.
func printError(err error) {
	var typed *apperr.Error
	if !errors.As(err, &typed) {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Error [%s]: %s\n", typed.Code, typed.Message)
	for _, c := range typed.Candidates {
		fmt.Printf("  %s  %-20s %s\n", c.ID, c.Name, c.Timezone)
	}
}

func printBreakdown(view *timer.View) {
	fmt.Printf("Status: %s · active %s · paused %s · total %s\n",
		view.Status,
		formatSeconds(view.ActiveSeconds),
		formatSeconds(view.PausedSeconds),
		formatSeconds(view.DurationSeconds))
}

func printView(view timer.View) {
	ended := "-"
	if view.Session.EndedAt != nil {
		ended = formatInstant(*view.Session.EndedAt)
	}

	fmt.Printf("%s  %-20s %-8s started %s  ended %s\n",
		view.Session.ID,
		view.Session.Routine.Name,
		view.Status,
		formatInstant(view.Session.StartedAt),
		ended)
	fmt.Printf("    active %s · paused %s · total %s\n",
		formatSeconds(view.ActiveSeconds),
		formatSeconds(view.PausedSeconds),
		formatSeconds(view.DurationSeconds))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatInstant(t time.Time) string {
	return t.Format(time.RFC3339)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}
