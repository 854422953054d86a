// Package timer derives session status and duration breakdowns from the
// immutable event log. Everything here is a pure fold over stored facts plus
// an explicit as-of instant, so replaying the same history always yields the
// same numbers.
package timer

import (
	"sort"
	"time"

	"github.com/rtn-cli/rtn/internal/models"
	"github.com/rtn-cli/rtn/internal/parser"
)

// Status is the derived lifecycle state of a session
type Status string

const (
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusStopped Status = "stopped"
)

// PauseInterval is a span during which a session accrued no active time.
// End is nil while the pause is still open.
type PauseInterval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// View is the computed state of one session as of a query instant
type View struct {
	Session models.Session  `json:"session"`
	AsOf    time.Time       `json:"as_of"`
	Status  Status          `json:"status"`
	Pauses  []PauseInterval `json:"pauses"`

	DurationSeconds int64 `json:"duration_seconds"`
	PausedSeconds   int64 `json:"paused_seconds"`
	ActiveSeconds   int64 `json:"active_seconds"`
}

// ComputeView folds a session's ordered pause/resume log into a duration
// breakdown as of asOf. It is total: degenerate inputs (an asOf before the
// session start, or before recorded events) clip to zero contributions
// rather than failing.
func ComputeView(session models.Session, events []models.SessionEvent, asOf time.Time) View {
	ordered := make([]models.SessionEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].At.Equal(ordered[j].At) {
			return ordered[i].At.Before(ordered[j].At)
		}
		return ordered[i].ID < ordered[j].ID
	})

	pauses := collectPauses(ordered)

	effectiveEnd := asOf
	if session.EndedAt != nil {
		effectiveEnd = *session.EndedAt
	}

	status := StatusRunning
	switch {
	case session.EndedAt != nil:
		status = StatusStopped
	case len(pauses) > 0 && pauses[len(pauses)-1].End == nil:
		status = StatusPaused
	}

	duration := parser.SecondsBetween(session.StartedAt, effectiveEnd)

	var paused int64
	for _, p := range pauses {
		start := p.Start
		if start.Before(session.StartedAt) {
			start = session.StartedAt
		}
		end := effectiveEnd
		if p.End != nil && p.End.Before(effectiveEnd) {
			end = *p.End
		}
		if secs := parser.SecondsBetween(start, end); secs > 0 {
			paused += secs
		}
	}

	active := duration - paused
	if active < 0 {
		active = 0
	}

	return View{
		Session:         session,
		AsOf:            asOf,
		Status:          status,
		Pauses:          pauses,
		DurationSeconds: duration,
		PausedSeconds:   paused,
		ActiveSeconds:   active,
	}
}

// collectPauses pairs pause events with the following resume. An unmatched
// trailing pause yields one open interval.
func collectPauses(events []models.SessionEvent) []PauseInterval {
	var pauses []PauseInterval
	open := false

	for _, ev := range events {
		switch ev.Kind {
		case models.EventPause:
			if !open {
				pauses = append(pauses, PauseInterval{Start: ev.At})
				open = true
			}
		case models.EventResume:
			if open {
				at := ev.At
				pauses[len(pauses)-1].End = &at
				open = false
			}
		}
	}

	return pauses
}
