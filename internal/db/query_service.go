package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rtn-cli/rtn/internal/apperr"
	"github.com/rtn-cli/rtn/internal/models"
	"github.com/rtn-cli/rtn/internal/timer"
)

// orderedEvents preloads a session's event log in accounting order.
func orderedEvents(tx *gorm.DB) *gorm.DB {
	return tx.Order("at ASC, id ASC")
}

// ActiveSessions returns the computed view of every open session as of the
// given instant, ordered by start instant then id.
func ActiveSessions(asOf time.Time) ([]timer.View, error) {
	var sessions []models.Session

	err := DB.Where("ended_at IS NULL").
		Preload("Routine").
		Preload("Tags").
		Preload("Events", orderedEvents).
		Order("started_at ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	return computeViews(sessions, asOf), nil
}

// SessionStatus returns computed views for an identifier that is either a
// session id (one view, stopped sessions included) or a routine id/name
// (views of that routine's open sessions).
func SessionStatus(identifier string, asOf time.Time) ([]timer.View, error) {
	if strings.HasPrefix(identifier, models.SessionIDPrefix) {
		var session models.Session
		err := DB.Preload("Routine").
			Preload("Tags").
			Preload("Events", orderedEvents).
			First(&session, "id = ?", identifier).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeSessionNotFound, "session %s not found", identifier)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up session: %w", err)
		}
		return computeViews([]models.Session{session}, asOf), nil
	}

	routine, err := ResolveRoutine(identifier)
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	err = DB.Where("routine_id = ? AND ended_at IS NULL", routine.ID).
		Preload("Routine").
		Preload("Tags").
		Preload("Events", orderedEvents).
		Order("started_at ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list routine sessions: %w", err)
	}

	return computeViews(sessions, asOf), nil
}

// DayReport aggregates per-session accounting over one calendar day
type DayReport struct {
	Date     string       `json:"date"`
	Timezone string       `json:"timezone"`
	Sessions []timer.View `json:"sessions"`

	DurationSeconds int64 `json:"duration_seconds"`
	PausedSeconds   int64 `json:"paused_seconds"`
	ActiveSeconds   int64 `json:"active_seconds"`
}

// ReportDay folds the views of every session overlapping the calendar day
// in loc and sums their seconds. Pure read; adds no invariants of its own.
func ReportDay(day time.Time, loc *time.Location, asOf time.Time) (*DayReport, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Coarse SQL filter; precise overlap is decided below against the
	// session's effective end.
	var sessions []models.Session
	err := DB.Where("started_at < ?", dayEnd).
		Preload("Routine").
		Preload("Tags").
		Preload("Events", orderedEvents).
		Order("started_at ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	report := DayReport{
		Date:     dayStart.Format("2006-01-02"),
		Timezone: loc.String(),
		Sessions: []timer.View{},
	}

	for _, session := range sessions {
		effectiveEnd := asOf
		if session.EndedAt != nil {
			effectiveEnd = *session.EndedAt
		}
		if !effectiveEnd.After(dayStart) || !session.StartedAt.Before(dayEnd) {
			continue
		}

		view := timer.ComputeView(session, session.Events, asOf)
		report.Sessions = append(report.Sessions, view)
		report.DurationSeconds += view.DurationSeconds
		report.PausedSeconds += view.PausedSeconds
		report.ActiveSeconds += view.ActiveSeconds
	}

	return &report, nil
}

func computeViews(sessions []models.Session, asOf time.Time) []timer.View {
	views := make([]timer.View, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, timer.ComputeView(session, session.Events, asOf))
	}
	return views
}
