package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rtn-cli/rtn/internal/apperr"
	"github.com/rtn-cli/rtn/internal/models"
	"github.com/rtn-cli/rtn/internal/parser"
	"github.com/rtn-cli/rtn/internal/timer"
)

// StartSession opens a new session against a routine at the given instant.
// A routine may have any number of simultaneously open sessions; they are
// fully independent of each other.
func StartSession(routineIdentifier string, at time.Time, note string, tagNames []string) (*timer.View, error) {
	routine, err := ResolveRoutine(routineIdentifier)
	if err != nil {
		return nil, err
	}

	session := models.Session{
		ID:        models.NewSessionID(),
		RoutineID: routine.ID,
		StartedAt: at,
		Note:      note,
	}

	if len(tagNames) > 0 {
		tags, err := findOrCreateTags(DB, tagNames)
		if err != nil {
			return nil, err
		}
		session.Tags = tags
	}

	if err := DB.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Routine = *routine

	view := timer.ComputeView(session, nil, at)
	return &view, nil
}

// PauseSession appends a pause event at the given instant. Pausing a session
// that is already paused fails with InvalidState: repeated pauses are
// rejected, never silently absorbed.
func PauseSession(sessionID string, at time.Time) (*timer.View, error) {
	var view timer.View

	err := DB.Transaction(func(tx *gorm.DB) error {
		session, events, err := loadSessionState(tx, sessionID)
		if err != nil {
			return err
		}
		if session.Stopped() {
			return apperr.New(apperr.CodeSessionNotActive, "session %s is already stopped", session.ID)
		}
		if lastEventKind(events) == models.EventPause {
			return apperr.New(apperr.CodeInvalidState, "session %s is already paused", session.ID)
		}

		event, err := appendEvent(tx, session, models.EventPause, at)
		if err != nil {
			return err
		}

		view = timer.ComputeView(*session, append(events, *event), at)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// ResumeSession closes the open pause at the given instant. Resuming a
// session that is not paused fails with InvalidState.
func ResumeSession(sessionID string, at time.Time) (*timer.View, error) {
	var view timer.View

	err := DB.Transaction(func(tx *gorm.DB) error {
		session, events, err := loadSessionState(tx, sessionID)
		if err != nil {
			return err
		}
		if session.Stopped() {
			return apperr.New(apperr.CodeSessionNotActive, "session %s is already stopped", session.ID)
		}
		if lastEventKind(events) != models.EventPause {
			return apperr.New(apperr.CodeInvalidState, "session %s is not paused", session.ID)
		}

		event, err := appendEvent(tx, session, models.EventResume, at)
		if err != nil {
			return err
		}

		view = timer.ComputeView(*session, append(events, *event), at)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// StopSession sets the session's permanent end instant. If the session is
// paused, an implicit resume is appended at the stop instant first, so a
// session never ends mid-pause. A non-nil note overwrites the stored one;
// tags are added to the existing set.
func StopSession(sessionID string, at time.Time, note *string, tagNames []string) (*timer.View, error) {
	var view timer.View

	err := DB.Transaction(func(tx *gorm.DB) error {
		session, events, err := loadSessionState(tx, sessionID)
		if err != nil {
			return err
		}
		if session.Stopped() {
			return apperr.New(apperr.CodeSessionNotActive, "session %s is already stopped", session.ID)
		}
		if parser.IsBefore(at, session.StartedAt) {
			return apperr.New(apperr.CodeEndBeforeStart,
				"stop instant %s precedes session start %s",
				at.Format(time.RFC3339), session.StartedAt.Format(time.RFC3339))
		}

		// Close a trailing open pause at the stop instant
		if lastEventKind(events) == models.EventPause {
			event, err := appendEvent(tx, session, models.EventResume, at)
			if err != nil {
				return err
			}
			events = append(events, *event)
		}

		updates := map[string]any{
			"ended_at":   at,
			"updated_at": at,
		}
		if note != nil {
			updates["note"] = *note
		}
		if err := tx.Model(session).UpdateColumns(updates).Error; err != nil {
			return fmt.Errorf("failed to stop session: %w", err)
		}
		session.EndedAt = &at
		session.UpdatedAt = at
		if note != nil {
			session.Note = *note
		}

		if len(tagNames) > 0 {
			tags, err := findOrCreateTags(tx, tagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(session).Association("Tags").Append(&tags); err != nil {
				return fmt.Errorf("failed to add session tags: %w", err)
			}
		}

		view = timer.ComputeView(*session, events, at)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// loadSessionState fetches a live session plus its ordered event log. Soft
// deleted sessions are invisible here (gorm filters them).
func loadSessionState(tx *gorm.DB, sessionID string) (*models.Session, []models.SessionEvent, error) {
	var session models.Session
	err := tx.Preload("Routine").Preload("Tags").First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.New(apperr.CodeSessionNotFound, "session %s not found", sessionID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up session: %w", err)
	}

	events, err := sessionEvents(tx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return &session, events, nil
}

// sessionEvents returns a session's events ordered by instant, then by
// insertion order for same-instant ties.
func sessionEvents(tx *gorm.DB, sessionID string) ([]models.SessionEvent, error) {
	var events []models.SessionEvent
	err := tx.Where("session_id = ?", sessionID).
		Order("at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load session events: %w", err)
	}
	return events, nil
}

func lastEventKind(events []models.SessionEvent) string {
	if len(events) == 0 {
		return ""
	}
	return events[len(events)-1].Kind
}

// appendEvent writes one immutable pause/resume fact and touches the
// session's update instant with the same caller-supplied timestamp.
func appendEvent(tx *gorm.DB, session *models.Session, kind string, at time.Time) (*models.SessionEvent, error) {
	event := models.SessionEvent{
		SessionID: session.ID,
		Kind:      kind,
		At:        at,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to append %s event: %w", kind, err)
	}

	if err := tx.Model(session).UpdateColumn("updated_at", at).Error; err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}
	session.UpdatedAt = at

	return &event, nil
}

// findOrCreateTags finds existing tags or creates new ones, deduplicating
// the requested names.
func findOrCreateTags(tx *gorm.DB, tagNames []string) ([]models.Tag, error) {
	var tags []models.Tag
	seen := make(map[string]bool)

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag

		// Try to find existing tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err != nil {
			// Tag doesn't exist, create it
			tag = models.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
			}
		}

		tags = append(tags, tag)
	}

	return tags, nil
}
