package db

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtn-cli/rtn/internal/apperr"
	"github.com/rtn-cli/rtn/internal/models"
	"github.com/rtn-cli/rtn/internal/timer"
)

// startTestSession creates a routine and opens one session against it
func startTestSession(t *testing.T, at time.Time) *timer.View {
	t.Helper()

	routine, err := CreateRoutine("deep-work", "Asia/Tokyo", "weekdays", at)
	require.NoError(t, err)

	view, err := StartSession(routine.ID, at, "", nil)
	require.NoError(t, err)
	return view
}

func TestStartSession(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")

	view := startTestSession(t, t0)

	assert.True(t, strings.HasPrefix(view.Session.ID, models.SessionIDPrefix))
	assert.Equal(t, timer.StatusRunning, view.Status)
	assert.True(t, view.Session.StartedAt.Equal(t0))
	assert.Nil(t, view.Session.EndedAt)
	assert.Equal(t, int64(0), view.DurationSeconds)
}

func TestStartSession_UnknownRoutine(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")

	_, err := StartSession("nope", t0, "", nil)
	assert.Equal(t, apperr.CodeRoutineNotFound, apperr.CodeOf(err))
}

func TestStartSession_AmbiguousRoutinePropagates(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")

	_, err := CreateRoutine("yoga", "UTC", "daily", t0)
	require.NoError(t, err)
	_, err = CreateRoutine("yoga", "Asia/Tokyo", "daily", t0)
	require.NoError(t, err)

	_, err = StartSession("yoga", t0, "", nil)
	assert.Equal(t, apperr.CodeAmbiguousRoutine, apperr.CodeOf(err))
}

func TestSessionLifecycle(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	started := startTestSession(t, t0)

	paused, err := PauseSession(started.Session.ID, t0.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, timer.StatusPaused, paused.Status)

	resumed, err := ResumeSession(started.Session.ID, t0.Add(15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, timer.StatusRunning, resumed.Status)

	stopped, err := StopSession(started.Session.ID, t0.Add(30*time.Minute), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, timer.StatusStopped, stopped.Status)
	assert.Equal(t, int64(1800), stopped.DurationSeconds)
	assert.Equal(t, int64(300), stopped.PausedSeconds)
	assert.Equal(t, int64(1500), stopped.ActiveSeconds)
}

func TestPauseSession_AlreadyPaused(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	started := startTestSession(t, t0)

	_, err := PauseSession(started.Session.ID, t0.Add(5*time.Minute))
	require.NoError(t, err)

	// Never silently idempotent
	_, err = PauseSession(started.Session.ID, t0.Add(6*time.Minute))
	assert.Equal(t, apperr.CodeInvalidState, apperr.CodeOf(err))
}

func TestResumeSession_NotPaused(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	started := startTestSession(t, t0)

	_, err := ResumeSession(started.Session.ID, t0.Add(5*time.Minute))
	assert.Equal(t, apperr.CodeInvalidState, apperr.CodeOf(err))
}

func TestMutations_SessionNotFound(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	missing := models.SessionIDPrefix + "missing"

	_, err := PauseSession(missing, t0)
	assert.Equal(t, apperr.CodeSessionNotFound, apperr.CodeOf(err))

	_, err = ResumeSession(missing, t0)
	assert.Equal(t, apperr.CodeSessionNotFound, apperr.CodeOf(err))

	_, err = StopSession(missing, t0, nil, nil)
	assert.Equal(t, apperr.CodeSessionNotFound, apperr.CodeOf(err))
}

func TestMutations_StoppedSessionNotActive(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	started := startTestSession(t, t0)

	_, err := StopSession(started.Session.ID, t0.Add(30*time.Minute), nil, nil)
	require.NoError(t, err)

	// stopped is terminal for all three transitions
	_, err = PauseSession(started.Session.ID, t0.Add(40*time.Minute))
	assert.Equal(t, apperr.CodeSessionNotActive, apperr.CodeOf(err))

	_, err = ResumeSession(started.Session.ID, t0.Add(40*time.Minute))
	assert.Equal(t, apperr.CodeSessionNotActive, apperr.CodeOf(err))

	_, err = StopSession(started.Session.ID, t0.Add(40*time.Minute), nil, nil)
	assert.Equal(t, apperr.CodeSessionNotActive, apperr.CodeOf(err))
}

func TestStopSession_EndBeforeStart(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	started := startTestSession(t, t0)

	_, err := StopSession(started.Session.ID, t0.Add(-time.Minute), nil, nil)
	assert.Equal(t, apperr.CodeEndBeforeStart, apperr.CodeOf(err))

	// The rejected stop left no trace: still open, no events
	session, events, err := loadSessionState(DB, started.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, session.EndedAt)
	assert.Empty(t, events)
}

func TestStopSession_WhilePausedClosesPause(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")
	started := startTestSession(t, t0)

	_, err := PauseSession(started.Session.ID, t0.Add(10*time.Minute))
	require.NoError(t, err)

	end := t0.Add(20 * time.Minute)
	view, err := StopSession(started.Session.ID, end, nil, nil)
	require.NoError(t, err)

	// The implicit resume closes the trailing pause exactly at the end instant
	require.Len(t, view.Pauses, 1)
	require.NotNil(t, view.Pauses[0].End)
	assert.True(t, view.Pauses[0].End.Equal(end))

	assert.Equal(t, int64(1200), view.DurationSeconds)
	assert.Equal(t, int64(600), view.PausedSeconds)
	assert.Equal(t, int64(600), view.ActiveSeconds)

	events, err := sessionEvents(DB, started.Session.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventPause, events[0].Kind)
	assert.Equal(t, models.EventResume, events[1].Kind)
	assert.True(t, events[1].At.Equal(end))
}

func TestStopSession_NoteAndTagMerge(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")

	routine, err := CreateRoutine("deep-work", "UTC", "daily", t0)
	require.NoError(t, err)

	started, err := StartSession(routine.ID, t0, "first note", []string{"focus", "focus"})
	require.NoError(t, err)
	require.Len(t, started.Session.Tags, 1) // deduplicated on start

	// nil note leaves the stored note unchanged; tags are added
	view, err := StopSession(started.Session.ID, t0.Add(time.Hour), nil, []string{"morning", "focus"})
	require.NoError(t, err)
	assert.Equal(t, "first note", view.Session.Note)

	var session models.Session
	require.NoError(t, DB.Preload("Tags").First(&session, "id = ?", started.Session.ID).Error)
	names := make([]string, 0, len(session.Tags))
	for _, tag := range session.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"focus", "morning"}, names)
}

func TestStopSession_NoteOverwrite(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")

	routine, err := CreateRoutine("deep-work", "UTC", "daily", t0)
	require.NoError(t, err)
	started, err := StartSession(routine.ID, t0, "first note", nil)
	require.NoError(t, err)

	note := "revised"
	view, err := StopSession(started.Session.ID, t0.Add(time.Hour), &note, nil)
	require.NoError(t, err)
	assert.Equal(t, "revised", view.Session.Note)

	var session models.Session
	require.NoError(t, DB.First(&session, "id = ?", started.Session.ID).Error)
	assert.Equal(t, "revised", session.Note)
}

func TestMultipleOpenSessions_Independent(t *testing.T) {
	setupTestDB(t)
	t0 := mustInstant(t, "2026-01-31T09:00:00+09:00")

	routine, err := CreateRoutine("deep-work", "UTC", "daily", t0)
	require.NoError(t, err)

	// Two simultaneously open sessions against the same routine are legal
	first, err := StartSession(routine.ID, t0, "", nil)
	require.NoError(t, err)
	second, err := StartSession(routine.ID, t0.Add(5*time.Minute), "", nil)
	require.NoError(t, err)

	_, err = StopSession(first.Session.ID, t0.Add(10*time.Minute), nil, nil)
	require.NoError(t, err)

	// Stopping one must not affect the other's status or accounting
	views, err := SessionStatus(second.Session.ID, t0.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, timer.StatusRunning, views[0].Status)
	assert.Equal(t, int64(300), views[0].ActiveSeconds)
}
