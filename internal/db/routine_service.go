package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rtn-cli/rtn/internal/apperr"
	"github.com/rtn-cli/rtn/internal/models"
)

// Routine names end up in filesystem paths and log lines, so the charset is
// deliberately narrow.
var safeNameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// CreateRoutine creates a new routine with a fresh identifier.
//
// No name-uniqueness pre-check happens here: duplicates are allowed to exist
// and are surfaced at lookup time instead (see ResolveRoutine), so a rename
// in progress never blocks creation.
func CreateRoutine(name, timezone, rule string, at time.Time) (*models.Routine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("routine name is required")
	}
	if !safeNameRe.MatchString(name) {
		return nil, fmt.Errorf("invalid routine name %q: only letters, digits, '.', '_' and '-' are allowed", name)
	}
	if strings.TrimSpace(rule) == "" {
		return nil, fmt.Errorf("routine rule is required")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone %q", timezone)
	}

	routine := models.Routine{
		ID:        models.NewRoutineID(),
		CreatedAt: at,
		UpdatedAt: at,
		Name:      name,
		Timezone:  timezone,
		Rule:      rule,
	}

	if err := DB.Create(&routine).Error; err != nil {
		return nil, fmt.Errorf("failed to create routine: %w", err)
	}

	return &routine, nil
}

// ResolveRoutine maps an identifier to exactly one routine. An identifier
// with the routine id prefix is looked up by primary key; anything else is
// treated as a name among non-archived routines. A name shared by two or
// more live routines fails with AmbiguousRoutine carrying every candidate —
// the caller picks by id, this layer never guesses.
func ResolveRoutine(identifier string) (*models.Routine, error) {
	if identifier == "" {
		return nil, apperr.New(apperr.CodeRoutineNotFound, "no routine specified")
	}

	if strings.HasPrefix(identifier, models.RoutineIDPrefix) {
		var routine models.Routine
		err := DB.First(&routine, "id = ?", identifier).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeRoutineNotFound, "routine %s not found", identifier)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up routine: %w", err)
		}
		return &routine, nil
	}

	var matches []models.Routine
	err := DB.Where("name = ? AND archived_at IS NULL", identifier).
		Order("id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up routine: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, apperr.New(apperr.CodeRoutineNotFound, "no routine named %q", identifier)
	case 1:
		return &matches[0], nil
	default:
		candidates := make([]apperr.Candidate, 0, len(matches))
		for _, m := range matches {
			candidates = append(candidates, apperr.Candidate{ID: m.ID, Name: m.Name, Timezone: m.Timezone})
		}
		return nil, apperr.Ambiguous(
			fmt.Sprintf("%d routines named %q; pick one by id", len(matches), identifier),
			candidates,
		)
	}
}

// ListRoutines returns all routines: active ones first, then by name, then
// by id, so listings are stable across runs.
func ListRoutines() ([]models.Routine, error) {
	var routines []models.Routine

	err := DB.Order("archived_at IS NOT NULL, name ASC, id ASC").
		Find(&routines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}

	return routines, nil
}

// ArchiveRoutine soft-disables a routine at the given instant. Archived
// routines drop out of name resolution but keep their history; nothing is
// ever hard-deleted.
func ArchiveRoutine(identifier string, at time.Time) (*models.Routine, error) {
	routine, err := ResolveRoutine(identifier)
	if err != nil {
		return nil, err
	}

	if routine.Archived() {
		return nil, apperr.New(apperr.CodeInvalidState, "routine %s is already archived", routine.ID)
	}

	updates := map[string]any{
		"archived_at": at,
		"updated_at":  at,
	}
	if err := DB.Model(routine).UpdateColumns(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to archive routine: %w", err)
	}
	routine.ArchivedAt = &at
	routine.UpdatedAt = at

	return routine, nil
}
