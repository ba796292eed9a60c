// Derive actionable todo items from gap analysis and learning plan outputs.
// Task identity is content-derived, so re-running generation upserts the same
// rows instead of duplicating them.

package tasks

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-jobcoach/internal/models"
)

const maxGapTasks = 6

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify folds diacritics, lowercases and collapses runs of
// non-alphanumerics into single dashes.
func Slugify(s string) string {
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	var b strings.Builder
	lastDash := true // trims leading dashes
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TaskID is the deterministic identity making regeneration idempotent.
func TaskID(applicationID string, source models.TaskSource, keyword string) string {
	return applicationID + "__" + Slugify(string(source)+"-"+keyword)
}

// FromGaps emits at most six "add proof" tasks from the missing keywords,
// the first two at high priority.
func FromGaps(applicationID string, missing []string, now time.Time) []models.Task {
	if len(missing) > maxGapTasks {
		missing = missing[:maxGapTasks]
	}
	out := make([]models.Task, 0, len(missing))
	for i, kw := range missing {
		priority := models.PriorityMedium
		if i < 2 {
			priority = models.PriorityHigh
		}
		out = append(out, models.Task{
			ID:            TaskID(applicationID, models.TaskSourceGaps, kw),
			ApplicationID: applicationID,
			Title:         fmt.Sprintf("Add proof for %s", kw),
			Source:        models.TaskSourceGaps,
			Keyword:       kw,
			Priority:      priority,
			Status:        models.TaskTodo,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}

// FromLearningPlan emits one medium-priority task per focus keyword.
func FromLearningPlan(applicationID string, focus []string, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(focus))
	for _, kw := range focus {
		out = append(out, models.Task{
			ID:            TaskID(applicationID, models.TaskSourceLearningPlan, kw),
			ApplicationID: applicationID,
			Title:         fmt.Sprintf("Work through the learning plan for %s", kw),
			Source:        models.TaskSourceLearningPlan,
			Keyword:       kw,
			Priority:      models.PriorityMedium,
			Status:        models.TaskTodo,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}

// SetStatus flips a task between todo and done. CompletedAt is set exactly
// when entering done and cleared otherwise.
func SetStatus(t *models.Task, status models.TaskStatus, now time.Time) {
	t.Status = status
	t.UpdatedAt = now
	if status == models.TaskDone {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}
