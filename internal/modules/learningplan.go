package modules

import (
	"fmt"
	"time"

	"go-jobcoach/internal/models"
)

const planWeeks = 4

// fallbackFocus is used when the gap analysis found nothing missing.
var fallbackFocus = []string{"system design", "communication", "portfolio polish"}

// BuildLearningPlan produces a fixed four-week plan. Focus is the first four
// missing keywords (or the generic fallback); weekly themes cycle through the
// focus list, and resources carry exactly one entry per focus keyword.
func BuildLearningPlan(missing []string, now time.Time) *models.LearningPlanPayload {
	focus := missing
	if len(focus) > planWeeks {
		focus = focus[:planWeeks]
	}
	if len(focus) == 0 {
		focus = fallbackFocus
	}
	focus = append([]string(nil), focus...)

	weeks := make([]models.PlanWeek, 0, planWeeks)
	for i := 0; i < planWeeks; i++ {
		kw := focus[i%len(focus)]
		weeks = append(weeks, models.PlanWeek{
			Week:  i + 1,
			Theme: fmt.Sprintf("Week %d: %s", i+1, kw),
			Outcomes: []string{
				fmt.Sprintf("Be able to explain %s in an interview with a concrete example", kw),
			},
			Tasks: []string{
				fmt.Sprintf("Build or extend a small project exercising %s", kw),
				fmt.Sprintf("Write one resume bullet that evidences %s", kw),
			},
		})
	}

	resources := make([]models.PlanResource, 0, len(focus))
	for _, kw := range focus {
		resources = append(resources, models.PlanResource{
			Keyword: kw,
			Title:   fmt.Sprintf("Curated starting point for %s", kw),
		})
	}

	return &models.LearningPlanPayload{
		Focus:       focus,
		Weeks:       weeks,
		Resources:   resources,
		GeneratedAt: now,
	}
}
