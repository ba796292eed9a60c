package modules

import (
	"time"

	"go-jobcoach/internal/gaps"
	"go-jobcoach/internal/models"
)

// BuildGaps wraps the gap evaluation and derives the compatibility figure
// from the coverage ratio.
func BuildGaps(ev gaps.Result, totalKeywords int, now time.Time) *models.GapsPayload {
	compatibility := 0
	if totalKeywords > 0 {
		compatibility = models.ClampScore(len(ev.Strengths) * 100 / totalKeywords)
	}
	return &models.GapsPayload{
		MissingKeywords: ev.Missing,
		Strengths:       ev.Strengths,
		Recommendations: ev.Recommendations,
		Summary:         ev.Summary,
		Compatibility:   compatibility,
		GeneratedAt:     now,
	}
}
