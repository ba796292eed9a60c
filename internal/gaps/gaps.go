// Partition extracted keywords into covered strengths vs missing gaps by
// checking them against the resume text and explicit skills list.

package gaps

import (
	"fmt"
	"strings"

	"go-jobcoach/internal/models"
)

// Result is the gap evaluation for one keyword set against one set of
// confirmed facts.
type Result struct {
	Missing         []string
	Strengths       []string
	Recommendations []string
	Summary         string
}

// Evaluate checks each keyword for case-insensitive presence in the resume
// text or membership in the explicit skills list. With nil facts every
// keyword is missing. Recommendations carry exactly one entry per missing
// keyword.
func Evaluate(facts *models.ConfirmedFacts, kws []string) Result {
	res := Result{
		Missing:         []string{},
		Strengths:       []string{},
		Recommendations: []string{},
	}

	if facts == nil {
		for _, kw := range kws {
			res.Missing = append(res.Missing, kw)
			res.Recommendations = append(res.Recommendations, fmt.Sprintf("Develop evidence for %s", kw))
		}
		res.Summary = fmt.Sprintf("No confirmed facts yet: all %d target keywords need evidence.", len(kws))
		return res
	}

	resumeText := strings.ToLower(facts.Resume.Text)
	// Keep the skills list's original casing for display.
	skillByLower := make(map[string]string, len(facts.Resume.Skills))
	for _, s := range facts.Resume.Skills {
		skillByLower[strings.ToLower(strings.TrimSpace(s))] = s
	}

	for _, kw := range kws {
		lower := strings.ToLower(kw)
		if display, ok := skillByLower[lower]; ok {
			res.Strengths = append(res.Strengths, display)
			continue
		}
		if resumeText != "" && strings.Contains(resumeText, lower) {
			res.Strengths = append(res.Strengths, kw)
			continue
		}
		res.Missing = append(res.Missing, kw)
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Build proof for %s: add a project, bullet point, or metric that demonstrates it.", kw))
	}

	res.Summary = fmt.Sprintf("%d of %d target keywords lack evidence in your resume.", len(res.Missing), len(kws))
	return res
}
