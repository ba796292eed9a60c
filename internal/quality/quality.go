// Score a job description for completeness. The rubric is subtractive from
// 100 with fixed weights, so the same text always yields the same report.

package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go-jobcoach/internal/models"
)

const (
	weightVeryShort = 40
	weightShort     = 15
)

var (
	responsibilitiesRe = regexp.MustCompile(`(?i)(responsibilit|what you.?ll do|what you will do|your role|day[- ]to[- ]day)`)
	requirementsRe     = regexp.MustCompile(`(?i)(requirement|qualification|what we.?re looking for|must[- ]have|nice[- ]to[- ]have)`)
	bulletRe           = regexp.MustCompile(`^\s*([-*•·]|\d+[.)])\s+`)
)

type check struct {
	ok         bool
	weight     int
	issue      string
	suggestion string
}

// Evaluate scores jd against the completeness rubric. keywords is the set
// already extracted from the same text; only its length matters here.
func Evaluate(jd string, keywords []string) models.QualityReport {
	text := strings.TrimSpace(jd)
	chars := utf8.RuneCountInString(text)

	checks := []check{
		{
			ok:         chars >= 100,
			weight:     weightVeryShort,
			issue:      "Job description is very short (under 100 characters)",
			suggestion: "Paste the full job posting, not just the title",
		},
		{
			ok:         chars < 100 || chars >= 300, // skip when the severe check already fired
			weight:     weightShort,
			issue:      "Job description is thin (under 300 characters)",
			suggestion: "Include the full responsibilities and requirements text",
		},
		{
			ok:         responsibilitiesRe.MatchString(text),
			weight:     15,
			issue:      "No responsibilities section detected",
			suggestion: "Add the posting's responsibilities or \"what you'll do\" section",
		},
		{
			ok:         requirementsRe.MatchString(text),
			weight:     15,
			issue:      "No requirements or qualifications section detected",
			suggestion: "Add the posting's requirements/qualifications section",
		},
		{
			ok:         countBullets(text) >= 3,
			weight:     10,
			issue:      "Few or no bullet points found",
			suggestion: "Keep the posting's bullet lists, they carry the concrete signals",
		},
		{
			ok:         len(keywords) >= 3,
			weight:     10,
			issue:      "Too few recognizable keywords in the text",
			suggestion: "Make sure the technology and skill names from the posting are included",
		},
	}

	score := 100
	issues := []string{}
	suggestions := []string{}
	for _, c := range checks {
		if c.ok {
			continue
		}
		score -= c.weight
		issues = append(issues, c.issue)
		suggestions = append(suggestions, c.suggestion)
	}
	score = models.ClampScore(score)

	return models.QualityReport{
		Score:       score,
		Issues:      issues,
		Suggestions: suggestions,
		Summary:     fmt.Sprintf("Job description completeness: %d/100 (%d issue(s) found)", score, len(issues)),
	}
}

func countBullets(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if bulletRe.MatchString(line) {
			n++
		}
	}
	return n
}
