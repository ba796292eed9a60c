package modules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go-jobcoach/internal/models"
)

const lowQualityThreshold = 60

// ScorecardInput carries the four raw score components. Values may be out of
// range; BuildScorecard clamps them.
type ScorecardInput struct {
	Match    int
	ATS      int
	Scan     int
	Evidence int
	TopFix   string
}

func BuildScorecard(in ScorecardInput, now time.Time) *models.Scores {
	return &models.Scores{
		Match:            models.ClampScore(in.Match),
		ATSReadiness:     models.ClampScore(in.ATS),
		RecruiterScan:    models.ClampScore(in.Scan),
		EvidenceStrength: models.ClampScore(in.Evidence),
		TopFix:           in.TopFix,
		UpdatedAt:        now,
	}
}

// ComputeMatchScore counts how many keywords occur in the union of resume
// text and job description. Nil facts or an empty keyword set score 0.
func ComputeMatchScore(facts *models.ConfirmedFacts, kws []string) int {
	if facts == nil || len(kws) == 0 {
		return 0
	}
	haystack := strings.ToLower(facts.Resume.Text + " " + facts.JobDescription)
	hit := 0
	for _, kw := range kws {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			hit++
		}
	}
	return models.ClampScore(hit * 100 / len(kws))
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// DocumentCoverage scores how many keywords appear in a document's visible
// text. Tags are stripped first so markup never counts as a hit.
func DocumentCoverage(docHTML string, kws []string) int {
	if len(kws) == 0 {
		return 0
	}
	text := strings.ToLower(tagRe.ReplaceAllString(docHTML, " "))
	hit := 0
	for _, kw := range kws {
		if strings.Contains(text, strings.ToLower(kw)) {
			hit++
		}
	}
	return models.ClampScore(hit * 100 / len(kws))
}

// DeriveTopFix picks the single most useful next action. Strict priority
// cascade: first missing keyword, then poor JD quality, then a generic
// summary polish.
func DeriveTopFix(missing []string, q models.QualityReport) string {
	if len(missing) > 0 {
		return fmt.Sprintf("Add proof for %q to your resume: a project, metric, or bullet that shows it.", missing[0])
	}
	if q.Score < lowQualityThreshold {
		return "Improve the job description input: paste the complete JD so responsibilities and requirements are visible."
	}
	return "Tighten your summary to lead with your strongest outcome."
}
