// The module builders. Each one is a pure function over confirmed facts and
// extracted keywords, so regenerating a module is deterministic.

package modules

import (
	"fmt"
	"strings"
	"time"

	"go-jobcoach/internal/models"
)

// benchmarkRubric is intentionally role-generic: the six dimensions a
// screener reads a profile against, independent of the keyword set.
var benchmarkRubric = []models.RubricLine{
	{Dimension: "Impact & Outcomes", Expectation: "Bullets lead with measurable results, not duties."},
	{Dimension: "Technical Depth", Expectation: "Core stack of the role is evidenced by real work, not a skills list."},
	{Dimension: "System Design", Expectation: "At least one bullet shows architecture or scaling decisions you owned."},
	{Dimension: "Collaboration", Expectation: "Cross-functional work (product, design, other teams) is visible."},
	{Dimension: "Communication", Expectation: "Writing is concise; summary reads in under ten seconds."},
	{Dimension: "Ownership", Expectation: "You can point at something you carried from idea to production."},
}

func BuildBenchmark(facts *models.ConfirmedFacts, kws []string, now time.Time) *models.BenchmarkPayload {
	target := facts.JobTitle
	if facts.Company != "" {
		target = fmt.Sprintf("%s at %s", facts.JobTitle, facts.Company)
	}

	sample := kws
	if len(sample) > 5 {
		sample = sample[:5]
	}
	summary := fmt.Sprintf("Benchmark for %s.", target)
	if len(sample) > 0 {
		summary = fmt.Sprintf("Benchmark for %s. The strongest candidates show clear evidence of %s.",
			target, strings.Join(sample, ", "))
	}

	return &models.BenchmarkPayload{
		Summary:     summary,
		Rubric:      benchmarkRubric,
		Keywords:    append([]string(nil), kws...),
		GeneratedAt: now,
	}
}
