package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobcoach/internal/models"
)

func TestEvaluate_NilFacts(t *testing.T) {
	res := Evaluate(nil, []string{"go", "react", "docker"})

	assert.Equal(t, []string{"go", "react", "docker"}, res.Missing)
	assert.Empty(t, res.Strengths)
	assert.Len(t, res.Recommendations, 3)
	assert.Contains(t, res.Summary, "3")
}

func TestEvaluate_SplitsCoveredAndMissing(t *testing.T) {
	facts := &models.ConfirmedFacts{
		Resume: models.ResumeArtifact{
			Text:   "Five years shipping Go services with PostgreSQL on AWS.",
			Skills: []string{"Docker"},
		},
	}

	res := Evaluate(facts, []string{"go", "postgresql", "docker", "react", "kubernetes"})

	assert.Equal(t, []string{"go", "postgresql", "Docker"}, res.Strengths)
	assert.Equal(t, []string{"react", "kubernetes"}, res.Missing)
	assert.Len(t, res.Recommendations, len(res.Missing), "exactly one recommendation per missing keyword")
}

func TestEvaluate_SkillsListKeepsOriginalCasing(t *testing.T) {
	facts := &models.ConfirmedFacts{
		Resume: models.ResumeArtifact{Skills: []string{"TypeScript", " GraphQL "}},
	}

	res := Evaluate(facts, []string{"typescript", "graphql"})

	assert.Equal(t, []string{"TypeScript", " GraphQL "}, res.Strengths)
	assert.Empty(t, res.Missing)
}

func TestEvaluate_EmptyKeywords(t *testing.T) {
	facts := &models.ConfirmedFacts{}

	res := Evaluate(facts, nil)

	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Strengths)
	assert.Empty(t, res.Recommendations)
}

func TestEvaluate_EmptyResumeNoFalseMatch(t *testing.T) {
	facts := &models.ConfirmedFacts{}

	res := Evaluate(facts, []string{"go"})

	assert.Equal(t, []string{"go"}, res.Missing,
		"an empty resume must not substring-match anything")
}
