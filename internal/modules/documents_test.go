package modules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-jobcoach/internal/models"
)

func TestBuildCVSeed_EscapesFactsButNotBaseResume(t *testing.T) {
	facts := &models.ConfirmedFacts{
		CandidateName: "Ada <script>Lovelace</script>",
		Headline:      "Engineer & Analyst",
	}

	seed := BuildCVSeed(facts, []string{"c++"}, "<p>base resume</p>", time.Now())

	assert.Contains(t, seed.HTML, "Ada &lt;script&gt;Lovelace&lt;/script&gt;")
	assert.Contains(t, seed.HTML, "Engineer &amp; Analyst")
	assert.Contains(t, seed.HTML, "<li>c++</li>")
	assert.Contains(t, seed.HTML, "<p>base resume</p>", "imported resume HTML is embedded as-is")
	assert.Contains(t, seed.HTML, "Proof Hooks")
}

func TestBuildCVSeed_Defaults(t *testing.T) {
	facts := &models.ConfirmedFacts{JobTitle: "Backend Engineer"}

	seed := BuildCVSeed(facts, nil, "", time.Now())

	assert.Contains(t, seed.HTML, "<h1>Your Name</h1>")
	assert.Contains(t, seed.HTML, "Backend Engineer", "job title stands in for a missing headline")
	assert.NotContains(t, seed.HTML, "Base Resume", "no base resume section without resume text")
}

func TestBuildCoverLetterSeed(t *testing.T) {
	facts := &models.ConfirmedFacts{
		CandidateName: "Ada",
		JobTitle:      "Platform Engineer",
		Company:       "Initech & Co",
	}

	seed := BuildCoverLetterSeed(facts, []string{"go"}, time.Now())

	assert.Contains(t, seed.HTML, "Dear Initech &amp; Co,")
	assert.Contains(t, seed.HTML, "Platform Engineer")
	assert.Contains(t, seed.HTML, "<li>go</li>")
	assert.Contains(t, seed.HTML, "<p>Ada</p>")
}

func TestBuildCoverLetterSeed_MissingCompany(t *testing.T) {
	seed := BuildCoverLetterSeed(&models.ConfirmedFacts{JobTitle: "Dev"}, nil, time.Now())

	assert.Contains(t, seed.HTML, "Dear the hiring team,")
}

func TestResumeTextToHTML(t *testing.T) {
	text := "Summary line one\nline two\n\nSecond paragraph with <tags> & symbols"

	got := ResumeTextToHTML(text)

	assert.Contains(t, got, "<p>Summary line one<br>\nline two</p>")
	assert.Contains(t, got, "&lt;tags&gt; &amp; symbols")
	assert.Equal(t, "", ResumeTextToHTML("  \n\n  "))
}

func TestBuildBenchmark(t *testing.T) {
	facts := &models.ConfirmedFacts{JobTitle: "SRE", Company: "Acme"}

	bm := BuildBenchmark(facts, []string{"go", "kubernetes"}, time.Now())

	assert.Len(t, bm.Rubric, 6)
	assert.Contains(t, bm.Summary, "SRE at Acme")
	assert.Contains(t, bm.Summary, "go, kubernetes")
	assert.Equal(t, []string{"go", "kubernetes"}, bm.Keywords)
}
