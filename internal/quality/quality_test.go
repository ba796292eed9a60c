package quality

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodJD = `Senior Backend Engineer

What you'll do:
- Design and ship Go services on Kubernetes
- Own PostgreSQL schema design and migrations
- Work with product and design on roadmap

Requirements:
- 5+ years building backend systems
- Strong Go and SQL
- Experience with Docker and CI pipelines

We offer a collaborative remote-first environment with real ownership over
the systems you build, plus plenty of room to grow into staff scope.`

func TestEvaluate_TitleOnly(t *testing.T) {
	report := Evaluate("Software Engineer at TechCo", nil)

	assert.Less(t, report.Score, 50, "a bare title must score poorly")
	assert.GreaterOrEqual(t, len(report.Issues), 4)
	assert.Len(t, report.Suggestions, len(report.Issues), "one suggestion per issue")
	assert.Contains(t, report.Summary, "issue")
}

func TestEvaluate_CompleteJD(t *testing.T) {
	report := Evaluate(goodJD, []string{"go", "kubernetes", "postgresql", "docker"})

	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Suggestions)
}

func TestEvaluate_ShortCheckSkippedWhenVeryShort(t *testing.T) {
	report := Evaluate("Backend dev", nil)

	assert.Contains(t, report.Issues[0], "very short")
	for _, issue := range report.Issues {
		assert.NotContains(t, issue, "thin", "the mild length check must not stack on the severe one")
	}
}

func TestEvaluate_MidLengthFiresThinCheck(t *testing.T) {
	// Between 100 and 300 characters, with sections present so only length fails.
	jd := "Responsibilities: build APIs.\nRequirements: Go.\n- one\n- two\n- three\n" +
		strings.Repeat("x", 60)
	assert.GreaterOrEqual(t, len(jd), 100)
	assert.Less(t, len(jd), 300)

	report := Evaluate(jd, []string{"go", "api", "sql"})

	assert.Contains(t, report.Issues, "Job description is thin (under 300 characters)")
}

func TestEvaluate_LengthCountsCharactersNotBytes(t *testing.T) {
	// 60 characters, 180 bytes. Byte-based length would clear the 100
	// threshold; character-based must not.
	jd := strings.Repeat("募", 60)
	require.GreaterOrEqual(t, len(jd), 100)
	require.Less(t, utf8.RuneCountInString(jd), 100)

	report := Evaluate(jd, nil)

	assert.Contains(t, report.Issues, "Job description is very short (under 100 characters)")
}

func TestEvaluate_Deterministic(t *testing.T) {
	a := Evaluate(goodJD, []string{"go"})
	b := Evaluate(goodJD, []string{"go"})

	assert.Equal(t, a, b)
}

func TestCountBullets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "dashes", text: "- a\n- b\n- c", want: 3},
		{name: "mixed markers", text: "* a\n• b\n1. c\n2) d", want: 4},
		{name: "prose only", text: "no bullets here\njust text", want: 0},
		{name: "indented", text: "  - a\n\t- b", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countBullets(tt.text))
		})
	}
}
