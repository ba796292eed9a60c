package modules

import (
	"fmt"
	"html"
	"strings"
	"time"

	"go-jobcoach/internal/models"
)

// BuildCVSeed assembles the starting HTML for the tailored CV. All free text
// coming from the facts is escaped; only baseResumeHTML (already HTML,
// produced by our own import step) is embedded verbatim.
func BuildCVSeed(facts *models.ConfirmedFacts, kws []string, baseResumeHTML string, now time.Time) *models.DocSeedPayload {
	var b strings.Builder

	name := facts.CandidateName
	if name == "" {
		name = "Your Name"
	}
	headline := facts.Headline
	if headline == "" {
		headline = facts.JobTitle
	}

	b.WriteString("<h1>" + html.EscapeString(name) + "</h1>\n")
	b.WriteString("<p class=\"headline\">" + html.EscapeString(headline) + "</p>\n")

	writeKeywordSection(&b, kws)
	writeProofHooks(&b)

	if baseResumeHTML != "" {
		b.WriteString("<h2>Base Resume</h2>\n")
		b.WriteString("<div class=\"base-resume\">\n" + baseResumeHTML + "\n</div>\n")
	}

	return &models.DocSeedPayload{HTML: b.String(), GeneratedAt: now}
}

// BuildCoverLetterSeed assembles the starting HTML for the cover letter.
func BuildCoverLetterSeed(facts *models.ConfirmedFacts, kws []string, now time.Time) *models.DocSeedPayload {
	var b strings.Builder

	company := facts.Company
	if company == "" {
		company = "the hiring team"
	}

	b.WriteString("<p>Dear " + html.EscapeString(company) + ",</p>\n")
	b.WriteString(fmt.Sprintf("<p>I'm applying for the %s role. Here is why I'm a strong fit.</p>\n",
		html.EscapeString(facts.JobTitle)))

	writeKeywordSection(&b, kws)
	writeProofHooks(&b)

	b.WriteString("<p>Best regards,</p>\n")
	if facts.CandidateName != "" {
		b.WriteString("<p>" + html.EscapeString(facts.CandidateName) + "</p>\n")
	}

	return &models.DocSeedPayload{HTML: b.String(), GeneratedAt: now}
}

func writeKeywordSection(b *strings.Builder, kws []string) {
	b.WriteString("<h2>Role Keywords</h2>\n<ul>\n")
	for _, kw := range kws {
		b.WriteString("<li>" + html.EscapeString(kw) + "</li>\n")
	}
	b.WriteString("</ul>\n")
}

// ResumeTextToHTML converts extracted plain resume text into escaped HTML
// paragraphs for embedding as the "Base Resume" block.
func ResumeTextToHTML(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		b.WriteString("<p>" + escaped + "</p>\n")
	}
	return b.String()
}

func writeProofHooks(b *strings.Builder) {
	b.WriteString("<h2>Proof Hooks</h2>\n")
	b.WriteString("<p class=\"placeholder\">Insert evidence here: projects, metrics, links.</p>\n")
}
