package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusDraft    ApplicationStatus = "draft"
	StatusActive   ApplicationStatus = "active"
	StatusArchived ApplicationStatus = "archived"
)

// ResumeArtifact is the uploaded resume attached to the confirmed facts.
// Text is the extracted plain text (when extraction succeeded), URL points at
// the stored file.
type ResumeArtifact struct {
	Text     string   `json:"text,omitempty"`
	URL      string   `json:"url,omitempty"`
	FileName string   `json:"fileName,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// ConfirmedFacts is the user-locked input that seeds generation. Immutable
// while FactsLocked is set on the application, except via explicit
// edit-and-relock.
type ConfirmedFacts struct {
	CandidateName  string         `json:"candidateName,omitempty"`
	Headline       string         `json:"headline,omitempty"`
	JobTitle       string         `json:"jobTitle"`
	Company        string         `json:"company,omitempty"`
	JobDescription string         `json:"jobDescription"`
	Quality        *QualityReport `json:"quality,omitempty"`
	Resume         ResumeArtifact `json:"resume"`
}

// QualityReport is the deterministic completeness rubric for a job
// description. Same text always yields the same report.
type QualityReport struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary"`
}

// DocVersion is one immutable snapshot of a document's HTML content.
type DocVersion struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	ContentHTML string    `json:"contentHtml"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Document is an editable HTML document with its bounded version history,
// most recent version first.
type Document struct {
	ContentHTML string       `json:"contentHtml"`
	Versions    []DocVersion `json:"versions"`
}

type DocKind string

const (
	DocCV          DocKind = "cv"
	DocCoverLetter DocKind = "coverLetter"
)

func ParseDocKind(s string) (DocKind, bool) {
	switch DocKind(s) {
	case DocCV, DocCoverLetter:
		return DocKind(s), true
	}
	return "", false
}

// Scores is the aggregate snapshot shown on the dashboard, all values
// clamped to [0,100].
type Scores struct {
	Match            int       `json:"match"`
	ATSReadiness     int       `json:"atsReadiness"`
	RecruiterScan    int       `json:"recruiterScan"`
	EvidenceStrength int       `json:"evidenceStrength"`
	TopFix           string    `json:"topFix"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Application is the aggregate root: one tracked job application with its
// confirmed facts, six module payloads, module statuses, editable documents
// and score snapshot.
type Application struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Status      ApplicationStatus `json:"status"`
	Facts       *ConfirmedFacts   `json:"facts,omitempty"`
	FactsLocked bool              `json:"facts_locked"`

	Modules ModuleStatusSet `json:"modules"`

	Benchmark    *BenchmarkPayload    `json:"benchmark,omitempty"`
	Gaps         *GapsPayload         `json:"gaps,omitempty"`
	LearningPlan *LearningPlanPayload `json:"learning_plan,omitempty"`
	CV           *DocSeedPayload      `json:"cv,omitempty"`
	CoverLetter  *DocSeedPayload      `json:"cover_letter,omitempty"`
	Scorecard    *Scores              `json:"scorecard,omitempty"`

	CVDoc          Document `json:"cv_doc"`
	CoverLetterDoc Document `json:"cover_letter_doc"`

	Scores *Scores `json:"scores,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClampScore bounds a raw score into [0,100].
func ClampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
