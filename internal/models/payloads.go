package models

import "time"

// RubricLine is one dimension of the benchmark rubric.
type RubricLine struct {
	Dimension   string `json:"dimension"`
	Expectation string `json:"expectation"`
}

type BenchmarkPayload struct {
	Summary     string       `json:"summary"`
	Rubric      []RubricLine `json:"rubric"`
	Keywords    []string     `json:"keywords"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

type GapsPayload struct {
	MissingKeywords []string  `json:"missingKeywords"`
	Strengths       []string  `json:"strengths"`
	Recommendations []string  `json:"recommendations"`
	Summary         string    `json:"summary"`
	Compatibility   int       `json:"compatibility"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

type PlanWeek struct {
	Week     int      `json:"week"`
	Theme    string   `json:"theme"`
	Outcomes []string `json:"outcomes"`
	Tasks    []string `json:"tasks"`
}

type PlanResource struct {
	Keyword string `json:"keyword"`
	Title   string `json:"title"`
}

type LearningPlanPayload struct {
	Focus       []string       `json:"focus"`
	Weeks       []PlanWeek     `json:"weeks"`
	Resources   []PlanResource `json:"resources"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// DocSeedPayload is the generated starting point for an editable document
// (tailored CV or cover letter).
type DocSeedPayload struct {
	HTML        string    `json:"html"`
	GeneratedAt time.Time `json:"generatedAt"`
}
