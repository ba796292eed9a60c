package models

import "time"

type EvidenceKind string

const (
	EvidenceLink EvidenceKind = "link"
	EvidenceFile EvidenceKind = "file"
)

// Evidence is a user-owned proof item (a link or an uploaded file). It
// belongs to the user, not to any one application: archiving an application
// never deletes evidence, and documents reference it only weakly by id.
type Evidence struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	Kind          EvidenceKind `json:"kind"`
	Title         string       `json:"title"`
	URL           string       `json:"url,omitempty"`
	Skills        []string     `json:"skills,omitempty"`
	Tools         []string     `json:"tools,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	ApplicationID *string      `json:"application_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
