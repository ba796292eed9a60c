package models

import "time"

type TaskSource string

const (
	TaskSourceGaps         TaskSource = "gaps"
	TaskSourceLearningPlan TaskSource = "learningPlan"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
)

type TaskStatus string

const (
	TaskTodo TaskStatus = "todo"
	TaskDone TaskStatus = "done"
)

// Task is a derived action item. Its ID is computed from the application id
// plus a slug of its source and keyword, so regeneration upserts instead of
// duplicating. Regeneration never resets a task's Status or CompletedAt.
type Task struct {
	ID            string       `json:"id"`
	ApplicationID string       `json:"application_id"`
	Title         string       `json:"title"`
	Source        TaskSource   `json:"source"`
	Keyword       string       `json:"keyword"`
	Priority      TaskPriority `json:"priority"`
	Status        TaskStatus   `json:"status"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
