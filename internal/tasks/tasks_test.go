package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobcoach/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Go", want: "go"},
		{name: "spaces", in: "system design", want: "system-design"},
		{name: "symbols collapse", in: "C++ / C#", want: "c-c"},
		{name: "diacritics fold", in: "résumé coaching", want: "resume-coaching"},
		{name: "leading trailing junk", in: "  --react!  ", want: "react"},
		{name: "dots", in: "node.js", want: "node-js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestTaskID_StableAndDistinctBySource(t *testing.T) {
	a := TaskID("app-1", models.TaskSourceGaps, "Kubernetes")
	b := TaskID("app-1", models.TaskSourceGaps, "kubernetes")
	c := TaskID("app-1", models.TaskSourceLearningPlan, "kubernetes")

	assert.Equal(t, "app-1__gaps-kubernetes", a)
	assert.Equal(t, a, b, "casing must not change identity")
	assert.NotEqual(t, a, c, "same keyword from another source is another task")
}

func TestFromGaps_CapAndPriorities(t *testing.T) {
	now := time.Now()
	missing := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	out := FromGaps("app-1", missing, now)

	require.Len(t, out, 6)
	assert.Equal(t, models.PriorityHigh, out[0].Priority)
	assert.Equal(t, models.PriorityHigh, out[1].Priority)
	for _, task := range out[2:] {
		assert.Equal(t, models.PriorityMedium, task.Priority)
	}
	assert.Equal(t, models.TaskTodo, out[0].Status)
	assert.Equal(t, "Add proof for a", out[0].Title)
}

func TestFromGaps_Idempotent(t *testing.T) {
	first := FromGaps("app-1", []string{"go", "react"}, time.Now())
	second := FromGaps("app-1", []string{"go", "react"}, time.Now().Add(time.Hour))

	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "regeneration must hit the same ids")
	}
}

func TestFromLearningPlan(t *testing.T) {
	out := FromLearningPlan("app-1", []string{"system design", "communication"}, time.Now())

	require.Len(t, out, 2)
	assert.Equal(t, "app-1__learningplan-system-design", out[0].ID)
	assert.Equal(t, models.PriorityMedium, out[0].Priority)
	assert.Equal(t, models.TaskSourceLearningPlan, out[0].Source)
}

func TestSetStatus(t *testing.T) {
	task := models.Task{Status: models.TaskTodo}
	now := time.Now()

	SetStatus(&task, models.TaskDone, now)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
	assert.Equal(t, models.TaskDone, task.Status)

	later := now.Add(time.Minute)
	SetStatus(&task, models.TaskTodo, later)
	assert.Nil(t, task.CompletedAt, "reopening clears the completion time")
	assert.Equal(t, later, task.UpdatedAt)
}
