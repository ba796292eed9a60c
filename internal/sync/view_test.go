package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobcoach/internal/models"
)

type fakeLoader struct {
	app      *models.Application
	tasks    []models.Task
	evidence []models.Evidence
}

func (l *fakeLoader) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return l.app, nil
}

func (l *fakeLoader) ListTasks(ctx context.Context, applicationID string) ([]models.Task, error) {
	return l.tasks, nil
}

func (l *fakeLoader) ListEvidence(ctx context.Context, userID string) ([]models.Evidence, error) {
	return l.evidence, nil
}

type fakeFeed struct {
	channels map[string]chan Event
	filters  map[string]string
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{channels: map[string]chan Event{}, filters: map[string]string{}}
}

func (f *fakeFeed) Subscribe(ctx context.Context, table, filter string) (<-chan Event, func(), error) {
	ch := make(chan Event, 16)
	f.channels[table] = ch
	f.filters[table] = filter
	return ch, func() {}, nil
}

func taskEvent(t *testing.T, typ EventType, task models.Task) Event {
	t.Helper()
	row, err := json.Marshal(task)
	require.NoError(t, err)
	return Event{Type: typ, Table: TableTasks, Row: row}
}

func appEvent(t *testing.T, typ EventType, app models.Application) Event {
	t.Helper()
	row, err := json.Marshal(app)
	require.NoError(t, err)
	return Event{Type: typ, Table: TableApplications, Row: row}
}

func newTestView(t *testing.T) *View {
	t.Helper()
	loader := &fakeLoader{
		app: &models.Application{ID: "app-1", UserID: "user-1", Title: "Backend role",
			UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		tasks: []models.Task{{ID: "t1", ApplicationID: "app-1", Title: "Add proof for go",
			UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}},
	}
	v, err := Watch(context.Background(), loader, newFakeFeed(), "app-1")
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

func TestView_InitialState(t *testing.T) {
	v := newTestView(t)

	assert.Equal(t, "Backend role", v.Application().Title)
	assert.Len(t, v.Tasks(), 1)
	assert.Empty(t, v.Evidence())
}

func TestView_TaskInsertUpdateDelete(t *testing.T) {
	v := newTestView(t)
	now := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

	v.Apply(taskEvent(t, EventInsert, models.Task{ID: "t2", Title: "new", UpdatedAt: now}))
	require.Len(t, v.Tasks(), 2)

	v.Apply(taskEvent(t, EventUpdate, models.Task{ID: "t2", Title: "renamed", UpdatedAt: now.Add(time.Minute)}))
	tasks := v.Tasks()
	assert.Equal(t, "renamed", tasks[1].Title)

	v.Apply(taskEvent(t, EventDelete, models.Task{ID: "t1"}))
	tasks = v.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)
}

func TestView_StaleTaskUpdateDropped(t *testing.T) {
	v := newTestView(t)
	stale := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	v.Apply(taskEvent(t, EventUpdate, models.Task{ID: "t1", Title: "old news", UpdatedAt: stale}))

	assert.Equal(t, "Add proof for go", v.Tasks()[0].Title,
		"an older updated_at must not overwrite newer state")
}

func TestView_DuplicateDeliveryHarmless(t *testing.T) {
	v := newTestView(t)
	ev := taskEvent(t, EventInsert, models.Task{ID: "t9", Title: "dup",
		UpdatedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)})

	v.Apply(ev)
	v.Apply(ev)

	assert.Len(t, v.Tasks(), 2, "replaying the same insert merges by id instead of duplicating")
}

func TestView_ApplicationUpdate(t *testing.T) {
	v := newTestView(t)

	v.Apply(appEvent(t, EventUpdate, models.Application{ID: "app-1", Title: "Updated title",
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}))
	assert.Equal(t, "Updated title", v.Application().Title)

	// Stale and foreign rows leave the view untouched.
	v.Apply(appEvent(t, EventUpdate, models.Application{ID: "app-1", Title: "Stale",
		UpdatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}))
	v.Apply(appEvent(t, EventUpdate, models.Application{ID: "other", Title: "Foreign",
		UpdatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}))
	assert.Equal(t, "Updated title", v.Application().Title)
}

func TestView_UnknownTableIgnored(t *testing.T) {
	v := newTestView(t)

	v.Apply(Event{Type: EventInsert, Table: "mystery", Row: json.RawMessage(`{}`)})

	assert.Len(t, v.Tasks(), 1)
}

func TestView_EventsFlowThroughSubscription(t *testing.T) {
	loader := &fakeLoader{app: &models.Application{ID: "app-1", UserID: "user-1"}}
	feed := newFakeFeed()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, err := Watch(ctx, loader, feed, "app-1")
	require.NoError(t, err)
	defer v.Close()

	row, err := json.Marshal(models.Task{ID: "t1", ApplicationID: "app-1", Title: "pushed"})
	require.NoError(t, err)
	feed.channels[TableTasks] <- Event{Type: EventInsert, Table: TableTasks, Row: row}

	waitFor(t, func() bool { return len(v.Tasks()) == 1 })
	assert.Equal(t, "pushed", v.Tasks()[0].Title)
}

func TestView_EvidenceSubscribedByOwner(t *testing.T) {
	loader := &fakeLoader{app: &models.Application{ID: "app-1", UserID: "user-1"}}
	feed := newFakeFeed()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, err := Watch(ctx, loader, feed, "app-1")
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, "app-1", feed.filters[TableApplications])
	assert.Equal(t, "app-1", feed.filters[TableTasks])
	assert.Equal(t, "user-1", feed.filters[TableEvidence],
		"evidence belongs to the user across all applications")

	// An evidence row with no application link must still reach the view.
	row, err := json.Marshal(models.Evidence{ID: "e1", UserID: "user-1", Title: "portfolio"})
	require.NoError(t, err)
	feed.channels[TableEvidence] <- Event{Type: EventInsert, Table: TableEvidence, Row: row}

	waitFor(t, func() bool { return len(v.Evidence()) == 1 })
	assert.Equal(t, "portfolio", v.Evidence()[0].Title)
	assert.Nil(t, v.Evidence()[0].ApplicationID)
}

func TestView_BadRowIgnored(t *testing.T) {
	v := newTestView(t)

	v.Apply(Event{Type: EventUpdate, Table: TableTasks, Row: json.RawMessage(`not json`)})

	assert.Len(t, v.Tasks(), 1)
}
