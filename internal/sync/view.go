package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	stdsync "sync"

	"go-jobcoach/internal/models"
)

// Loader performs the initial authoritative fetch before events start
// applying.
type Loader interface {
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	ListTasks(ctx context.Context, applicationID string) ([]models.Task, error)
	ListEvidence(ctx context.Context, userID string) ([]models.Evidence, error)
}

// View is one open workspace's local copy of an application, its tasks and
// the user's evidence. Events are merged in by id; stale updates (older
// updated_at than what we hold) are dropped, which makes duplicate and
// out-of-order delivery harmless.
type View struct {
	mu stdsync.RWMutex

	app      *models.Application
	tasks    []models.Task
	evidence []models.Evidence

	unsubscribe []func()
}

// Watch fetches the authoritative state and then subscribes to row changes
// for the application, its tasks and the owner's evidence. Cancel ctx or
// call Close to tear the subscriptions down.
func Watch(ctx context.Context, loader Loader, feed Feed, applicationID string) (*View, error) {
	app, err := loader.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("initial fetch failed: %w", err)
	}
	tasks, err := loader.ListTasks(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("initial task fetch failed: %w", err)
	}
	evidence, err := loader.ListEvidence(ctx, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("initial evidence fetch failed: %w", err)
	}

	v := &View{app: app, tasks: tasks, evidence: evidence}

	// Evidence is owned by the user, not the application: rows with no
	// application link still belong in the view, so that table is filtered
	// by owner instead.
	subscriptions := []struct{ table, filter string }{
		{TableApplications, applicationID},
		{TableTasks, applicationID},
		{TableEvidence, app.UserID},
	}
	for _, s := range subscriptions {
		ch, cancel, err := feed.Subscribe(ctx, s.table, s.filter)
		if err != nil {
			v.Close()
			return nil, fmt.Errorf("subscribe %s failed: %w", s.table, err)
		}
		v.unsubscribe = append(v.unsubscribe, cancel)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-ch:
					if !ok {
						return
					}
					v.Apply(ev)
				}
			}
		}()
	}

	return v, nil
}

// Close unsubscribes every channel. Safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, cancel := range v.unsubscribe {
		cancel()
	}
	v.unsubscribe = nil
}

// Application returns a copy of the current application state.
func (v *View) Application() models.Application {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return *v.app
}

// Tasks returns a copy of the current task list.
func (v *View) Tasks() []models.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Task(nil), v.tasks...)
}

// Evidence returns a copy of the current evidence list.
func (v *View) Evidence() []models.Evidence {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Evidence(nil), v.evidence...)
}

// Apply merges one event into the local collections.
func (v *View) Apply(ev Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev.Table {
	case TableApplications:
		v.applyApplication(ev)
	case TableTasks:
		v.applyTask(ev)
	case TableEvidence:
		v.applyEvidence(ev)
	default:
		log.Printf("⚠️ Ignoring event for unknown table %q", ev.Table)
	}
}

func (v *View) applyApplication(ev Event) {
	var row models.Application
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		log.Printf("⚠️ Bad application row in %s event: %v", ev.Type, err)
		return
	}
	if row.ID != v.app.ID {
		return
	}
	if ev.Type == EventDelete {
		return // the open view keeps its last state; navigation handles the rest
	}
	if row.UpdatedAt.Before(v.app.UpdatedAt) {
		return // stale or duplicate delivery
	}
	v.app = &row
}

func (v *View) applyTask(ev Event) {
	var row models.Task
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		log.Printf("⚠️ Bad task row in %s event: %v", ev.Type, err)
		return
	}
	idx := -1
	for i := range v.tasks {
		if v.tasks[i].ID == row.ID {
			idx = i
			break
		}
	}
	switch ev.Type {
	case EventDelete:
		if idx >= 0 {
			v.tasks = append(v.tasks[:idx], v.tasks[idx+1:]...)
		}
	case EventInsert, EventUpdate:
		if idx < 0 {
			v.tasks = append(v.tasks, row)
			return
		}
		if row.UpdatedAt.Before(v.tasks[idx].UpdatedAt) {
			return
		}
		v.tasks[idx] = row
	}
}

func (v *View) applyEvidence(ev Event) {
	var row models.Evidence
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		log.Printf("⚠️ Bad evidence row in %s event: %v", ev.Type, err)
		return
	}
	idx := -1
	for i := range v.evidence {
		if v.evidence[i].ID == row.ID {
			idx = i
			break
		}
	}
	switch ev.Type {
	case EventDelete:
		if idx >= 0 {
			v.evidence = append(v.evidence[:idx], v.evidence[idx+1:]...)
		}
	case EventInsert, EventUpdate:
		if idx < 0 {
			v.evidence = append(v.evidence, row)
		} else {
			v.evidence[idx] = row
		}
	}
}
