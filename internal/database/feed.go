package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	stdsync "sync"

	"github.com/jackc/pgx/v5"

	appsync "go-jobcoach/internal/sync"
)

// notifyChannel is raised by row triggers on applications, tasks and
// evidence (see schema.sql) with a JSON payload of {event, table, row}.
const notifyChannel = "app_changes"

type subscriber struct {
	table  string
	filter string
	ch     chan appsync.Event
}

// ChangeFeed implements sync.Feed over Postgres LISTEN/NOTIFY. One dedicated
// connection listens; events fan out to per-subscriber channels filtered by
// table and id.
type ChangeFeed struct {
	conn   *pgx.Conn
	cancel context.CancelFunc
	done   chan struct{}

	mu     stdsync.Mutex
	subs   map[int]*subscriber
	next   int
	closed bool
}

func NewChangeFeed(ctx context.Context, connString string) (*ChangeFeed, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to open listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("LISTEN failed: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	f := &ChangeFeed{
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
		subs:   make(map[int]*subscriber),
	}
	go f.run(runCtx)
	return f, nil
}

// Subscribe registers a filtered channel. filter is matched against the
// row's id, application_id and user_id fields, so one call covers "rows of
// this application" as well as "rows of this user".
func (f *ChangeFeed) Subscribe(ctx context.Context, table, filter string) (<-chan appsync.Event, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, nil, fmt.Errorf("change feed is closed")
	}

	id := f.next
	f.next++
	sub := &subscriber{table: table, filter: filter, ch: make(chan appsync.Event, 16)}
	f.subs[id] = sub

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if s, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel, nil
}

// Close stops the listen loop and drops all subscribers.
func (f *ChangeFeed) Close(ctx context.Context) {
	f.cancel()
	<-f.done

	if err := f.conn.Close(ctx); err != nil {
		log.Printf("⚠️ Failed to close listen connection: %v", err)
	}
}

// dropSubscribers closes every subscriber channel and refuses new ones. A
// closed channel tells consumers the feed is gone so they can refetch instead
// of waiting forever.
func (f *ChangeFeed) dropSubscribers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, s := range f.subs {
		delete(f.subs, id)
		close(s.ch)
	}
}

func (f *ChangeFeed) run(ctx context.Context) {
	defer close(f.done)
	defer f.dropSubscribers()
	for {
		notification, err := f.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("⚠️ Change feed listen error: %v", err)
			return
		}

		var ev appsync.Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			log.Printf("⚠️ Bad change feed payload: %v", err)
			continue
		}
		f.dispatch(ev)
	}
}

func (f *ChangeFeed) dispatch(ev appsync.Event) {
	var ids struct {
		ID            string `json:"id"`
		ApplicationID string `json:"application_id"`
		UserID        string `json:"user_id"`
	}
	if err := json.Unmarshal(ev.Row, &ids); err != nil {
		log.Printf("⚠️ Change feed row without ids: %v", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.table != ev.Table {
			continue
		}
		if sub.filter != "" && sub.filter != ids.ID && sub.filter != ids.ApplicationID && sub.filter != ids.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Slow consumer; dropping is safe because every view refetches
			// authoritatively on open and updates are idempotent by id.
			log.Printf("⚠️ Dropping %s event for slow subscriber", ev.Table)
		}
	}
}
