// Reconcile server-pushed row changes with local, optimistically edited
// state. The feed itself is a collaborator; this package only consumes its
// events.

package sync

import (
	"context"
	"encoding/json"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

const (
	TableApplications = "applications"
	TableTasks        = "tasks"
	TableEvidence     = "evidence"
)

// Event is one row change pushed by the backend. Row is the full row as
// JSON; for deletes it carries at least the id.
type Event struct {
	Type  EventType       `json:"event"`
	Table string          `json:"table"`
	Row   json.RawMessage `json:"row"`
}

// Feed is the change-feed collaborator. Subscribe returns a channel of
// events filtered to one application plus an unsubscribe func. Delivery may
// be duplicated or out of order; consumers must tolerate both.
type Feed interface {
	Subscribe(ctx context.Context, table, applicationID string) (<-chan Event, func(), error)
}
