package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnconnectedFeed() *ChangeFeed {
	return &ChangeFeed{subs: make(map[int]*subscriber), done: make(chan struct{})}
}

func TestChangeFeed_DropSubscribersClosesChannels(t *testing.T) {
	f := newUnconnectedFeed()

	ch, _, err := f.Subscribe(context.Background(), "tasks", "app-1")
	require.NoError(t, err)

	f.dropSubscribers()

	_, open := <-ch
	assert.False(t, open, "a dead feed must close its channels so consumers can refetch")
	assert.Empty(t, f.subs)
}

func TestChangeFeed_SubscribeAfterClosed(t *testing.T) {
	f := newUnconnectedFeed()
	f.dropSubscribers()

	_, _, err := f.Subscribe(context.Background(), "tasks", "app-1")

	assert.Error(t, err)
}

func TestChangeFeed_UnsubscribeAfterDropIsSafe(t *testing.T) {
	f := newUnconnectedFeed()

	_, cancel, err := f.Subscribe(context.Background(), "tasks", "app-1")
	require.NoError(t, err)

	f.dropSubscribers()
	cancel() // must not double-close the already-closed channel
}
