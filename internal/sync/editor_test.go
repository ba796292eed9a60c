package sync

import (
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type persistRecorder struct {
	mu    stdsync.Mutex
	calls []string
	err   error
}

func (r *persistRecorder) persist(html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, html)
	return nil
}

func (r *persistRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestEditor_DebouncedPersistCoalescesEdits(t *testing.T) {
	rec := &persistRecorder{}
	e := NewEditor("v0", 20*time.Millisecond, rec.persist)

	e.SetContent("v1")
	e.SetContent("v2")
	e.SetContent("v3")
	assert.Equal(t, "v3", e.Content(), "local state updates immediately")
	assert.True(t, e.Dirty())

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	assert.Equal(t, []string{"v3"}, rec.snapshot(), "rapid edits collapse into one write")
	assert.False(t, e.Dirty())
}

func TestEditor_NoPersistWhenValueUnchanged(t *testing.T) {
	rec := &persistRecorder{}
	e := NewEditor("same", 10*time.Millisecond, rec.persist)

	e.SetContent("same")
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, rec.snapshot(), "writing back an identical value is skipped")
	assert.False(t, e.Dirty())
}

func TestEditor_RemoteEchoSkippedWhileDirty(t *testing.T) {
	rec := &persistRecorder{}
	e := NewEditor("v0", time.Hour, rec.persist)

	e.SetContent("local edit")
	e.ApplyRemote("server echo")

	assert.Equal(t, "local edit", e.Content(), "a dirty local edit must survive remote echoes")
}

func TestEditor_RemoteAppliesWhenClean(t *testing.T) {
	e := NewEditor("v0", time.Hour, func(string) error { return nil })

	e.ApplyRemote("from server")

	assert.Equal(t, "from server", e.Content())
	assert.False(t, e.Dirty())
}

func TestEditor_CloseCancelsPendingWrite(t *testing.T) {
	rec := &persistRecorder{}
	e := NewEditor("v0", 20*time.Millisecond, rec.persist)

	e.SetContent("unsaved")
	e.Close()
	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, rec.snapshot(), "closing must not trigger a save")

	e.SetContent("after close")
	assert.Equal(t, "unsaved", e.Content(), "a closed editor ignores further edits")
}

func TestEditor_FlushPropagatesError(t *testing.T) {
	rec := &persistRecorder{err: errors.New("db down")}
	e := NewEditor("v0", time.Hour, rec.persist)

	e.SetContent("v1")
	err := e.Flush()

	require.Error(t, err)
	assert.True(t, e.Dirty(), "a failed write leaves the edit pending")
}
