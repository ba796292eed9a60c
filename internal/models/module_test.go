package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModuleKey(t *testing.T) {
	for _, key := range CanonicalModuleOrder() {
		parsed, err := ParseModuleKey(key.String())
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
	}

	_, err := ParseModuleKey("nonsense")
	assert.Error(t, err)
}

func TestCanonicalModuleOrder_ScorecardLast(t *testing.T) {
	order := CanonicalModuleOrder()

	require.Len(t, order, ModuleCount)
	assert.Equal(t, ModuleBenchmark, order[0])
	assert.Equal(t, ModuleScorecard, order[len(order)-1])
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from ModuleState
		to   ModuleState
		ok   bool
	}{
		{StateIdle, StateQueued, true},
		{StateQueued, StateGenerating, true},
		{StateGenerating, StateReady, true},
		{StateGenerating, StateError, true},
		{StateQueued, StateError, true},
		{StateReady, StateQueued, true},
		{StateError, StateQueued, true},
		// A crash can leave generating persisted; re-queueing must recover it.
		{StateGenerating, StateQueued, true},

		{StateIdle, StateGenerating, false},
		{StateIdle, StateReady, false},
		{StateReady, StateGenerating, false},
		{StateReady, StateIdle, false},
		{StateError, StateReady, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
		})
	}
}

func TestModuleStatusSet_JSONShape(t *testing.T) {
	s := NewModuleStatusSet()
	s.Set(ModuleCV, ModuleStatus{State: StateReady, Progress: 100})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]ModuleStatus
	require.NoError(t, json.Unmarshal(data, &m))
	require.Len(t, m, ModuleCount, "every module appears even when idle")
	assert.Equal(t, StateReady, m["cv"].State)
	assert.Equal(t, StateIdle, m["benchmark"].State)

	var back ModuleStatusSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestModuleStatusSet_UnknownKeyRejected(t *testing.T) {
	var s ModuleStatusSet

	err := json.Unmarshal([]byte(`{"portfolio":{"state":"ready"}}`), &s)

	assert.Error(t, err)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 42, ClampScore(42))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(350))
}

func TestParseDocKind(t *testing.T) {
	kind, ok := ParseDocKind("cv")
	assert.True(t, ok)
	assert.Equal(t, DocCV, kind)

	kind, ok = ParseDocKind("coverLetter")
	assert.True(t, ok)
	assert.Equal(t, DocCoverLetter, kind)

	_, ok = ParseDocKind("resume")
	assert.False(t, ok)
}
