package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ModuleKey identifies one of the six generated artifacts. Using a small
// integer enum (instead of free-form strings) keeps unknown keys out of the
// status set entirely.
type ModuleKey int

const (
	ModuleBenchmark ModuleKey = iota
	ModuleGaps
	ModuleLearningPlan
	ModuleCV
	ModuleCoverLetter
	ModuleScorecard

	ModuleCount int = iota
)

var moduleNames = [ModuleCount]string{
	"benchmark",
	"gaps",
	"learningPlan",
	"cv",
	"coverLetter",
	"scorecard",
}

func (k ModuleKey) String() string {
	if k < 0 || int(k) >= ModuleCount {
		return fmt.Sprintf("module(%d)", int(k))
	}
	return moduleNames[k]
}

func (k ModuleKey) Valid() bool {
	return k >= 0 && int(k) < ModuleCount
}

// ParseModuleKey maps the wire name of a module back to its key.
func ParseModuleKey(name string) (ModuleKey, error) {
	for i, n := range moduleNames {
		if n == name {
			return ModuleKey(i), nil
		}
	}
	return 0, fmt.Errorf("unknown module key %q", name)
}

// CanonicalModuleOrder returns all module keys in generation order. Scorecard
// is last because it aggregates the other modules' outputs.
func CanonicalModuleOrder() []ModuleKey {
	order := make([]ModuleKey, ModuleCount)
	for i := range order {
		order[i] = ModuleKey(i)
	}
	return order
}

type ModuleState string

const (
	StateIdle       ModuleState = "idle"
	StateQueued     ModuleState = "queued"
	StateGenerating ModuleState = "generating"
	StateReady      ModuleState = "ready"
	StateError      ModuleState = "error"
)

// CanTransition reports whether moving from s to next is a legal step of the
// module state machine. Re-queueing is allowed from every state, including
// generating: a crashed run can leave that state persisted, and it must not
// block the module from ever regenerating.
func (s ModuleState) CanTransition(next ModuleState) bool {
	switch next {
	case StateQueued:
		return true
	case StateGenerating:
		return s == StateQueued || s == StateGenerating
	case StateReady:
		return s == StateGenerating
	case StateError:
		return s == StateQueued || s == StateGenerating
	case StateIdle:
		return false
	}
	return false
}

// ModuleStatus is the per-module progress record. Each module owns its status
// independently; the pipeline never touches a sibling's entry.
type ModuleStatus struct {
	State     ModuleState `json:"state"`
	Progress  int         `json:"progress"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ModuleStatusSet holds exactly one status per known module key. A fixed-size
// array (indexed by ModuleKey) makes a missing or unknown entry
// unrepresentable.
type ModuleStatusSet [ModuleCount]ModuleStatus

// NewModuleStatusSet returns a set with every module idle.
func NewModuleStatusSet() ModuleStatusSet {
	var s ModuleStatusSet
	for i := range s {
		s[i] = ModuleStatus{State: StateIdle}
	}
	return s
}

func (s *ModuleStatusSet) Get(k ModuleKey) ModuleStatus {
	return s[k]
}

func (s *ModuleStatusSet) Set(k ModuleKey, st ModuleStatus) {
	s[k] = st
}

// MarshalJSON encodes the set as a name-keyed object, the shape the dashboard
// and the applications table store.
func (s ModuleStatusSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]ModuleStatus, ModuleCount)
	for i, st := range s {
		m[moduleNames[i]] = st
	}
	return json.Marshal(m)
}

func (s *ModuleStatusSet) UnmarshalJSON(data []byte) error {
	var m map[string]ModuleStatus
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = NewModuleStatusSet()
	for name, st := range m {
		key, err := ParseModuleKey(name)
		if err != nil {
			return err
		}
		(*s)[key] = st
	}
	return nil
}
