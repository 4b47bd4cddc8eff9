// Package orchestrator executes a parsed story against a backend
// (spec.md §4.4 and §9, component F): variable and step-output storage,
// reference resolution, action dispatch, state snapshotting and
// assertion evaluation.
package orchestrator

import "sync"

// stepOutput is the value recorded for a step id via SetStepOutput, so
// later steps can reach it through ${{ steps.ID.outputs.NAME }} and walk
// its structure. Values bound via storeAs live in vars instead.
type stepOutput struct {
	StepID string
	Value  any
}

// Store holds the variables and step outputs for exactly one Story run.
// It is never shared across stories or goroutines beyond the single
// sequential runner, per the design note that there are no global
// singletons here.
type Store struct {
	mu      sync.RWMutex
	vars    map[string]any
	outputs map[string]stepOutput // keyed by step id
}

// NewStore creates an empty Store seeded with initialVars.
func NewStore(initialVars map[string]any) *Store {
	vars := make(map[string]any, len(initialVars))
	for k, v := range initialVars {
		vars[k] = v
	}
	return &Store{vars: vars, outputs: make(map[string]stepOutput)}
}

// SetVar stores or overwrites a named variable.
func (s *Store) SetVar(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// Var looks up a named variable.
func (s *Store) Var(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// SetStepOutput records the output of a step for later ${{ steps.ID.outputs.NAME }}
// resolution.
func (s *Store) SetStepOutput(stepID string, value any) {
	if stepID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[stepID] = stepOutput{StepID: stepID, Value: value}
}

// StepOutput looks up a previously recorded step output.
func (s *Store) StepOutput(stepID string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.outputs[stepID]
	if !ok {
		return nil, false
	}
	return out.Value, true
}
