package engine

import (
	"context"

	"churchbot/internal/session"
)

// StepHandler advances one stage of a multi-turn form given the user's
// free-text input. The handler owns validation, side effects, and the next
// session state.
type StepHandler func(ctx context.Context, in Incoming, sess session.Session, text string) error

type stepKey struct {
	family session.Family
	stage  string
}

// StepRegistry is the declarative stage table. The dispatcher resolves the
// exact (family, stage) pair of the active session; families never overlap.
type StepRegistry struct {
	handlers map[stepKey]StepHandler
}

// NewStepRegistry constructs an empty registry.
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{handlers: make(map[stepKey]StepHandler)}
}

// Register binds a handler to a form stage. Re-registering a stage replaces
// the previous handler.
func (r *StepRegistry) Register(family session.Family, stage string, h StepHandler) {
	r.handlers[stepKey{family: family, stage: stage}] = h
}

// Resolve returns the handler for a step's base stage.
func (r *StepRegistry) Resolve(step session.Step) (StepHandler, bool) {
	h, ok := r.handlers[stepKey{family: step.Family, stage: step.Base().Stage}]
	return h, ok
}
