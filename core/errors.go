package core

import (
	"errors"
	"fmt"
)

// ErrPersonaNotFound is returned by store lookups when no persona row
// matches the requested name. The resolver treats it the same as any
// other lookup failure: fall back down the chain.
var ErrPersonaNotFound = errors.New("persona not found")

// Step names the pipeline stage an error originated in.
type Step string

const (
	StepPerception Step = "perception"
	StepRouting    Step = "routing"
	StepRetrieval  Step = "retrieval"
	StepGeneration Step = "generation"
	StepMemory     Step = "memory"
	StepRunLog     Step = "runlog"
)

// TurnError is a fatal mid-turn failure: the embedding or generation call
// failed and the turn cannot produce a response. It aborts the current
// turn only; callers keep their session alive.
//
// Routing, retrieval, and persistence failures are never wrapped in a
// TurnError - the pipeline absorbs them with safe defaults.
type TurnError struct {
	Step Step
	Err  error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn failed at %s: %v", e.Step, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// FatalTurn wraps err as a turn-aborting failure at the given step.
func FatalTurn(step Step, err error) *TurnError {
	return &TurnError{Step: step, Err: err}
}
