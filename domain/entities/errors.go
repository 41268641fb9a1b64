package entities

import "fmt"

// SetupError means a prerequisite (credential, browser driver) is missing.
// It is surfaced before any session starts.
type SetupError struct {
	Reason string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup error: %s", e.Reason)
}

// PlanningError means neither the model-assisted nor the pattern-fallback
// planner produced any step for an instruction.
type PlanningError struct {
	Instruction string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning error: no steps produced for %q", e.Instruction)
}

// SessionError means the browser failed to launch or the context/page could
// not be created. Fatal for the run; teardown of partial resources still runs.
type SessionError struct {
	Stage string
	Err   error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session error at %s: %v", e.Stage, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// StepError records a single step that could not complete. It is converted
// to a trace entry and never propagated past the executor.
type StepError struct {
	Index       int
	Description string
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Description, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
