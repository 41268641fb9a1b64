package interfaces

import (
	"context"

	"smart_automation/domain/entities"
)

// Planner converts a free-text instruction (+ optional starting URL) into an
// ordered list of plan steps.
type Planner interface {
	Plan(ctx context.Context, instruction, startURL string) ([]entities.PlanStep, error)
}

// PlanningModel is the language-model collaborator: given an instruction and
// optional URL it returns an ordered list of steps, or fails. Callers treat
// any failure as a cue to fall back, never as a run-level error.
type PlanningModel interface {
	CreatePlan(ctx context.Context, instruction, startURL string) ([]entities.PlanStep, error)
}
