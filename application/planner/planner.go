// Package planner converts free-text instructions into ordered plans of
// browser steps. Model-assisted planning is tried first when a language
// model collaborator is available; a deterministic pattern-matching fallback
// covers every collaborator failure.
package planner

import (
	"context"

	"github.com/sirupsen/logrus"

	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

type Planner struct {
	model  interfaces.PlanningModel
	logger *logrus.Logger
}

// NewPlanner creates a planner. model may be nil, in which case only the
// pattern fallback is used.
func NewPlanner(model interfaces.PlanningModel, logger *logrus.Logger) *Planner {
	return &Planner{
		model:  model,
		logger: logger,
	}
}

// Plan produces the step sequence for an instruction. Collaborator errors
// are logged and absorbed by the fallback; a PlanningError is returned only
// when both strategies yield nothing.
func (p *Planner) Plan(ctx context.Context, instruction, startURL string) ([]entities.PlanStep, error) {
	if p.model != nil {
		steps, err := p.model.CreatePlan(ctx, instruction, startURL)
		if err == nil && len(steps) > 0 {
			for i := range steps {
				steps[i].Normalize()
			}
			p.logger.WithField("steps", len(steps)).Info("created model-assisted plan")
			return steps, nil
		}
		p.logger.WithError(err).Warn("model planning failed, using pattern fallback")
	}

	steps := PatternPlan(instruction, startURL)
	if len(steps) == 0 {
		return nil, &entities.PlanningError{Instruction: instruction}
	}
	p.logger.WithField("steps", len(steps)).Info("created pattern plan")
	return steps, nil
}

var _ interfaces.Planner = (*Planner)(nil)
