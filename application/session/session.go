// Package session owns one automation run end to end: browser lifecycle,
// planning, sequential step execution, obstacle housekeeping, and the
// aggregated result trace. Browser resources are released on every exit
// path exactly once.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"smart_automation/application/executor"
	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

// State names the lifecycle phases of a run
type State string

const (
	StateIdle            State = "idle"
	StateBrowserStarting State = "browser_starting"
	StatePlanning        State = "planning"
	StateExecuting       State = "executing"
	StateDraining        State = "draining"
	StateClosed          State = "closed"
	StateFailed          State = "failed"
)

const drainPauseMs = 3000

// Session drives one instruction against one exclusively-owned page.
// Independent sessions may run in parallel; within a session steps are
// strictly sequential because each step's DOM effects precondition the next.
type Session struct {
	cfg      entities.AutomationConfig
	launcher interfaces.BrowserLauncher
	planner  interfaces.Planner
	logger   *logrus.Logger

	mu    sync.Mutex
	state State
}

func NewSession(cfg entities.AutomationConfig, launcher interfaces.BrowserLauncher, planner interfaces.Planner, logger *logrus.Logger) *Session {
	return &Session{
		cfg:      cfg,
		launcher: launcher,
		planner:  planner,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the session's current lifecycle phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run executes an instruction and returns the trace. A trace is always
// returned, even on failure; the error is non-nil only for run-level
// failures (browser launch, planning exhaustion). Step failures are
// recorded in the trace and never abort the remaining steps.
func (s *Session) Run(ctx context.Context, instruction, startURL string) (entities.Trace, error) {
	runID := uuid.NewString()[:8]
	log := s.logger.WithField("run", runID)
	trace := entities.Trace{}

	s.setState(StateBrowserStarting)
	log.WithField("instruction", instruction).Info("starting automation")

	handle, err := s.launcher.Launch(ctx)
	if err != nil {
		s.setState(StateFailed)
		trace.Errorf("browser failed to start: %v", err)
		if handle != nil {
			handle.Close()
		}
		return trace, &entities.SessionError{Stage: "browser start", Err: err}
	}

	// Teardown is a guaranteed finalizer, not a step: it runs exactly once
	// on every exit path.
	var closeOnce sync.Once
	var closeErr error
	teardown := func() {
		closeOnce.Do(func() {
			closeErr = handle.Close()
			if closeErr != nil {
				log.WithError(closeErr).Warn("browser teardown reported error")
			}
		})
	}
	defer teardown()

	s.setState(StatePlanning)
	steps, err := s.planner.Plan(ctx, instruction, startURL)
	if err != nil {
		s.setState(StateFailed)
		trace.Errorf("planning failed: %v", err)
		return trace, err
	}
	trace.Infof("executing %d steps for: %s", len(steps), instruction)

	page := handle.Page()
	exec := executor.NewExecutor(page, s.cfg, s.logger)
	obstacles := executor.NewObstacleHandler(page, s.cfg, s.logger)

	s.setState(StateExecuting)
	popupsDismissed := 0
	challengesHandled := 0

	for i, step := range steps {
		label := fmt.Sprintf("step %d: %s", i+1, step.Description)
		switch {
		case exec.Execute(ctx, step):
			trace.Okf("%s", label)
		case step.Optional:
			trace.Warnf("%s skipped (optional)", label)
		default:
			trace.Errorf("%s failed, continuing", label)
		}

		// The landing pass clears whatever greeted the first step; later
		// obstacles are caught in the draining pass. Never mid-step.
		if i == 0 {
			popups, challenges := s.housekeeping(ctx, obstacles, &trace)
			popupsDismissed += popups
			challengesHandled += challenges
		}
	}

	s.setState(StateDraining)
	executor.Pause(ctx, drainPauseMs, s.cfg.PaceScale)

	popups, challenges := s.housekeeping(ctx, obstacles, &trace)
	popupsDismissed += popups
	challengesHandled += challenges

	teardown()
	s.setState(StateClosed)

	trace.Okf("automation complete: %d popups dismissed, %d challenges handled", popupsDismissed, challengesHandled)
	log.Info("automation finished")
	return trace, nil
}

func (s *Session) housekeeping(ctx context.Context, obstacles *executor.ObstacleHandler, trace *entities.Trace) (int, int) {
	dismissed := obstacles.DismissPopups(ctx)
	for _, category := range dismissed {
		trace.Infof("dismissed %s", category)
	}
	handled := obstacles.HandleChallenges(ctx)
	for _, kind := range handled {
		trace.Infof("handled challenge: %s", kind)
	}
	return len(dismissed), len(handled)
}
