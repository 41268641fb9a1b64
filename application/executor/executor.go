// Package executor performs single plan steps against a live page. Every
// locate/act attempt is fallible and contained: candidates are tried in
// order, first success wins, and no error escapes past the step boundary.
package executor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"smart_automation/application/selector"
	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

const (
	quiescenceTimeoutMs = 10000
	quiescenceFallback  = 2000
	clickTimeoutMs      = 5000
	textClickTimeoutMs  = 3000
	settleBeforeClickMs = 300
	settleBeforeTypeMs  = 200
	settleAfterTypeMs   = 300
	keystrokeDelayMs    = 50
)

type Executor struct {
	page   interfaces.Page
	cfg    entities.AutomationConfig
	logger *logrus.Logger
}

func NewExecutor(page interfaces.Page, cfg entities.AutomationConfig, logger *logrus.Logger) *Executor {
	return &Executor{
		page:   page,
		cfg:    cfg,
		logger: logger,
	}
}

// Execute performs one step and reports success. Optional steps report
// success even when every attempt is exhausted, so they never block a plan.
// After any successful action the executor pauses WaitAfterMs - the pacing
// that keeps the whole system below anti-automation thresholds.
func (e *Executor) Execute(ctx context.Context, step entities.PlanStep) bool {
	step.Normalize()

	var ok bool
	switch step.Action {
	case entities.ActionNavigate:
		ok = e.navigate(ctx, step)
	case entities.ActionClick:
		ok = e.click(ctx, step)
	case entities.ActionFill:
		ok = e.fill(ctx, step)
	case entities.ActionWait:
		ok = e.wait(ctx, step)
	case entities.ActionScroll:
		ok = e.scroll(ctx, step)
	case entities.ActionScreenshot:
		ok = e.screenshot(ctx, step)
	case entities.ActionExtractText:
		ok = e.extractText(ctx, step)
	case entities.ActionHover:
		ok = e.hover(ctx, step)
	default:
		e.logger.WithField("action", step.Action).Warn("unknown action")
		return false
	}

	if ok && step.WaitAfterMs > 0 {
		Pause(ctx, step.WaitAfterMs, e.cfg.PaceScale)
	}
	return ok
}

func (e *Executor) navigate(ctx context.Context, step entities.PlanStep) bool {
	url := strings.TrimSpace(step.Target)
	if url == "" {
		e.logger.Warn("navigate step has no target URL")
		return false
	}
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}

	e.logger.WithField("url", url).Info("navigating")
	attempts := e.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var status int
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		status, err = e.page.Navigate(ctx, url, float64(e.cfg.NavigationTimeoutMs))
		if err == nil && status > 0 && status < 400 {
			break
		}
		if attempt < attempts {
			e.logger.WithFields(logrus.Fields{"attempt": attempt, "status": status}).Warn("navigation attempt failed, retrying")
			Pause(ctx, e.cfg.RetryDelayMs, e.cfg.PaceScale)
		}
	}
	if err != nil {
		e.logger.WithError(err).Error("navigation failed")
		return false
	}
	if status == 0 || status >= 400 {
		e.logger.WithField("status", status).Warn("navigation returned bad status")
		return false
	}

	if err := e.page.WaitForQuiescence(ctx, quiescenceTimeoutMs); err != nil {
		Pause(ctx, quiescenceFallback, e.cfg.PaceScale)
	}
	return true
}

func (e *Executor) click(ctx context.Context, step entities.PlanStep) bool {
	targetLower := strings.ToLower(step.Target)

	// Enter is cheap and frequently correct for search-submit intents, so
	// it is tried before any selector search.
	if hintsSubmit(targetLower) {
		if err := e.page.Press(ctx, "Enter"); err == nil {
			e.logger.Info("submitted via Enter key")
			Pause(ctx, 1000, e.cfg.PaceScale)
			return true
		}
	}

	for _, sel := range e.candidates(step) {
		if e.tryClick(ctx, sel, step.TimeoutMs) {
			e.logger.WithField("selector", sel).Info("clicked")
			return true
		}
	}

	// Last resort: match by visible text.
	if step.Target != "" {
		if err := e.page.ClickByText(ctx, step.Target, textClickTimeoutMs); err == nil {
			e.logger.WithField("text", step.Target).Info("clicked by text")
			return true
		}
	}

	e.logger.WithField("target", step.Target).Warn("could not click")
	return step.Optional
}

func (e *Executor) tryClick(ctx context.Context, sel string, timeoutMs int) bool {
	if err := e.page.WaitVisible(ctx, sel, float64(timeoutMs)); err != nil {
		return false
	}
	if err := e.page.ScrollIntoView(ctx, sel); err != nil {
		return false
	}
	Pause(ctx, settleBeforeClickMs, e.cfg.PaceScale)
	return e.page.Click(ctx, sel, clickTimeoutMs) == nil
}

func (e *Executor) fill(ctx context.Context, step entities.PlanStep) bool {
	if step.Value == "" {
		e.logger.Warn("fill step has no value")
		return false
	}

	for _, sel := range e.candidates(step) {
		if e.tryFill(ctx, sel, step) {
			e.logger.WithField("selector", sel).Info("filled")
			return true
		}
	}

	e.logger.WithField("target", step.Target).Warn("could not fill")
	return step.Optional
}

// tryFill types character by character and only counts the attempt as a
// success once the field's read-back content contains the requested value.
func (e *Executor) tryFill(ctx context.Context, sel string, step entities.PlanStep) bool {
	if err := e.page.WaitVisible(ctx, sel, float64(step.TimeoutMs)); err != nil {
		return false
	}
	if err := e.page.Focus(ctx, sel); err != nil {
		return false
	}
	if err := e.page.Clear(ctx, sel); err != nil {
		return false
	}
	Pause(ctx, settleBeforeTypeMs, e.cfg.PaceScale)

	if err := e.page.TypeText(ctx, sel, step.Value, keystrokeDelayMs); err != nil {
		return false
	}
	Pause(ctx, settleAfterTypeMs, e.cfg.PaceScale)

	current, err := e.page.InputValue(ctx, sel)
	if err != nil || current == "" {
		return false
	}
	return strings.Contains(strings.ToLower(current), strings.ToLower(step.Value))
}

func (e *Executor) wait(ctx context.Context, step entities.PlanStep) bool {
	ms := step.WaitAfterMs
	if ms <= 0 {
		ms = entities.DefaultStepWaitAfterMs
	}
	Pause(ctx, ms, e.cfg.PaceScale)
	return true
}

func (e *Executor) scroll(ctx context.Context, step entities.PlanStep) bool {
	if pixels, err := strconv.Atoi(strings.TrimSpace(step.Value)); err == nil {
		if err := e.page.ScrollBy(ctx, pixels); err != nil {
			e.logger.WithError(err).Error("scroll failed")
			return false
		}
		return true
	}
	if err := e.page.Press(ctx, "PageDown"); err != nil {
		e.logger.WithError(err).Error("scroll failed")
		return false
	}
	return true
}

func (e *Executor) screenshot(ctx context.Context, step entities.PlanStep) bool {
	path := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	if err := e.page.Screenshot(ctx, path); err != nil {
		e.logger.WithError(err).Error("screenshot failed")
		return false
	}
	e.logger.WithField("path", path).Info("screenshot saved")
	return true
}

func (e *Executor) extractText(ctx context.Context, step entities.PlanStep) bool {
	candidates := e.candidates(step)
	if len(candidates) == 0 {
		text, err := e.page.BodyText(ctx)
		if err != nil {
			return step.Optional
		}
		e.logger.WithField("chars", len(text)).Info("extracted page text")
		return true
	}
	for _, sel := range candidates {
		text, err := e.page.TextContent(ctx, sel)
		if err == nil && text != "" {
			e.logger.WithField("selector", sel).Info("extracted text")
			return true
		}
	}
	return step.Optional
}

func (e *Executor) hover(ctx context.Context, step entities.PlanStep) bool {
	for _, sel := range e.candidates(step) {
		if err := e.page.Hover(ctx, sel, float64(step.TimeoutMs)); err == nil {
			return true
		}
	}
	return step.Optional
}

// candidates resolves the locator list for a step: a known concrete
// selector bypasses the strategy lookup entirely.
func (e *Executor) candidates(step entities.PlanStep) []string {
	if step.Selector != "" {
		return []string{step.Selector}
	}
	return selector.Candidates(step.Target, step.Action)
}

func hintsSubmit(targetLower string) bool {
	for _, word := range []string{"search", "submit", "enter"} {
		if strings.Contains(targetLower, word) {
			return true
		}
	}
	return false
}

// Pause sleeps for ms milliseconds scaled by the session's pace factor,
// returning early only when ctx is cancelled.
func Pause(ctx context.Context, ms int, scale float64) {
	if scale <= 0 {
		scale = 1.0
	}
	d := time.Duration(float64(ms)*scale) * time.Millisecond
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
