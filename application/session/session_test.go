package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart_automation/application/planner"
	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

var errNotFound = errors.New("element not found")

// fakePage is the minimal page a pattern plan can succeed against: only the
// selectors listed in visible exist, input fields echo what was typed.
type fakePage struct {
	visible map[string]bool
	typed   map[string]string
	navURLs []string
}

func newFakePage() *fakePage {
	return &fakePage{
		visible: map[string]bool{},
		typed:   map[string]string{},
	}
}

var _ interfaces.Page = (*fakePage)(nil)

func (p *fakePage) Navigate(_ context.Context, url string, _ float64) (int, error) {
	p.navURLs = append(p.navURLs, url)
	return 200, nil
}

func (p *fakePage) WaitForQuiescence(_ context.Context, _ float64) error { return nil }

func (p *fakePage) WaitVisible(_ context.Context, sel string, _ float64) error {
	if p.visible[sel] {
		return nil
	}
	return errNotFound
}

func (p *fakePage) ScrollIntoView(_ context.Context, _ string) error { return nil }

func (p *fakePage) Click(_ context.Context, sel string, _ float64) error {
	if p.visible[sel] {
		return nil
	}
	return errNotFound
}

func (p *fakePage) ClickByText(_ context.Context, _ string, _ float64) error { return errNotFound }

func (p *fakePage) Focus(_ context.Context, sel string) error {
	if p.visible[sel] {
		return nil
	}
	return errNotFound
}

func (p *fakePage) Clear(_ context.Context, sel string) error {
	delete(p.typed, sel)
	return nil
}

func (p *fakePage) TypeText(_ context.Context, sel, text string, _ float64) error {
	p.typed[sel] = text
	return nil
}

func (p *fakePage) InputValue(_ context.Context, sel string) (string, error) {
	return p.typed[sel], nil
}

func (p *fakePage) Press(_ context.Context, _ string) error            { return nil }
func (p *fakePage) ScrollBy(_ context.Context, _ int) error            { return nil }
func (p *fakePage) Screenshot(_ context.Context, _ string) error       { return nil }
func (p *fakePage) Hover(_ context.Context, _ string, _ float64) error { return errNotFound }

func (p *fakePage) TextContent(_ context.Context, _ string) (string, error) { return "", nil }
func (p *fakePage) CountVisible(_ context.Context, _ string) (int, error)   { return 0, nil }
func (p *fakePage) ClickFirstVisible(_ context.Context, _ string) (bool, error) {
	return false, nil
}
func (p *fakePage) BodyText(_ context.Context) (string, error) { return "", nil }
func (p *fakePage) URL() string                                { return "https://fake.test" }

type fakeHandle struct {
	page       *fakePage
	closeCount int
}

func (h *fakeHandle) Page() interfaces.Page { return h.page }
func (h *fakeHandle) Close() error {
	h.closeCount++
	return nil
}

type fakeLauncher struct {
	handle *fakeHandle
	err    error
}

func (l *fakeLauncher) Launch(_ context.Context) (interfaces.BrowserHandle, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.handle, nil
}

type failingPlanner struct{}

func (failingPlanner) Plan(_ context.Context, instruction, _ string) ([]entities.PlanStep, error) {
	return nil, &entities.PlanningError{Instruction: instruction}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testConfig() entities.AutomationConfig {
	cfg := entities.DefaultConfig()
	cfg.PaceScale = 0.0001
	return cfg
}

func TestRunGoogleSearchEndToEnd(t *testing.T) {
	page := newFakePage()
	page.visible["input[name='q']"] = true
	handle := &fakeHandle{page: page}

	sess := NewSession(testConfig(), &fakeLauncher{handle: handle},
		planner.NewPlanner(nil, testLogger()), testLogger())

	trace, err := sess.Run(context.Background(), "Go to Google and search for weather", "")
	require.NoError(t, err)
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, 1, handle.closeCount)

	assert.Equal(t, []string{"https://google.com"}, page.navURLs)
	assert.Equal(t, "weather", page.typed["input[name='q']"])

	// The pattern plan has 4 steps; all succeed, in order, then the summary.
	require.Len(t, trace, 6)
	assert.Equal(t, entities.TagInfo, entities.Severity(trace[0]))
	assert.Contains(t, trace[0], "executing 4 steps")
	for _, entry := range trace[1:5] {
		assert.Equal(t, entities.TagOK, entities.Severity(entry))
	}
	assert.Contains(t, trace[1], "step 1")
	assert.Contains(t, trace[4], "step 4")
	assert.Contains(t, trace[5], "automation complete")
}

func TestRunFailedStepsDoNotAbort(t *testing.T) {
	// No search box exists, so the fill step fails; the plan still runs to
	// the end and the failure is a trace entry, not an error.
	page := newFakePage()
	handle := &fakeHandle{page: page}

	sess := NewSession(testConfig(), &fakeLauncher{handle: handle},
		planner.NewPlanner(nil, testLogger()), testLogger())

	trace, err := sess.Run(context.Background(), "Go to Google and search for weather", "")
	require.NoError(t, err)
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, 1, handle.closeCount)

	var failed int
	for _, entry := range trace {
		if entities.Severity(entry) == entities.TagError {
			failed++
			assert.Contains(t, entry, "failed, continuing")
		}
	}
	assert.Equal(t, 1, failed)
	assert.Contains(t, trace[len(trace)-1], "automation complete")
}

func TestRunOptionalStepSkipped(t *testing.T) {
	// The YouTube template's submit click is optional, so whether it
	// resolves via Enter or exhausts its candidates, the run must finish
	// without a single error entry.
	page := newFakePage()
	page.visible["input[name='search_query']"] = true
	handle := &fakeHandle{page: page}

	sess := NewSession(testConfig(), &fakeLauncher{handle: handle},
		planner.NewPlanner(nil, testLogger()), testLogger())

	trace, err := sess.Run(context.Background(), "Go to YouTube and search for cats", "")
	require.NoError(t, err)
	assert.Equal(t, 1, handle.closeCount)

	for _, entry := range trace {
		assert.NotEqual(t, entities.TagError, entities.Severity(entry))
	}
}

func TestRunLaunchFailure(t *testing.T) {
	launchErr := errors.New("driver missing")
	sess := NewSession(testConfig(), &fakeLauncher{err: launchErr},
		planner.NewPlanner(nil, testLogger()), testLogger())

	trace, err := sess.Run(context.Background(), "go to google and search for weather", "")
	require.Error(t, err)

	var sessionErr *entities.SessionError
	require.ErrorAs(t, err, &sessionErr)
	assert.Equal(t, "browser start", sessionErr.Stage)
	assert.ErrorIs(t, err, launchErr)

	assert.Equal(t, StateFailed, sess.State())
	require.Len(t, trace, 1)
	assert.Equal(t, entities.TagError, entities.Severity(trace[0]))
}

func TestRunPlanningFailureStillTearsDown(t *testing.T) {
	handle := &fakeHandle{page: newFakePage()}
	sess := NewSession(testConfig(), &fakeLauncher{handle: handle},
		failingPlanner{}, testLogger())

	trace, err := sess.Run(context.Background(), "do something impossible", "")
	require.Error(t, err)

	var planningErr *entities.PlanningError
	assert.ErrorAs(t, err, &planningErr)
	assert.Equal(t, StateFailed, sess.State())

	// The browser was launched before planning failed; teardown ran once.
	assert.Equal(t, 1, handle.closeCount)
	require.Len(t, trace, 1)
}

func TestRunTeardownExactlyOnceOnSuccess(t *testing.T) {
	page := newFakePage()
	page.visible["input[name='q']"] = true
	handle := &fakeHandle{page: page}

	sess := NewSession(testConfig(), &fakeLauncher{handle: handle},
		planner.NewPlanner(nil, testLogger()), testLogger())

	_, err := sess.Run(context.Background(), "Go to Google and search for weather", "")
	require.NoError(t, err)
	assert.Equal(t, 1, handle.closeCount)
}

func TestStateStartsIdle(t *testing.T) {
	sess := NewSession(testConfig(), &fakeLauncher{handle: &fakeHandle{page: newFakePage()}},
		planner.NewPlanner(nil, testLogger()), testLogger())
	assert.Equal(t, StateIdle, sess.State())
}

func TestTraceEntriesAreTagged(t *testing.T) {
	page := newFakePage()
	page.visible["input[name='q']"] = true
	handle := &fakeHandle{page: page}

	sess := NewSession(testConfig(), &fakeLauncher{handle: handle},
		planner.NewPlanner(nil, testLogger()), testLogger())

	trace, err := sess.Run(context.Background(), "Go to Google and search for weather", "")
	require.NoError(t, err)

	for _, entry := range trace {
		tag := entities.Severity(entry)
		assert.True(t, strings.HasPrefix(entry, tag), "entry %q must carry its tag", entry)
	}
}
