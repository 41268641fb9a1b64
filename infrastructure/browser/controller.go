// Package browser adapts playwright to the Page contract the step executor
// drives, and owns the launch/teardown of the browser resources behind it.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

// Init script that hides the usual automation fingerprints before any page
// script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
window.chrome = {runtime: {}};
`

type Launcher struct {
	cfg    entities.AutomationConfig
	logger *logrus.Logger
}

func NewLauncher(cfg entities.AutomationConfig, logger *logrus.Logger) *Launcher {
	return &Launcher{
		cfg:    cfg,
		logger: logger,
	}
}

// Launch starts playwright, a Chromium browser, one context and one page.
// On any partial failure the resources created so far are torn down before
// the error is returned.
func (l *Launcher) Launch(ctx context.Context) (interfaces.BrowserHandle, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.cfg.Headless),
		SlowMo:   playwright.Float(float64(l.cfg.SlowMoMs)),
		Args: []string{
			fmt.Sprintf("--window-size=%d,%d", l.cfg.ViewportWidth, l.cfg.ViewportHeight),
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.cfg.ViewportWidth,
			Height: l.cfg.ViewportHeight,
		},
		UserAgent:         playwright.String(l.cfg.UserAgent),
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(float64(l.cfg.NavigationTimeoutMs))
	if err := page.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		l.logger.WithError(err).Warn("failed to install init script")
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	l.logger.Info("browser started")

	return &handle{
		pw:      pw,
		browser: browser,
		context: browserCtx,
		page:    &pageAdapter{page: page},
		logger:  l.logger,
	}, nil
}

type handle struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    *pageAdapter
	logger  *logrus.Logger
}

func (h *handle) Page() interfaces.Page {
	return h.page
}

// Close tears down page, context, browser and the playwright driver.
// Safe to call more than once; "already closed" errors are tolerated.
func (h *handle) Close() error {
	var closeErr error
	record := func(what string, err error) {
		if err == nil || isClosedErr(err) {
			return
		}
		if closeErr != nil {
			closeErr = fmt.Errorf("%v; failed to close %s: %w", closeErr, what, err)
		} else {
			closeErr = fmt.Errorf("failed to close %s: %w", what, err)
		}
	}

	if h.page != nil && h.page.page != nil {
		record("page", h.page.page.Close())
		h.page.page = nil
	}
	if h.context != nil {
		record("context", h.context.Close())
		h.context = nil
	}
	if h.browser != nil {
		record("browser", h.browser.Close())
		h.browser = nil
	}
	if h.pw != nil {
		record("playwright", h.pw.Stop())
		h.pw = nil
	}

	h.logger.Info("browser closed")
	return closeErr
}

func isClosedErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "closed") || strings.Contains(msg, "target closed")
}

// pageAdapter implements the executor-facing Page contract over one
// playwright page.
type pageAdapter struct {
	page playwright.Page
}

var _ interfaces.Page = (*pageAdapter)(nil)

func (p *pageAdapter) Navigate(_ context.Context, url string, timeoutMs float64) (int, error) {
	resp, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMs),
	})
	if err != nil {
		return 0, err
	}
	if resp == nil {
		return 0, nil
	}
	return resp.Status(), nil
}

func (p *pageAdapter) WaitForQuiescence(_ context.Context, timeoutMs float64) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(timeoutMs),
	})
}

func (p *pageAdapter) WaitVisible(_ context.Context, selector string, timeoutMs float64) error {
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(timeoutMs),
	})
}

func (p *pageAdapter) ScrollIntoView(_ context.Context, selector string) error {
	return p.page.Locator(selector).First().ScrollIntoViewIfNeeded()
}

func (p *pageAdapter) Click(_ context.Context, selector string, timeoutMs float64) error {
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(timeoutMs),
	})
}

func (p *pageAdapter) ClickByText(_ context.Context, text string, timeoutMs float64) error {
	return p.page.GetByText(text).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(timeoutMs),
	})
}

func (p *pageAdapter) Focus(_ context.Context, selector string) error {
	return p.page.Locator(selector).First().Focus()
}

func (p *pageAdapter) Clear(_ context.Context, selector string) error {
	return p.page.Locator(selector).First().Clear()
}

func (p *pageAdapter) TypeText(_ context.Context, selector, text string, keyDelayMs float64) error {
	return p.page.Locator(selector).First().PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(keyDelayMs),
	})
}

func (p *pageAdapter) InputValue(_ context.Context, selector string) (string, error) {
	return p.page.Locator(selector).First().InputValue()
}

func (p *pageAdapter) Press(_ context.Context, key string) error {
	return p.page.Keyboard().Press(key)
}

func (p *pageAdapter) ScrollBy(_ context.Context, pixels int) error {
	return p.page.Mouse().Wheel(0, float64(pixels))
}

func (p *pageAdapter) Screenshot(_ context.Context, path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *pageAdapter) Hover(_ context.Context, selector string, timeoutMs float64) error {
	return p.page.Locator(selector).First().Hover(playwright.LocatorHoverOptions{
		Timeout: playwright.Float(timeoutMs),
	})
}

func (p *pageAdapter) TextContent(_ context.Context, selector string) (string, error) {
	return p.page.Locator(selector).First().TextContent()
}

func (p *pageAdapter) CountVisible(_ context.Context, selector string) (int, error) {
	locator := p.page.Locator(selector)
	total, err := locator.Count()
	if err != nil {
		return 0, err
	}
	visible := 0
	for i := 0; i < total; i++ {
		ok, err := locator.Nth(i).IsVisible()
		if err != nil {
			continue
		}
		if ok {
			visible++
		}
	}
	return visible, nil
}

func (p *pageAdapter) ClickFirstVisible(_ context.Context, selector string) (bool, error) {
	locator := p.page.Locator(selector)
	total, err := locator.Count()
	if err != nil {
		return false, err
	}
	for i := 0; i < total; i++ {
		element := locator.Nth(i)
		visible, err := element.IsVisible()
		if err != nil || !visible {
			continue
		}
		if err := element.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(2000)}); err != nil {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (p *pageAdapter) BodyText(_ context.Context) (string, error) {
	return p.page.Locator("body").TextContent()
}

func (p *pageAdapter) URL() string {
	return p.page.URL()
}
