package interfaces

import "context"

// Page is the single-page browser surface the step executor drives.
// Exactly one automation session owns a Page for its lifetime; no other
// component may hold a reference past teardown.
type Page interface {
	// Navigate loads url and returns the HTTP status of the main response.
	// A zero status means no response was received.
	Navigate(ctx context.Context, url string, timeoutMs float64) (int, error)

	// WaitForQuiescence waits for network activity to settle, bounded by timeoutMs.
	WaitForQuiescence(ctx context.Context, timeoutMs float64) error

	WaitVisible(ctx context.Context, selector string, timeoutMs float64) error
	ScrollIntoView(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string, timeoutMs float64) error

	// ClickByText clicks the first element whose visible text matches text.
	ClickByText(ctx context.Context, text string, timeoutMs float64) error

	Focus(ctx context.Context, selector string) error
	Clear(ctx context.Context, selector string) error

	// TypeText types text into selector one character at a time with
	// keyDelayMs between keystrokes.
	TypeText(ctx context.Context, selector, text string, keyDelayMs float64) error

	// InputValue reads back the current content of an input field.
	InputValue(ctx context.Context, selector string) (string, error)

	Press(ctx context.Context, key string) error
	ScrollBy(ctx context.Context, pixels int) error
	Screenshot(ctx context.Context, path string) error
	Hover(ctx context.Context, selector string, timeoutMs float64) error
	TextContent(ctx context.Context, selector string) (string, error)

	// CountVisible reports how many elements matching selector are visible.
	CountVisible(ctx context.Context, selector string) (int, error)

	// ClickFirstVisible clicks the first visible match and reports whether
	// one was found.
	ClickFirstVisible(ctx context.Context, selector string) (bool, error)

	// BodyText returns the page's visible body text.
	BodyText(ctx context.Context) (string, error)

	// URL reports the page's current location. The executor does not
	// consume it; it exists for callers that key selector choice off the
	// navigated host rather than the target description.
	URL() string
}

// BrowserHandle couples a live page with the teardown of the browser
// resources behind it. Close is safe to call more than once.
type BrowserHandle interface {
	Page() Page
	Close() error
}

// BrowserLauncher starts a browser and yields the page a session will drive.
type BrowserLauncher interface {
	Launch(ctx context.Context) (BrowserHandle, error)
}
