package entities

// AutomationConfig is the process-wide execution policy for one session.
// It is created once before a run starts and never mutated afterwards.
type AutomationConfig struct {
	Headless            bool
	NavigationTimeoutMs int
	ViewportWidth       int
	ViewportHeight      int
	SlowMoMs            int
	UserAgent           string
	MaxRetries          int
	RetryDelayMs        int

	// PaceScale multiplies every fixed pacing delay. 1.0 runs at the
	// human-like rate; tests shrink it to run the same timing contract fast.
	PaceScale float64
}

// DefaultConfig returns the standard interactive configuration
func DefaultConfig() AutomationConfig {
	return AutomationConfig{
		Headless:            false,
		NavigationTimeoutMs: 30000,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		SlowMoMs:            300,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		MaxRetries:          3,
		RetryDelayMs:        1000,
		PaceScale:           1.0,
	}
}
