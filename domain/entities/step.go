package entities

// ActionKind is the closed vocabulary of browser actions a plan may contain
type ActionKind string

const (
	ActionNavigate    ActionKind = "navigate"
	ActionClick       ActionKind = "click"
	ActionFill        ActionKind = "fill"
	ActionWait        ActionKind = "wait"
	ActionScroll      ActionKind = "scroll"
	ActionScreenshot  ActionKind = "screenshot"
	ActionExtractText ActionKind = "extract_text"
	ActionHover       ActionKind = "hover"
)

const (
	DefaultStepTimeoutMs   = 15000
	DefaultStepWaitAfterMs = 1000
)

// IsValid reports whether k belongs to the action vocabulary
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionNavigate, ActionClick, ActionFill, ActionWait,
		ActionScroll, ActionScreenshot, ActionExtractText, ActionHover:
		return true
	}
	return false
}

// PlanStep is one atomic browser action with its parameters.
// Which of Target/Value/Selector are meaningful depends on Action;
// unused fields stay empty.
type PlanStep struct {
	Action      ActionKind `json:"action"`
	Description string     `json:"description"`
	Target      string     `json:"target,omitempty"`   // URL for navigate, abstract element description otherwise
	Value       string     `json:"value,omitempty"`    // text payload for fill, scroll distance for scroll
	Selector    string     `json:"selector,omitempty"` // known concrete locator, bypasses strategy lookup
	TimeoutMs   int        `json:"timeout,omitempty"`
	WaitAfterMs int        `json:"wait_after,omitempty"`
	Optional    bool       `json:"optional,omitempty"`
}

// Normalize applies the per-step defaults
func (s *PlanStep) Normalize() {
	if s.TimeoutMs <= 0 {
		s.TimeoutMs = DefaultStepTimeoutMs
	}
	if s.WaitAfterMs <= 0 {
		s.WaitAfterMs = DefaultStepWaitAfterMs
	}
}
