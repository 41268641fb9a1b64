package executor

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

// popupRule binds a catalog of dismissal selectors to a human-readable
// category. The first visible match per category is clicked.
type popupRule struct {
	category  string
	selectors []string
}

var popupRules = []popupRule{
	{"cookie banner", []string{`button:has-text("Accept")`, `button:has-text("Accept all")`, `button:has-text("I agree")`, "#L2AGLb"}},
	{"cookie consent", []string{`button:has-text("Allow all")`, `button:has-text("Accept cookies")`, `[data-testid="accept-all"]`}},
	{"privacy notice", []string{`button:has-text("OK")`, `button:has-text("Got it")`, `button:has-text("Understand")`}},
	{"close button", []string{`[aria-label="Close"]`, `button[aria-label="Close"]`, ".close", `[data-dismiss="modal"]`}},
	{"newsletter popup", []string{`button:has-text("No thanks")`, `button:has-text("Skip")`, `button:has-text("Maybe later")`}},
	{"signup modal", []string{`button:has-text("Continue without")`, `button:has-text("Not now")`}},
	{"permission request", []string{`button:has-text("Block")`, `button:has-text("Not now")`, `button:has-text("Deny")`}},
	{"generic overlay", []string{".modal-close", ".popup-close", ".overlay-close", "button.close"}},
	{"dialog button", []string{`[role="dialog"] button`, ".dialog button", ".modal button"}},
	{"google consent", []string{"button#W0wltc", "button.VfPpkd-LgbsSe"}},
	{"onetrust cookie", []string{`button[data-cookiebanner="accept_button"]`, "#onetrust-accept-btn-handler"}},
	{"cookie widget", []string{"button.ot-sdk-button-primary", ".cookie-accept"}},
}

var overlaySelectors = []string{".modal-backdrop", ".overlay", ".popup-background", `[role="presentation"]`}

// challengeRule pairs the detection markers of one bot-challenge provider
// with the affordances a human would also click.
type challengeRule struct {
	kind       string
	markers    []string
	checkboxes []string
	passiveMs  int // bounded wait instead of a click
}

var challengeRules = []challengeRule{
	{
		kind:       "reCAPTCHA",
		markers:    []string{`iframe[src*="recaptcha"]`, ".g-recaptcha", "#recaptcha", "[data-sitekey]"},
		checkboxes: []string{".recaptcha-checkbox-border", "#recaptcha-anchor", `span[role="checkbox"]`},
	},
	{
		kind:       "hCaptcha",
		markers:    []string{`iframe[src*="hcaptcha"]`, ".h-captcha", "[data-hcaptcha-site-key]"},
		checkboxes: []string{"#checkbox", ".hcaptcha-box"},
	},
	{
		kind:      "Cloudflare",
		markers:   []string{"#cf-challenge-stage", ".cf-browser-verification"},
		passiveMs: 5000,
	},
	{
		kind:       "bot verification",
		markers:    []string{`input[type="checkbox"][title*="robot"]`, `[aria-label*="not a robot"]`},
		checkboxes: []string{`input[type="checkbox"]`, `[role="checkbox"]`, `button:has-text("Verify")`, `button:has-text("Continue")`},
	},
}

var challengeBodyMarkers = []string{
	"i'm not a robot",
	"verify you are human",
	"complete the security check",
}

// ObstacleHandler runs the housekeeping passes that clear popups and bot
// challenges around ordinary steps. Both passes are idempotent and never
// fail the run.
type ObstacleHandler struct {
	page   interfaces.Page
	cfg    entities.AutomationConfig
	logger *logrus.Logger
}

func NewObstacleHandler(page interfaces.Page, cfg entities.AutomationConfig, logger *logrus.Logger) *ObstacleHandler {
	return &ObstacleHandler{
		page:   page,
		cfg:    cfg,
		logger: logger,
	}
}

// DismissPopups clicks the first visible match in each popup category and,
// as a final fallback, presses Escape once if an overlay backdrop remains.
// It reports which categories were dismissed; an empty result is not an error.
func (h *ObstacleHandler) DismissPopups(ctx context.Context) []string {
	var dismissed []string

	for _, rule := range popupRules {
		for _, sel := range rule.selectors {
			clicked, err := h.page.ClickFirstVisible(ctx, sel)
			if err != nil {
				continue
			}
			if clicked {
				h.logger.WithFields(logrus.Fields{"category": rule.category, "selector": sel}).Info("dismissed popup")
				dismissed = append(dismissed, rule.category)
				Pause(ctx, 800, h.cfg.PaceScale)
				break
			}
		}
	}

	for _, sel := range overlaySelectors {
		count, err := h.page.CountVisible(ctx, sel)
		if err != nil || count == 0 {
			continue
		}
		if h.page.Press(ctx, "Escape") == nil {
			h.logger.Info("pressed Escape for remaining overlay")
			dismissed = append(dismissed, "overlay (escape)")
		}
		break
	}

	return dismissed
}

// DetectChallenges scans for known bot-challenge markers and text signals.
func (h *ObstacleHandler) DetectChallenges(ctx context.Context) []string {
	var found []string

	for _, rule := range challengeRules {
		for _, marker := range rule.markers {
			count, err := h.page.CountVisible(ctx, marker)
			if err == nil && count > 0 {
				found = append(found, rule.kind)
				break
			}
		}
	}

	body, err := h.page.BodyText(ctx)
	if err == nil && body != "" {
		bodyLower := strings.ToLower(body)
		for _, marker := range challengeBodyMarkers {
			if strings.Contains(bodyLower, marker) {
				found = append(found, "text-based verification")
				break
			}
		}
	}

	return found
}

// ResolveChallenges attempts the single affordance a human would use for
// each detected challenge: one visible-checkbox click, or a bounded passive
// wait for third-party verification to settle. It never tries to defeat a
// challenge beyond that.
func (h *ObstacleHandler) ResolveChallenges(ctx context.Context, kinds []string) []string {
	var resolved []string

	for _, kind := range kinds {
		rule, ok := ruleForKind(kind)
		if !ok {
			continue
		}
		if rule.passiveMs > 0 {
			h.logger.WithField("challenge", rule.kind).Info("waiting for verification to settle")
			Pause(ctx, rule.passiveMs, h.cfg.PaceScale)
			resolved = append(resolved, rule.kind+" (waited)")
			continue
		}
		for _, sel := range rule.checkboxes {
			clicked, err := h.page.ClickFirstVisible(ctx, sel)
			if err != nil {
				continue
			}
			if clicked {
				h.logger.WithFields(logrus.Fields{"challenge": rule.kind, "selector": sel}).Info("clicked challenge checkbox")
				resolved = append(resolved, rule.kind+" (clicked)")
				Pause(ctx, 2000, h.cfg.PaceScale)
				break
			}
		}
	}

	return resolved
}

// HandleChallenges runs detection and resolution as one pass.
func (h *ObstacleHandler) HandleChallenges(ctx context.Context) []string {
	kinds := h.DetectChallenges(ctx)
	if len(kinds) == 0 {
		return nil
	}
	return h.ResolveChallenges(ctx, kinds)
}

func ruleForKind(kind string) (challengeRule, bool) {
	for _, rule := range challengeRules {
		if rule.kind == kind {
			return rule, true
		}
	}
	// Text-based detections use the generic checkbox affordances.
	if kind == "text-based verification" {
		return challengeRules[len(challengeRules)-1], true
	}
	return challengeRule{}, false
}
