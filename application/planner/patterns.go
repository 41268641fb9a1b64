package planner

import (
	"regexp"
	"strings"

	"smart_automation/domain/entities"
)

// Site identifies which step template the pattern planner emits
type Site string

const (
	SiteYouTube Site = "youtube"
	SiteGoogle  Site = "google"
	SiteAmazon  Site = "amazon"
	SiteCustom  Site = "custom" // explicit start URL, no recognized site
	SiteGeneric Site = "generic"
)

// Search-phrase extraction patterns, tried in order. Each stops the capture
// at punctuation or at whitespace-delimited conjunctions and follow-up
// action words; a stop word inside a larger word ("and" in "thailand")
// must not end the capture.
var queryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`search for\s+["']?([^"']+?)["']?(?:\s*[,.]|\s+(?:and|then|play|click)\b|\s*$)`),
	regexp.MustCompile(`find\s+["']?([^"']+?)["']?(?:\s*[,.]|\s+(?:and|then|play|click)\b|\s*$)`),
	regexp.MustCompile(`look for\s+["']?([^"']+?)["']?(?:\s*[,.]|\s+(?:and|then|play|click)\b|\s*$)`),
	regexp.MustCompile(`about\s+["']?([^"']+?)["']?(?:\s*[,.]|\s+(?:and|then|play|click)\b|\s*$)`),
}

var queryStopWords = map[string]struct{}{
	"and": {}, "then": {}, "play": {}, "click": {}, "first": {}, "video": {},
}

var instructionSkipWords = map[string]struct{}{
	"go": {}, "to": {}, "navigate": {}, "open": {}, "visit": {},
	"search": {}, "find": {}, "look": {}, "for": {},
	"and": {}, "then": {}, "play": {}, "click": {}, "first": {}, "video": {},
}

const defaultQuery = "cats"

// ExtractSearchQuery pulls the search phrase out of an instruction.
// Deterministic: the same instruction always yields the same phrase.
func ExtractSearchQuery(instruction string) string {
	lower := strings.ToLower(instruction)

	for _, pattern := range queryPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		var kept []string
		for _, word := range strings.Fields(strings.TrimSpace(match[1])) {
			if _, stop := queryStopWords[word]; !stop {
				kept = append(kept, word)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}

	// No pattern matched: keep the first five meaningful words.
	var meaningful []string
	for _, word := range strings.Fields(lower) {
		if _, skip := instructionSkipWords[word]; skip {
			continue
		}
		if strings.HasSuffix(word, ".com") {
			continue
		}
		meaningful = append(meaningful, word)
		if len(meaningful) == 5 {
			break
		}
	}
	if len(meaningful) == 0 {
		return defaultQuery
	}
	return strings.Join(meaningful, " ")
}

// DetectSite picks the step template for an instruction. Site keywords win
// over an explicit start URL; the generic template defaults to the search
// engine.
func DetectSite(instruction, startURL string) Site {
	lower := strings.ToLower(instruction)
	switch {
	case strings.Contains(lower, "youtube"):
		return SiteYouTube
	case strings.Contains(lower, "google"):
		return SiteGoogle
	case strings.Contains(lower, "amazon"):
		return SiteAmazon
	case strings.TrimSpace(startURL) != "":
		return SiteCustom
	default:
		return SiteGeneric
	}
}

// PatternPlan builds a plan from the fixed per-site templates. Pure and
// deterministic; always returns at least a Navigate+Wait sequence.
func PatternPlan(instruction, startURL string) []entities.PlanStep {
	lower := strings.ToLower(instruction)
	query := ExtractSearchQuery(instruction)

	var steps []entities.PlanStep
	switch DetectSite(instruction, startURL) {
	case SiteYouTube:
		steps = []entities.PlanStep{
			{Action: entities.ActionNavigate, Description: "Navigate to YouTube", Target: "https://youtube.com"},
			{Action: entities.ActionWait, Description: "Wait for YouTube to load", WaitAfterMs: 3000},
			{Action: entities.ActionFill, Description: "Search for '" + query + "'", Target: "search", Value: query},
			{Action: entities.ActionWait, Description: "Wait after typing", WaitAfterMs: 1500},
			{Action: entities.ActionClick, Description: "Submit search", Target: "search_submit", Optional: true},
		}
		if strings.Contains(lower, "play") && strings.Contains(lower, "first") {
			steps = append(steps,
				entities.PlanStep{Action: entities.ActionWait, Description: "Wait for search results", WaitAfterMs: 3000},
				entities.PlanStep{Action: entities.ActionClick, Description: "Click first video", Target: "first_video", Optional: true},
			)
		}
	case SiteGoogle:
		steps = []entities.PlanStep{
			{Action: entities.ActionNavigate, Description: "Navigate to Google", Target: "https://google.com"},
			{Action: entities.ActionWait, Description: "Wait for Google to load", WaitAfterMs: 2000},
			{Action: entities.ActionFill, Description: "Search for '" + query + "'", Target: "search", Value: query},
			{Action: entities.ActionWait, Description: "Wait after typing", WaitAfterMs: 1000},
		}
	case SiteAmazon:
		steps = []entities.PlanStep{
			{Action: entities.ActionNavigate, Description: "Navigate to Amazon", Target: "https://amazon.com"},
			{Action: entities.ActionWait, Description: "Wait for Amazon to load", WaitAfterMs: 2000},
			{Action: entities.ActionFill, Description: "Search for '" + query + "'", Target: "search", Value: query},
			{Action: entities.ActionWait, Description: "Wait after typing", WaitAfterMs: 1000},
			{Action: entities.ActionClick, Description: "Submit search", Target: "search_submit", Optional: true},
		}
	case SiteCustom:
		steps = []entities.PlanStep{
			{Action: entities.ActionNavigate, Description: "Navigate to " + startURL, Target: startURL},
			{Action: entities.ActionWait, Description: "Wait for page to load", WaitAfterMs: 3000},
		}
	default:
		steps = []entities.PlanStep{
			{Action: entities.ActionNavigate, Description: "Navigate to Google", Target: "https://google.com"},
			{Action: entities.ActionWait, Description: "Wait for page load", WaitAfterMs: 2000},
			{Action: entities.ActionFill, Description: "Search for '" + query + "'", Target: "search", Value: query},
		}
	}

	for i := range steps {
		steps[i].Normalize()
	}
	return steps
}
