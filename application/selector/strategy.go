// Package selector maps abstract target descriptions ("search box", "submit
// button", "first video") to ordered lists of concrete locator candidates.
// The catalog is immutable data: site-specific known-good selectors first,
// progressively generic ones after, so the executor's first-match search
// degrades gracefully on unknown markup.
package selector

import (
	"strings"

	"smart_automation/domain/entities"
)

// catalogEntry binds a set of target keywords to an ordered candidate list
type catalogEntry struct {
	keywords   []string
	candidates []string
}

// The candidate lists are keyed off substrings of the abstract target
// description, not the navigated hostname. Off-site candidates simply fail
// and fall through to the generic tail.
var fillCatalog = []catalogEntry{
	{
		keywords: []string{"search"},
		candidates: []string{
			// YouTube
			"input[name='search_query']",
			// Google
			"input[name='q']", "textarea[name='q']", "#APjFqb",
			// Amazon
			"input#twotabsearchtextbox", "input[name='field-keywords']",
			// Generic
			"input[type='search']", "input[placeholder*='Search']", "#search", ".search-input",
		},
	},
}

var fillGeneric = []string{"input[type='text']", "input", "textarea"}

var clickCatalog = []catalogEntry{
	{
		keywords: []string{"search", "submit"},
		candidates: []string{
			// YouTube
			"button#search-icon-legacy", "#search-icon-legacy",
			// Google
			"input[name='btnK']", "input[value='Google Search']",
			// Amazon
			"input#nav-search-submit-button",
			// Generic
			"button[type='submit']", "input[type='submit']", "button[aria-label*='Search']",
		},
	},
	{
		keywords: []string{"video", "first"},
		candidates: []string{
			// YouTube result lists
			"a#video-title", "#contents a#video-title",
			".ytd-video-renderer a", "a[href*='/watch']",
			// Generic first elements
			"a", "button",
		},
	},
}

var clickGeneric = []string{"button", "a", "input[type='button']"}

// Candidates returns the ordered locator candidates for an abstract target
// and action. Pure function, no I/O. An empty target yields an empty list;
// callers must then rely on the text-based fallback alone.
func Candidates(target string, action entities.ActionKind) []string {
	if target == "" {
		return nil
	}
	targetLower := strings.ToLower(target)

	switch action {
	case entities.ActionFill:
		if match := lookup(fillCatalog, targetLower); match != nil {
			return match
		}
		return append([]string(nil), fillGeneric...)
	case entities.ActionClick, entities.ActionHover, entities.ActionExtractText:
		if match := lookup(clickCatalog, targetLower); match != nil {
			return match
		}
		return append([]string(nil), clickGeneric...)
	}
	return nil
}

func lookup(catalog []catalogEntry, targetLower string) []string {
	for _, entry := range catalog {
		for _, keyword := range entry.keywords {
			if strings.Contains(targetLower, keyword) {
				return append([]string(nil), entry.candidates...)
			}
		}
	}
	return nil
}
