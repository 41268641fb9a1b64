package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart_automation/domain/entities"
)

func TestExtractSearchQuery(t *testing.T) {
	cases := []struct {
		instruction string
		want        string
	}{
		{"Go to YouTube and search for thailand itinerary 10 days", "thailand itinerary 10 days"},
		{"Go to Amazon and find wireless headphones", "wireless headphones"},
		{"Search Google for weather", "google weather"},
		{"Go to Google and search for weather", "weather"},
		{"search for cats and then play first video", "cats"},
		{"look for mechanical keyboards", "mechanical keyboards"},
		{"open example.com", defaultQuery},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractSearchQuery(tc.instruction), "instruction: %s", tc.instruction)
	}
}

// Stop words embedded inside larger words ("and" in "thailand", "play" in
// "playground") must not truncate the captured phrase.
func TestExtractSearchQueryStopWordsMustBeWholeWords(t *testing.T) {
	cases := []struct {
		instruction string
		want        string
	}{
		{"search for thailand itinerary 10 days", "thailand itinerary 10 days"},
		{"search for portland restaurants", "portland restaurants"},
		{"search for playground equipment", "playground equipment"},
		{"find thentic sneakers", "thentic sneakers"},
		{"search for portland and then click first result", "portland"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractSearchQuery(tc.instruction), "instruction: %s", tc.instruction)
	}
}

func TestExtractSearchQueryDeterministic(t *testing.T) {
	instruction := "Go to YouTube and search for lo-fi beats"
	first := ExtractSearchQuery(instruction)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractSearchQuery(instruction))
	}
}

func TestDetectSite(t *testing.T) {
	assert.Equal(t, SiteYouTube, DetectSite("go to youtube and search for cats", ""))
	assert.Equal(t, SiteGoogle, DetectSite("search google for weather", ""))
	assert.Equal(t, SiteAmazon, DetectSite("find headphones on amazon", ""))
	assert.Equal(t, SiteCustom, DetectSite("open the landing page", "https://example.com"))
	assert.Equal(t, SiteGeneric, DetectSite("find wireless headphones", ""))

	// Site keywords win over an explicit start URL.
	assert.Equal(t, SiteYouTube, DetectSite("search youtube for jazz", "https://example.com"))
}

func TestPatternPlanYouTube(t *testing.T) {
	steps := PatternPlan("Go to YouTube and search for lo-fi beats", "")
	require.Len(t, steps, 5)

	assert.Equal(t, entities.ActionNavigate, steps[0].Action)
	assert.Equal(t, "https://youtube.com", steps[0].Target)
	assert.Equal(t, entities.ActionWait, steps[1].Action)
	assert.Equal(t, 3000, steps[1].WaitAfterMs)
	assert.Equal(t, entities.ActionFill, steps[2].Action)
	assert.Equal(t, "search", steps[2].Target)
	assert.Equal(t, "lo-fi beats", steps[2].Value)
	assert.Equal(t, entities.ActionWait, steps[3].Action)
	assert.Equal(t, entities.ActionClick, steps[4].Action)
	assert.True(t, steps[4].Optional)
}

func TestPatternPlanYouTubePlayFirst(t *testing.T) {
	steps := PatternPlan("Go to YouTube, search for cooking tutorials and play the first video", "")
	require.Len(t, steps, 7)

	assert.Equal(t, "cooking tutorials", steps[2].Value)
	assert.Equal(t, entities.ActionClick, steps[6].Action)
	assert.Equal(t, "first_video", steps[6].Target)
	assert.True(t, steps[6].Optional)
}

func TestPatternPlanGoogle(t *testing.T) {
	steps := PatternPlan("Go to Google and search for weather", "")
	require.Len(t, steps, 4)

	assert.Equal(t, entities.ActionNavigate, steps[0].Action)
	assert.Equal(t, "https://google.com", steps[0].Target)
	assert.Equal(t, entities.ActionFill, steps[2].Action)
	assert.Equal(t, "weather", steps[2].Value)
}

func TestPatternPlanCustomURL(t *testing.T) {
	steps := PatternPlan("open the landing page", "https://example.com")
	require.Len(t, steps, 2)

	assert.Equal(t, entities.ActionNavigate, steps[0].Action)
	assert.Equal(t, "https://example.com", steps[0].Target)
	assert.Equal(t, entities.ActionWait, steps[1].Action)
}

func TestPatternPlanGenericFallsBackToSearch(t *testing.T) {
	steps := PatternPlan("find wireless headphones", "")
	require.Len(t, steps, 3)

	assert.Equal(t, "https://google.com", steps[0].Target)
	assert.Equal(t, entities.ActionFill, steps[2].Action)
	assert.Equal(t, "wireless headphones", steps[2].Value)
}

func TestPatternPlanNormalizesDefaults(t *testing.T) {
	for _, step := range PatternPlan("go to youtube and search for cats", "") {
		assert.Equal(t, entities.DefaultStepTimeoutMs, step.TimeoutMs)
		assert.Greater(t, step.WaitAfterMs, 0)
	}
}
