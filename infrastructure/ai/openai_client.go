// Package ai provides the language-model collaborator used for plan
// creation. The model is asked for a strict JSON array of steps; everything
// else about planning (fallbacks, validation policy) lives in the
// application layer.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

const defaultModel = "gpt-4o"

const planningSystemPrompt = `You translate browser automation instructions into JSON plans.

Respond with ONLY a JSON array of step objects, no prose. Each step object has:
  "action"      one of: navigate, click, fill, wait, scroll, screenshot, extract_text, hover
  "description" short human-readable summary of the step
  "target"      URL for navigate, element description otherwise
  "value"       text to type for fill, pixels for scroll, otherwise empty
  "selector"    exact CSS selector if you know one, otherwise empty
  "timeout"     per-step timeout in milliseconds (default 15000)
  "wait_after"  pause after the step in milliseconds (default 1000)
  "optional"    true if the plan should continue when this step cannot complete

Example for "search YouTube for lo-fi beats":
[
  {"action": "navigate", "description": "Open YouTube", "target": "https://www.youtube.com", "wait_after": 3000},
  {"action": "fill", "description": "Type the search query", "target": "search box", "value": "lo-fi beats", "wait_after": 1500},
  {"action": "click", "description": "Submit the search", "target": "search button", "optional": true}
]`

// Client implements the planning collaborator on top of the OpenAI chat API.
type Client struct {
	api    *openai.Client
	model  string
	logger *logrus.Logger
}

var _ interfaces.PlanningModel = (*Client)(nil)

// NewClient reads OPENAI_API_KEY and OPENAI_MODEL from the environment.
// A missing key is a configuration error; callers that want pattern-only
// planning should not construct a client at all.
func NewClient(logger *logrus.Logger) (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, &entities.SetupError{Reason: "OPENAI_API_KEY not set"}
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Client{
		api:    openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// CreatePlan asks the model for a step plan and decodes the reply.
func (c *Client) CreatePlan(ctx context.Context, instruction, startURL string) ([]entities.PlanStep, error) {
	userPrompt := fmt.Sprintf("Instruction: %s", instruction)
	if startURL != "" {
		userPrompt += fmt.Sprintf("\nStart from: %s", startURL)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: planningSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	steps, err := DecodePlan(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{"model": c.model, "steps": len(steps)}).Info("model produced plan")
	return steps, nil
}

// DecodePlan extracts the JSON step array from a model reply. Models wrap
// JSON in markdown fences or add prose around it, so the decoder locates the
// outermost array before unmarshalling. Steps with unknown actions are
// dropped rather than failing the whole plan.
func DecodePlan(raw string) ([]entities.PlanStep, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model reply")
	}

	var decoded []entities.PlanStep
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}

	steps := make([]entities.PlanStep, 0, len(decoded))
	for _, step := range decoded {
		if !step.Action.IsValid() {
			continue
		}
		step.Normalize()
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("model plan contained no valid steps")
	}
	return steps, nil
}
