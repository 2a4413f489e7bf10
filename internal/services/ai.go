package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/juju/clock"
	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

var ErrAIDisabled = errors.New("task drafting is not configured")

type AIService struct {
	client *openai.Client
	clock  clock.Clock
}

// DraftTask is a proposed task; drafts are never stored automatically.
type DraftTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// NewAIService returns a drafting service, or one that always fails with
// ErrAIDisabled when apiKey is empty.
func NewAIService(apiKey string, clk clock.Clock) *AIService {
	if apiKey == "" {
		return &AIService{clock: clk}
	}
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), clk)
}

// NewAIServiceWithConfig builds a drafting service from a client config.
func NewAIServiceWithConfig(cfg openai.ClientConfig, clk clock.Clock) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		clock:  clk,
	}
}

// Enabled reports whether an API key was configured.
func (s *AIService) Enabled() bool {
	return s.client != nil
}

// DraftTasks proposes tasks for a project from its goal, description and outputs
func (s *AIService) DraftTasks(ctx context.Context, project models.Project) ([]DraftTask, error) {
	if s.client == nil {
		return nil, ErrAIDisabled
	}

	today := s.clock.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a project planning assistant. Break the project below into concrete tasks for its team.

Today: %s
Title: %s
Goal: %s
Description: %s
Expected outputs: %s
Timeline: %s

Return a JSON array of at most %d tasks:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "dueDate": "due date as YYYY-MM-DD within the timeline, or an empty string"
  }
]

Rules:
- Return [] if no tasks can be derived
- Write titles and descriptions in the language of the project description
- Return only JSON without any explanation`,
		today, project.Title, project.Goal, project.Description,
		strings.Join(project.Outputs, ", "), project.Timeline, constants.MaxAIGeneratedTasks)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []DraftTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	if len(tasks) > constants.MaxAIGeneratedTasks {
		tasks = tasks[:constants.MaxAIGeneratedTasks]
	}
	return tasks, nil
}

// stripCodeFence removes a surrounding ```json fence some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
