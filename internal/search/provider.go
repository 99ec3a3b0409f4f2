package search

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/groq"
)

// searchTemperature keeps replies deterministic-leaning so the JSON schema
// the prompts demand survives more often.
const searchTemperature = 0.1

const anthropicMaxTokens = 4096

// GroqProvider executes prompts against a Groq compound (web search) model.
type GroqProvider struct {
	client groq.Client
	model  string
}

// NewGroqProvider creates a provider for the given Groq model.
func NewGroqProvider(client groq.Client, model string) *GroqProvider {
	return &GroqProvider{client: client, model: model}
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Complete(ctx context.Context, prompt string) (string, error) {
	temp := searchTemperature
	resp, err := p.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model:       p.model,
		Messages:    []groq.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// AnthropicProvider executes prompts against a Claude model. Selectable via
// search.provider for environments standardized on the Anthropic API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for the given Claude model.
func NewAnthropicProvider(client anthropic.Client, model string) *AnthropicProvider {
	return &AnthropicProvider{client: client, model: model}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	temp := searchTemperature
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.model,
		MaxTokens:   anthropicMaxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "search: anthropic complete")
	}
	return resp.Text(), nil
}
