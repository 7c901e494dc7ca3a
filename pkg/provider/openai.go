package provider

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultTimeout bounds every provider call. A hung upstream must never stall
// a session's message loop longer than this.
const DefaultTimeout = 30 * time.Second

// Config configures the OpenAI-compatible client. BaseURL may point at any
// compatible endpoint (OpenAI, a proxy, a local server).
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// OpenAI implements Provider on top of the chat completions API. The client
// is immutable after construction and safe to share across all sessions.
type OpenAI struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	temperature float32
}

// NewOpenAI builds a provider from config, filling in defaults.
func NewOpenAI(cfg Config) *OpenAI {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.8
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(c),
		model:       model,
		timeout:     timeout,
		temperature: temperature,
	}
}

func (p *OpenAI) complete(ctx context.Context, op, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &Error{Op: op, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Op: op, Err: errors.New("empty choices in completion response")}
	}
	log.Debug().
		Str("op", op).
		Str("model", p.model).
		Dur("elapsed", time.Since(start)).
		Int("prompt_len", len(prompt)).
		Msg("provider call completed")
	return resp.Choices[0].Message.Content, nil
}

// Classify asks for a one-word intent label.
func (p *OpenAI) Classify(ctx context.Context, text string) (string, error) {
	out, err := p.complete(ctx, "classify", classificationPrompt(text), 8)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Generate produces a reply for a fully assembled prompt.
func (p *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, "generate", prompt, 0)
}

func classificationPrompt(text string) string {
	return "Analyze the following user message and detect the primary intent. " +
		"Respond with only one word from these options: purchase, service, information, " +
		"comparison, complaint, general, technical, financing, booking.\n\n" +
		"User message: \"" + text + "\"\n\nIntent:"
}

var _ Provider = (*OpenAI)(nil)
