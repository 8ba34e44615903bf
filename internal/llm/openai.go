package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient targets any OpenAI-compatible chat-completions endpoint.
// Structured output is approximated with JSON-object mode plus the schema
// rendered into a system message; chat sessions resend the accumulated
// transcript each turn since the API is stateless.
type OpenAIClient struct {
	cli   *openai.Client
	model string
	rl    *rpsLimiter
}

func NewOpenAIClient(apiKey, model string, rps float64, burst int) *OpenAIClient {
	return &OpenAIClient{
		cli:   openai.NewClient(apiKey),
		model: model,
		rl:    newRPSLimiter(rps, burst),
	}
}

func (c *OpenAIClient) Name() string { return "OpenAI:" + c.model }

func (c *OpenAIClient) Close() error {
	c.rl.Stop()
	return nil
}

func (c *OpenAIClient) GenerateJSON(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Parts)+1)
	if req.Schema != nil {
		schemaJSON, err := json.MarshalIndent(req.Schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem,
			Content: "Respond with a single JSON object conforming to this schema:\n" +
				string(schemaJSON),
		})
	}
	for _, p := range req.Parts {
		if p.Data == nil {
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: p.Text,
			})
			continue
		}
		// The chat-completions API only takes binary content as image URLs.
		if !strings.HasPrefix(p.MIMEType, "image/") {
			return nil, fmt.Errorf("attachment type %q is not supported by this provider", p.MIMEType)
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data),
				},
			}},
		})
	}

	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) NewChat(_ context.Context, cfg ChatConfig) (ChatSession, error) {
	return &openaiChat{
		cli:         c.cli,
		model:       c.model,
		rl:          c.rl,
		temperature: cfg.Temperature,
		transcript: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: cfg.SystemInstruction,
		}},
	}, nil
}

type openaiChat struct {
	cli         *openai.Client
	model       string
	rl          *rpsLimiter
	temperature float32

	mu         sync.Mutex
	transcript []openai.ChatCompletionMessage
}

func (c *openaiChat) Send(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	msgs := append(append([]openai.ChatCompletionMessage(nil), c.transcript...),
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
	c.mu.Unlock()

	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	reply := resp.Choices[0].Message.Content

	// Commit the exchange only after the call succeeds so a failed turn can
	// be retried without a dangling user message in the transcript.
	c.mu.Lock()
	c.transcript = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply,
	})
	c.mu.Unlock()
	return reply, nil
}
