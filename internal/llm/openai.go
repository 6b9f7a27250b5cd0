package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIConfig holds the settings for the OpenAI-backed client.
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint for proxies and compatible
	// backends. Empty means the default endpoint.
	BaseURL string
	// Model is the default chat model.
	Model string
	// VisionModel is used when Options.Vision is set. Empty falls back
	// to Model.
	VisionModel string
}

// OpenAI implements Client on the OpenAI chat-completion API.
type OpenAI struct {
	client      *openai.Client
	model       string
	visionModel string
	configured  bool
}

var _ Client = (*OpenAI)(nil)

// NewOpenAI creates a client from cfg. An empty APIKey yields a client whose
// Complete always returns ErrNotConfigured, so the rest of the system can run
// without credentials.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = model
	}
	o := &OpenAI{model: model, visionModel: visionModel}
	if cfg.APIKey == "" {
		return o
	}
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	o.client = openai.NewClientWithConfig(c)
	o.configured = true
	return o
}

// Complete sends the conversation and returns the first choice's text.
func (o *OpenAI) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if !o.configured {
		return "", ErrNotConfigured
	}

	model := o.model
	if opts.Vision {
		model = o.visionModel
	}
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toChatMessages(messages),
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature >= 0 {
		req.Temperature = &opts.Temperature
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		cm := openai.ChatCompletionMessage{Role: m.Role}
		if m.Role == RoleUser && len(m.ImageURLs) > 0 {
			parts := make([]openai.ChatMessagePart, 0, len(m.ImageURLs)+1)
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: m.Content,
			})
			for _, u := range m.ImageURLs {
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: u},
				})
			}
			cm.MultiContent = parts
		} else {
			cm.Content = m.Content
		}
		out = append(out, cm)
	}
	return out
}

// classify maps backend errors onto the package sentinels.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		if apiErr.HTTPStatusCode >= 500 {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	// Transport failures, timeouts, DNS.
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
