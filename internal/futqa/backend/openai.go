package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultTimeout     = 30 * time.Second
	defaultMaxTokens   = 600

	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// GroqModel is the default Groq chat model.
	GroqModel = "llama-3.1-8b-instant"
)

// Config configures an OpenAI-compatible provider.
type Config struct {
	// Name labels the provider in logs and errors. Defaults to "openai".
	Name string

	// APIKey is the bearer token used to authenticate against the API.
	APIKey string

	// BaseURL overrides the API endpoint. Any OpenAI-compatible endpoint
	// works (Groq, a local Ollama). Defaults to https://api.openai.com/v1.
	BaseURL string

	// Model is the chat model to use. Defaults to gpt-4o-mini.
	Model string

	// Timeout is the HTTP request timeout. Defaults to 30 s.
	Timeout time.Duration

	// Temperature is passed through unchanged; zero omits it.
	Temperature float64
}

// openAIProvider implements Provider over the chat completions API.
type openAIProvider struct {
	cfg    Config
	client *http.Client
}

var _ Provider = (*openAIProvider)(nil)

// NewOpenAI returns a Provider backed by an OpenAI-compatible chat API.
// The returned provider is safe for concurrent use.
func NewOpenAI(cfg Config) Provider {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &openAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewGroq returns a provider for Groq's OpenAI-compatible endpoint.
func NewGroq(apiKey, model string) Provider {
	if model == "" {
		model = GroqModel
	}
	return NewOpenAI(Config{Name: "groq", APIKey: apiKey, BaseURL: GroqBaseURL, Model: model})
}

// --- minimal OpenAI wire types ---

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature,omitempty"`
}

type oaiResponse struct {
	Choices []oaiChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type oaiChoice struct {
	Message      oaiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

func (p *openAIProvider) Name() string { return p.cfg.Name }

// Complete sends the prompt and returns the first choice's text.
func (p *openAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	maxTokens := prompt.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	var msgs []oaiMessage
	if prompt.System != "" {
		msgs = append(msgs, oaiMessage{Role: "system", Content: prompt.System})
	}
	msgs = append(msgs, oaiMessage{Role: "user", Content: prompt.User})

	data, err := json.Marshal(oaiRequest{
		Model:       p.cfg.Model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("backend: %s: marshal request: %w", p.cfg.Name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("backend: %s: create http request: %w", p.cfg.Name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("backend: %s: http request: %w", p.cfg.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("backend: %s: read response body: %w", p.cfg.Name, err)
	}

	var oaiResp oaiResponse
	decodeErr := json.Unmarshal(respBody, &oaiResp)

	if resp.StatusCode >= 400 {
		se := &StatusError{Provider: p.cfg.Name, Code: resp.StatusCode}
		if decodeErr == nil && oaiResp.Error != nil {
			se.Message = oaiResp.Error.Message
		}
		return "", se
	}
	if decodeErr != nil {
		return "", fmt.Errorf("backend: %s: decode API response: %w", p.cfg.Name, decodeErr)
	}
	if oaiResp.Error != nil {
		return "", fmt.Errorf("backend: %s: API error (%s): %s", p.cfg.Name, oaiResp.Error.Type, oaiResp.Error.Message)
	}
	if len(oaiResp.Choices) == 0 {
		return "", fmt.Errorf("backend: %s: no choices returned", p.cfg.Name)
	}

	return strings.TrimSpace(oaiResp.Choices[0].Message.Content), nil
}
