package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMistralURL   = "https://api.mistral.ai/v1/conversations"
	DefaultMistralModel = "mistral-large-latest"
	defaultMaxTokens    = 300
)

type MistralConfig struct {
	APIKey    string
	URL       string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// MistralClient talks to the Mistral conversations endpoint.
type MistralClient struct {
	cfg        MistralConfig
	httpClient *http.Client
}

type mistralInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralRequest struct {
	Model          string         `json:"model"`
	Inputs         []mistralInput `json:"inputs"`
	CompletionArgs struct {
		MaxTokens int `json:"max_tokens"`
	} `json:"completion_args"`
}

func NewMistralClient(cfg MistralConfig) *MistralClient {
	if cfg.URL == "" {
		cfg.URL = DefaultMistralURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultMistralModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &MistralClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *MistralClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("mistral: %w", ErrNotConfigured)
	}

	payload := mistralRequest{
		Model:  c.cfg.Model,
		Inputs: []mistralInput{{Role: "user", Content: prompt}},
	}
	payload.CompletionArgs.MaxTokens = c.cfg.MaxTokens

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode mistral request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("url", c.cfg.URL).Str("model", c.cfg.Model).Msg("Requesting Mistral completion")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read mistral response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode mistral response: %w", ErrUnrecognizedReply)
	}

	reply, ok := ExtractReply(decoded)
	if !ok {
		return "", ErrUnrecognizedReply
	}
	return reply, nil
}
