// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// defaultOllamaPrefix is prepended to every chat message when the
// configuration does not supply its own instruction.
const defaultOllamaPrefix = "Translate the following academic text from English to Simplified Chinese. " +
	"Keep LaTeX markup intact and reply with the translation only:"

// Ollama translates through a local or remote ollama chat endpoint.
type Ollama struct {
	client *http.Client
	host   string
	model  string
	prefix string
}

// NewOllama builds the ollama backend from configuration.
func NewOllama(cfg types.TranslationConfig) (*Ollama, error) {
	if cfg.OllamaModel == "" {
		return nil, fmt.Errorf("ollama translator requires a model name")
	}
	host := strings.TrimRight(cfg.OllamaHost, "/")
	if host == "" {
		host = "http://localhost:11434"
	}
	prefix := cfg.OllamaPrefix
	if prefix == "" {
		prefix = defaultOllamaPrefix
	}
	return &Ollama{
		client: httpClient(cfg.HTTPConfig),
		host:   host,
		model:  cfg.OllamaModel,
		prefix: prefix,
	}, nil
}

// Name returns the provider identifier.
func (o *Ollama) Name() string { return "ollama" }

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// Translate sends one user message (configured prefix plus the source
// text) and returns the trimmed assistant reply.
func (o *Ollama) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "user", Content: o.prefix + " " + text},
		},
	})
	if err != nil {
		return "", &RejectedContentError{Err: fmt.Errorf("marshaling chat payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &RejectedContentError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := classifyStatus(resp.StatusCode, "ollama")
		if len(detail) > 0 {
			// Preserve the class, add the server detail.
			if IsRejected(err) {
				return "", &RejectedContentError{Err: fmt.Errorf("ollama: %s", strings.TrimSpace(string(detail)))}
			}
			return "", &TransientError{Err: fmt.Errorf("ollama: %s", strings.TrimSpace(string(detail)))}
		}
		return "", err
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", &TransientError{Err: fmt.Errorf("parsing ollama response: %w", err)}
	}

	translated := strings.TrimSpace(chat.Message.Content)
	if translated == "" {
		return "", &TransientError{Err: fmt.Errorf("ollama returned no translation")}
	}
	return translated, nil
}
