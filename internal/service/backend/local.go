package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"induchat/internal/models"
)

const defaultOllamaURL = "http://localhost:11434"

// localCompleter drives a local Ollama chat endpoint as the text-generation
// pipeline. Generation parameters map onto Ollama request options.
type localCompleter struct {
	cfg    models.BackendConfig
	client *http.Client
}

func newLocalCompleter(cfg models.BackendConfig) *localCompleter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaURL
	}
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
	return &localCompleter{cfg: cfg, client: client}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   ollamaMessage `json:"message"`
	Done      bool          `json:"done"`
}

func (l *localCompleter) Complete(ctx context.Context, turns []models.Turn) (string, error) {
	messages := make([]ollamaMessage, 0, len(turns))
	for _, t := range turns {
		role := "user"
		switch t.Role {
		case models.RoleBot:
			role = "assistant"
		case models.RoleSystem:
			role = "system"
		}
		messages = append(messages, ollamaMessage{Role: role, Content: t.Content})
	}

	reqBody := ollamaChatRequest{
		Model:    l.cfg.Model,
		Messages: messages,
		Stream:   false,
		Options: map[string]interface{}{
			"num_predict":    l.cfg.MaxNewTokens,
			"temperature":    l.cfg.Temperature,
			"top_p":          l.cfg.TopP,
			"repeat_penalty": l.cfg.RepeatPenalty,
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.BaseURL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("local generation timed out: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: cannot reach %s, install and start Ollama (`ollama serve`) to use the local pipeline", ErrDependencyMissing, l.cfg.BaseURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: model %q is not pulled, run `ollama pull %s`", ErrDependencyMissing, l.cfg.Model, l.cfg.Model)
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %s", ErrResource, bytes.TrimSpace(body))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("local generation error: %s", bytes.TrimSpace(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Message.Content == "" {
		return "", fmt.Errorf("local pipeline returned an empty completion")
	}
	return chatResp.Message.Content, nil
}
