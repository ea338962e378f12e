package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"induchat/internal/models"
)

// hostedCompleter calls an OpenAI-compatible chat completion endpoint.
type hostedCompleter struct {
	cfg models.BackendConfig
}

func (h *hostedCompleter) Complete(ctx context.Context, turns []models.Turn) (string, error) {
	temperature := float32(h.cfg.Temperature)
	maxTokens := h.cfg.MaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     h.cfg.BaseURL,
		Model:       h.cfg.Model,
		APIKey:      h.cfg.Credential,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("init chat model: %w", err)
	}

	resp, err := chatModel.Generate(ctx, toSchemaMessages(turns))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", errors.New("provider returned an empty completion")
	}
	return resp.Content, nil
}

func toSchemaMessages(turns []models.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		var role schema.RoleType
		switch t.Role {
		case models.RoleBot:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: t.Content,
		})
	}
	return messages
}
