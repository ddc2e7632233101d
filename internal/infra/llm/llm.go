package llm

import (
	"context"
	"fmt"
	"strconv"

	"gdprauditor/internal/config"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/schema"
)

// Analyst performs the delegated compliance analysis: exactly one model call
// per prompt, no retry, and the raw textual response is returned without any
// local validation of its JSON.
type Analyst interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type ollamaAnalyst struct {
	model *ollama.ChatModel
}

func InitAnalyst(ctx context.Context, cfg *config.Config) (Analyst, error) {
	model, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: cfg.LLM.Host + ":" + strconv.Itoa(cfg.LLM.Port),
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}
	return &ollamaAnalyst{model: model}, nil
}

func (a *ollamaAnalyst) Invoke(ctx context.Context, prompt string) (string, error) {
	msg, err := a.model.Generate(ctx, []*schema.Message{
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("analysis call failed: %w", err)
	}
	return msg.Content, nil
}
