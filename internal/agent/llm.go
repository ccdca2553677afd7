package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// LanguageModel is the narrow completion interface the router and
// synthesizer consume. Implementations must be safe for concurrent use.
type LanguageModel interface {
	// Complete sends a system and user prompt to the model and returns the
	// generated text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EinoModel adapts an Eino chat model to the LanguageModel interface.
type EinoModel struct {
	chatModel model.BaseChatModel
}

// NewEinoModel wraps the given Eino chat model.
func NewEinoModel(chatModel model.BaseChatModel) (*EinoModel, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("agent: chat model must not be nil")
	}
	return &EinoModel{chatModel: chatModel}, nil
}

// Complete runs one non-streaming generation.
func (m *EinoModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msg, err := m.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return "", fmt.Errorf("agent: generate failed: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("agent: model returned nil message")
	}
	return msg.Content, nil
}
