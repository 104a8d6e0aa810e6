package generation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"chatdesk/internal/config"
	"chatdesk/internal/models"
)

// Client is the opaque Generation Service: prompt in, text out. Calls may
// fail or hang; the orchestrator bounds them.
type Client interface {
	Generate(ctx context.Context, promptText string) (string, error)
}

// systemInstructions carry the fixed generation rules; the composed request
// prompt arrives as the user message.
const systemInstructions = `你是一家服务机构的在线客服助手。请严格遵守以下规则：
1. 回答必须是自然语言，绝对不要输出 JSON、代码块或任何结构化标记。
2. 只能使用提供的参考资料中的服务、联系方式和优惠信息，绝不编造。
3. 涉及政策类问题时，只依据提供的参考资料作答，不做推测。
4. 回答分三部分：先给出主要答案，再补充一句简短说明，最后给出 2-4 条建议的下一步操作。
5. 语气亲切专业，像门店顾问一样。`

// EinoClient drives an openai-compatible chat model through a compiled
// ChatTemplate → ChatModel chain.
type EinoClient struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewEinoClient builds the chat chain once. A missing API key means the
// generation dependency is absent for the whole process lifetime.
func NewEinoClient(ctx context.Context, cfg config.GenerationConfig) (*EinoClient, error) {
	if cfg.APIKey == "" {
		return nil, models.ErrGenerationUnavailable
	}

	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)
	model, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	template := prompt.FromMessages(schema.FString,
		schema.SystemMessage(systemInstructions),
		schema.UserMessage("{prompt}"),
	)

	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(template).
		AppendChatModel(model).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error compiling generation chain: %w", err)
	}

	return &EinoClient{chain: chain}, nil
}

func (c *EinoClient) Generate(ctx context.Context, promptText string) (string, error) {
	out, err := c.chain.Invoke(ctx, map[string]any{"prompt": promptText})
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	return out.Content, nil
}
