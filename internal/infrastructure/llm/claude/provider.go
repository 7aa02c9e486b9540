package claude

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Nyukimin/polyclaw/internal/domain/llm"
)

// ClaudeProvider はAnthropic公式SDKによるClaude APIプロバイダーの実装
type ClaudeProvider struct {
	client anthropic.Client
	model  string
}

// NewClaudeProvider は新しいClaudeProviderを作成
func NewClaudeProvider(apiKey, model string) *ClaudeProvider {
	return &ClaudeProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// NewClaudeProviderWithBaseURL はベースURLを指定してClaudeProviderを作成（テスト用）
func NewClaudeProviderWithBaseURL(apiKey, model, baseURL string) *ClaudeProvider {
	return &ClaudeProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		model:  model,
	}
}

// Generate はLLM生成を実行
func (p *ClaudeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  p.convertMessages(req.Messages),
	}

	// システムプロンプトはトップレベルで渡す
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		}
	}

	// Temperature（0.0-1.0の範囲）
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("claude API error: %w", err)
	}

	// コンテンツ抽出
	var content string
	for _, block := range msg.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}

	return llm.GenerateResponse{
		Content:      content,
		TokensUsed:   int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		FinishReason: string(msg.StopReason),
	}, nil
}

// Name はプロバイダー名を返す
func (p *ClaudeProvider) Name() string {
	return fmt.Sprintf("claude-%s", p.model)
}

// convertMessages はドメインメッセージをSDKのメッセージに変換
// Claude APIはsystemロールをサポートしないため、systemメッセージはスキップする
func (p *ClaudeProvider) convertMessages(messages []llm.Message) []anthropic.MessageParam {
	converted := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == "system" {
			continue
		}

		blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.Images))
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
		for _, img := range msg.Images {
			encoded := base64.StdEncoding.EncodeToString(img.Data)
			blocks = append(blocks, anthropic.NewImageBlockBase64(img.MediaType, encoded))
		}

		if msg.Role == "assistant" {
			converted = append(converted, anthropic.NewAssistantMessage(blocks...))
		} else {
			converted = append(converted, anthropic.NewUserMessage(blocks...))
		}
	}

	return converted
}
