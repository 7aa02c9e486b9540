package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Nyukimin/polyclaw/internal/domain/llm"
)

// OpenAIProvider はOpenAI公式SDKによるプロバイダーの実装
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider は新しいOpenAIProviderを作成
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// NewOpenAIProviderWithBaseURL はベースURLを指定してOpenAIProviderを作成（テスト用）
func NewOpenAIProviderWithBaseURL(apiKey, model, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		model:  model,
	}
}

// Generate はLLM生成を実行
func (p *OpenAIProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: p.convertMessages(req),
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.GenerateResponse{}, fmt.Errorf("openai API returned no choices")
	}

	return llm.GenerateResponse{
		Content:      resp.Choices[0].Message.Content,
		TokensUsed:   int(resp.Usage.TotalTokens),
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// Name はプロバイダー名を返す
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("openai-%s", p.model)
}

// convertMessages はドメインメッセージをSDKのメッセージに変換
func (p *OpenAIProvider) convertMessages(req llm.GenerateRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			if len(msg.Images) == 0 {
				messages = append(messages, openai.UserMessage(msg.Content))
				continue
			}

			parts := []openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(msg.Content),
			}
			for _, img := range msg.Images {
				dataURI := fmt.Sprintf("data:%s;base64,%s", img.MediaType, base64.StdEncoding.EncodeToString(img.Data))
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURI,
				}))
			}
			messages = append(messages, openai.UserMessage(parts))
		}
	}

	return messages
}
