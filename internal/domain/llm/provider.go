package llm

import "context"

// ImageAttachment はメッセージに添付する画像を表す
type ImageAttachment struct {
	MediaType string // 例: "image/jpeg", "image/png"
	Data      []byte
}

// Message はLLMメッセージを表す
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
	Images  []ImageAttachment // マルチモーダル対応プロバイダーのみ使用
}

// GenerateRequest はLLM生成リクエスト
type GenerateRequest struct {
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	JSONMode     bool // 構造化出力（JSON）を要求。非対応プロバイダーは無視する
}

// GenerateResponse はLLM生成レスポンス
type GenerateResponse struct {
	Content      string
	TokensUsed   int
	FinishReason string
}

// LLMProvider はLLMプロバイダーの抽象化
type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
