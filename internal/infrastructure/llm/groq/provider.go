package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nyukimin/polyclaw/internal/domain/llm"
)

const defaultBaseURL = "https://api.groq.com/openai"

// GroqProvider はGroq APIプロバイダーの実装
// Groq APIはOpenAI互換。点群画像の読み取りに使うためマルチモーダル入力に対応する
type GroqProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGroqProvider は新しいGroqProviderを作成
func NewGroqProvider(apiKey, model string) *GroqProvider {
	return &GroqProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SetBaseURL はベースURLを設定（テスト用）
func (p *GroqProvider) SetBaseURL(url string) {
	p.baseURL = url
}

// Generate はLLM生成を実行
func (p *GroqProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	// Groq APIリクエスト構築（OpenAI互換）
	groqReq := map[string]interface{}{
		"model":    p.model,
		"messages": p.convertMessages(req),
	}

	// MaxTokens
	if req.MaxTokens > 0 {
		groqReq["max_tokens"] = req.MaxTokens
	}

	// Temperature
	if req.Temperature > 0 {
		groqReq["temperature"] = req.Temperature
	}

	// 構造化出力
	if req.JSONMode {
		groqReq["response_format"] = map[string]interface{}{"type": "json_object"}
	}

	reqBody, err := json.Marshal(groqReq)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	// HTTPリクエスト作成
	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	// リクエスト実行
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return llm.GenerateResponse{}, fmt.Errorf("groq API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	// レスポンスパース
	var groqResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(groqResp.Choices) == 0 {
		return llm.GenerateResponse{}, fmt.Errorf("groq API returned no choices")
	}

	return llm.GenerateResponse{
		Content:      groqResp.Choices[0].Message.Content,
		TokensUsed:   groqResp.Usage.TotalTokens,
		FinishReason: groqResp.Choices[0].FinishReason,
	}, nil
}

// Name はプロバイダー名を返す
func (p *GroqProvider) Name() string {
	return fmt.Sprintf("groq-%s", p.model)
}

// convertMessages はドメインメッセージをOpenAI互換フォーマットに変換
// 画像付きメッセージはcontentをパーツ配列にし、data URIで埋め込む
func (p *GroqProvider) convertMessages(req llm.GenerateRequest) []map[string]interface{} {
	messages := make([]map[string]interface{}, 0, len(req.Messages)+1)

	// システムプロンプトは先頭のsystemメッセージとして渡す
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": req.SystemPrompt,
		})
	}

	for _, msg := range req.Messages {
		if len(msg.Images) == 0 {
			messages = append(messages, map[string]interface{}{
				"role":    msg.Role,
				"content": msg.Content,
			})
			continue
		}

		parts := []map[string]interface{}{
			{"type": "text", "text": msg.Content},
		}
		for _, img := range msg.Images {
			dataURI := fmt.Sprintf("data:%s;base64,%s", img.MediaType, base64.StdEncoding.EncodeToString(img.Data))
			parts = append(parts, map[string]interface{}{
				"type":      "image_url",
				"image_url": map[string]interface{}{"url": dataURI},
			})
		}

		messages = append(messages, map[string]interface{}{
			"role":    msg.Role,
			"content": parts,
		})
	}

	return messages
}
