package agent

import (
	"context"

	"github.com/Nyukimin/polyclaw/internal/domain/llm"
)

// chatSystemPrompt は補間と無関係な入力に応答する際のシステムプロンプト
const chatSystemPrompt = `あなたは多項式補間の専門アシスタントです。
ユーザーの入力が補間タスクではなかった場合に、丁寧に応答してください。

- 補間に関する一般的な質問（手法の違い、使い分けなど）には簡潔に答える
- 補間と無関係な話題の場合は、自分が補間エージェントであることを伝え、
  点群と評価点を含む依頼の例を1つ示す
- 計算そのものはここでは行わない`

// ChatAgent は補間タスクに該当しない入力への会話応答を担当するエンティティ
type ChatAgent struct {
	llmProvider llm.LLMProvider
}

// NewChatAgent は新しいChatAgentを作成
func NewChatAgent(llmProvider llm.LLMProvider) *ChatAgent {
	return &ChatAgent{
		llmProvider: llmProvider,
	}
}

// Chat は会話応答を生成
func (a *ChatAgent) Chat(ctx context.Context, message string) (string, error) {
	req := llm.GenerateRequest{
		SystemPrompt: chatSystemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: message},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	resp, err := a.llmProvider.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Content, nil
}
