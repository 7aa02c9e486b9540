package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/Nyukimin/polyclaw/internal/domain/llm"
)

// mockProvider は固定の応答を返すLLMプロバイダーのモック
type mockProvider struct {
	content string
	err     error
	lastReq llm.GenerateRequest
}

func (m *mockProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return llm.GenerateResponse{}, m.err
	}
	return llm.GenerateResponse{Content: m.content}, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func TestChat(t *testing.T) {
	provider := &mockProvider{content: "ラグランジュ補間は任意の点配置で使えます。"}
	agent := NewChatAgent(provider)

	answer, err := agent.Chat(context.Background(), "手法の違いは？")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if answer != "ラグランジュ補間は任意の点配置で使えます。" {
		t.Errorf("unexpected answer: %s", answer)
	}
	if provider.lastReq.SystemPrompt == "" {
		t.Error("chat should set a system prompt")
	}
	if len(provider.lastReq.Messages) != 1 || provider.lastReq.Messages[0].Role != "user" {
		t.Errorf("unexpected messages: %+v", provider.lastReq.Messages)
	}
}

func TestChat_ProviderError(t *testing.T) {
	agent := NewChatAgent(&mockProvider{err: errors.New("llm down")})

	_, err := agent.Chat(context.Background(), "こんにちは")
	if err == nil {
		t.Fatal("expected error")
	}
}
