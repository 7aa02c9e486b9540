package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/Nyukimin/polyclaw/internal/adapter/config"
	"github.com/Nyukimin/polyclaw/internal/adapter/httpapi"
	"github.com/Nyukimin/polyclaw/internal/adapter/repl"
	"github.com/Nyukimin/polyclaw/internal/application/pipeline"
	"github.com/Nyukimin/polyclaw/internal/domain/agent"
	"github.com/Nyukimin/polyclaw/internal/domain/llm"
	extractorinfra "github.com/Nyukimin/polyclaw/internal/infrastructure/extraction"
	"github.com/Nyukimin/polyclaw/internal/infrastructure/llm/claude"
	"github.com/Nyukimin/polyclaw/internal/infrastructure/llm/groq"
	"github.com/Nyukimin/polyclaw/internal/infrastructure/llm/ollama"
	"github.com/Nyukimin/polyclaw/internal/infrastructure/llm/openai"
	"github.com/Nyukimin/polyclaw/internal/infrastructure/plot"
)

func main() {
	replMode := flag.Bool("repl", false, "run in interactive terminal mode")
	flag.Parse()

	// 設定読み込み
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 依存関係の構築
	pipe, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("Failed to build dependencies: %v", err)
	}

	// 対話モード
	if *replMode {
		r := repl.New(pipe, "")
		if err := r.Run(context.Background()); err != nil {
			log.Fatalf("REPL error: %v", err)
		}
		return
	}

	// HTTPサーバー起動
	handler := httpapi.NewHandler(pipe)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting polyclaw server on %s (extractor=%s)", addr, cfg.Extractor.Provider)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// getConfigPath は設定ファイルのパスを返す
// POLYCLAW_CONFIG 未設定かつ ./config.yaml 不在の場合は空（デフォルト値＋環境変数のみ）
func getConfigPath() string {
	if path := os.Getenv("POLYCLAW_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// buildPipeline は設定からパイプラインを組み立てる
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Using LLM provider: %s", provider.Name())

	extractor := extractorinfra.NewLLMExtractor(provider)
	chatAgent := agent.NewChatAgent(provider)
	renderer := plot.NewRenderer(cfg.Plot.WidthInch, cfg.Plot.HeightInch, cfg.Plot.Samples)

	return pipeline.New(extractor, renderer, chatAgent, cfg.Extractor.MaxParseRetries), nil
}

// buildProvider は設定で指定されたLLMプロバイダーを構築
func buildProvider(cfg *config.Config) (llm.LLMProvider, error) {
	switch cfg.Extractor.Provider {
	case "groq":
		return groq.NewGroqProvider(cfg.Groq.APIKey, cfg.Groq.Model), nil
	case "claude":
		return claude.NewClaudeProvider(cfg.Claude.APIKey, cfg.Claude.Model), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model), nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.Ollama.BaseURL, cfg.Ollama.Model), nil
	default:
		return nil, fmt.Errorf("unknown extractor provider: %q", cfg.Extractor.Provider)
	}
}
