package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Groq      GroqConfig      `yaml:"groq"`
	Claude    ClaudeConfig    `yaml:"claude"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Plot      PlotConfig      `yaml:"plot"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port int    `yaml:"port" env:"POLYCLAW_PORT"`
	Host string `yaml:"host" env:"POLYCLAW_HOST"`
}

// ExtractorConfig は抽出器設定
type ExtractorConfig struct {
	Provider        string `yaml:"provider" env:"POLYCLAW_EXTRACTOR_PROVIDER"` // groq / claude / openai / ollama
	MaxParseRetries int    `yaml:"max_parse_retries"`
}

// GroqConfig はGroq API設定
type GroqConfig struct {
	APIKey string `yaml:"api_key" env:"GROQ_API_KEY"` // 環境変数から読み込み推奨
	Model  string `yaml:"model"`
}

// ClaudeConfig はClaude API設定
type ClaudeConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"` // 環境変数から読み込み推奨
	Model  string `yaml:"model"`
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"` // 環境変数から読み込み推奨
	Model  string `yaml:"model"`
}

// OllamaConfig はOllama設定
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL"`
	Model   string `yaml:"model"`
}

// PlotConfig は可視化設定
type PlotConfig struct {
	WidthInch  float64 `yaml:"width_inch"`
	HeightInch float64 `yaml:"height_inch"`
	Samples    int     `yaml:"samples"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig は設定ファイルを読み込む
// path が空の場合はデフォルト値と環境変数のみで構成する
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	// ファイル読み込み
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// YAMLパース
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	// デフォルト値設定
	cfg.setDefaults()

	// 環境変数を上書き適用（APIキーはファイルに平文保存しない）
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	// バリデーション
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults はデフォルト値を設定
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Extractor.Provider == "" {
		c.Extractor.Provider = "groq"
	}

	if c.Extractor.MaxParseRetries == 0 {
		c.Extractor.MaxParseRetries = 3
	}

	if c.Groq.Model == "" {
		c.Groq.Model = "meta-llama/llama-4-maverick-17b-128e-instruct"
	}

	if c.Claude.Model == "" {
		c.Claude.Model = "claude-sonnet-4-20250514"
	}

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}

	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}

	if c.Ollama.Model == "" {
		c.Ollama.Model = "llama3.2-vision"
	}

	if c.Plot.WidthInch == 0 {
		c.Plot.WidthInch = 6
	}

	if c.Plot.HeightInch == 0 {
		c.Plot.HeightInch = 4
	}

	if c.Plot.Samples == 0 {
		c.Plot.Samples = 200
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate は設定の妥当性を検証
func (c *Config) Validate() error {
	// サーバー設定検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	// 抽出器プロバイダー検証
	switch c.Extractor.Provider {
	case "groq":
		if c.Groq.APIKey == "" {
			return fmt.Errorf("groq api_key is required (set GROQ_API_KEY)")
		}
	case "claude":
		if c.Claude.APIKey == "" {
			return fmt.Errorf("claude api_key is required (set ANTHROPIC_API_KEY)")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai api_key is required (set OPENAI_API_KEY)")
		}
	case "ollama":
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("ollama base_url is required")
		}
	default:
		return fmt.Errorf("unknown extractor provider: %q (must be groq/claude/openai/ollama)", c.Extractor.Provider)
	}

	if c.Extractor.MaxParseRetries < 1 {
		return fmt.Errorf("extractor max_parse_retries must be >= 1, got %d", c.Extractor.MaxParseRetries)
	}

	return nil
}
