package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nyukimin/polyclaw/internal/domain/extraction"
	"github.com/Nyukimin/polyclaw/internal/domain/interp"
	"github.com/Nyukimin/polyclaw/internal/domain/llm"
)

// parserSystemPrompt は抽出用のシステムプロンプト
// LLMをチャットボットではなくパーサーとして振る舞わせる
const parserSystemPrompt = `あなたは数値解析アプリケーションのための厳密なデータ抽出エンジンです。

補間の計算そのものは絶対に行わないでください。ユーザーの入力（テキストと画像）から
補間リクエストを特定し、構造化データとして抽出することだけが役割です。

【抽出ルール】
- 「リクエスト」は一意な (x, y) 点集合によって定義されます。同じ点集合に対して
  複数の評価点が要求された場合は、1つのリクエストの x_evals にまとめてください。
  点集合が異なる場合のみ複数リクエストに分けてください。
- ユーザーが変換を指示した場合（例: 「全てのyに2を足す」）は、変換後の点を出力してください。
- JSON内で数式（1/3 など）を使わず、小数に計算してください（0.333）。
- 微分値が与えられた点は [x, y, dy] の3要素で出力してください。

【手法選択ルール（リクエストごと）】
- x座標が等間隔でない場合: "lagrange"
- 等間隔で評価点が区間の先頭寄り: "newton_forward"
- 等間隔で評価点が区間の末尾寄り: "newton_backward"
- 全点に微分値がある場合: "hermite"
- 判断できない場合: "auto"

【出力フォーマット】
以下のスキーマのJSONのみを返してください。説明文は不要です。
{
  "is_interpolation_request": true,
  "clarification_message": null,
  "requests": [
    {"points": [[0.0, 1.0], [1.0, 2.0]], "method": "lagrange", "x_evals": [1.5]}
  ]
}
補間と無関係な入力の場合は is_interpolation_request を false にし、
clarification_message に利用者への短い説明を入れてください。`

// parsedOutput はLLMの構造化出力に対応するDTO
type parsedOutput struct {
	IsInterpolationRequest bool            `json:"is_interpolation_request"`
	ClarificationMessage   string          `json:"clarification_message"`
	Requests               []parsedRequest `json:"requests"`
}

// parsedRequest は候補リクエスト1件分のDTO
type parsedRequest struct {
	Points [][]float64 `json:"points"`
	Method string      `json:"method"`
	XEvals []float64   `json:"x_evals"`
}

// LLMExtractor はLLMによる構造化抽出の実装
type LLMExtractor struct {
	llmProvider llm.LLMProvider
}

// NewLLMExtractor は新しいLLMExtractorを作成
func NewLLMExtractor(llmProvider llm.LLMProvider) *LLMExtractor {
	return &LLMExtractor{
		llmProvider: llmProvider,
	}
}

// Extract は自由文と画像から候補リクエストを抽出
func (e *LLMExtractor) Extract(ctx context.Context, in extraction.Input, feedback string) (extraction.Extraction, error) {
	messages := []llm.Message{e.buildUserMessage(in)}

	// レビュー段からの是正指示は追加のuserメッセージとして渡す
	if feedback != "" {
		messages = append(messages, llm.Message{Role: "user", Content: feedback})
	}

	req := llm.GenerateRequest{
		SystemPrompt: parserSystemPrompt,
		Messages:     messages,
		MaxTokens:    2048,
		JSONMode:     true,
	}

	resp, err := e.llmProvider.Generate(ctx, req)
	if err != nil {
		return extraction.Extraction{}, fmt.Errorf("extraction LLM call failed: %w", err)
	}

	var dto parsedOutput
	if err := json.Unmarshal([]byte(extractJSONBody(resp.Content)), &dto); err != nil {
		return extraction.Extraction{}, fmt.Errorf("failed to parse extraction output: %w", err)
	}

	return e.toDomain(dto)
}

// buildUserMessage はテキストと画像からuserメッセージを構築
func (e *LLMExtractor) buildUserMessage(in extraction.Input) llm.Message {
	msg := llm.Message{Role: "user", Content: in.Text}
	if len(in.ImageJPEG) > 0 {
		msg.Images = []llm.ImageAttachment{
			{MediaType: "image/jpeg", Data: in.ImageJPEG},
		}
	}
	return msg
}

// toDomain はDTOをドメインの抽出結果に変換
func (e *LLMExtractor) toDomain(dto parsedOutput) (extraction.Extraction, error) {
	if !dto.IsInterpolationRequest {
		return extraction.Extraction{
			NotApplicable: true,
			Clarification: dto.ClarificationMessage,
		}, nil
	}

	requests := make([]interp.RawRequest, 0, len(dto.Requests))
	for i, r := range dto.Requests {
		points := make(interp.PointSet, 0, len(r.Points))
		for _, entry := range r.Points {
			switch len(entry) {
			case 2:
				points = append(points, interp.Point{X: entry[0], Y: entry[1]})
			case 3:
				d := entry[2]
				points = append(points, interp.Point{X: entry[0], Y: entry[1], D: &d})
			default:
				return extraction.Extraction{}, fmt.Errorf("request %d: point must be [x,y] or [x,y,dy], got %d values", i, len(entry))
			}
		}

		requests = append(requests, interp.RawRequest{
			Points: points,
			Method: normalizeMethodHint(r.Method),
			EvalXs: r.XEvals,
		})
	}

	return extraction.Extraction{Requests: requests}, nil
}

// normalizeMethodHint はLLMが返す手法タグの揺れを吸収
// 解釈できないタグはautoとして扱い、後段の解決規則に委ねる
func normalizeMethodHint(s string) interp.Method {
	tag := strings.ToLower(strings.TrimSpace(s))
	tag = strings.TrimSuffix(tag, "_interpolation")

	m, err := interp.ParseMethod(tag)
	if err != nil {
		return interp.MethodAuto
	}
	return m
}

// extractJSONBody はコードフェンスや前置きを取り除いてJSON本体を取り出す
func extractJSONBody(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
