package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/Nyukimin/polyclaw/internal/application/pipeline"
	"github.com/Nyukimin/polyclaw/internal/domain/interp"
	"github.com/Nyukimin/polyclaw/internal/domain/task"
)

// TurnProcessor は1ターンの会話を処理するアプリケーション層の入口
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, turn pipeline.Turn) (pipeline.Outcome, error)
}

// Handler はHTTP APIハンドラー
type Handler struct {
	processor TurnProcessor
}

// NewHandler は新しいHandlerを作成
func NewHandler(processor TurnProcessor) *Handler {
	return &Handler{
		processor: processor,
	}
}

// processRequest は/processエンドポイントのリクエストボディ
type processRequest struct {
	UserInput   string `json:"user_input"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Method      string `json:"method,omitempty"`
}

// resultResponse は補間1件分のレスポンス
type resultResponse struct {
	Points           [][]float64 `json:"points"`
	Method           string      `json:"method"`
	PolynomialDegree int         `json:"polynomial_degree"`
	Coefficients     []float64   `json:"coefficients"`
	FormattedResults [][]float64 `json:"formatted_results"`
	ImageBase64      string      `json:"image_base64,omitempty"`
	MimeType         string      `json:"mime_type,omitempty"`
}

// errorResponse はエラーレスポンス
type errorResponse struct {
	Detail string `json:"detail"`
}

// ServeHTTP はHTTPリクエストをルーティング
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		h.handleHealth(w, r)
	case "/process":
		h.handleProcess(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleHealth はヘルスチェックエンドポイント
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleProcess はユーザー入力1件を処理するエンドポイント
// レスポンスは補間結果の配列、または会話応答の文字列のいずれか
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	// プリフライトリクエスト
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserInput == "" && req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, "user_input or image_base64 is required")
		return
	}

	// メソッド指定（省略時はlagrange）
	methodTag := interp.MethodLagrange
	if req.Method != "" {
		m, err := interp.ParseMethod(req.Method)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		methodTag = m
	}

	// 画像デコード
	var image []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid image_base64")
			return
		}
		image = decoded
	}

	turn := pipeline.Turn{
		ID:        task.NewTurnID(),
		Text:      req.UserInput,
		ImageJPEG: image,
		MethodTag: methodTag,
	}

	outcome, err := h.processor.ProcessTurn(r.Context(), turn)
	if err != nil {
		log.Printf("Failed to process turn %s: %v", turn.ID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// 会話応答は文字列をそのままJSONエンコードして返す
	if outcome.IsChat() {
		json.NewEncoder(w).Encode(outcome.Chat)
		return
	}

	json.NewEncoder(w).Encode(toResultResponses(outcome.Results))
}

// toResultResponses はパイプライン結果をレスポンスDTOに変換
func toResultResponses(results []pipeline.RequestResult) []resultResponse {
	responses := make([]resultResponse, 0, len(results))

	for _, res := range results {
		points := make([][]float64, 0, len(res.Points))
		for _, pt := range res.Points {
			if pt.HasDerivative() {
				points = append(points, []float64{pt.X, pt.Y, *pt.D})
			} else {
				points = append(points, []float64{pt.X, pt.Y})
			}
		}

		// 評価点なしのリクエストではnullを返す
		var formatted [][]float64
		if len(res.FormattedResults) > 0 {
			formatted = make([][]float64, 0, len(res.FormattedResults))
			for _, ev := range res.FormattedResults {
				formatted = append(formatted, []float64{ev.X, ev.Y})
			}
		}

		resp := resultResponse{
			Points:           points,
			Method:           res.Method.String(),
			PolynomialDegree: res.PolynomialDegree,
			Coefficients:     res.Coefficients,
			FormattedResults: formatted,
		}

		if len(res.ImagePNG) > 0 {
			resp.ImageBase64 = base64.StdEncoding.EncodeToString(res.ImagePNG)
			resp.MimeType = "image/png"
		}

		responses = append(responses, resp)
	}

	return responses
}

// setCORSHeaders はCORSヘッダーを設定
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeError はエラーレスポンスを書き込む
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Detail: detail})
}
