package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nyukimin/polyclaw/internal/application/pipeline"
	"github.com/Nyukimin/polyclaw/internal/domain/interp"
)

// mockProcessor は固定の結果を返すパイプラインのモック
type mockProcessor struct {
	outcome  pipeline.Outcome
	err      error
	lastTurn pipeline.Turn
}

func (m *mockProcessor) ProcessTurn(ctx context.Context, turn pipeline.Turn) (pipeline.Outcome, error) {
	m.lastTurn = turn
	return m.outcome, m.err
}

func postProcess(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	handler := NewHandler(&mockProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandleProcess_ChatOutcomeReturnsString(t *testing.T) {
	handler := NewHandler(&mockProcessor{
		outcome: pipeline.Outcome{Chat: "私は補間エージェントです。"},
	})

	rec := postProcess(t, handler, `{"user_input": "こんにちは"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// 会話応答はJSON文字列として返る
	var answer string
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatalf("expected JSON string body, got %s", rec.Body.String())
	}
	if answer != "私は補間エージェントです。" {
		t.Errorf("unexpected answer: %s", answer)
	}
}

func TestHandleProcess_ResultsOutcomeReturnsArray(t *testing.T) {
	d := 3.0
	handler := NewHandler(&mockProcessor{
		outcome: pipeline.Outcome{Results: []pipeline.RequestResult{
			{
				Points:           interp.PointSet{{X: 0, Y: 1}, {X: 1, Y: 2, D: &d}},
				Method:           interp.MethodLagrange,
				PolynomialDegree: 1,
				Coefficients:     []float64{1, 1},
				FormattedResults: []interp.Evaluation{{X: 0.5, Y: 1.5}},
				ImagePNG:         []byte{0x89, 0x50, 0x4E, 0x47},
			},
		}},
	})

	rec := postProcess(t, handler, `{"user_input": "補間して"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var results []resultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("expected JSON array body, got %s", rec.Body.String())
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	res := results[0]
	if res.Method != "lagrange" {
		t.Errorf("unexpected method: %s", res.Method)
	}
	if res.PolynomialDegree != 1 {
		t.Errorf("unexpected degree: %d", res.PolynomialDegree)
	}
	if len(res.Points) != 2 || len(res.Points[1]) != 3 {
		t.Errorf("derivative point should have 3 elements: %v", res.Points)
	}
	if len(res.FormattedResults) != 1 {
		t.Errorf("unexpected formatted results: %v", res.FormattedResults)
	}
	if res.MimeType != "image/png" {
		t.Errorf("unexpected mime type: %s", res.MimeType)
	}
	decoded, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil || len(decoded) != 4 {
		t.Errorf("image should roundtrip via base64: %v", err)
	}
}

func TestHandleProcess_EvalFreeResultHasNullFormattedResults(t *testing.T) {
	handler := NewHandler(&mockProcessor{
		outcome: pipeline.Outcome{Results: []pipeline.RequestResult{
			{
				Points:           interp.PointSet{{X: 0, Y: 1}, {X: 1, Y: 2}},
				Method:           interp.MethodDirect,
				PolynomialDegree: 1,
				Coefficients:     []float64{1, 1},
			},
		}},
	})

	rec := postProcess(t, handler, `{"user_input": "式だけ"}`)

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if string(raw[0]["formatted_results"]) != "null" {
		t.Errorf("expected null formatted_results, got %s", raw[0]["formatted_results"])
	}
}

func TestHandleProcess_MethodTagPassedToTurn(t *testing.T) {
	mock := &mockProcessor{outcome: pipeline.Outcome{Chat: "ok"}}
	handler := NewHandler(mock)

	postProcess(t, handler, `{"user_input": "補間して", "method": "hermite"}`)

	if mock.lastTurn.MethodTag != interp.MethodHermite {
		t.Errorf("expected hermite tag, got %s", mock.lastTurn.MethodTag)
	}
	if mock.lastTurn.ID.IsZero() {
		t.Error("turn ID should be assigned")
	}
}

func TestHandleProcess_DefaultMethodIsLagrange(t *testing.T) {
	mock := &mockProcessor{outcome: pipeline.Outcome{Chat: "ok"}}
	handler := NewHandler(mock)

	postProcess(t, handler, `{"user_input": "補間して"}`)

	if mock.lastTurn.MethodTag != interp.MethodLagrange {
		t.Errorf("expected lagrange default, got %s", mock.lastTurn.MethodTag)
	}
}

func TestHandleProcess_ImageDecoded(t *testing.T) {
	mock := &mockProcessor{outcome: pipeline.Outcome{Chat: "ok"}}
	handler := NewHandler(mock)

	encoded := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF})
	postProcess(t, handler, `{"user_input": "", "image_base64": "`+encoded+`"}`)

	if len(mock.lastTurn.ImageJPEG) != 3 {
		t.Errorf("expected decoded image bytes, got %v", mock.lastTurn.ImageJPEG)
	}
}

func TestHandleProcess_BadRequests(t *testing.T) {
	handler := NewHandler(&mockProcessor{outcome: pipeline.Outcome{Chat: "ok"}})

	tests := []struct {
		name string
		body string
	}{
		{"空ボディ", `{}`},
		{"不正JSON", `{not json`},
		{"不明な手法", `{"user_input": "x", "method": "spline"}`},
		{"不正なbase64", `{"user_input": "x", "image_base64": "!!!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postProcess(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleProcess_MethodNotAllowed(t *testing.T) {
	handler := NewHandler(&mockProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/process", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandleProcess_CORSPreflight(t *testing.T) {
	handler := NewHandler(&mockProcessor{})

	req := httptest.NewRequest(http.MethodOptions, "/process", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestHandleProcess_PipelineErrorReturns500(t *testing.T) {
	handler := NewHandler(&mockProcessor{err: errors.New("boom")})

	rec := postProcess(t, handler, `{"user_input": "補間して"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	handler := NewHandler(&mockProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
