package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/Nyukimin/polyclaw/internal/domain/extraction"
	"github.com/Nyukimin/polyclaw/internal/domain/interp"
	"github.com/Nyukimin/polyclaw/internal/domain/routing"
	"github.com/Nyukimin/polyclaw/internal/domain/task"
)

// Turn は1往復分の処理要求
type Turn struct {
	ID        task.TurnID
	Text      string
	ImageJPEG []byte        // 省略可
	MethodTag interp.Method // 境界から渡される手法タグ。空・autoの場合は抽出器のヒントで解決
}

// RequestResult は1リクエスト分の計算・可視化結果
type RequestResult struct {
	Points           interp.PointSet
	Method           interp.Method
	PolynomialDegree int
	Coefficients     []float64
	FormattedResults []interp.Evaluation // 評価点なしの場合はnil
	ImagePNG         []byte
}

// Outcome はターンの終端結果
// Chat と Results は排他で、1ターンにつき必ずどちらか一方のみが設定される
type Outcome struct {
	Chat    string
	Results []RequestResult
}

// IsChat は会話応答（エラー説明を含む）かを判定
func (o Outcome) IsChat() bool {
	return len(o.Results) == 0
}

// Renderer は可視化協調コンポーネントのインターフェース
type Renderer interface {
	Render(points interp.PointSet, poly interp.Polynomial, evals []interp.Evaluation) ([]byte, error)
}

// ChatResponder は非補間入力への会話応答のインターフェース
type ChatResponder interface {
	Chat(ctx context.Context, message string) (string, error)
}

// State はパイプラインの状態タグ
type State string

// パイプライン状態の定数定義
const (
	StateParsed     State = "PARSED"      // 抽出器の出力待ち／受領
	StateReviewed   State = "REVIEWED"    // 正規化と検証
	StateChatAnswer State = "CHAT_ANSWER" // 会話応答の生成
	StateComputed   State = "COMPUTED"    // 補間計算
	StateVisualized State = "VISUALIZED"  // 可視化とレスポンス集約
	StateTerminated State = "TERMINATED"  // 終端
)

// PipelineState は1ターン限りの一時状態
// ターン開始時に生成されターン終了時に破棄される。永続化は一切行わない
type PipelineState struct {
	Turn       Turn
	Attempts   int    // 抽出の試行回数
	Feedback   string // 再抽出時の是正指示
	Extraction extraction.Extraction
	Validated  []interp.Request
	Computed   []interp.Result
	Decision   routing.Decision
	Outcome    Outcome
	Err        error
}

// Pipeline はターン処理の状態機械
// 状態ごとの遷移関数を明示的に持ち、フレームワークのコールバック登録には依存しない
type Pipeline struct {
	extractor       extraction.Extractor
	renderer        Renderer
	chat            ChatResponder // nilの場合は固定の案内文で応答
	maxParseRetries int
}

// defaultMaxParseRetries は不正な抽出出力に対する再抽出の上限
const defaultMaxParseRetries = 3

// New は新しいPipelineを作成
func New(extractor extraction.Extractor, renderer Renderer, chat ChatResponder, maxParseRetries int) *Pipeline {
	if maxParseRetries <= 0 {
		maxParseRetries = defaultMaxParseRetries
	}
	return &Pipeline{
		extractor:       extractor,
		renderer:        renderer,
		chat:            chat,
		maxParseRetries: maxParseRetries,
	}
}

// ProcessTurn は1ターンを処理し、会話文字列または結果列のいずれか一方を返す
// ターン内に共有可変状態はなく、ターン間でも何も持ち越さない
func (p *Pipeline) ProcessTurn(ctx context.Context, turn Turn) (Outcome, error) {
	st := &PipelineState{Turn: turn}

	state := StateParsed
	for state != StateTerminated {
		var err error
		state, err = p.transition(ctx, state, st)
		if err != nil {
			return Outcome{}, err
		}
	}

	return st.Outcome, st.Err
}

// transition は現在の状態を1段進める
func (p *Pipeline) transition(ctx context.Context, state State, st *PipelineState) (State, error) {
	switch state {
	case StateParsed:
		return p.parse(ctx, st), nil
	case StateReviewed:
		return p.review(st), nil
	case StateChatAnswer:
		return p.chatAnswer(ctx, st), nil
	case StateComputed:
		return p.compute(st), nil
	case StateVisualized:
		return p.visualize(st), nil
	default:
		return StateTerminated, fmt.Errorf("unknown pipeline state: %s", state)
	}
}

// parse は抽出器を呼び出す
// 抽出器自体のエラー（解析失敗）は自動リトライせず、利用者へそのまま提示する
func (p *Pipeline) parse(ctx context.Context, st *PipelineState) State {
	st.Attempts++

	ext, err := p.extractor.Extract(ctx, extraction.Input{
		Text:      st.Turn.Text,
		ImageJPEG: st.Turn.ImageJPEG,
	}, st.Feedback)
	if err != nil {
		log.Printf("turn %s: extraction failed: %v", st.Turn.ID, err)
		st.Decision = routing.NewDecision(routing.RouteReject, "ParseFailure")
		st.Outcome = Outcome{Chat: "入力を解析できませんでした。点群と評価点を明確にして、もう一度送信してください。"}
		return StateTerminated
	}

	st.Extraction = ext
	return StateReviewed
}

// review は抽出結果を正規化・検証し、ルートを決定する
// 検証は1ターンにつきリクエストごとに1回だけ適用され、最初の失敗でターン全体を棄却する
// （部分的な成功/失敗の混在レスポンスは仕様として返さない）
func (p *Pipeline) review(st *PipelineState) State {
	ext := st.Extraction

	// 補間タスクではないと分類された場合は会話応答へ
	if ext.NotApplicable {
		st.Decision = routing.NewDecision(routing.RouteChat, "NotApplicable")
		return StateChatAnswer
	}

	// 抽出器が候補を返せなかった場合は是正指示を付けて再抽出（回数上限あり）
	if len(ext.Requests) == 0 {
		if st.Attempts < p.maxParseRetries {
			log.Printf("turn %s: empty extraction, retrying (%d/%d)", st.Turn.ID, st.Attempts, p.maxParseRetries)
			st.Feedback = "前回の抽出には補間リクエストが1件も含まれていませんでした。指定のJSONスキーマに従い、点群・手法・評価点を抽出し直してください。"
			return StateParsed
		}
		st.Decision = routing.NewDecision(routing.RouteReject, "ParseFailure")
		st.Outcome = Outcome{Chat: "有効な補間リクエストが見つかりませんでした。点群（最低2点）と評価点を明確にしてください。"}
		return StateTerminated
	}

	// 手法解決とグルーピング
	resolved := make([]interp.RawRequest, len(ext.Requests))
	for i, raw := range ext.Requests {
		raw.Method = effectiveMethod(raw.Method, st.Turn.MethodTag)
		resolved[i] = raw
	}
	requests := interp.Group(resolved)

	// 構造検証。失敗した規則はそのまま利用者への説明に使う
	for _, req := range requests {
		if err := interp.Validate(req.Points, req.Method); err != nil {
			verr, ok := err.(*interp.ValidationError)
			if !ok {
				st.Err = err
				return StateTerminated
			}
			st.Decision = routing.NewDecision(routing.RouteReject, string(verr.Reason))
			st.Outcome = Outcome{Chat: rejectionMessage(verr)}
			return StateTerminated
		}
	}

	st.Validated = requests
	st.Decision = routing.NewDecision(routing.RouteCompute, "validated")
	return StateComputed
}

// chatAnswer は補間タスクに該当しない入力への応答を生成
func (p *Pipeline) chatAnswer(ctx context.Context, st *PipelineState) State {
	const fallback = "私は補間エージェントです。補間に関連する問題（点群と評価点）を入力してください。"

	if st.Extraction.Clarification != "" {
		st.Outcome = Outcome{Chat: st.Extraction.Clarification}
		return StateTerminated
	}

	if p.chat != nil {
		answer, err := p.chat.Chat(ctx, st.Turn.Text)
		if err == nil && answer != "" {
			st.Outcome = Outcome{Chat: answer}
			return StateTerminated
		}
		if err != nil {
			log.Printf("turn %s: chat responder failed: %v", st.Turn.ID, err)
		}
	}

	st.Outcome = Outcome{Chat: fallback}
	return StateTerminated
}

// compute は検証済みリクエストを入力順に逐次実行する
// リクエスト間にデータ依存はなく、逐次実行が出力順序の基準セマンティクス
func (p *Pipeline) compute(st *PipelineState) State {
	st.Computed = make([]interp.Result, 0, len(st.Validated))

	for _, req := range st.Validated {
		res, err := interp.Interpolate(req.Points, req.Method, req.EvalXs)
		if err != nil {
			st.Err = fmt.Errorf("interpolation failed: %w", err)
			return StateTerminated
		}
		st.Computed = append(st.Computed, res)
	}

	return StateVisualized
}

// visualize は各結果を描画し、入力順のままレスポンスへ集約する
func (p *Pipeline) visualize(st *PipelineState) State {
	results := make([]RequestResult, 0, len(st.Computed))

	for _, res := range st.Computed {
		png, err := p.renderer.Render(res.Points, res.Polynomial, res.Evaluations)
		if err != nil {
			st.Err = fmt.Errorf("visualization failed: %w", err)
			return StateTerminated
		}

		var formatted []interp.Evaluation
		if len(res.Evaluations) > 0 {
			formatted = res.Evaluations
		}

		results = append(results, RequestResult{
			Points:           res.Points,
			Method:           res.Method,
			PolynomialDegree: res.Polynomial.Degree(),
			Coefficients:     res.Polynomial,
			FormattedResults: formatted,
			ImagePNG:         png,
		})
	}

	st.Outcome = Outcome{Results: results}
	return StateTerminated
}

// effectiveMethod は手法ヒントと境界タグから実行手法を解決
// 優先順位: 明示タグ（auto以外） > 抽出器のヒント（auto以外） > lagrange
func effectiveMethod(hint, tag interp.Method) interp.Method {
	if tag != "" && tag != interp.MethodAuto && tag.Executable() {
		return tag
	}
	if hint != "" && hint != interp.MethodAuto && hint.Executable() {
		return hint
	}
	return interp.MethodLagrange
}

// rejectionMessage は検証失敗を利用者向けの説明文に変換
// どの規則で失敗したかを正確に伝える（分類コードも併記）
func rejectionMessage(verr *interp.ValidationError) string {
	var msg string
	switch verr.Reason {
	case interp.ReasonInsufficientPoints:
		msg = "補間には相異なるx座標を持つ点が少なくとも2つ必要です。"
	case interp.ReasonDuplicateXCoordinate:
		msg = "x座標の重複は許可されていません。"
	case interp.ReasonNonEquidistantGrid:
		msg = "Newton法ではx座標が等間隔（エクイディスタント）である必要があります。"
	default:
		msg = "入力された点群は検証を通過しませんでした。"
	}
	return fmt.Sprintf("%s [%s]", msg, verr.Error())
}
