package routing

// Route はターンの処理先を表す型
type Route string

// ルーティングカテゴリの定数定義
const (
	RouteChat    Route = "CHAT"    // 補間と無関係な入力への会話応答
	RouteCompute Route = "COMPUTE" // 補間計算と可視化の実行
	RouteReject  Route = "REJECT"  // 検証失敗・解析失敗によるターン棄却
)

// String はRouteの文字列表現を返す
func (r Route) String() string {
	return string(r)
}

// Terminal は終端ルートかを判定（全ルートが終端。再解析はルート決定前に行われる）
func (r Route) Terminal() bool {
	return r == RouteChat || r == RouteCompute || r == RouteReject
}

// Decision はルーティング決定の結果を表す
type Decision struct {
	Route  Route  // 決定されたルート
	Reason string // 決定理由（棄却時は検証規則の分類をそのまま保持）
}

// NewDecision は新しいDecisionを作成
func NewDecision(route Route, reason string) Decision {
	return Decision{
		Route:  route,
		Reason: reason,
	}
}
