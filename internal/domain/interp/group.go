package interp

// RawRequest は抽出器が返す正規化前の候補リクエスト
// 同一データセットへの評価点が別候補に分かれて届くことがある
type RawRequest struct {
	Points PointSet
	Method Method
	EvalXs []float64
}

// Request は正規化・グルーピング後の補間リクエスト
type Request struct {
	Points PointSet
	Method Method
	EvalXs []float64
}

// Group は候補リクエストを正規化して同一単位にまとめる
//
// マージ条件は「点集合（順序無視の厳密一致）と手法がともに同一」のみ。
// 1点でも異なる、または手法が異なる候補は別リクエストのまま保持する。
// マージ時は評価点を初出順で連結し、完全に同一のxは1回だけ残す。
// この規則は同じデータセットに複数の評価点を頼まれたとき、
// 評価点ごとに計算・描画を繰り返さないための正しさの契約である
func Group(raws []RawRequest) []Request {
	grouped := make([]Request, 0, len(raws))

	for _, raw := range raws {
		merged := false
		for i := range grouped {
			if grouped[i].Method == raw.Method && grouped[i].Points.EqualAsSet(raw.Points) {
				grouped[i].EvalXs = appendNewEvalXs(grouped[i].EvalXs, raw.EvalXs)
				merged = true
				break
			}
		}
		if !merged {
			grouped = append(grouped, Request{
				Points: raw.Points,
				Method: raw.Method,
				EvalXs: appendNewEvalXs(nil, raw.EvalXs),
			})
		}
	}

	return grouped
}

// appendNewEvalXs は既出でない評価点のみを初出順で追加
func appendNewEvalXs(dst, src []float64) []float64 {
	for _, x := range src {
		exists := false
		for _, have := range dst {
			if have == x {
				exists = true
				break
			}
		}
		if !exists {
			dst = append(dst, x)
		}
	}
	return dst
}
