package extraction

import (
	"context"

	"github.com/Nyukimin/polyclaw/internal/domain/interp"
)

// Input は抽出器へ渡す1ターン分の生入力
type Input struct {
	Text      string
	ImageJPEG []byte // 省略可。点群を写した画像
}

// Extraction は抽出器の構造化出力
//
// NotApplicable が真の場合、入力は補間タスクではないと分類されており、
// Clarification（あれば）をそのまま会話応答として利用できる。
// Requests は評価点単位で分かれている可能性があり、正規化は呼び出し側の責務
type Extraction struct {
	NotApplicable bool
	Clarification string
	Requests      []interp.RawRequest
}

// Extractor は自由文・画像から候補リクエストを抽出する協調コンポーネント
// エラーは解析失敗（ParseFailure）を意味し、自動リトライせず利用者へ提示する。
// feedback はレビュー段が差し戻した是正指示で、再抽出時のみ非空
type Extractor interface {
	Extract(ctx context.Context, in Input, feedback string) (Extraction, error)
}
