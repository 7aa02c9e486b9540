package interp

import (
	"fmt"
	"math"
)

// RejectReason は検証失敗の分類を表す
type RejectReason string

// 検証失敗の分類定数
const (
	ReasonInsufficientPoints   RejectReason = "InsufficientPoints"   // 点数不足（2点未満）
	ReasonDuplicateXCoordinate RejectReason = "DuplicateXCoordinate" // x座標の重複
	ReasonNonEquidistantGrid   RejectReason = "NonEquidistantGrid"   // 非等間隔格子（Newton系のみ）
)

// equidistantRelTol は等間隔判定の相対許容誤差
// 入力の浮動小数ノイズは吸収しつつ、実際の不等間隔は見逃さない値
const equidistantRelTol = 1e-9

// ValidationError は点集合の検証失敗を表す
// Reason は呼び出し側がそのまま利用者に提示できる分類コード
type ValidationError struct {
	Reason RejectReason
	Detail string
}

// Error はエラーメッセージを返す
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Validate は点集合が指定手法で計算可能かを検証
// 最初に失敗した規則で打ち切り、別手法への暗黙フォールバックは行わない
func Validate(ps PointSet, m Method) error {
	// 最小点数チェック
	if len(ps) < 2 {
		return &ValidationError{
			Reason: ReasonInsufficientPoints,
			Detail: fmt.Sprintf("at least 2 points required, got %d", len(ps)),
		}
	}

	// x座標の重複チェック
	// 重複は数値誤差ではなく論理エラーのため、許容誤差なしの完全一致で判定する
	seen := make(map[float64]struct{}, len(ps))
	for _, p := range ps {
		if _, ok := seen[p.X]; ok {
			return &ValidationError{
				Reason: ReasonDuplicateXCoordinate,
				Detail: fmt.Sprintf("duplicate x-coordinate: %g", p.X),
			}
		}
		seen[p.X] = struct{}{}
	}

	// 等間隔チェック（Newton系のみ）
	if m.RequiresEquidistant() {
		if err := validateEquidistant(ps); err != nil {
			return err
		}
	}

	return nil
}

// validateEquidistant はx座標を昇順に並べたとき間隔が一定かを検証
func validateEquidistant(ps PointSet) error {
	xs := ps.SortedByX().Xs()

	h := xs[1] - xs[0]
	tol := equidistantRelTol * math.Max(1.0, math.Abs(h))

	for i := 1; i < len(xs)-1; i++ {
		step := xs[i+1] - xs[i]
		if math.Abs(step-h) > tol {
			return &ValidationError{
				Reason: ReasonNonEquidistantGrid,
				Detail: fmt.Sprintf("step at index %d is %g, expected %g", i, step, h),
			}
		}
	}

	return nil
}
