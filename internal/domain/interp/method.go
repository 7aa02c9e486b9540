package interp

import "fmt"

// Method は補間手法を表す型
type Method string

// 補間手法の定数定義
const (
	MethodLagrange       Method = "lagrange"        // ラグランジュ補間
	MethodNewtonForward  Method = "newton_forward"  // ニュートン前進差分補間（等間隔格子が必要）
	MethodNewtonBackward Method = "newton_backward" // ニュートン後退差分補間（等間隔格子が必要）
	MethodDirect         Method = "direct"          // 差分商による直接構成
	MethodHermite        Method = "hermite"         // エルミート補間（微分値あり）

	// MethodAuto は境界でのみ受け付ける指定で、エンジンに渡る前に5手法のいずれかへ解決される
	MethodAuto Method = "auto"
)

// ParseMethod は文字列タグを手法に変換
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodLagrange, MethodNewtonForward, MethodNewtonBackward, MethodDirect, MethodHermite, MethodAuto:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown interpolation method: %q", s)
	}
}

// String はMethodの文字列表現を返す
func (m Method) String() string {
	return string(m)
}

// Executable はエンジンが直接実行できる手法かを判定（autoは含まない）
func (m Method) Executable() bool {
	switch m {
	case MethodLagrange, MethodNewtonForward, MethodNewtonBackward, MethodDirect, MethodHermite:
		return true
	default:
		return false
	}
}

// RequiresEquidistant は等間隔格子を要求する手法かを判定
func (m Method) RequiresEquidistant() bool {
	return m == MethodNewtonForward || m == MethodNewtonBackward
}
