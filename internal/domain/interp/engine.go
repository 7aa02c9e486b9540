package interp

import "fmt"

// Evaluation は評価点とその補間値の組
type Evaluation struct {
	X float64
	Y float64
}

// Result は補間計算の結果を表す
// 生成後は不変で、要求した呼び出し側のみが所有する（共有キャッシュは存在しない）
type Result struct {
	Polynomial  Polynomial
	Evaluations []Evaluation // evalXs と同順。評価点なしの場合は空
	Method      Method
	Points      PointSet
}

// Interpolate は検証済みの点集合に対して指定手法の補間を実行
// 入力は Validate を通過していることが前提。evalXs が空でもエラーではなく、
// その場合は係数のみを持つ結果を返す（式だけを求めるのは正常な利用）
func Interpolate(ps PointSet, m Method, evalXs []float64) (Result, error) {
	switch m {
	case MethodLagrange:
		return lagrange(ps, evalXs), nil
	case MethodNewtonForward:
		return newtonForward(ps, evalXs), nil
	case MethodNewtonBackward:
		return newtonBackward(ps, evalXs), nil
	case MethodDirect:
		return direct(ps, evalXs), nil
	case MethodHermite:
		return hermite(ps, evalXs), nil
	default:
		return Result{}, fmt.Errorf("method %q is not executable", m)
	}
}

// evaluateAll は各評価点でのホーナー法評価を行う
// 係数は丸めずに保持し、表示精度への丸めは表現層に委ねる
func evaluateAll(poly Polynomial, evalXs []float64) []Evaluation {
	if len(evalXs) == 0 {
		return nil
	}
	evals := make([]Evaluation, len(evalXs))
	for i, x := range evalXs {
		evals[i] = Evaluation{X: x, Y: poly.Eval(x)}
	}
	return evals
}
