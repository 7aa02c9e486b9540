package interp

// dividedDifferences はニュートン差分商表の最上段 f[x0..xk] を返す
// 点は与えられた並び順のまま用いる（非等間隔でも可）
func dividedDifferences(xs, ys []float64) []float64 {
	n := len(xs)
	table := make([]float64, n)
	copy(table, ys)

	coeffs := make([]float64, n)
	coeffs[0] = table[0]

	// k段目の差分商を下位から上書きで計算
	for k := 1; k < n; k++ {
		for i := n - 1; i >= k; i-- {
			table[i] = (table[i] - table[i-1]) / (xs[i] - xs[i-k])
		}
		coeffs[k] = table[k]
	}

	return coeffs
}

// direct は差分商に基づく直接構成
// hermite の微分値なしフォールバックとしても使われる
func direct(ps PointSet, evalXs []float64) Result {
	xs := ps.Xs()
	ys := ps.Ys()

	coeffs := dividedDifferences(xs, ys)
	poly := newtonToPower(coeffs, xs)

	return Result{
		Polynomial:  poly,
		Evaluations: evaluateAll(poly, evalXs),
		Method:      MethodDirect,
		Points:      ps,
	}
}
