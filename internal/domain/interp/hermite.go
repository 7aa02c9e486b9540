package interp

// hermite はエルミート補間
//
// 全点が微分値を持つ場合、各ノードを2回並べた列 z に対する一般化差分商表を
// 構築する。同一ノード間の1次差分商は供給された微分値に置き換わり、
// 得られる多項式は H(x_i) = y_i かつ H'(x_i) = y'_i を満たす（次数は 2n-1）。
//
// いずれかの点が微分値を欠く場合は y値のみの直接構成（direct）へ明示的に
// フォールバックする。これは文書化された縮退であり、暗黙の劣化ではない。
// 結果の Method は利用者が指定した hermite のまま報告する
func hermite(ps PointSet, evalXs []float64) Result {
	if !ps.HasAllDerivatives() {
		res := direct(ps.SortedByX(), evalXs)
		res.Method = MethodHermite
		res.Points = ps
		return res
	}

	sorted := ps.SortedByX()
	n := len(sorted)
	size := 2 * n

	// 各ノードを2回並べた列 z を構築
	z := make([]float64, size)
	for i, p := range sorted {
		z[2*i] = p.X
		z[2*i+1] = p.X
	}

	// 一般化差分商表 q[i][j] = f[z_i, ..., z_{i+j}]
	q := make([][]float64, size)
	for i := range q {
		q[i] = make([]float64, size)
	}

	for i, p := range sorted {
		q[2*i][0] = p.Y
		q[2*i+1][0] = p.Y
	}

	// 1次: 同一ノード間は微分値、異なるノード間は通常の差分商
	for i, p := range sorted {
		q[2*i][1] = *p.D
		if i < n-1 {
			q[2*i+1][1] = (q[2*i+2][0] - q[2*i+1][0]) / (z[2*i+2] - z[2*i+1])
		}
	}

	for j := 2; j < size; j++ {
		for i := 0; i < size-j; i++ {
			q[i][j] = (q[i+1][j-1] - q[i][j-1]) / (z[i+j] - z[i])
		}
	}

	// 表の最上段がネスト形式の係数
	nested := make([]float64, size)
	for j := 0; j < size; j++ {
		nested[j] = q[0][j]
	}

	poly := newtonToPower(nested, z)

	return Result{
		Polynomial:  poly,
		Evaluations: evaluateAll(poly, evalXs),
		Method:      MethodHermite,
		Points:      ps,
	}
}
