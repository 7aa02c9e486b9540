package interp

// lagrange はラグランジュ基底多項式の展開による補間
//
//	L_k(x) = Π_{i≠k} (x - x_i) / (x_k - x_i)
//	P(x)   = Σ_k y_k * L_k(x)
//
// 同一の点集合に対して差分商系の手法と数学的に同一の多項式を生成する
func lagrange(ps PointSet, evalXs []float64) Result {
	n := len(ps)
	xs := ps.Xs()
	ys := ps.Ys()

	result := make([]float64, n)

	for k := 0; k < n; k++ {
		// 分子 Π_{i≠k} (x - x_i) を係数列として構築
		basis := []float64{1.0}
		for i := 0; i < n; i++ {
			if i != k {
				basis = mulLinear(basis, xs[i])
			}
		}

		// 分母 Π_{i≠k} (x_k - x_i)
		denom := 1.0
		for i := 0; i < n; i++ {
			if i != k {
				denom *= xs[k] - xs[i]
			}
		}

		// y_k / denom でスケールして加算
		for j := range basis {
			result[j] += basis[j] / denom * ys[k]
		}
	}

	poly := Polynomial(result)

	return Result{
		Polynomial:  poly,
		Evaluations: evaluateAll(poly, evalXs),
		Method:      MethodLagrange,
		Points:      ps,
	}
}
