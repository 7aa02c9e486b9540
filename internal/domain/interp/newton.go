package interp

// differenceTable は前進差分表を段ごとに構築
// table[k][j] = Δᵏf_j（table[0] は元のy値）
func differenceTable(ys []float64) [][]float64 {
	n := len(ys)
	table := make([][]float64, n)
	table[0] = append([]float64(nil), ys...)

	for k := 1; k < n; k++ {
		prev := table[k-1]
		level := make([]float64, len(prev)-1)
		for j := range level {
			level[j] = prev[j+1] - prev[j]
		}
		table[k] = level
	}

	return table
}

// newtonForward はニュートン前進差分補間
// s = (x - x0) / h として
//
//	P(s) = Σ_k Δᵏf₀ * (s,k),  (s,k) = s(s-1)...(s-k+1) / k!
//
// を s の多項式として組み立て、x の冪形式へ変換する
// 等間隔性は上流の Validate で保証済み
func newtonForward(ps PointSet, evalXs []float64) Result {
	sorted := ps.SortedByX()
	xs := sorted.Xs()
	ys := sorted.Ys()
	n := len(xs)

	h := xs[1] - xs[0]
	x0 := xs[0]
	table := differenceTable(ys)

	// s基底の係数を項ごとに加算
	sCoeffs := make([]float64, n)
	for k := 0; k < n; k++ {
		diff := table[k][0]

		// (s,k) = Π_{i=0}^{k-1} (s - i) / k!
		binom := []float64{1.0}
		factorial := 1.0
		for i := 0; i < k; i++ {
			binom = mulLinear(binom, float64(i))
			factorial *= float64(i + 1)
		}

		for j := range binom {
			sCoeffs[j] += binom[j] / factorial * diff
		}
	}

	poly := expandScaledShift(sCoeffs, x0, h)

	return Result{
		Polynomial:  poly,
		Evaluations: evaluateAll(poly, evalXs),
		Method:      MethodNewtonForward,
		Points:      ps,
	}
}

// newtonBackward はニュートン後退差分補間
// 最終点 xn を基準に s = (x - xn) / h として
//
//	P(s) = Σ_k ∇ᵏf_n * (s⁺,k),  (s⁺,k) = s(s+1)...(s+k-1) / k!
//
// を組み立てる。後退差分 ∇ᵏf_n は前進差分表の ∆ᵏf_{n-k} に一致する
func newtonBackward(ps PointSet, evalXs []float64) Result {
	sorted := ps.SortedByX()
	xs := sorted.Xs()
	ys := sorted.Ys()
	n := len(xs)

	h := xs[1] - xs[0]
	xn := xs[n-1]
	table := differenceTable(ys)

	sCoeffs := make([]float64, n)
	for k := 0; k < n; k++ {
		diff := table[k][n-1-k]

		// (s⁺,k) = Π_{i=0}^{k-1} (s + i) / k!
		binom := []float64{1.0}
		factorial := 1.0
		for i := 0; i < k; i++ {
			binom = mulLinear(binom, float64(-i))
			factorial *= float64(i + 1)
		}

		for j := range binom {
			sCoeffs[j] += binom[j] / factorial * diff
		}
	}

	poly := expandScaledShift(sCoeffs, xn, h)

	return Result{
		Polynomial:  poly,
		Evaluations: evaluateAll(poly, evalXs),
		Method:      MethodNewtonBackward,
		Points:      ps,
	}
}

// expandScaledShift は s = (x - x0) / h の多項式 P(s) を x の冪形式へ展開
// P(x) = Σ_i c_i * ((x - x0)/h)^i
func expandScaledShift(sCoeffs []float64, x0, h float64) Polynomial {
	n := len(sCoeffs)
	final := make([]float64, n)

	hPow := 1.0
	for i, ci := range sCoeffs {
		if i > 0 {
			hPow *= h
		}
		if ci == 0 {
			continue
		}

		// (x - x0)^i を展開
		term := []float64{1.0}
		for j := 0; j < i; j++ {
			term = mulLinear(term, x0)
		}

		scale := ci / hPow
		for j := range term {
			final[j] += term[j] * scale
		}
	}

	return Polynomial(final)
}
