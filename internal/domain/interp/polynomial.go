package interp

// Polynomial は多項式を昇冪順の係数列で表す
// coeffs[i] は x^i の係数。次数は常に len-1 であり、先頭側の係数が
// 数値的にゼロに近くても縮退させない（丸めは表示層の責務）
type Polynomial []float64

// Degree は多項式の次数を返す
func (p Polynomial) Degree() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Eval はホーナー法で多項式を評価
func (p Polynomial) Eval(x float64) float64 {
	result := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		result = result*x + p[i]
	}
	return result
}

// mulPolynomials は係数列同士の多項式乗算
func mulPolynomials(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	result := make([]float64, len(a)+len(b)-1)
	for i, ca := range a {
		for j, cb := range b {
			result[i+j] += ca * cb
		}
	}
	return result
}

// mulLinear は多項式に一次因子 (x - root) を掛ける
func mulLinear(p []float64, root float64) []float64 {
	return mulPolynomials(p, []float64{-root, 1.0})
}

// newtonToPower はニュートン（ネスト）形式を標準冪形式に変換
//
//	P(x) = c0 + c1*(x-z0) + c2*(x-z0)(x-z1) + ... + cn*(x-z0)...(x-z_{n-1})
//
// 最高次の係数から (x - z_i) を順に展開して畳み込む。
// 高次になるほど単項式基底への展開は数値的に悪条件になるが、
// これは既知の制約として受容する（構造検証を通った入力では常に計算可能）
func newtonToPower(coeffs []float64, nodes []float64) Polynomial {
	n := len(coeffs)
	if n == 0 {
		return Polynomial{}
	}

	poly := []float64{coeffs[n-1]}
	for i := n - 2; i >= 0; i-- {
		poly = mulLinear(poly, nodes[i])
		poly[0] += coeffs[i]
	}

	return Polynomial(poly)
}
