package interp

import "sort"

// Point は1つの標本点 (x, y) を表す値オブジェクト
// D はエルミート補間用の微分値 f'(x)（nil の場合は微分値なし）
type Point struct {
	X float64
	Y float64
	D *float64
}

// HasDerivative は微分値を持つかを判定
func (p Point) HasDerivative() bool {
	return p.D != nil
}

// PointSet は標本点の列を表す
// 挿入順を保持する（Newton系の差分商構成は点の並び順に依存するため）
type PointSet []Point

// Xs はx座標のリストを返す
func (ps PointSet) Xs() []float64 {
	xs := make([]float64, len(ps))
	for i, p := range ps {
		xs[i] = p.X
	}
	return xs
}

// Ys はy座標のリストを返す
func (ps PointSet) Ys() []float64 {
	ys := make([]float64, len(ps))
	for i, p := range ps {
		ys[i] = p.Y
	}
	return ys
}

// SortedByX はx座標の昇順に並べたコピーを返す（元の列は変更しない）
func (ps PointSet) SortedByX() PointSet {
	sorted := make(PointSet, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// HasAllDerivatives は全点が微分値を持つかを判定
func (ps PointSet) HasAllDerivatives() bool {
	if len(ps) == 0 {
		return false
	}
	for _, p := range ps {
		if p.D == nil {
			return false
		}
	}
	return true
}

// EqualAsSet は順序を無視した厳密一致を判定（グルーピング規則）
// 座標・微分値とも浮動小数の完全一致で比較する（許容誤差なし）
func (ps PointSet) EqualAsSet(other PointSet) bool {
	if len(ps) != len(other) {
		return false
	}

	a := sortedForCompare(ps)
	b := sortedForCompare(other)

	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			return false
		}
		if (a[i].D == nil) != (b[i].D == nil) {
			return false
		}
		if a[i].D != nil && *a[i].D != *b[i].D {
			return false
		}
	}

	return true
}

// sortedForCompare は集合比較用に (x, y, d) の辞書順に並べたコピーを返す
func sortedForCompare(ps PointSet) PointSet {
	sorted := make(PointSet, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		di, dj := sorted[i].D, sorted[j].D
		if (di == nil) != (dj == nil) {
			return di == nil
		}
		if di != nil && dj != nil {
			return *di < *dj
		}
		return false
	})
	return sorted
}
