package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_MergesSamePointSetAndMethod(t *testing.T) {
	ps := pts([2]float64{0, 1}, [2]float64{1, 2})

	raws := []RawRequest{
		{Points: ps, Method: MethodLagrange, EvalXs: []float64{1.5}},
		{Points: ps, Method: MethodLagrange, EvalXs: []float64{2.5}},
	}

	grouped := Group(raws)

	require.Len(t, grouped, 1)
	assert.Equal(t, []float64{1.5, 2.5}, grouped[0].EvalXs)
	assert.Equal(t, MethodLagrange, grouped[0].Method)
}

func TestGroup_IgnoresPointOrder(t *testing.T) {
	raws := []RawRequest{
		{Points: pts([2]float64{0, 1}, [2]float64{1, 2}), Method: MethodDirect, EvalXs: []float64{0.5}},
		{Points: pts([2]float64{1, 2}, [2]float64{0, 1}), Method: MethodDirect, EvalXs: []float64{0.7}},
	}

	grouped := Group(raws)

	require.Len(t, grouped, 1)
	assert.Equal(t, []float64{0.5, 0.7}, grouped[0].EvalXs)
	// 点列は初出のリクエストの並びを保持
	assert.Equal(t, pts([2]float64{0, 1}, [2]float64{1, 2}), grouped[0].Points)
}

func TestGroup_DifferentMethodStaysSeparate(t *testing.T) {
	ps := pts([2]float64{0, 1}, [2]float64{1, 2})

	raws := []RawRequest{
		{Points: ps, Method: MethodLagrange, EvalXs: []float64{1.5}},
		{Points: ps, Method: MethodDirect, EvalXs: []float64{1.5}},
	}

	grouped := Group(raws)
	assert.Len(t, grouped, 2)
}

func TestGroup_DifferentPointsStaySeparate(t *testing.T) {
	raws := []RawRequest{
		{Points: pts([2]float64{0, 1}, [2]float64{1, 2}), Method: MethodLagrange},
		{Points: pts([2]float64{0, 1}, [2]float64{1, 2.0000001}), Method: MethodLagrange},
	}

	grouped := Group(raws)
	assert.Len(t, grouped, 2, "座標は完全一致のみマージされる")
}

func TestGroup_DerivativeDistinguishesPoints(t *testing.T) {
	plain := pts([2]float64{0, 1}, [2]float64{1, 2})
	withD := PointSet{hpt(0, 1, 0.5), hpt(1, 2, 0.5)}

	raws := []RawRequest{
		{Points: plain, Method: MethodHermite},
		{Points: withD, Method: MethodHermite},
	}

	grouped := Group(raws)
	assert.Len(t, grouped, 2)
}

func TestGroup_DeduplicatesEvalXs(t *testing.T) {
	ps := pts([2]float64{0, 1}, [2]float64{1, 2})

	raws := []RawRequest{
		{Points: ps, Method: MethodLagrange, EvalXs: []float64{1.5, 2.0}},
		{Points: ps, Method: MethodLagrange, EvalXs: []float64{2.0, 3.0}},
	}

	grouped := Group(raws)

	require.Len(t, grouped, 1)
	assert.Equal(t, []float64{1.5, 2.0, 3.0}, grouped[0].EvalXs)
}

func TestGroup_PreservesRequestOrder(t *testing.T) {
	a := pts([2]float64{0, 1}, [2]float64{1, 2})
	b := pts([2]float64{5, 5}, [2]float64{6, 6})

	raws := []RawRequest{
		{Points: a, Method: MethodLagrange, EvalXs: []float64{1}},
		{Points: b, Method: MethodLagrange, EvalXs: []float64{5.5}},
		{Points: a, Method: MethodLagrange, EvalXs: []float64{2}},
	}

	grouped := Group(raws)

	require.Len(t, grouped, 2)
	assert.Equal(t, a, grouped[0].Points)
	assert.Equal(t, []float64{1, 2}, grouped[0].EvalXs)
	assert.Equal(t, b, grouped[1].Points)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
}
