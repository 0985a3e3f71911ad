package linear

import (
	"context"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func perfectLine(n int) ([]float64, []float64) {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2*x[i] + 1
	}
	return x, y
}

func contaminatedLine() ([]float64, []float64) {
	x, y := perfectLine(20)
	y[1] = 0.0
	y[7] = 50.0
	y[12] = 1.0
	y[18] = 150.0
	return x, y
}

func TestRobustFitPerfectLine(t *testing.T) {
	t.Parallel()
	x, y := perfectLine(20)
	res, err := RobustFit(context.Background(), x, y, WithSeed(1))
	require.NoError(t, err)
	require.InDelta(t, 1.0, res.Coeffs.Intercept, 1e-9)
	require.InDelta(t, 2.0, res.Coeffs.Slope, 1e-9)
	require.Len(t, res.Inliers, 20)
	require.Empty(t, res.Outliers)
	require.True(t, res.Refitted)
}

func TestRobustFitRejectsOutliers(t *testing.T) {
	t.Parallel()
	x, y := contaminatedLine()
	res, err := RobustFit(context.Background(), x, y, WithSeed(42))
	require.NoError(t, err)
	spew.Dump(res)

	outliers := make(map[int]bool, len(res.Outliers))
	for _, id := range res.Outliers {
		outliers[id] = true
	}
	for _, id := range []int{7, 12, 18} {
		require.Truef(t, outliers[id], "injected outlier %d was not rejected", id)
	}
	require.LessOrEqual(t, len(res.Outliers), 8)

	ols, err := OLS(x, y)
	require.NoError(t, err)
	robustDist := math.Abs(res.Coeffs.Intercept-1) + math.Abs(res.Coeffs.Slope-2)
	olsDist := math.Abs(ols.Intercept-1) + math.Abs(ols.Slope-2)
	require.Lessf(t, robustDist, olsDist,
		"robust fit (%+v) should beat the ordinary fit (%+v)", res.Coeffs, ols)
}

func TestRobustFitPartition(t *testing.T) {
	t.Parallel()
	x, y := contaminatedLine()
	res, err := RobustFit(context.Background(), x, y, WithSeed(7))
	require.NoError(t, err)

	require.Equal(t, len(x), len(res.Inliers)+len(res.Outliers))
	seen := make(map[int]bool, len(x))
	for _, id := range append(append([]int{}, res.Inliers...), res.Outliers...) {
		require.GreaterOrEqual(t, id, 0)
		require.Less(t, id, len(x))
		require.Falsef(t, seen[id], "index %d appears twice", id)
		seen[id] = true
	}
	for _, ids := range [][]int{res.Inliers, res.Outliers} {
		for i := 1; i < len(ids); i++ {
			require.Less(t, ids[i-1], ids[i], "index sets must be sorted ascending")
		}
	}
}

func TestRobustFitSizeMismatch(t *testing.T) {
	t.Parallel()
	_, err := RobustFit(context.Background(), []float64{1, 2, 3}, []float64{1, 2})
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestRobustFitTooFewPoints(t *testing.T) {
	t.Parallel()
	_, err := RobustFit(context.Background(), []float64{1}, []float64{1})
	require.ErrorIs(t, err, ErrTooFewPoints)
}

func TestRobustFitTwoPoints(t *testing.T) {
	t.Parallel()
	res, err := RobustFit(context.Background(), []float64{0, 2}, []float64{1, 5}, WithThreshold(0.1))
	require.NoError(t, err)
	require.Equal(t, 1, res.Trials, "two points admit exactly one trial")
	require.InDelta(t, 1.0, res.Coeffs.Intercept, 1e-9)
	require.InDelta(t, 2.0, res.Coeffs.Slope, 1e-9)
	require.Equal(t, []int{0, 1}, res.Inliers)
	require.Empty(t, res.Outliers)
}

func TestRobustFitDeterminism(t *testing.T) {
	t.Parallel()
	x, y := contaminatedLine()
	first, err := RobustFit(context.Background(), x, y, WithSeed(5))
	require.NoError(t, err)
	second, err := RobustFit(context.Background(), x, y, WithSeed(5))
	require.NoError(t, err)
	require.Equal(t, first, second)

	parallel, err := RobustFit(context.Background(), x, y, WithSeed(5), WithWorkers(4))
	require.NoError(t, err)
	require.Equal(t, first, parallel)
}

func TestRobustFitDegenerateX(t *testing.T) {
	t.Parallel()
	x := []float64{3, 3, 3, 3}
	y := []float64{1, 2, 3, 4}
	_, err := RobustFit(context.Background(), x, y, WithThreshold(1), WithMaxTrials(20))
	require.Error(t, err)
}

func TestInliersThresholdMonotonic(t *testing.T) {
	t.Parallel()
	x, y := contaminatedLine()
	c := Coeffs{Intercept: 1, Slope: 2}
	prev := -1
	for _, threshold := range []float64{0, 1, 5, 12, 40, 200} {
		count := len(inliersOf(c, x, y, threshold))
		require.GreaterOrEqual(t, count, prev, "inlier count must not decrease with threshold")
		prev = count
	}
	require.Equal(t, 20, prev, "a huge threshold admits every point")
}

func TestDefaultSampleSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n        int
		expected int
	}{
		{n: 2, expected: 2},
		{n: 3, expected: 2},
		{n: 20, expected: 16},
		{n: 100, expected: 80},
	}
	for _, test := range tests {
		require.Equal(t, test.expected, DefaultSampleSize(test.n), "n=%d", test.n)
	}
}

func TestDefaultThreshold(t *testing.T) {
	t.Parallel()
	_, y := contaminatedLine()
	require.Equal(t, 12.0, DefaultThreshold(y))
}

func TestOLSRecoversCleanLine(t *testing.T) {
	t.Parallel()
	x, y := perfectLine(10)
	c, err := OLS(x, y)
	require.NoError(t, err)
	require.InDelta(t, 1.0, c.Intercept, 1e-9)
	require.InDelta(t, 2.0, c.Slope, 1e-9)
}

func TestComplement(t *testing.T) {
	t.Parallel()
	require.Equal(t, []int{0, 3}, complement([]int{1, 2}, 4))
	require.Empty(t, complement([]int{0, 1, 2}, 3))
	require.Equal(t, []int{0, 1}, complement(nil, 2))
}
