package linear

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"linsac/internal/ransac"
	"linsac/pkg/math/series"
)

var (
	ErrSizeMismatch = errors.New("linear: x and y lengths differ")
	ErrTooFewPoints = errors.New("linear: at least two points are required")

	errDegenerate = errors.New("linear: degenerate sample")
)

// Coeffs is a fitted line y = Intercept + Slope*x.
type Coeffs struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

func (c Coeffs) Eval(x float64) float64 {
	return c.Intercept + c.Slope*x
}

func (c Coeffs) Finite() bool {
	return series.Series{c.Intercept, c.Slope}.Finite()
}

type Option func(*options)

func WithSampleSize(m int) Option {
	return func(o *options) {
		o.sampleSize = m
	}
}

func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
		o.hasThreshold = true
	}
}

func WithProbability(p float64) Option {
	return func(o *options) {
		o.probability = p
	}
}

func WithMaxTrials(n int) Option {
	return func(o *options) {
		o.maxTrials = n
	}
}

func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func WithSeed(seed uint32) Option {
	return func(o *options) {
		o.seed = seed
	}
}

type options struct {
	sampleSize   int
	threshold    float64
	hasThreshold bool
	probability  float64
	maxTrials    int
	workers      int
	seed         uint32
}

var defaultOptions = options{
	probability: ransac.DefaultProbability,
	maxTrials:   ransac.DefaultMaxTrials,
	workers:     1,
}

// Result of a robust fit. Inliers and Outliers partition [0, N) and are
// sorted ascending. Refitted reports whether Coeffs comes from the final
// all-inlier refit rather than the minimal-sample search model.
type Result struct {
	Coeffs   Coeffs `json:"model"`
	Inliers  []int  `json:"inliers"`
	Outliers []int  `json:"outliers"`
	Trials   int    `json:"trials"`
	Refitted bool   `json:"refitted"`
}

// DefaultSampleSize is 80% of the dataset, which assumes the outlier
// fraction stays well under 20%. Callers expecting heavier contamination
// should pass their own sample size.
func DefaultSampleSize(n int) int {
	m := int(0.8 * float64(n))
	if m < 2 {
		m = 2
	}
	if m > n {
		m = n
	}
	return m
}

// DefaultThreshold is the median absolute deviation of y alone. It is a
// deliberately crude default; precision-sensitive callers should supply
// an explicit threshold.
func DefaultThreshold(y []float64) float64 {
	return series.Series(y).MAD()
}

// OLS fits an ordinary least-squares line over the full dataset.
func OLS(x, y []float64) (Coeffs, error) {
	if len(x) != len(y) {
		return Coeffs{}, ErrSizeMismatch
	}
	if len(x) < 2 {
		return Coeffs{}, ErrTooFewPoints
	}
	ids := make([]int, len(x))
	for i := range ids {
		ids[i] = i
	}
	return fitSubset(x, y, ids)
}

// RobustFit finds the line with maximal inlier support over (x, y) via
// random sample consensus, then refits it on the inliers.
func RobustFit(ctx context.Context, x, y []float64, opts ...Option) (*Result, error) {
	if len(x) != len(y) {
		return nil, ErrSizeMismatch
	}
	n := len(x)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	o := defaultOptions
	for _, f := range opts {
		f(&o)
	}
	if o.sampleSize == 0 {
		o.sampleSize = DefaultSampleSize(n)
	}
	if o.sampleSize < 2 || o.sampleSize > n {
		return nil, fmt.Errorf("linear: sample size %d is out of [2, %d]", o.sampleSize, n)
	}
	if !o.hasThreshold {
		o.threshold = DefaultThreshold(y)
	}
	if o.threshold < 0 {
		return nil, fmt.Errorf("linear: threshold must be non-negative, got %v", o.threshold)
	}

	fit := func(ids []int) (ransac.Coefficients, error) {
		c, err := fitSubset(x, y, ids)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	score := func(c ransac.Coefficients, threshold float64) []int {
		return inliersOf(c.(Coeffs), x, y, threshold)
	}
	eng, err := ransac.New(fit, score,
		ransac.WithProbability(o.probability),
		ransac.WithMaxTrials(o.maxTrials),
		ransac.WithWorkers(o.workers),
		ransac.WithSeed(o.seed),
	)
	if err != nil {
		return nil, err
	}
	cons, err := eng.Search(ctx, n, o.sampleSize, o.threshold)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Coeffs:  cons.Coeffs.(Coeffs),
		Inliers: cons.Inliers,
		Trials:  cons.Trials,
	}
	// The search model was fit on a minimal sample; leveraging all
	// inliers lowers its variance. Fall back on a degenerate refit.
	if refit, err := fitSubset(x, y, res.Inliers); err == nil {
		res.Coeffs = refit
		res.Refitted = true
	}
	res.Outliers = complement(res.Inliers, n)
	return res, nil
}

func fitSubset(x, y []float64, ids []int) (Coeffs, error) {
	xs := make([]float64, len(ids))
	ys := make([]float64, len(ids))
	for i, id := range ids {
		xs[i] = x[id]
		ys[i] = y[id]
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	c := Coeffs{Intercept: alpha, Slope: beta}
	if !c.Finite() {
		return Coeffs{}, errDegenerate
	}
	return c, nil
}

func inliersOf(c Coeffs, x, y []float64, threshold float64) []int {
	ids := make([]int, 0, len(x))
	for i := range x {
		if math.Abs(y[i]-c.Eval(x[i])) <= threshold {
			ids = append(ids, i)
		}
	}
	return ids
}

// complement is the sorted set [0, n) minus the inlier indices.
func complement(inliers []int, n int) []int {
	in := make([]bool, n)
	for _, id := range inliers {
		in[id] = true
	}
	out := make([]int, 0, n-len(inliers))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}
