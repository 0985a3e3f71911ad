package ransac

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/valyala/fastrand"
	"golang.org/x/sync/errgroup"
)

// ErrNoConsensus is returned when every trial produced a degenerate fit.
var ErrNoConsensus = errors.New("ransac: no consensus model found")

const (
	DefaultProbability = 0.99
	DefaultMaxTrials   = 1000
)

// Coefficients is an opaque candidate model produced by a FitFn. The
// engine never inspects it, only hands it back to the ScoreFn.
type Coefficients interface{}

// FitFn fits a candidate model on the points selected by ids. It must
// return an error for subsets that yield a non-finite model.
type FitFn func(ids []int) (Coefficients, error)

// ScoreFn returns the indices of all dataset points whose residual
// against c is within threshold. It must be a pure function and return
// indices in ascending order.
type ScoreFn func(c Coefficients, threshold float64) []int

type Option func(*Engine)

func WithProbability(p float64) Option {
	return func(e *Engine) {
		e.opts.probability = p
	}
}

func WithMaxTrials(n int) Option {
	return func(e *Engine) {
		e.opts.maxTrials = n
	}
}

func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.opts.workers = n
	}
}

func WithSeed(seed uint32) Option {
	return func(e *Engine) {
		e.opts.seed = seed
	}
}

type options struct {
	probability float64
	maxTrials   int
	workers     int
	seed        uint32
}

var defaultOptions = options{
	probability: DefaultProbability,
	maxTrials:   DefaultMaxTrials,
	workers:     1,
}

func New(fit FitFn, score ScoreFn, opts ...Option) (*Engine, error) {
	if fit == nil || score == nil {
		return nil, fmt.Errorf("ransac: fit and score functions are required")
	}
	e := &Engine{fit: fit, score: score, opts: defaultOptions}
	for _, f := range opts {
		f(e)
	}
	if e.opts.probability <= 0 || e.opts.probability >= 1 {
		return nil, fmt.Errorf("ransac: probability %v is out of (0, 1)", e.opts.probability)
	}
	if e.opts.maxTrials < 1 {
		return nil, fmt.Errorf("ransac: max trials must be positive, got %d", e.opts.maxTrials)
	}
	if e.opts.workers < 1 {
		e.opts.workers = 1
	}
	if e.opts.seed == 0 {
		e.opts.seed = fastrand.Uint32() | 1
	}
	return e, nil
}

type Engine struct {
	fit   FitFn
	score ScoreFn
	opts  options
}

// Consensus is the best-supported candidate found by a search.
type Consensus struct {
	Coeffs  Coefficients
	Inliers []int
	Trials  int
}

type candidate struct {
	coeffs  Coefficients
	inliers []int
	ok      bool
}

// Search runs randomized trials over a dataset of n points until the
// adaptive bound or the hard trial cap is reached. sampleSize points are
// drawn without replacement for each trial; the candidate explaining the
// most points wins, earlier trials winning ties.
func (e *Engine) Search(ctx context.Context, n, sampleSize int, threshold float64) (*Consensus, error) {
	if n < 2 {
		return nil, fmt.Errorf("ransac: dataset of %d points is too small", n)
	}
	if sampleSize < 2 || sampleSize > n {
		return nil, fmt.Errorf("ransac: sample size %d is out of [2, %d]", sampleSize, n)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("ransac: threshold must be non-negative, got %v", threshold)
	}

	// Sampling the full dataset repeatedly cannot improve the candidate.
	if sampleSize == n {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i
		}
		coeffs, err := e.fit(ids)
		if err != nil {
			return nil, ErrNoConsensus
		}
		return &Consensus{Coeffs: coeffs, Inliers: e.score(coeffs, threshold), Trials: 1}, nil
	}

	var (
		best  *Consensus
		bound = e.opts.maxTrials
		trial = 0
	)
	for trial < bound {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := e.opts.workers
		if rest := bound - trial; batch > rest {
			batch = rest
		}
		cands := make([]candidate, batch)
		var g errgroup.Group
		for i := 0; i < batch; i++ {
			i, t := i, trial+i
			g.Go(func() error {
				ids := e.sample(uint32(t), n, sampleSize)
				coeffs, err := e.fit(ids)
				if err != nil {
					// degenerate subset, the trial still consumes budget
					return nil
				}
				cands[i] = candidate{coeffs: coeffs, inliers: e.score(coeffs, threshold), ok: true}
				return nil
			})
		}
		_ = g.Wait()

		// Apply in trial order so the result does not depend on scheduling.
		for i := 0; i < batch; i++ {
			trial++
			c := cands[i]
			if !c.ok {
				continue
			}
			if best == nil || len(c.inliers) > len(best.Inliers) {
				best = &Consensus{Coeffs: c.coeffs, Inliers: c.inliers}
				k := requiredTrials(e.opts.probability, float64(len(c.inliers))/float64(n), sampleSize)
				if k < bound {
					bound = k
				}
				if bound < trial {
					bound = trial
				}
			}
		}
	}
	if best == nil {
		return nil, ErrNoConsensus
	}
	best.Trials = trial
	return best, nil
}

// sample draws sampleSize distinct indices from [0, n) with a trial-local
// generator, so a fixed base seed fixes every draw regardless of which
// worker runs the trial.
func (e *Engine) sample(trial uint32, n, sampleSize int) []int {
	var rng fastrand.RNG
	rng.Seed(e.opts.seed + trial*2654435761 + 1)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < sampleSize; i++ {
		j := i + int(rng.Uint32n(uint32(n-i)))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:sampleSize]
}

// requiredTrials is the standard adaptive RANSAC bound: the number of
// trials needed to draw at least one all-inlier sample with probability
// p, given the current inlier ratio. The ratio is clamped away from 0
// and 1 to keep the logs finite.
func requiredTrials(p, inlierRatio float64, sampleSize int) int {
	const eps = 1e-9
	w := inlierRatio
	if w < eps {
		w = eps
	}
	if w > 1-eps {
		w = 1 - eps
	}
	wm := math.Pow(w, float64(sampleSize))
	if wm < eps {
		wm = eps
	}
	if wm > 1-eps {
		wm = 1 - eps
	}
	return int(math.Ceil(math.Log(1-p) / math.Log(1-wm)))
}
