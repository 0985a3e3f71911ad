package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"linsac/internal/linear"
	"linsac/internal/logging"
	"linsac/internal/shutdown"
)

// Demo harness: fits a contaminated synthetic line with plain OLS and
// with the consensus search side by side.
func main() {
	ctx, done := shutdown.New()
	defer done()
	logger := logging.FromContext(ctx)

	var (
		seed    uint64
		verbose bool
	)
	flag.Uint64Var(&seed, "seed", 42, "sampling seed, 0 derives one from entropy")
	flag.BoolVar(&verbose, "v", false, "dump the full result")
	flag.Parse()

	if err := run(ctx, uint32(seed), verbose); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, seed uint32, verbose bool) error {
	x := make([]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2*x[i] + 1
	}
	y[1] = 0.0
	y[7] = 50.0
	y[12] = 1.0
	y[18] = 150.0

	ols, err := linear.OLS(x, y)
	if err != nil {
		return fmt.Errorf("ordinary fit: %w", err)
	}
	fmt.Printf("true line:    y = 1.000 + 2.000*x\n")
	fmt.Printf("ordinary fit: y = %.3f + %.3f*x\n", ols.Intercept, ols.Slope)

	res, err := linear.RobustFit(ctx, x, y, linear.WithSeed(seed))
	if err != nil {
		return fmt.Errorf("robust fit: %w", err)
	}
	fmt.Printf("robust fit:   y = %.3f + %.3f*x (%d trials, refitted=%v)\n",
		res.Coeffs.Intercept, res.Coeffs.Slope, res.Trials, res.Refitted)
	fmt.Printf("inliers:  %v\n", res.Inliers)
	fmt.Printf("outliers: %v\n", res.Outliers)

	if verbose {
		spew.Dump(res)
	}
	return nil
}
