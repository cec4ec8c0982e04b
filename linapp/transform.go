// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ToDeviation converts levels into deviations from vbar.
// v: T x n levels, vbar: 1 x n steady state broadcast over the rows of v
// logMode: ln(v/vbar) when true, v - vbar otherwise
// Returns: T x n deviations
func ToDeviation(v, vbar mat.Matrix, logMode bool) (*mat.Dense, error) {
	T, n, err := broadcastDims(v, vbar)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(T, n, nil)
	for j := 0; j < n; j++ {
		bar := vbar.At(0, j)
		if logMode && !positiveFinite(bar) {
			return nil, fmt.Errorf("%w: steady state column %d is %g", ErrLogDomain, j, bar)
		}
		for t := 0; t < T; t++ {
			level := v.At(t, j)
			if !logMode {
				out.Set(t, j, level-bar)
				continue
			}
			if !positiveFinite(level) {
				return nil, fmt.Errorf("%w: row %d column %d is %g", ErrLogDomain, t, j, level)
			}
			out.Set(t, j, math.Log(level/bar))
		}
	}
	return out, nil
}

// FromDeviation is the inverse of ToDeviation.
// dev: T x n deviations, vbar: 1 x n steady state broadcast over the rows of dev
// Returns: T x n levels, vbar*exp(dev) in log mode and vbar + dev otherwise
func FromDeviation(dev, vbar mat.Matrix, logMode bool) (*mat.Dense, error) {
	T, n, err := broadcastDims(dev, vbar)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(T, n, nil)
	for j := 0; j < n; j++ {
		bar := vbar.At(0, j)
		if logMode && !(bar > 0) {
			return nil, fmt.Errorf("%w: steady state column %d is %g", ErrLogDomain, j, bar)
		}
		for t := 0; t < T; t++ {
			var level float64
			if logMode {
				level = bar * math.Exp(dev.At(t, j))
			} else {
				level = bar + dev.At(t, j)
			}
			if math.IsNaN(level) || math.IsInf(level, 0) {
				return nil, fmt.Errorf("%w: level at row %d column %d", ErrNonFinite, t, j)
			}
			out.Set(t, j, level)
		}
	}
	return out, nil
}

// broadcastDims checks that vbar is a single row as wide as v.
func broadcastDims(v, vbar mat.Matrix) (int, int, error) {
	T, n := v.Dims()
	rBar, nBar := vbar.Dims()
	if rBar != 1 || nBar != n {
		return 0, 0, fmt.Errorf("%w: steady state is %dx%d, expected 1x%d", ErrDimensionMismatch, rBar, nBar, n)
	}
	return T, n, nil
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
