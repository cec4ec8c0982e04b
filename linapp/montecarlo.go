// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MonteCarlo simulates the model over many shock histories drawn from process.
// Every replication keeps the model's initial levels and the first row of m.Z.
// process: law of motion for the shocks, must match the model's nz
// mc: replications, band level, seed, workers
// opts: options for each simulation (Euler errors included when opts.Euler is set)
// Returns: pointwise mean and quantile bands of X and Y
func (m *Model) MonteCarlo(process *ShockProcess, mc MonteCarloOptions, opts Options) (*MonteCarloResult, error) {
	d, err := m.validate(opts.Euler)
	if err != nil {
		return nil, err
	}
	if process == nil || process.NN == nil {
		return nil, fmt.Errorf("%w: shock process not provided", ErrDimensionMismatch)
	}
	if err := checkShape("process NN", process.NN, d.nz, d.nz); err != nil {
		return nil, err
	}

	// Default options if not set
	if mc.NReplications <= 0 {
		mc.NReplications = 500
	}
	if mc.Alpha <= 0 || mc.Alpha >= 1 {
		mc.Alpha = 0.05
	}

	logger := opts.logger()
	z0 := mat.Row(nil, 0, m.Z)

	// Per-replication seeds so the random sources are not shared across goroutines
	masterSeed := mc.Seed
	if masterSeed == 0 {
		masterSeed = uint64(time.Now().UnixNano())
	}
	masterRng := rand.New(rand.NewPCG(masterSeed, masterSeed))

	seeds := make([]uint64, mc.NReplications)
	for i := range seeds {
		seeds[i] = masterRng.Uint64()
	}

	numWorkers := mc.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > mc.NReplications {
		numWorkers = mc.NReplications
	}

	logger.Debug("running monte carlo",
		zap.Int("replications", mc.NReplications), zap.Int("workers", numWorkers), zap.Uint64("seed", masterSeed))

	// Replications run one simulation each, nested Euler parallelism is switched off
	repOpts := opts
	repOpts.Workers = 1

	reps := make([]mcReplication, mc.NReplications)

	var g errgroup.Group
	g.SetLimit(numWorkers)
	for b := 0; b < mc.NReplications; b++ {
		g.Go(func() error {
			src := rand.NewPCG(seeds[b], seeds[b]^0x9e3779b97f4a7c15)

			Z, err := process.Draw(d.nobs, z0, src)
			if err != nil {
				return fmt.Errorf("replication %d: draw shocks: %w", b, err)
			}

			repModel := *m
			repModel.Z = Z
			panel, err := Simulate(&repModel, repOpts)
			if err != nil {
				return fmt.Errorf("replication %d: %w", b, err)
			}

			rep := mcReplication{X: panel.X, Y: panel.Y}
			if opts.Euler != nil {
				rep.Euler = SummarizeEuler(panel.E)
			}
			// each replication owns its slot
			reps[b] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Pointwise statistics over the replications
	lowerQ := mc.Alpha / 2.0
	upperQ := 1.0 - mc.Alpha/2.0

	res := &MonteCarloResult{
		NReplications: mc.NReplications,
		Alpha:         mc.Alpha,
		MeanY:         &mat.Dense{},
		LowerY:        &mat.Dense{},
		UpperY:        &mat.Dense{},
	}
	res.MeanX, res.LowerX, res.UpperX = bands(reps, func(r mcReplication) *mat.Dense { return r.X }, d.nobs, d.nx, lowerQ, upperQ)
	if d.ny > 0 {
		res.MeanY, res.LowerY, res.UpperY = bands(reps, func(r mcReplication) *mat.Dense { return r.Y }, d.nobs, d.ny, lowerQ, upperQ)
	}

	if opts.Euler != nil {
		summaries := make([][]EulerSummary, 0, len(reps))
		for _, r := range reps {
			if r.Euler != nil {
				summaries = append(summaries, r.Euler)
			}
		}
		res.Euler = averageSummaries(summaries)
	}

	return res, nil
}

// bands computes the pointwise mean and the lowerQ/upperQ quantiles of one panel over all replications.
func bands(reps []mcReplication, pick func(mcReplication) *mat.Dense, rows, cols int, lowerQ, upperQ float64) (mean, lower, upper *mat.Dense) {
	mean = mat.NewDense(rows, cols, nil)
	lower = mat.NewDense(rows, cols, nil)
	upper = mat.NewDense(rows, cols, nil)

	samples := make([]float64, len(reps))
	for t := 0; t < rows; t++ {
		for j := 0; j < cols; j++ {
			for b, r := range reps {
				samples[b] = pick(r).At(t, j)
			}
			mean.Set(t, j, stat.Mean(samples, nil))
			sort.Float64s(samples)
			lower.Set(t, j, sortedQuantile(samples, lowerQ))
			upper.Set(t, j, sortedQuantile(samples, upperQ))
		}
	}
	return mean, lower, upper
}

// empiricalQuantile is sortedQuantile on a sorted copy of samples.
func empiricalQuantile(samples []float64, q float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return sortedQuantile(sorted, q)
}

// sortedQuantile interpolates linearly between the order statistics of sorted
// at position q*(n-1). q is clamped to [0, 1]; NaN for an empty sample.
func sortedQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := math.Max(0, math.Min(1, q)) * float64(n-1)
	i := int(pos)
	if i >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(i)
	if frac == 0 {
		return sorted[i]
	}
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}
