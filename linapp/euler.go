// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// EulerErrors evaluates the Euler residuals of an already simulated panel.
// m: the model the panel was simulated from
// panel: X (nobs x nx) levels, Y is not read
// opts: opts.Euler must be set
// Returns: nobs x (nx+ny) residuals, the last row is always zero
func EulerErrors(m *Model, panel *Panel, opts Options) (*mat.Dense, error) {
	if opts.Euler == nil {
		return nil, fmt.Errorf("%w: no euler spec in options", ErrMissingResidual)
	}
	d, err := m.validate(opts.Euler)
	if err != nil {
		return nil, err
	}
	if panel == nil || panel.X == nil {
		return nil, fmt.Errorf("%w: panel has no states", ErrDimensionMismatch)
	}
	if err := checkShape("X", panel.X, d.nobs, d.nx); err != nil {
		return nil, err
	}

	work := &Panel{X: panel.X, Y: panel.Y, E: mat.NewDense(d.nobs, d.nx+d.ny, nil)}
	if err := eulerErrors(m, work, d, opts); err != nil {
		return nil, err
	}
	return work.E, nil
}

// eulerErrors fills panel.E. For every period t and node e the hypothesized
// next state is built from the zero deviation step anchored at X(t+1), then the
// residuals at [X(t+2), X(t+1), X(t), Z(t+2), Z(t+1)] are weighted by Phi(e).
func eulerErrors(m *Model, panel *Panel, d dims, opts Options) error {
	spec := opts.Euler
	logger := opts.logger()
	step := opts.step()
	tr := m.transition()

	ne, _ := spec.Eps.Dims()
	periods := d.nobs - 1
	if periods <= 0 {
		return nil
	}

	logger.Debug("evaluating euler errors",
		zap.Int("periods", periods), zap.Int("nodes", ne), zap.Int("workers", opts.Workers))

	// The zero deviation step does not depend on t
	nodeDev := make([]*mat.Dense, ne)
	for e := 0; e < ne; e++ {
		xDev, yDev, err := step(mat.NewVecDense(d.nx, nil), mat.NewVecDense(d.nz, nil), tr)
		if err != nil {
			return &PeriodError{Period: 1, Node: e + 1, Err: err}
		}
		if err := checkStepResult(xDev, yDev, d); err != nil {
			return &PeriodError{Period: 1, Node: e + 1, Err: err}
		}
		nodeDev[e] = mat.NewDense(1, d.nx, mat.Col(nil, 0, xDev))
	}

	neq := d.nx + d.ny

	evalPeriod := func(t int) error {
		xNext := mat.Row(nil, t+1, panel.X)
		xNow := mat.Row(nil, t, panel.X)
		zNow := mat.NewVecDense(d.nz, mat.Row(nil, t+1, m.Z))
		anchor := panel.X.Slice(t+1, t+2, 0, d.nx)

		acc := make([]float64, neq)
		for e := 0; e < ne; e++ {
			// Zp = NN z + eps_e
			zp := mat.NewVecDense(d.nz, nil)
			zp.MulVec(m.NN, zNow)
			zp.AddVec(zp, spec.Eps.RowView(e))

			xp, err := FromDeviation(nodeDev[e], anchor, opts.LogX)
			if err != nil {
				return &PeriodError{Period: t + 1, Node: e + 1, Err: err}
			}

			arg := make([]float64, 0, 3*d.nx+2*d.nz)
			arg = append(arg, mat.Row(nil, 0, xp)...)
			arg = append(arg, xNext...)
			arg = append(arg, xNow...)
			arg = append(arg, mat.Col(nil, 0, zp)...)
			arg = append(arg, mat.Col(nil, 0, zNow)...)

			res, err := spec.Residual(arg, spec.Param)
			if err != nil {
				return &PeriodError{Period: t + 1, Node: e + 1, Err: err}
			}
			if len(res) != neq {
				return &PeriodError{Period: t + 1, Node: e + 1,
					Err: fmt.Errorf("%w: got %d, expected %d", ErrResidualLength, len(res), neq)}
			}
			floats.AddScaled(acc, spec.Phi[e], res)
		}
		// Each period owns its row, so concurrent periods never share memory
		panel.E.SetRow(t, acc)
		return nil
	}

	if opts.Workers <= 1 {
		for t := 0; t < periods; t++ {
			if err := evalPeriod(t); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for t := 0; t < periods; t++ {
		g.Go(func() error {
			return evalPeriod(t)
		})
	}
	return g.Wait()
}
