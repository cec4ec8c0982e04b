// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// dims are the sizes inferred from a validated model
type dims struct {
	nobs, nx, ny, nz int
}

// Simulate builds the level panel of a linearized model.
// m: model inputs (initial levels, shock path, steady state, policy coefficients)
// opts: deviation convention, optional Euler error spec, step rule
// Returns: Panel with X (nobs x nx), Y (nobs x ny) and E (nobs x (nx+ny))
func Simulate(m *Model, opts Options) (*Panel, error) {
	d, err := m.validate(opts.Euler)
	if err != nil {
		return nil, err
	}
	logger := opts.logger()
	step := opts.step()

	logger.Debug("simulating linearized model",
		zap.Int("nobs", d.nobs), zap.Int("nx", d.nx), zap.Int("ny", d.ny), zap.Int("nz", d.nz),
		zap.Bool("logX", opts.LogX), zap.Bool("eulerErrors", opts.Euler != nil))

	Xbar, Ybar := m.steadyState(d)

	// Row 0 of the deviation panels comes from the initial levels
	xDev0, err := ToDeviation(m.X0, Xbar, opts.LogX)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	Xtil := mat.NewDense(d.nobs, d.nx, nil)
	Xtil.SetRow(0, mat.Row(nil, 0, xDev0))

	var Ytil *mat.Dense
	if d.ny > 0 {
		yDev0, err := ToDeviation(m.Controls.Y0, Ybar, opts.LogX)
		if err != nil {
			return nil, fmt.Errorf("initial controls: %w", err)
		}
		Ytil = mat.NewDense(d.nobs, d.ny, nil)
		Ytil.SetRow(0, mat.Row(nil, 0, yDev0))
	}

	tr := m.transition()

	// Recursion over periods, row t+1 only depends on row t and z_{t+1}
	for t := 0; t < d.nobs-1; t++ {
		x := mat.NewVecDense(d.nx, mat.Row(nil, t, Xtil))
		z := mat.NewVecDense(d.nz, mat.Row(nil, t+1, m.Z))

		xNext, yNext, err := step(x, z, tr)
		if err != nil {
			return nil, &PeriodError{Period: t + 1, Node: -1, Err: err}
		}
		if err := checkStepResult(xNext, yNext, d); err != nil {
			return nil, &PeriodError{Period: t + 1, Node: -1, Err: err}
		}

		Xtil.SetRow(t+1, mat.Col(nil, 0, xNext))
		if d.ny > 0 {
			Ytil.SetRow(t+1, mat.Col(nil, 0, yNext))
		}
	}

	// Back to levels over the whole panel
	X, err := FromDeviation(Xtil, Xbar, opts.LogX)
	if err != nil {
		return nil, fmt.Errorf("state panel: %w", err)
	}
	// The first row is the caller's levels, not the round trip through the transform
	X.SetRow(0, mat.Row(nil, 0, m.X0))

	Y := &mat.Dense{}
	if d.ny > 0 {
		Y, err = FromDeviation(Ytil, Ybar, opts.LogX)
		if err != nil {
			return nil, fmt.Errorf("control panel: %w", err)
		}
		Y.SetRow(0, mat.Row(nil, 0, m.Controls.Y0))
	}

	panel := &Panel{
		X: X,
		Y: Y,
		E: mat.NewDense(d.nobs, d.nx+d.ny, nil),
	}

	if opts.Euler != nil {
		if err := eulerErrors(m, panel, d, opts); err != nil {
			return nil, err
		}
	}

	logger.Debug("simulation finished", zap.Int("periods", d.nobs))
	return panel, nil
}

// LinearStep is the default one period rule of the linear policy:
// x' = PP x + QQ z + UU and, when tr.Control is set, y' = RR x + SS z + VV
func LinearStep(x, z *mat.VecDense, tr *Transition) (*mat.VecDense, *mat.VecDense, error) {
	nx, _ := tr.PP.Dims()
	_, nz := tr.QQ.Dims()
	if x.Len() != nx || z.Len() != nz {
		return nil, nil, fmt.Errorf("%w: step got state of length %d and shock of length %d, expected %d and %d",
			ErrDimensionMismatch, x.Len(), z.Len(), nx, nz)
	}

	xNext := mat.NewVecDense(nx, nil)
	xNext.MulVec(tr.PP, x)

	var qz mat.VecDense
	qz.MulVec(tr.QQ, z)
	xNext.AddVec(xNext, &qz)
	xNext.AddVec(xNext, tr.UU.ColView(0))

	if tr.Control == nil {
		return xNext, nil, nil
	}

	ny, _ := tr.Control.RR.Dims()
	yNext := mat.NewVecDense(ny, nil)
	yNext.MulVec(tr.Control.RR, x)

	var sz mat.VecDense
	sz.MulVec(tr.Control.SS, z)
	yNext.AddVec(yNext, &sz)
	yNext.AddVec(yNext, tr.Control.VV.ColView(0))

	return xNext, yNext, nil
}

// checkStepResult makes sure a step rule returned vectors of the right length.
func checkStepResult(xNext, yNext *mat.VecDense, d dims) error {
	if xNext == nil || xNext.Len() != d.nx {
		return fmt.Errorf("%w: step returned a state of the wrong length, expected %d", ErrDimensionMismatch, d.nx)
	}
	if d.ny > 0 && (yNext == nil || yNext.Len() != d.ny) {
		return fmt.Errorf("%w: step returned controls of the wrong length, expected %d", ErrDimensionMismatch, d.ny)
	}
	return nil
}

// transition hands the control rule to the step only when there are controls.
func (m *Model) transition() *Transition {
	tr := &Transition{PP: m.PP, QQ: m.QQ, UU: m.UU}
	if m.Controls != nil {
		rule := m.Controls.ControlRule
		tr.Control = &rule
	}
	return tr
}

// steadyState splits XYbar into Xbar and Ybar. Ybar is nil when ny = 0.
func (m *Model) steadyState(d dims) (mat.Matrix, mat.Matrix) {
	Xbar := m.XYbar.Slice(0, 1, 0, d.nx)
	if d.ny == 0 {
		return Xbar, nil
	}
	return Xbar, m.XYbar.Slice(0, 1, d.nx, d.nx+d.ny)
}

// validate infers nobs, nx, ny and nz and checks every shape against them.
func (m *Model) validate(euler *EulerSpec) (dims, error) {
	var d dims
	if m == nil {
		return d, fmt.Errorf("%w: model not provided", ErrDimensionMismatch)
	}
	if m.X0 == nil || m.Z == nil || m.XYbar == nil {
		return d, fmt.Errorf("%w: X0, Z and XYbar are required", ErrDimensionMismatch)
	}

	var r int
	r, d.nx = m.X0.Dims()
	if r != 1 || d.nx == 0 {
		return d, fmt.Errorf("%w: X0 must be a single row, got %dx%d", ErrDimensionMismatch, r, d.nx)
	}
	d.nobs, d.nz = m.Z.Dims()
	if d.nobs == 0 || d.nz == 0 {
		return d, fmt.Errorf("%w: Z is empty", ErrDimensionMismatch)
	}

	r, nxy := m.XYbar.Dims()
	if r != 1 {
		return d, fmt.Errorf("%w: XYbar must be a single row, got %d rows", ErrDimensionMismatch, r)
	}
	d.ny = nxy - d.nx
	if d.ny < 0 {
		return d, fmt.Errorf("%w: XYbar has %d columns but X0 has %d", ErrDimensionMismatch, nxy, d.nx)
	}

	checks := []struct {
		name string
		m    *mat.Dense
		r, c int
	}{
		{"PP", m.PP, d.nx, d.nx},
		{"QQ", m.QQ, d.nx, d.nz},
		{"UU", m.UU, d.nx, 1},
		{"NN", m.NN, d.nz, d.nz},
	}
	for _, c := range checks {
		if err := checkShape(c.name, c.m, c.r, c.c); err != nil {
			return d, err
		}
	}

	switch {
	case d.ny > 0 && m.Controls == nil:
		return d, fmt.Errorf("%w: XYbar implies %d controls but none were given", ErrMissingControls, d.ny)
	case d.ny == 0 && m.Controls != nil:
		return d, fmt.Errorf("%w: controls given but XYbar only covers the states", ErrMissingControls)
	case d.ny > 0:
		c := m.Controls
		if c.Y0 == nil || c.RR == nil || c.SS == nil || c.VV == nil {
			return d, fmt.Errorf("%w: Y0, RR, SS and VV are all required", ErrMissingControls)
		}
		controlChecks := []struct {
			name string
			m    *mat.Dense
			r, c int
		}{
			{"Y0", c.Y0, 1, d.ny},
			{"RR", c.RR, d.ny, d.nx},
			{"SS", c.SS, d.ny, d.nz},
			{"VV", c.VV, d.ny, 1},
		}
		for _, cc := range controlChecks {
			if err := checkShape(cc.name, cc.m, cc.r, cc.c); err != nil {
				return d, err
			}
		}
	}

	if euler != nil {
		if euler.Residual == nil {
			return d, ErrMissingResidual
		}
		if euler.Eps == nil {
			return d, fmt.Errorf("%w: Eps is required for euler errors", ErrDimensionMismatch)
		}
		ne, nzEps := euler.Eps.Dims()
		if nzEps != d.nz {
			return d, fmt.Errorf("%w: Eps has %d columns, expected %d", ErrDimensionMismatch, nzEps, d.nz)
		}
		if len(euler.Phi) != ne {
			return d, fmt.Errorf("%w: %d probabilities for %d nodes", ErrDimensionMismatch, len(euler.Phi), ne)
		}
	}

	return d, nil
}

// checkShape reports a missing or wrongly sized matrix.
func checkShape(name string, m *mat.Dense, r, c int) error {
	if m == nil {
		return fmt.Errorf("%w: %s not provided", ErrDimensionMismatch, name)
	}
	gotR, gotC := m.Dims()
	if gotR != r || gotC != c {
		return fmt.Errorf("%w: %s is %dx%d, expected %dx%d", ErrDimensionMismatch, name, gotR, gotC, r, c)
	}
	return nil
}

func (o Options) step() StepFunc {
	if o.Step == nil {
		return LinearStep
	}
	return o.Step
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
