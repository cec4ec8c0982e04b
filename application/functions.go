// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/JiaziChen111/CSL-unbalanced-growth/linapp"
	"github.com/JiaziChen111/CSL-unbalanced-growth/models"
	"gonum.org/v1/gonum/mat"
)

// BuildModel turns the model file into simulation inputs. The shock path is
// read from shocks.path when set, otherwise it is drawn from the shock process.
// Returns: the model and the shock process it was built with
func (mf *ModelFile) BuildModel() (*linapp.Model, *linapp.ShockProcess, error) {
	nx := len(mf.PP)
	if nx == 0 {
		return nil, nil, fmt.Errorf("pp is required")
	}
	if len(mf.SteadyState) < nx {
		return nil, nil, fmt.Errorf("steady_state has %d entries, need at least %d", len(mf.SteadyState), nx)
	}
	ny := len(mf.SteadyState) - nx
	nz := len(mf.Shocks.NN)
	if nz == 0 {
		return nil, nil, fmt.Errorf("shocks.nn is required")
	}

	PP, err := denseFromRows("pp", mf.PP)
	if err != nil {
		return nil, nil, err
	}
	QQ, err := denseFromRows("qq", mf.QQ)
	if err != nil {
		return nil, nil, err
	}
	NN, err := denseFromRows("shocks.nn", mf.Shocks.NN)
	if err != nil {
		return nil, nil, err
	}

	m := &linapp.Model{
		X0:    rowVector(orDefault(mf.X0, mf.SteadyState[:nx])),
		XYbar: rowVector(mf.SteadyState),
		NN:    NN,
		PP:    PP,
		QQ:    QQ,
		UU:    colVector(orDefault(mf.UU, make([]float64, nx))),
	}

	if mf.Controls != nil {
		if ny == 0 {
			return nil, nil, fmt.Errorf("%w: steady_state only covers the states", linapp.ErrMissingControls)
		}
		c := mf.Controls
		RR, err := denseFromRows("controls.rr", c.RR)
		if err != nil {
			return nil, nil, err
		}
		SS, err := denseFromRows("controls.ss", c.SS)
		if err != nil {
			return nil, nil, err
		}
		m.Controls = &linapp.Controls{
			Y0: rowVector(orDefault(c.Y0, mf.SteadyState[nx:])),
			ControlRule: linapp.ControlRule{
				RR: RR,
				SS: SS,
				VV: colVector(orDefault(c.VV, make([]float64, ny))),
			},
		}
	}

	process := &linapp.ShockProcess{NN: NN}
	if len(mf.Shocks.Sigma) > 0 {
		process.Sigma, err = symFromRows("shocks.sigma", mf.Shocks.Sigma)
		if err != nil {
			return nil, nil, err
		}
	}

	if mf.Shocks.Path != "" {
		Z, header, err := linapp.LoadCSVToPanel(mf.Shocks.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load shock path: %w", err)
		}
		if len(mf.Shocks.Names) == 0 {
			mf.Shocks.Names = header
		}
		m.Z = Z
		return m, process, nil
	}

	z0 := orDefault(mf.Shocks.Initial, make([]float64, nz))
	s := resolveSeed(mf.Seed)
	m.Z, err = process.Draw(mf.Nobs, z0, rand.NewPCG(s, s))
	if err != nil {
		return nil, nil, fmt.Errorf("draw shock path: %w", err)
	}
	return m, process, nil
}

// SimOptions builds the simulation options, Euler errors included when the
// file has an euler block.
func (mf *ModelFile) SimOptions(process *linapp.ShockProcess) (linapp.Options, error) {
	opts := linapp.DefaultOptions()
	opts.LogX = *mf.LogX
	opts.Workers = mf.Workers
	opts.Logger = logger

	if mf.Euler == nil {
		return opts, nil
	}
	if mf.Euler.BrockMirman == nil {
		return opts, fmt.Errorf("%w: euler block names no model", linapp.ErrMissingResidual)
	}
	if process == nil || process.Sigma == nil {
		return opts, fmt.Errorf("euler errors need shocks.sigma")
	}

	eps, phi, err := linapp.HermiteNodes(mf.Euler.Nodes, process.Sigma)
	if err != nil {
		return opts, fmt.Errorf("euler nodes: %w", err)
	}
	opts.Euler = &linapp.EulerSpec{
		Eps:      eps,
		Phi:      phi,
		Residual: models.Residual,
		Param:    mf.Euler.BrockMirman,
	}
	return opts, nil
}

func (mf *ModelFile) names() outputNames {
	return outputNames{states: mf.StateNames, controls: mf.ControlNames, shocks: mf.Shocks.Names}
}

// brockMirmanRun builds the inputs of the built-in example model.
// Returns: the model, its shock process and the options (Euler errors when euler is true)
func brockMirmanRun(bm models.BrockMirman, nobs, nodes int, euler bool, seed uint64) (*linapp.Model, *linapp.ShockProcess, linapp.Options, error) {
	opts := linapp.DefaultOptions()
	opts.Logger = logger

	if err := bm.Validate(); err != nil {
		return nil, nil, opts, err
	}
	if nobs <= 0 {
		return nil, nil, opts, fmt.Errorf("nobs must be > 0")
	}

	process := bm.ShockProcess()
	s := resolveSeed(seed)
	Z, err := process.Draw(nobs, []float64{0}, rand.NewPCG(s, s))
	if err != nil {
		return nil, nil, opts, err
	}

	m, err := bm.Model(Z)
	if err != nil {
		return nil, nil, opts, err
	}

	if euler {
		if process.Sigma == nil {
			return nil, nil, opts, fmt.Errorf("euler errors need sigma > 0")
		}
		eps, phi, err := linapp.HermiteNodes(nodes, process.Sigma)
		if err != nil {
			return nil, nil, opts, err
		}
		opts.Euler = &linapp.EulerSpec{Eps: eps, Phi: phi, Residual: models.Residual, Param: bm}
	}
	return m, process, opts, nil
}

// resolveSeed returns seed, or a time-based seed when it is 0
func resolveSeed(seed uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return seed
}

// denseFromRows copies a rectangular, non-empty list of rows into a matrix
func denseFromRows(name string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s is required", name)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%s row %d has %d entries, expected %d", name, i+1, len(r), cols)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// symFromRows reads a symmetric matrix, only the upper triangle is used
func symFromRows(name string, rows [][]float64) (*mat.SymDense, error) {
	d, err := denseFromRows(name, rows)
	if err != nil {
		return nil, err
	}
	r, c := d.Dims()
	if r != c {
		return nil, fmt.Errorf("%s must be square, got %dx%d", name, r, c)
	}
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, d.At(i, j))
		}
	}
	return sym, nil
}

// rowsOf converts a matrix back into rows, the inverse of denseFromRows
func rowsOf(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

func rowVector(v []float64) *mat.Dense {
	return mat.NewDense(1, len(v), append([]float64(nil), v...))
}

func colVector(v []float64) *mat.Dense {
	return mat.NewDense(len(v), 1, append([]float64(nil), v...))
}

func orDefault(v, def []float64) []float64 {
	if len(v) == 0 {
		return def
	}
	return v
}
