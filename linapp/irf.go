// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ImpulseResponse traces the model's reaction to a one-time shock starting
// from the steady state.
// horizon: number of periods after the impact period
// shockIndex: index of the shock to move, 0-based
// sigma: innovation covariance, the shock is one standard deviation along its
// Cholesky column. With sigma nil (or not positive definite) a unit shock is used.
// Returns: Panel with horizon+1 rows, row 0 is the steady state and row 1 the impact period
func (m *Model) ImpulseResponse(horizon, shockIndex int, sigma *mat.SymDense, opts Options) (*Panel, error) {
	d, err := m.validate(nil)
	if err != nil {
		return nil, err
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be > 0")
	}
	if shockIndex < 0 || shockIndex >= d.nz {
		return nil, fmt.Errorf("shockIndex must be between 0 and %d", d.nz-1)
	}

	// Makes the shock vector
	shock := make([]float64, d.nz)
	if sigma != nil && sigma.SymmetricDim() == d.nz {
		var chol mat.Cholesky
		if chol.Factorize(sigma) {
			L := mat.NewTriDense(d.nz, mat.Lower, nil)
			chol.LTo(L) // sigma = L * L^T
			for i := 0; i < d.nz; i++ {
				shock[i] = L.At(i, shockIndex)
			}
		} else {
			// fallback if sigma is not positive definite
			shock[shockIndex] = 1.0
		}
	} else {
		shock[shockIndex] = 1.0
	}

	// Shock path: zero before the impact, then z_{t+1} = NN z_t
	nobs := horizon + 1
	Z := mat.NewDense(nobs, d.nz, nil)
	Z.SetRow(1, shock)
	var next mat.VecDense
	for t := 2; t < nobs; t++ {
		next.MulVec(m.NN, Z.RowView(t-1))
		Z.SetRow(t, mat.Col(nil, 0, &next))
	}

	// Start from the steady state
	Xbar, Ybar := m.steadyState(d)
	irfModel := *m
	irfModel.Z = Z
	irfModel.X0 = mat.DenseCopyOf(Xbar)
	if d.ny > 0 {
		controls := *m.Controls
		controls.Y0 = mat.DenseCopyOf(Ybar)
		irfModel.Controls = &controls
	}

	opts.Euler = nil
	return Simulate(&irfModel, opts)
}
