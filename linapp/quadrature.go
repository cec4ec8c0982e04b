// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

// HermiteNodes discretizes a N(0, sigma) innovation with a tensor product
// Gauss-Hermite rule, for use as EulerSpec.Eps and EulerSpec.Phi.
// points: nodes per shock dimension
// sigma: nz x nz innovation covariance
// Returns: Eps (points^nz x nz) and Phi (points^nz), Phi sums to one
func HermiteNodes(points int, sigma *mat.SymDense) (*mat.Dense, []float64, error) {
	if points <= 0 {
		return nil, nil, fmt.Errorf("points must be > 0")
	}
	if sigma == nil {
		return nil, nil, fmt.Errorf("%w: innovation covariance not provided", ErrDimensionMismatch)
	}

	nz := sigma.SymmetricDim()
	sp := &ShockProcess{NN: mat.NewDense(nz, nz, nil), Sigma: sigma}
	L, err := sp.choleskyFactor()
	if err != nil {
		return nil, nil, err
	}

	// One dimensional rule for the weight exp(-x^2)
	x := make([]float64, points)
	w := make([]float64, points)
	quad.Hermite{}.FixedLocations(x, w, math.Inf(-1), math.Inf(1))

	ne := 1
	for i := 0; i < nz; i++ {
		ne *= points
	}

	// x -> sqrt(2) x turns exp(-x^2) into the standard normal kernel, the
	// weights then need 1/sqrt(pi) per dimension
	norm := math.Pow(math.Pi, float64(nz)/2)

	eps := mat.NewDense(ne, nz, nil)
	phi := make([]float64, ne)
	u := mat.NewVecDense(nz, nil)
	var row mat.VecDense

	for k := 0; k < ne; k++ {
		weight := 1.0
		idx := k
		for j := 0; j < nz; j++ {
			digit := idx % points
			idx /= points
			u.SetVec(j, math.Sqrt2*x[digit])
			weight *= w[digit]
		}
		row.MulVec(L, u)
		eps.SetRow(k, mat.Col(nil, 0, &row))
		phi[k] = weight / norm
	}

	return eps, phi, nil
}
