// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestDrawDeterministic(t *testing.T) {
	sp := &ShockProcess{NN: mat.NewDense(1, 1, []float64{0.5})}
	Z, err := sp.Draw(4, []float64{1}, rand.NewPCG(1, 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 0.25, 0.125}, mat.Col(nil, 0, Z))
}

func TestDrawReproducible(t *testing.T) {
	sp := &ShockProcess{
		NN:    mat.NewDense(2, 2, []float64{0.7, 0.1, 0, 0.5}),
		Sigma: mat.NewSymDense(2, []float64{0.01, 0.002, 0.002, 0.04}),
	}

	a, err := sp.Draw(50, []float64{0, 0}, rand.NewPCG(42, 42))
	require.NoError(t, err)
	b, err := sp.Draw(50, []float64{0, 0}, rand.NewPCG(42, 42))
	require.NoError(t, err)
	c, err := sp.Draw(50, []float64{0, 0}, rand.NewPCG(43, 43))
	require.NoError(t, err)

	assert.True(t, mat.Equal(a, b))
	assert.False(t, mat.Equal(a, c))
	assert.Equal(t, []float64{0, 0}, mat.Row(nil, 0, a))
}

func TestDrawStationaryVariance(t *testing.T) {
	// AR(1) with rho = 0.5, sigma = 0.1: variance 0.01 / 0.75
	sp := &ShockProcess{
		NN:    mat.NewDense(1, 1, []float64{0.5}),
		Sigma: mat.NewSymDense(1, []float64{0.01}),
	}
	Z, err := sp.Draw(20000, []float64{0}, rand.NewPCG(7, 11))
	require.NoError(t, err)

	z := mat.Col(nil, 0, Z)
	assert.InDelta(t, 0, stat.Mean(z, nil), 0.01)
	assert.InEpsilon(t, 0.01/0.75, stat.Variance(z, nil), 0.1)
}

func TestDrawErrors(t *testing.T) {
	sp := &ShockProcess{NN: mat.NewDense(1, 1, []float64{0.5})}

	_, err := sp.Draw(5, []float64{0, 0}, rand.NewPCG(1, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = sp.Draw(0, []float64{0}, rand.NewPCG(1, 1))
	assert.Error(t, err)

	sp.Sigma = mat.NewSymDense(1, []float64{-1})
	_, err = sp.Draw(5, []float64{0}, rand.NewPCG(1, 1))
	assert.Error(t, err)
}

func TestFitShockProcess(t *testing.T) {
	truth := &ShockProcess{
		NN:    mat.NewDense(2, 2, []float64{0.7, 0.1, 0, 0.5}),
		Sigma: mat.NewSymDense(2, []float64{0.01, 0, 0, 0.04}),
	}
	Z, err := truth.Draw(5000, []float64{0, 0}, rand.NewPCG(2025, 12))
	require.NoError(t, err)

	fit, err := FitShockProcess(Z)
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(fit.NN, truth.NN, 0.05), "NN = %v", mat.Formatted(fit.NN))
	assert.InEpsilon(t, 0.01, fit.Sigma.At(0, 0), 0.1)
	assert.InEpsilon(t, 0.04, fit.Sigma.At(1, 1), 0.1)
	assert.InDelta(t, 0, fit.Sigma.At(0, 1), 0.005)
}

func TestFitShockProcessExact(t *testing.T) {
	// A noiseless AR(1) path is fitted exactly with zero residual variance
	sp := &ShockProcess{NN: mat.NewDense(1, 1, []float64{0.8})}
	Z, err := sp.Draw(10, []float64{1}, rand.NewPCG(1, 1))
	require.NoError(t, err)

	fit, err := FitShockProcess(Z)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, fit.NN.At(0, 0), 1e-12)
	assert.InDelta(t, 0, fit.Sigma.At(0, 0), 1e-20)
}

func TestFitShockProcessTooShort(t *testing.T) {
	_, err := FitShockProcess(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}))
	assert.Error(t, err)

	_, err = FitShockProcess(nil)
	assert.Error(t, err)
}

func TestHermiteNodesThreePoints(t *testing.T) {
	sigma := 0.2
	eps, phi, err := HermiteNodes(3, mat.NewSymDense(1, []float64{sigma * sigma}))
	require.NoError(t, err)

	nodes := mat.Col(nil, 0, eps)
	require.Len(t, nodes, 3)
	require.Len(t, phi, 3)

	// nodes 0 and +-sqrt(3) sigma, weights 2/3 and 1/6
	for i, x := range nodes {
		switch {
		case math.Abs(x) < 1e-12:
			assert.InDelta(t, 2.0/3, phi[i], 1e-12)
		default:
			assert.InDelta(t, math.Sqrt(3)*sigma, math.Abs(x), 1e-12)
			assert.InDelta(t, 1.0/6, phi[i], 1e-12)
		}
	}
}

func TestHermiteNodesMoments(t *testing.T) {
	cov := []float64{0.04, 0.01, 0.01, 0.09}
	eps, phi, err := HermiteNodes(5, mat.NewSymDense(2, cov))
	require.NoError(t, err)

	ne, nz := eps.Dims()
	require.Equal(t, 25, ne)
	require.Equal(t, 2, nz)
	assert.InDelta(t, 1, floats.Sum(phi), 1e-12)

	// E[e] = 0 and E[e e'] = Sigma
	for i := 0; i < nz; i++ {
		var mean float64
		for k := 0; k < ne; k++ {
			mean += phi[k] * eps.At(k, i)
		}
		assert.InDelta(t, 0, mean, 1e-12)

		for j := 0; j < nz; j++ {
			var m2 float64
			for k := 0; k < ne; k++ {
				m2 += phi[k] * eps.At(k, i) * eps.At(k, j)
			}
			assert.InDelta(t, cov[i*nz+j], m2, 1e-12, "moment (%d, %d)", i, j)
		}
	}
}

func TestHermiteNodesErrors(t *testing.T) {
	_, _, err := HermiteNodes(0, mat.NewSymDense(1, []float64{1}))
	assert.Error(t, err)

	_, _, err = HermiteNodes(3, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = HermiteNodes(3, mat.NewSymDense(1, []float64{0}))
	assert.Error(t, err)
}
