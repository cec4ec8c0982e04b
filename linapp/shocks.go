// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ShockProcess is the law of motion of the exogenous shocks:
// z_t = NN z_{t-1} + e_t,  e_t ~ N(0, Sigma)
type ShockProcess struct {
	// Autoregressive coefficient (nz x nz)
	NN *mat.Dense
	// Innovation covariance (nz x nz), nil for a deterministic path
	Sigma *mat.SymDense
}

// Draw simulates a shock path of nobs rows starting from z0.
// nobs: number of periods, including the initial one
// z0: first row of the path (nz)
// src: random source for the innovations
// Returns: nobs x nz shock path
func (sp *ShockProcess) Draw(nobs int, z0 []float64, src rand.Source) (*mat.Dense, error) {
	if sp == nil || sp.NN == nil {
		return nil, fmt.Errorf("%w: shock process has no NN", ErrDimensionMismatch)
	}
	if nobs <= 0 {
		return nil, fmt.Errorf("nobs must be > 0")
	}

	nz, c := sp.NN.Dims()
	if nz != c {
		return nil, fmt.Errorf("%w: NN is %dx%d", ErrDimensionMismatch, nz, c)
	}
	if len(z0) != nz {
		return nil, fmt.Errorf("%w: z0 has %d entries, expected %d", ErrDimensionMismatch, len(z0), nz)
	}

	L, err := sp.choleskyFactor()
	if err != nil {
		return nil, err
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	Z := mat.NewDense(nobs, nz, nil)
	Z.SetRow(0, z0)

	eps := mat.NewVecDense(nz, nil)
	var innov, next mat.VecDense

	for t := 1; t < nobs; t++ {
		// autoregressive part: NN z_{t-1}
		next.MulVec(sp.NN, Z.RowView(t-1))

		// innovation L e with e ~ N(0, I)
		if L != nil {
			for i := 0; i < nz; i++ {
				eps.SetVec(i, normal.Rand())
			}
			innov.MulVec(L, eps)
			next.AddVec(&next, &innov)
		}

		Z.SetRow(t, mat.Col(nil, 0, &next))
	}

	return Z, nil
}

// choleskyFactor returns L with Sigma = L L', or nil when Sigma is nil.
func (sp *ShockProcess) choleskyFactor() (*mat.TriDense, error) {
	if sp.Sigma == nil {
		return nil, nil
	}
	nz, _ := sp.NN.Dims()
	if n := sp.Sigma.SymmetricDim(); n != nz {
		return nil, fmt.Errorf("%w: Sigma is %dx%d, expected %dx%d", ErrDimensionMismatch, n, n, nz, nz)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sp.Sigma); !ok {
		return nil, fmt.Errorf("shock covariance is not positive definite")
	}
	L := mat.NewTriDense(nz, mat.Lower, nil)
	chol.LTo(L)
	return L, nil
}

// FitShockProcess estimates NN and Sigma from an observed shock history by OLS
// of z_t on z_{t-1} without intercept.
// Z: T x nz shock history, rows are periods
// Returns: the fitted ShockProcess
func FitShockProcess(Z *mat.Dense) (*ShockProcess, error) {
	if Z == nil {
		return nil, fmt.Errorf("shock history not provided")
	}

	T, K := Z.Dims()
	if T <= K+1 {
		return nil, fmt.Errorf("need more than %d observations to fit %d shocks, got %d", K+1, K, T)
	}

	// Usable rows
	Treg := T - 1

	// Response rows are z_1, ..., z_{T-1}, regressors are z_0, ..., z_{T-2}
	Yreg := mat.DenseCopyOf(Z.Slice(1, T, 0, K))
	X := mat.DenseCopyOf(Z.Slice(0, Treg, 0, K))

	// B = (X'X)^(-1) X'Y, B is K x K with B' = NN
	var B mat.Dense

	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	var xtxInv mat.Dense
	xtxError := xtxInv.Inverse(&xtx)

	if xtxError == nil {
		var xty mat.Dense
		xty.Mul(X.T(), Yreg)
		B.Mul(&xtxInv, &xty)
	} else {
		// X'X is singular or badly conditioned: minimum-norm least squares through the SVD
		var svd mat.SVD
		ok := svd.Factorize(X, mat.SVDFullU|mat.SVDFullV)
		if !ok {
			return nil, fmt.Errorf("OLS failed: X'X singular and SVD factorization failed: %v", xtxError)
		}

		rank := svd.Rank(1e-12)
		if rank == 0 {
			B = *mat.NewDense(K, K, nil)
		} else {
			svd.SolveTo(&B, Yreg, rank)
		}
	}

	NN := mat.DenseCopyOf(B.T())

	// Innovation covariance from the residuals
	var Yhat mat.Dense
	Yhat.Mul(X, &B)

	var U mat.Dense
	U.Sub(Yreg, &Yhat)

	var utu mat.Dense
	utu.Mul(U.T(), &U)

	df := float64(Treg - K)

	sigmaData := make([]float64, K*K)
	for i := 0; i < K; i++ {
		for j := 0; j < K; j++ {
			sigmaData[i*K+j] = utu.At(i, j) / df
		}
	}

	return &ShockProcess{
		NN:    NN,
		Sigma: mat.NewSymDense(K, sigmaData),
	}, nil
}
