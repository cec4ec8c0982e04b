// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

// Package models contains example models with known solutions.
package models

import (
	"fmt"
	"math"

	"github.com/JiaziChen111/CSL-unbalanced-growth/linapp"
	"gonum.org/v1/gonum/mat"
)

// BrockMirman is the growth model with log utility and full depreciation:
// K' = exp(z) K^alpha - c, z' = rho z + e, e ~ N(0, sigma^2)
// Its policy K' = alpha beta exp(z) K^alpha is exactly log-linear.
type BrockMirman struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Rho   float64 `yaml:"rho"`
	Sigma float64 `yaml:"sigma"`
}

// Validate checks the parameters are in their economic range
func (bm BrockMirman) Validate() error {
	if !(bm.Alpha > 0 && bm.Alpha < 1) {
		return fmt.Errorf("alpha must be in (0, 1), got %g", bm.Alpha)
	}
	if !(bm.Beta > 0 && bm.Beta < 1) {
		return fmt.Errorf("beta must be in (0, 1), got %g", bm.Beta)
	}
	if !(math.Abs(bm.Rho) < 1) {
		return fmt.Errorf("rho must be in (-1, 1), got %g", bm.Rho)
	}
	if bm.Sigma < 0 {
		return fmt.Errorf("sigma must be >= 0, got %g", bm.Sigma)
	}
	return nil
}

// SteadyState returns Kbar = (alpha beta)^(1/(1-alpha))
func (bm BrockMirman) SteadyState() float64 {
	return math.Pow(bm.Alpha*bm.Beta, 1/(1-bm.Alpha))
}

// Model builds the log-linear policy of the model around its steady state.
// Z: nobs x 1 path of log productivity, the model starts at the steady state
func (bm BrockMirman) Model(Z *mat.Dense) (*linapp.Model, error) {
	if err := bm.Validate(); err != nil {
		return nil, err
	}
	if Z == nil {
		return nil, fmt.Errorf("shock path not provided")
	}
	if _, nz := Z.Dims(); nz != 1 {
		return nil, fmt.Errorf("brock-mirman has one shock, got %d", nz)
	}

	kbar := bm.SteadyState()
	return &linapp.Model{
		X0:    mat.NewDense(1, 1, []float64{kbar}),
		Z:     Z,
		XYbar: mat.NewDense(1, 1, []float64{kbar}),
		NN:    mat.NewDense(1, 1, []float64{bm.Rho}),
		// log k' - log kbar = alpha (log k - log kbar) + z'
		PP: mat.NewDense(1, 1, []float64{bm.Alpha}),
		QQ: mat.NewDense(1, 1, []float64{1}),
		UU: mat.NewDense(1, 1, []float64{0}),
	}, nil
}

// ShockProcess returns the AR(1) law of motion of log productivity
func (bm BrockMirman) ShockProcess() *linapp.ShockProcess {
	sp := &linapp.ShockProcess{NN: mat.NewDense(1, 1, []float64{bm.Rho})}
	if bm.Sigma > 0 {
		sp.Sigma = mat.NewSymDense(1, []float64{bm.Sigma * bm.Sigma})
	}
	return sp
}

// Residual is the Euler equation of the model, param must be a BrockMirman.
// arg: [K'', K', K, z', z]
// Returns: beta alpha exp(z') K'^(alpha-1) c/c' - 1
func Residual(arg []float64, param any) ([]float64, error) {
	var bm BrockMirman
	switch p := param.(type) {
	case BrockMirman:
		bm = p
	case *BrockMirman:
		bm = *p
	default:
		return nil, fmt.Errorf("brock-mirman residual needs BrockMirman parameters, got %T", param)
	}
	if len(arg) != 5 {
		return nil, fmt.Errorf("brock-mirman residual needs 5 arguments, got %d", len(arg))
	}

	kpp, kp, k, zp, z := arg[0], arg[1], arg[2], arg[3], arg[4]

	c := math.Exp(z)*math.Pow(k, bm.Alpha) - kp
	cp := math.Exp(zp)*math.Pow(kp, bm.Alpha) - kpp
	if !(c > 0) || !(cp > 0) {
		return nil, fmt.Errorf("non-positive consumption (c=%g, c'=%g)", c, cp)
	}

	euler := bm.Beta*bm.Alpha*math.Exp(zp)*math.Pow(kp, bm.Alpha-1)*c/cp - 1
	return []float64{euler}, nil
}
