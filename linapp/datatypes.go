// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

// Package linapp simulates models solved by a linear or log-linear
// approximation around a deterministic steady state. Given the policy
// coefficients of the approximate solution it builds the simulated state and
// control panels and, on request, the Euler equation residuals at every period.
package linapp

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ControlRule holds the control (jump variable) coefficients in deviation form:
// y_t = RR x_{t-1} + SS z_t + VV
type ControlRule struct {
	// ny x nx
	RR *mat.Dense
	// ny x nz
	SS *mat.Dense
	// ny x 1
	VV *mat.Dense
}

// Controls groups everything that only exists when the model has control
// variables. A nil *Controls means ny = 0.
type Controls struct {
	// Initial control levels (1 x ny)
	Y0 *mat.Dense
	ControlRule
}

// Model is the simulation input. Every matrix is treated as read-only.
type Model struct {
	// Initial state levels (1 x nx)
	X0 *mat.Dense
	// Exogenous shock path in levels (nobs x nz), row t is z_t
	Z *mat.Dense
	// Steady state levels of X then Y (1 x (nx+ny))
	XYbar *mat.Dense
	// Autoregressive coefficient of the shocks (nz x nz)
	NN *mat.Dense

	// State transition in deviation form: x_t = PP x_{t-1} + QQ z_t + UU
	PP *mat.Dense // nx x nx
	QQ *mat.Dense // nx x nz
	UU *mat.Dense // nx x 1

	// nil when the model has no control variables
	Controls *Controls
}

// Transition is what the one step rule gets to see: the state coefficients and,
// only when the model has controls, the control rule.
type Transition struct {
	PP, QQ, UU *mat.Dense
	Control    *ControlRule
}

// StepFunc advances the system one period in deviations. x is the current state
// deviation (nx), z is the next period shock level (nz). It returns the next
// state deviation and, when tr.Control is non-nil, the next control deviation.
type StepFunc func(x, z *mat.VecDense, tr *Transition) (xNext, yNext *mat.VecDense, err error)

// ResidualFunc evaluates the equilibrium conditions of the model. arg is laid
// out as [X(t+2), X(t+1), X(t), Z(t+2), Z(t+1)] in levels and the result must have
// one entry per equation (nx+ny).
type ResidualFunc func(arg []float64, param any) ([]float64, error)

// EulerSpec turns on the Euler error evaluation and carries what it needs.
type EulerSpec struct {
	// Shock nodes, one row per node (ne x nz)
	Eps *mat.Dense
	// Probability of each node (ne). Used as given, never renormalized.
	Phi []float64
	// Equilibrium residuals and their parameters
	Residual ResidualFunc
	Param    any
}

// Options control a simulation run.
type Options struct {
	// Deviations are log deviations when true, level deviations otherwise
	LogX bool
	// Euler errors are computed only when this is non-nil
	Euler *EulerSpec
	// One period rule, LinearStep when nil
	Step StepFunc
	// Number of periods evaluated concurrently by the Euler evaluator (<= 1 runs sequentially)
	Workers int
	// nil means no logging
	Logger *zap.Logger
}

// DefaultOptions returns log-linear deviations with Euler errors switched off.
func DefaultOptions() Options {
	return Options{
		LogX:    true,
		Workers: 1,
	}
}

// Panel holds the simulated levels.
type Panel struct {
	// nobs x nx
	X *mat.Dense
	// nobs x ny, the empty matrix when ny = 0
	Y *mat.Dense
	// nobs x (nx+ny) Euler residuals, all zero unless requested
	E *mat.Dense
}

// Options for Monte Carlo simulation
type MonteCarloOptions struct {
	// Number of simulated shock histories (e.g., 500–2000)
	NReplications int

	// Band level alpha (e.g., 0.05 for a 95% band)
	Alpha float64

	// RNG seed (if 0, time-based seed is used)
	Seed uint64

	// Concurrent replications, runtime.NumCPU() when <= 0
	Workers int
}

// MonteCarloResult stores pointwise means and bands over the replications.
type MonteCarloResult struct {
	NReplications int
	Alpha         float64

	// nobs x nx
	MeanX, LowerX, UpperX *mat.Dense
	// nobs x ny, empty when ny = 0
	MeanY, LowerY, UpperY *mat.Dense

	// Per equation Euler statistics averaged over replications, nil when Euler errors were off
	Euler []EulerSummary
}

// EulerSummary describes the Euler residuals of one equation.
type EulerSummary struct {
	Equation     int
	MeanAbs      float64
	MaxAbs       float64
	RMSE         float64
	Log10MeanAbs float64
}

// mcReplication holds one simulated panel and its Euler summary.
type mcReplication struct {
	X, Y  *mat.Dense
	Euler []EulerSummary
}
