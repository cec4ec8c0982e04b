// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates inputs whose shapes do not agree with each other.
	ErrDimensionMismatch = errors.New("linapp: dimension mismatch")

	// ErrMissingControls indicates that Y0, RR, SS and VV were not given together,
	// or were given for a model without control variables.
	ErrMissingControls = errors.New("linapp: control inputs must be given together with ny > 0")

	// ErrLogDomain indicates a non-positive level under log deviations.
	ErrLogDomain = errors.New("linapp: log deviation of a non-positive level")

	// ErrNonFinite indicates a NaN or Inf produced by a transform.
	ErrNonFinite = errors.New("linapp: non-finite value")

	// ErrMissingResidual indicates Euler errors were requested without a residual function.
	ErrMissingResidual = errors.New("linapp: euler errors requested without a residual function")

	// ErrResidualLength indicates a residual vector that is not nx+ny long.
	ErrResidualLength = errors.New("linapp: residual function returned the wrong number of equations")
)

// PeriodError wraps a failure of the step rule or the residual function with
// the period (1-based) it happened in. Node is -1 outside the Euler evaluator.
type PeriodError struct {
	Period int
	Node   int
	Err    error
}

func (e *PeriodError) Error() string {
	if e.Node < 0 {
		return fmt.Sprintf("period %d: %v", e.Period, e.Err)
	}
	return fmt.Sprintf("period %d, node %d: %v", e.Period, e.Node, e.Err)
}

func (e *PeriodError) Unwrap() error {
	return e.Err
}
