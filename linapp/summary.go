// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SummarizeEuler computes per equation statistics of an Euler residual panel.
// The last row is skipped since no expectation is formed for the final period.
// Returns: one EulerSummary per column of E, nil if E has fewer than two rows
func SummarizeEuler(E *mat.Dense) []EulerSummary {
	if E == nil || E.IsEmpty() {
		return nil
	}
	rows, cols := E.Dims()
	if rows < 2 {
		return nil
	}

	out := make([]EulerSummary, cols)
	abs := make([]float64, rows-1)
	sq := make([]float64, rows-1)

	for j := 0; j < cols; j++ {
		for t := 0; t < rows-1; t++ {
			v := E.At(t, j)
			abs[t] = math.Abs(v)
			sq[t] = v * v
		}
		meanAbs := stat.Mean(abs, nil)
		out[j] = EulerSummary{
			Equation:     j,
			MeanAbs:      meanAbs,
			MaxAbs:       floats.Max(abs),
			RMSE:         math.Sqrt(stat.Mean(sq, nil)),
			Log10MeanAbs: math.Log10(meanAbs),
		}
	}
	return out
}

// averageSummaries averages Euler summaries equation by equation.
func averageSummaries(reps [][]EulerSummary) []EulerSummary {
	if len(reps) == 0 || len(reps[0]) == 0 {
		return nil
	}
	n := float64(len(reps))
	out := make([]EulerSummary, len(reps[0]))
	for j := range out {
		out[j].Equation = j
		for _, rep := range reps {
			out[j].MeanAbs += rep[j].MeanAbs / n
			out[j].RMSE += rep[j].RMSE / n
			out[j].MaxAbs = math.Max(out[j].MaxAbs, rep[j].MaxAbs)
		}
		out[j].Log10MeanAbs = math.Log10(out[j].MeanAbs)
	}
	return out
}
