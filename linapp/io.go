// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package linapp

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// LoadCSVToPanel reads a CSV file whose first row names the columns and whose
// remaining rows are periods.
// Returns: T x K data and the K column names
func LoadCSVToPanel(path string) (*mat.Dense, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll() // every row must have as many fields as the header
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%s: need a header and at least one data row", path)
	}

	names, rows := records[0], records[1:]
	panel := mat.NewDense(len(rows), len(names), nil)
	for t, rec := range rows {
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				// line t+2: header plus 1-based rows
				return nil, nil, fmt.Errorf("%s line %d, column %s: %w", path, t+2, names[j], err)
			}
			panel.Set(t, j, v)
		}
	}
	return panel, names, nil
}

// OutputPanelToCSV writes a panel (rows = periods) to CSV with a Period column first.
// Columns are named after varNames when the count matches, Var1, Var2, ... otherwise.
func OutputPanelToCSV(path string, panel *mat.Dense, varNames []string) error {
	if panel == nil || panel.IsEmpty() {
		return fmt.Errorf("nothing to write to %s", path)
	}
	rows, cols := panel.Dims()

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Initialize a new CSV writer
	writer := csv.NewWriter(file)

	// Write header
	header := make([]string, cols+1)
	header[0] = "Period"
	for j := 0; j < cols; j++ {
		if len(varNames) == cols {
			header[j+1] = varNames[j]
		} else {
			header[j+1] = fmt.Sprintf("Var%d", j+1)
		}
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	// Write data rows
	for i := 0; i < rows; i++ {
		record := make([]string, cols+1)
		record[0] = strconv.Itoa(i + 1)
		for j := 0; j < cols; j++ {
			record[j+1] = strconv.FormatFloat(panel.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Helper function to print a panel with a header of variable names
func PrintPanel(w io.Writer, title string, panel *mat.Dense, varNames []string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
	if panel == nil || panel.IsEmpty() {
		fmt.Fprintln(w, "(empty)")
		return
	}
	rows, cols := panel.Dims()

	// Print header
	fmt.Fprintf(w, "t\t")
	for j := 0; j < cols; j++ {
		name := fmt.Sprintf("Var%d", j+1)
		if len(varNames) == cols {
			name = varNames[j]
		}
		fmt.Fprintf(w, "%14s", name)
	}
	fmt.Fprintln(w)

	// Print rows
	for t := 0; t < rows; t++ {
		fmt.Fprintf(w, "%d\t", t+1)
		for j := 0; j < cols; j++ {
			fmt.Fprintf(w, "%14.6f", panel.At(t, j))
		}
		fmt.Fprintln(w)
	}
}

// PrintEulerSummary prints the Euler error statistics as a table
func PrintEulerSummary(w io.Writer, summary []EulerSummary, eqNames []string) {
	fmt.Fprintln(w, "\n=== Euler Errors ===")
	if len(summary) == 0 {
		fmt.Fprintln(w, "(not computed)")
		return
	}

	fmt.Fprintf(w, "%-20s | %12s | %12s | %12s | %8s\n", "Equation", "Mean |e|", "Max |e|", "RMSE", "log10")
	fmt.Fprintln(w, "------------------------------------------------------------------------------")
	for _, s := range summary {
		name := fmt.Sprintf("Eq%d", s.Equation+1)
		if s.Equation < len(eqNames) {
			name = eqNames[s.Equation]
		}
		fmt.Fprintf(w, "%-20s | %12.4e | %12.4e | %12.4e | %8.3f\n",
			name, s.MeanAbs, s.MaxAbs, s.RMSE, s.Log10MeanAbs)
	}
	fmt.Fprintln(w)
}

// Summary prints the shape of the simulated panel and its first and last rows
func (p *Panel) Summary(w io.Writer) {
	if p == nil || p.X == nil {
		fmt.Fprintln(w, "panel is nil")
		return
	}
	fmt.Fprintln(w, "         Simulated Panel Summary      ")

	nobs, nx := p.X.Dims()
	ny := 0
	if p.Y != nil && !p.Y.IsEmpty() {
		_, ny = p.Y.Dims()
	}

	fmt.Fprintf(w, "Periods (nobs):          %d\n", nobs)
	fmt.Fprintf(w, "State variables (nx):    %d\n", nx)
	fmt.Fprintf(w, "Control variables (ny):  %d\n", ny)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "First period X:")
	fmt.Fprintf(w, "%v\n", mat.Formatted(p.X.Slice(0, 1, 0, nx), mat.Prefix("  ")))
	fmt.Fprintln(w, "Last period X:")
	fmt.Fprintf(w, "%v\n", mat.Formatted(p.X.Slice(nobs-1, nobs, 0, nx), mat.Prefix("  ")))
	if ny > 0 {
		fmt.Fprintln(w, "First period Y:")
		fmt.Fprintf(w, "%v\n", mat.Formatted(p.Y.Slice(0, 1, 0, ny), mat.Prefix("  ")))
		fmt.Fprintln(w, "Last period Y:")
		fmt.Fprintf(w, "%v\n", mat.Formatted(p.Y.Slice(nobs-1, nobs, 0, ny), mat.Prefix("  ")))
	}

	fmt.Fprintln(w, "=======================================")
}
