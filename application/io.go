// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JiaziChen111/CSL-unbalanced-growth/linapp"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// outputNames label the columns of the written panels
type outputNames struct {
	states, controls, shocks []string
}

func (n outputNames) equations() []string {
	eq := make([]string, 0, len(n.states)+len(n.controls))
	eq = append(eq, n.states...)
	return append(eq, n.controls...)
}

// writePanels writes every non-empty panel to dir/<prefix><name>.csv
func writePanels(dir, prefix string, panels []namedPanel) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, p := range panels {
		if p.data == nil || p.data.IsEmpty() {
			continue
		}
		path := filepath.Join(dir, prefix+p.name+".csv")
		if err := linapp.OutputPanelToCSV(path, p.data, p.cols); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("panel written", zap.String("path", path))
	}
	return nil
}

type namedPanel struct {
	name string
	data *mat.Dense
	cols []string
}

// writeSimulation writes X, Y, Z and, when computed, E
func writeSimulation(dir, prefix string, panel *linapp.Panel, Z *mat.Dense, names outputNames, withEuler bool) error {
	panels := []namedPanel{
		{"X", panel.X, names.states},
		{"Y", panel.Y, names.controls},
		{"Z", Z, names.shocks},
	}
	if withEuler {
		panels = append(panels, namedPanel{"E", panel.E, names.equations()})
	}
	return writePanels(dir, prefix, panels)
}

// writeMonteCarlo writes the mean and the band of every simulated panel
func writeMonteCarlo(dir string, res *linapp.MonteCarloResult, names outputNames) error {
	return writePanels(dir, "mc_", []namedPanel{
		{"mean_X", res.MeanX, names.states},
		{"lower_X", res.LowerX, names.states},
		{"upper_X", res.UpperX, names.states},
		{"mean_Y", res.MeanY, names.controls},
		{"lower_Y", res.LowerY, names.controls},
		{"upper_Y", res.UpperY, names.controls},
	})
}

// printShockProcess prints a fitted process as a shocks block for a model file
func printShockProcess(w io.Writer, sp *linapp.ShockProcess, names []string) error {
	block := struct {
		Shocks ShocksFile `yaml:"shocks"`
	}{
		Shocks: ShocksFile{
			Names: names,
			NN:    rowsOf(sp.NN),
			Sigma: rowsOf(sp.Sigma),
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(block); err != nil {
		return fmt.Errorf("encode shock process: %w", err)
	}
	return enc.Close()
}
