// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"os"

	"github.com/JiaziChen111/CSL-unbalanced-growth/models"
	"gopkg.in/yaml.v3"
)

// ModelFile is the YAML description of a model and how to run it.
type ModelFile struct {
	// Number of simulated periods, ignored when the shock path comes from a file
	Nobs int `yaml:"nobs"`
	// Log deviations when true (the default), level deviations when false
	LogX *bool `yaml:"log_x"`
	// Seed for drawn shock paths and Monte Carlo, 0 = time-based
	Seed uint64 `yaml:"seed"`
	// Concurrent workers for Euler errors and Monte Carlo
	Workers int `yaml:"workers"`

	StateNames   []string `yaml:"state_names"`
	ControlNames []string `yaml:"control_names"`

	// Steady state of the states then the controls
	SteadyState []float64 `yaml:"steady_state"`
	// Initial state levels, the steady state when empty
	X0 []float64 `yaml:"x0"`

	PP [][]float64 `yaml:"pp"`
	QQ [][]float64 `yaml:"qq"`
	UU []float64   `yaml:"uu"`

	Controls *ControlsFile `yaml:"controls"`
	Shocks   ShocksFile    `yaml:"shocks"`
	Euler    *EulerFile    `yaml:"euler"`
	Output   OutputFile    `yaml:"output"`
}

// ControlsFile holds the control rule, present only for models with controls.
type ControlsFile struct {
	// Initial control levels, the steady state when empty
	Y0 []float64   `yaml:"y0"`
	RR [][]float64 `yaml:"rr"`
	SS [][]float64 `yaml:"ss"`
	VV []float64   `yaml:"vv"`
}

// ShocksFile describes the exogenous shocks.
type ShocksFile struct {
	Names []string    `yaml:"names,omitempty"`
	NN    [][]float64 `yaml:"nn"`
	// Innovation covariance, required for drawn paths, Euler nodes and Monte Carlo
	Sigma [][]float64 `yaml:"sigma,omitempty"`
	// CSV file with the shock path (header row, one column per shock)
	Path string `yaml:"path,omitempty"`
	// First row of drawn paths, zeros when empty
	Initial []float64 `yaml:"initial,omitempty"`
}

// EulerFile switches on the Euler errors.
type EulerFile struct {
	// Gauss-Hermite nodes per shock
	Nodes int `yaml:"nodes"`
	// Equilibrium conditions of the Brock-Mirman model
	BrockMirman *models.BrockMirman `yaml:"brock_mirman"`
}

// OutputFile says where results go.
type OutputFile struct {
	Dir string `yaml:"dir"`
}

// LoadModelFile reads a YAML model file and fills in the defaults.
func LoadModelFile(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file %s: %w", path, err)
	}

	var mf ModelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	mf.applyDefaults()
	return &mf, nil
}

// applyDefaults fills in everything the file left out
func (mf *ModelFile) applyDefaults() {
	if mf.Nobs <= 0 {
		mf.Nobs = 100
	}
	if mf.LogX == nil {
		logX := true
		mf.LogX = &logX
	}
	if mf.Workers <= 0 {
		mf.Workers = 1
	}
	if mf.Euler != nil && mf.Euler.Nodes <= 0 {
		mf.Euler.Nodes = 5
	}
	if mf.Output.Dir == "" {
		mf.Output.Dir = "output"
	}
}
