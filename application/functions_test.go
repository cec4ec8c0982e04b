// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/JiaziChen111/CSL-unbalanced-growth/linapp"
	"github.com/JiaziChen111/CSL-unbalanced-growth/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const controlModelYAML = `
nobs: 12
seed: 7
state_names: [k, a]
control_names: [c]
steady_state: [1.0, 2.0, 0.5]
x0: [1.05, 2.0]
pp:
  - [0.8, 0.1]
  - [0.0, 0.5]
qq:
  - [0.2]
  - [-0.1]
controls:
  rr:
    - [0.3, 0.2]
  ss:
    - [0.5]
shocks:
  names: [z]
  nn:
    - [0.9]
  sigma:
    - [0.0001]
`

const brockMirmanYAML = `
nobs: 30
seed: 11
log_x: true
workers: 2
state_names: [K]
steady_state: [0.19614]
pp:
  - [0.36]
qq:
  - [1.0]
shocks:
  names: [z]
  nn:
    - [0.9]
  sigma:
    - [0.0004]
euler:
  nodes: 3
  brock_mirman:
    alpha: 0.36
    beta: 0.98
    rho: 0.9
    sigma: 0.02
`

// writeFile writes content to dir/name and returns the path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// resetGlobals points the command globals at a temp dir for one test
func resetGlobals(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	logger = zap.NewNop()
	outDir = filepath.Join(dir, "out")
	workers = 0
	seed = 0
	t.Cleanup(func() {
		configPath = ""
		shocksInput = ""
		outDir = ""
		workers = 0
		seed = 0
	})
	return dir
}

func TestLoadModelFileDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.yaml", "pp: [[0.5]]\n")

	mf, err := LoadModelFile(path)
	require.NoError(t, err)

	assert.Equal(t, 100, mf.Nobs)
	require.NotNil(t, mf.LogX)
	assert.True(t, *mf.LogX)
	assert.Equal(t, 1, mf.Workers)
	assert.Equal(t, "output", mf.Output.Dir)
	assert.Nil(t, mf.Euler)

	path = writeFile(t, dir, "level.yaml", "log_x: false\neuler:\n  brock_mirman: {alpha: 0.3}\n")
	mf, err = LoadModelFile(path)
	require.NoError(t, err)
	assert.False(t, *mf.LogX)
	assert.Equal(t, 5, mf.Euler.Nodes)
	assert.Equal(t, 0.3, mf.Euler.BrockMirman.Alpha)
}

func TestLoadModelFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModelFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, dir, "bad.yaml", "pp: [[0.5\n")
	_, err = LoadModelFile(path)
	assert.Error(t, err)
}

func TestBuildModelWithControls(t *testing.T) {
	dir := t.TempDir()
	mf, err := LoadModelFile(writeFile(t, dir, "model.yaml", controlModelYAML))
	require.NoError(t, err)

	m, process, err := mf.BuildModel()
	require.NoError(t, err)

	nobs, nz := m.Z.Dims()
	assert.Equal(t, 12, nobs)
	assert.Equal(t, 1, nz)
	assert.Equal(t, []float64{1.05, 2}, mat.Row(nil, 0, m.X0))
	assert.Equal(t, []float64{0, 0}, mat.Col(nil, 0, m.UU))

	require.NotNil(t, m.Controls)
	assert.Equal(t, 0.5, m.Controls.Y0.At(0, 0))
	assert.Equal(t, 0.0, m.Controls.VV.At(0, 0))
	assert.Equal(t, 0.0001, process.Sigma.At(0, 0))

	// Same seed, same path
	again, _, err := mf.BuildModel()
	require.NoError(t, err)
	assert.True(t, mat.Equal(m.Z, again.Z))

	panel, err := linapp.Simulate(m, linapp.DefaultOptions())
	require.NoError(t, err)
	_, ny := panel.Y.Dims()
	assert.Equal(t, 1, ny)
}

func TestBuildModelShockPathFromCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "z.csv", "z\n0\n0.05\n-0.02\n")
	content := `
log_x: false
steady_state: [1.0]
pp: [[0.9]]
qq: [[0.1]]
shocks:
  nn: [[0.0]]
  path: ` + csvPath + "\n"

	mf, err := LoadModelFile(writeFile(t, dir, "model.yaml", content))
	require.NoError(t, err)

	m, _, err := mf.BuildModel()
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, mf.Shocks.Names)

	opts, err := mf.SimOptions(nil)
	require.NoError(t, err)
	panel, err := linapp.Simulate(m, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.005, 1.0025}, mat.Col(nil, 0, panel.X), 1e-12)
}

func TestBuildModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no pp", "steady_state: [1]\nshocks: {nn: [[0.5]]}\n"},
		{"short steady state", "pp: [[0.5, 0], [0, 0.5]]\nsteady_state: [1]\nshocks: {nn: [[0.5]]}\n"},
		{"no nn", "pp: [[0.5]]\nqq: [[1]]\nsteady_state: [1]\n"},
		{"ragged pp", "pp: [[0.5, 0], [0.5]]\nqq: [[1], [1]]\nsteady_state: [1, 1]\nshocks: {nn: [[0.5]]}\n"},
		{"controls without control steady state", "pp: [[0.5]]\nqq: [[1]]\nsteady_state: [1]\ncontrols: {rr: [[1]], ss: [[1]]}\nshocks: {nn: [[0.5]]}\n"},
		{"missing shock file", "pp: [[0.5]]\nqq: [[1]]\nsteady_state: [1]\nshocks: {nn: [[0.5]], path: /nonexistent/z.csv}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, err := LoadModelFile(writeFile(t, t.TempDir(), "model.yaml", tt.content))
			require.NoError(t, err)
			_, _, err = mf.BuildModel()
			assert.Error(t, err)
		})
	}
}

func TestSimOptionsEuler(t *testing.T) {
	dir := t.TempDir()
	mf, err := LoadModelFile(writeFile(t, dir, "model.yaml", brockMirmanYAML))
	require.NoError(t, err)

	_, process, err := mf.BuildModel()
	require.NoError(t, err)

	opts, err := mf.SimOptions(process)
	require.NoError(t, err)
	require.NotNil(t, opts.Euler)
	assert.Equal(t, 2, opts.Workers)
	assert.Len(t, opts.Euler.Phi, 3)
	assert.Equal(t, &models.BrockMirman{Alpha: 0.36, Beta: 0.98, Rho: 0.9, Sigma: 0.02}, opts.Euler.Param)

	// An euler block needs a model and a covariance
	mf.Euler.BrockMirman = nil
	_, err = mf.SimOptions(process)
	assert.ErrorIs(t, err, linapp.ErrMissingResidual)

	mf.Euler.BrockMirman = &models.BrockMirman{Alpha: 0.36, Beta: 0.98}
	_, err = mf.SimOptions(&linapp.ShockProcess{NN: mat.NewDense(1, 1, nil)})
	assert.Error(t, err)
}

func TestRunSimulate(t *testing.T) {
	dir := resetGlobals(t)
	configPath = writeFile(t, dir, "model.yaml", brockMirmanYAML)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runSimulate(cmd, nil))
	assert.Contains(t, out.String(), "Simulated Panel Summary")
	assert.Contains(t, out.String(), "Euler Errors")

	for _, name := range []string{"X.csv", "Z.csv", "E.csv"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "Y.csv"))

	X, header, err := linapp.LoadCSVToPanel(filepath.Join(outDir, "X.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Period", "K"}, header)
	rows, _ := X.Dims()
	assert.Equal(t, 30, rows)
}

func TestRunSimulateWithControls(t *testing.T) {
	dir := resetGlobals(t)
	configPath = writeFile(t, dir, "model.yaml", controlModelYAML)

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, runSimulate(cmd, nil))

	_, header, err := linapp.LoadCSVToPanel(filepath.Join(outDir, "Y.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Period", "c"}, header)
	assert.NoFileExists(t, filepath.Join(outDir, "E.csv"))
}

func TestRunIRF(t *testing.T) {
	dir := resetGlobals(t)
	configPath = writeFile(t, dir, "model.yaml", controlModelYAML)
	irfHorizon, irfShock = 6, 0

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runIRF(cmd, nil))
	assert.Contains(t, out.String(), "IRF of X to shock 0")

	X, _, err := linapp.LoadCSVToPanel(filepath.Join(outDir, "irf_X.csv"))
	require.NoError(t, err)
	rows, _ := X.Dims()
	assert.Equal(t, 7, rows)

	// Impact of a one standard deviation shock (0.01) on k: exp(0.2 * 0.01)
	assert.InDelta(t, math.Exp(0.002), X.At(1, 1), 1e-12)
}

func TestRunMonteCarlo(t *testing.T) {
	dir := resetGlobals(t)
	configPath = writeFile(t, dir, "model.yaml", brockMirmanYAML)
	mcReplications, mcAlpha = 10, 0.1

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runMonteCarlo(cmd, nil))
	assert.Contains(t, out.String(), "10 replications, 90% bands")

	for _, name := range []string{"mc_mean_X.csv", "mc_lower_X.csv", "mc_upper_X.csv"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "mc_mean_Y.csv"))
}

func TestRunFitShocks(t *testing.T) {
	dir := resetGlobals(t)

	// Noiseless AR(1) with rho = 0.5
	csv := "z\n1\n0.5\n0.25\n0.125\n0.0625\n0.03125\n"
	shocksInput = writeFile(t, dir, "z.csv", csv)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runFitShocks(cmd, nil))

	var block struct {
		Shocks ShocksFile `yaml:"shocks"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &block))
	assert.Equal(t, []string{"z"}, block.Shocks.Names)
	require.Len(t, block.Shocks.NN, 1)
	assert.InDelta(t, 0.5, block.Shocks.NN[0][0], 1e-12)
	assert.InDelta(t, 0, block.Shocks.Sigma[0][0], 1e-20)
}

func TestRunBrockMirman(t *testing.T) {
	resetGlobals(t)
	bmParams = models.BrockMirman{Alpha: 0.36, Beta: 0.98, Rho: 0.9, Sigma: 0.02}
	bmNobs, bmNodes, bmEuler = 40, 3, true
	seed = 5

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runBrockMirman(cmd, nil))
	assert.Contains(t, out.String(), "Brock-Mirman")
	assert.Contains(t, out.String(), "Euler Errors")
	assert.FileExists(t, filepath.Join(outDir, "E.csv"))

	// Euler errors need noise
	bmParams.Sigma = 0
	assert.Error(t, runBrockMirman(cmd, nil))
}

func TestRunWithoutConfig(t *testing.T) {
	resetGlobals(t)
	assert.Error(t, runSimulate(&cobra.Command{}, nil))
}

func TestRootCommand(t *testing.T) {
	dir := resetGlobals(t)
	path := writeFile(t, dir, "z.csv", "z\n1\n0.5\n0.25\n0.125\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"fit-shocks", "--input", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		logger = zap.NewNop()
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "shocks:")
	assert.Contains(t, out.String(), "nn:")
}

func TestDenseFromRows(t *testing.T) {
	d, err := denseFromRows("pp", [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, rowsOf(d))

	_, err = denseFromRows("pp", nil)
	assert.Error(t, err)
	_, err = denseFromRows("pp", [][]float64{{1, 2}, {3}})
	assert.Error(t, err)

	sym, err := symFromRows("sigma", [][]float64{{1, 0.5}, {0.5, 2}})
	require.NoError(t, err)
	assert.Equal(t, 0.5, sym.At(1, 0))
	_, err = symFromRows("sigma", [][]float64{{1, 0.5}})
	assert.Error(t, err)
}
