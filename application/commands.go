// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"

	"github.com/JiaziChen111/CSL-unbalanced-growth/linapp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a model over its shock path",
	Long: `Simulates the model and writes X.csv, Y.csv (when the model has controls),
Z.csv and, when the model file has an euler block, E.csv.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var irfCmd = &cobra.Command{
	Use:   "irf",
	Short: "Impulse response to a one standard deviation shock",
	Args:  cobra.NoArgs,
	RunE:  runIRF,
}

var monteCarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Mean and bands over many simulated shock histories",
	Args:  cobra.NoArgs,
	RunE:  runMonteCarlo,
}

var fitShocksCmd = &cobra.Command{
	Use:   "fit-shocks",
	Short: "Fit NN and Sigma to an observed shock history",
	Long: `Fits z_t = NN z_{t-1} + e_t by OLS and prints the result as a shocks block
that can be pasted into a model file.`,
	Args: cobra.NoArgs,
	RunE: runFitShocks,
}

var brockMirmanCmd = &cobra.Command{
	Use:   "brock-mirman",
	Short: "Simulate the Brock-Mirman growth model and its Euler errors",
	Args:  cobra.NoArgs,
	RunE:  runBrockMirman,
}

// loadModel reads the --config model file and applies the global flag overrides
func loadModel() (*ModelFile, error) {
	if configPath == "" {
		return nil, fmt.Errorf("a model file is required (--config)")
	}
	mf, err := LoadModelFile(configPath)
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		mf.Output.Dir = outDir
	}
	if workers > 0 {
		mf.Workers = workers
	}
	if seed > 0 {
		mf.Seed = seed
	}
	logger.Debug("model file loaded", zap.String("path", configPath), zap.Int("nobs", mf.Nobs), zap.Bool("logX", *mf.LogX))
	return mf, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	mf, err := loadModel()
	if err != nil {
		return err
	}
	m, process, err := mf.BuildModel()
	if err != nil {
		return err
	}
	opts, err := mf.SimOptions(process)
	if err != nil {
		return err
	}

	panel, err := linapp.Simulate(m, opts)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	out := cmd.OutOrStdout()
	panel.Summary(out)
	names := mf.names()
	if opts.Euler != nil {
		linapp.PrintEulerSummary(out, linapp.SummarizeEuler(panel.E), names.equations())
	}

	return writeSimulation(mf.Output.Dir, "", panel, m.Z, names, opts.Euler != nil)
}

func runIRF(cmd *cobra.Command, args []string) error {
	mf, err := loadModel()
	if err != nil {
		return err
	}
	m, process, err := mf.BuildModel()
	if err != nil {
		return err
	}
	opts, err := mf.SimOptions(process)
	if err != nil {
		return err
	}

	panel, err := m.ImpulseResponse(irfHorizon, irfShock, process.Sigma, opts)
	if err != nil {
		return fmt.Errorf("impulse response: %w", err)
	}

	names := mf.names()
	out := cmd.OutOrStdout()
	linapp.PrintPanel(out, fmt.Sprintf("IRF of X to shock %d", irfShock), panel.X, names.states)
	if !panel.Y.IsEmpty() {
		linapp.PrintPanel(out, fmt.Sprintf("IRF of Y to shock %d", irfShock), panel.Y, names.controls)
	}

	return writeSimulation(mf.Output.Dir, "irf_", panel, nil, names, false)
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	mf, err := loadModel()
	if err != nil {
		return err
	}
	m, process, err := mf.BuildModel()
	if err != nil {
		return err
	}
	opts, err := mf.SimOptions(process)
	if err != nil {
		return err
	}

	res, err := m.MonteCarlo(process, linapp.MonteCarloOptions{
		NReplications: mcReplications,
		Alpha:         mcAlpha,
		Seed:          mf.Seed,
		Workers:       mf.Workers,
	}, opts)
	if err != nil {
		return fmt.Errorf("monte carlo: %w", err)
	}

	names := mf.names()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Monte Carlo: %d replications, %.0f%% bands\n", res.NReplications, 100*(1-res.Alpha))
	linapp.PrintPanel(out, "Mean X", res.MeanX, names.states)
	if opts.Euler != nil {
		linapp.PrintEulerSummary(out, res.Euler, names.equations())
	}

	return writeMonteCarlo(mf.Output.Dir, res, names)
}

func runFitShocks(cmd *cobra.Command, args []string) error {
	Z, header, err := linapp.LoadCSVToPanel(shocksInput)
	if err != nil {
		return err
	}
	logger.Debug("fitting shock process", zap.String("path", shocksInput), zap.Strings("shocks", header))

	sp, err := linapp.FitShockProcess(Z)
	if err != nil {
		return fmt.Errorf("fit shocks: %w", err)
	}
	return printShockProcess(cmd.OutOrStdout(), sp, header)
}

func runBrockMirman(cmd *cobra.Command, args []string) error {
	m, _, opts, err := brockMirmanRun(bmParams, bmNobs, bmNodes, bmEuler, seed)
	if err != nil {
		return err
	}
	if workers > 0 {
		opts.Workers = workers
	}

	panel, err := linapp.Simulate(m, opts)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Brock-Mirman: alpha=%g beta=%g rho=%g sigma=%g, Kbar=%.6f\n",
		bmParams.Alpha, bmParams.Beta, bmParams.Rho, bmParams.Sigma, bmParams.SteadyState())
	panel.Summary(out)

	names := outputNames{states: []string{"K"}, shocks: []string{"z"}}
	if opts.Euler != nil {
		linapp.PrintEulerSummary(out, linapp.SummarizeEuler(panel.E), names.equations())
	}

	dir := outDir
	if dir == "" {
		dir = "output"
	}
	return writeSimulation(dir, "", panel, m.Z, names, opts.Euler != nil)
}
