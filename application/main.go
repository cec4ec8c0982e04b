// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Simulating Log-Linearized Dynamic Economic Models
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"os"

	"github.com/JiaziChen111/CSL-unbalanced-growth/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	outDir     string
	workers    int
	seed       uint64

	// irf flags
	irfHorizon int
	irfShock   int

	// montecarlo flags
	mcReplications int
	mcAlpha        float64

	// fit-shocks flags
	shocksInput string

	// brock-mirman flags
	bmParams models.BrockMirman
	bmNobs   int
	bmNodes  int
	bmEuler  bool

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "linsim",
	Short: "Simulate models solved by linear or log-linear approximation",
	Long: `linsim simulates a model from the policy coefficients of its linearized
solution around the steady state.

A model file (YAML) gives the steady state, the state rule PP, QQ, UU, the
optional control rule RR, SS, VV and the shock process NN, Sigma. Results are
written as CSV files, one row per period.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Model file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides output.dir)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Concurrent workers (overrides workers)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed (overrides seed)")

	irfCmd.Flags().IntVar(&irfHorizon, "horizon", 20, "Periods after the impact")
	irfCmd.Flags().IntVar(&irfShock, "shock", 0, "Index of the shock to move (0-based)")

	monteCarloCmd.Flags().IntVar(&mcReplications, "reps", 500, "Number of simulated shock histories")
	monteCarloCmd.Flags().Float64Var(&mcAlpha, "alpha", 0.05, "Band level (0.05 for a 95% band)")

	fitShocksCmd.Flags().StringVarP(&shocksInput, "input", "i", "", "CSV file with the shock history (header row, one column per shock)")
	_ = fitShocksCmd.MarkFlagRequired("input")

	brockMirmanCmd.Flags().Float64Var(&bmParams.Alpha, "alpha", 0.36, "Capital share")
	brockMirmanCmd.Flags().Float64Var(&bmParams.Beta, "beta", 0.98, "Discount factor")
	brockMirmanCmd.Flags().Float64Var(&bmParams.Rho, "rho", 0.9, "Persistence of log productivity")
	brockMirmanCmd.Flags().Float64Var(&bmParams.Sigma, "sigma", 0.02, "Standard deviation of the productivity innovation")
	brockMirmanCmd.Flags().IntVar(&bmNobs, "nobs", 200, "Number of periods")
	brockMirmanCmd.Flags().IntVar(&bmNodes, "nodes", 5, "Gauss-Hermite nodes for the Euler errors")
	brockMirmanCmd.Flags().BoolVar(&bmEuler, "euler", true, "Compute Euler errors")

	rootCmd.AddCommand(
		simulateCmd,
		irfCmd,
		monteCarloCmd,
		fitShocksCmd,
		brockMirmanCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
