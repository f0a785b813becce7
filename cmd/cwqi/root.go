package main

import (
	"fmt"
	"os"

	"github.com/chrissnell/remotewater/internal/constants"
	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/pkg/config"
	"github.com/spf13/cobra"
)

var (
	configFile    string
	nseDivisor    string
	bromideAbsent string
	detection     string
	jsonOutput    bool
	debug         bool
)

var rootCmd = &cobra.Command{
	Use:   "cwqi",
	Short: "Score water quality samples with the Canadian Water Quality Index",
	Long: `cwqi classifies the parameter rows of one laboratory sample into health,
aesthetic and general categories, scores each category with the CCME water quality
index, and checks chloride and bromide for road salt contamination.

Rows are read from JSON, YAML or CSV exports of the sample_parameter_results view.`,
	Version:       constants.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(debug)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration whose engine section sets the scoring policies")
	rootCmd.PersistentFlags().StringVar(&nseDivisor, "nse-divisor", "", "Normalized sum of excursions divisor (one|failed_tests)")
	rootCmd.PersistentFlags().StringVar(&bromideAbsent, "bromide-absent", "", "Road salt policy when bromide is missing (cannot_assess|chloride_only)")
	rootCmd.PersistentFlags().StringVar(&detection, "detection-match", "", "How coliform display text is read (literal|exclude_negated)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Write JSON instead of the styled summary")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Turn on debugging output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(ratingsCmd)
}

// engineConfig resolves the engine section from --config and lets the flags override it.
func engineConfig() (*config.ConfigData, error) {
	cfg := &config.ConfigData{}
	if configFile != "" {
		loaded, err := config.NewYAMLProvider(configFile).LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if nseDivisor != "" {
		cfg.Engine.NSEDivisor = nseDivisor
	}
	if bromideAbsent != "" {
		cfg.Engine.BromideAbsentPolicy = bromideAbsent
	}
	if detection != "" {
		cfg.Engine.DetectionMatch = detection
	}
	return cfg, nil
}
