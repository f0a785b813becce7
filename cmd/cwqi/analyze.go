package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/spf13/cobra"
)

var inputFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Classify and score the rows of one sample",
	Long: `Classify and score the rows of one sample.

The file format follows its extension (.json, .yaml, .yml, .csv) unless --format is
given. Use - to read from standard input. JSON and YAML accept either a bare list of
rows or an object with a "rows" list. CSV needs a header naming the row columns,
for example parameter_name,parameter_type,result_numeric,mac_value,compliance_status.

EXAMPLES:

  cwqi analyze sample-2024-0117.json
  cwqi analyze --nse-divisor failed_tests export.csv
  lims-export 2024-0117 | cwqi analyze --format yaml --json -`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&inputFormat, "format", "f", "", "Input format (json|yaml|csv); detected from the extension when empty")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	settings, err := cfg.EngineSettings()
	if err != nil {
		return err
	}

	rows, err := loadRowsFile(args[0], inputFormat)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d rows from %s", len(rows), args[0])

	analysis := cwqi.NewEngine(settings).Analyze(rows)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	fmt.Fprint(os.Stdout, renderAnalysis(analysis))
	return nil
}
