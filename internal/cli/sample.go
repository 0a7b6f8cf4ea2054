package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/features"
)

var sampleOutput string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the built-in sample patient as JSON",
	Long: `Write the sample patient in the export format. The output can be
edited and passed to predict.

Examples:
  cancerform sample > patient.json
  cancerform sample -o breast_cancer_data.json`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	set := features.Sample()

	if sampleOutput == "" {
		return set.WriteJSON(cmd.OutOrStdout())
	}

	file, err := os.Create(sampleOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", sampleOutput, err)
	}
	if err := set.WriteJSON(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
