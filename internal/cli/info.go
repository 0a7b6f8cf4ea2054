package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the model description",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info, err := newPredictor(cfg).ModelInfo(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get model info: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Model:    %s\n", info.ModelType)
	fmt.Fprintf(out, "Features: %d\n", info.FeaturesCount)
	if len(info.Classes) > 0 {
		fmt.Fprintf(out, "Classes:  %s\n", strings.Join(info.Classes, ", "))
	}
	if info.Description != "" {
		fmt.Fprintf(out, "\n%s\n", info.Description)
	}
	return nil
}
