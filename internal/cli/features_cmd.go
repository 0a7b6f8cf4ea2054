package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/features"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List the feature names expected by the service",
	Long:  `Fetch the ordered feature names from the classification service.`,
	RunE:  runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names, err := newPredictor(cfg).Features(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get features: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}

	for _, g := range features.GroupsFor(names) {
		fmt.Fprintf(out, "%s:\n", g.Title)
		for _, n := range g.Names {
			fmt.Fprintf(out, "  %s\n", n)
		}
	}
	fmt.Fprintf(out, "\nTotal: %d\n", len(names))
	return nil
}
