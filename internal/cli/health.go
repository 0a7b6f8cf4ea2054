package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the classification service is up",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	h, err := newPredictor(cfg).Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("service at %s is unreachable: %w", cfg.API.BaseURL, err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(h)
	}

	fmt.Fprintf(out, "Service:      %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "Status:       %s\n", h.Status)
	fmt.Fprintf(out, "Model loaded: %v\n", h.ModelLoaded)

	if !h.ModelLoaded {
		return fmt.Errorf("model is not loaded")
	}
	return nil
}
