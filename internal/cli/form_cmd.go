package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/cli/tui"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill in the measurement form in the terminal",
	Long: `Launch an interactive terminal form with one input per feature.

Keys:
  tab / shift+tab / ↑ / ↓   move between fields
  ctrl+s                    submit for prediction
  ctrl+l                    load sample data
  ctrl+x                    clear all fields
  ctrl+e                    export values to breast_cancer_data.json
  esc / ctrl+c              quit

Logs are written to cancerform.log in the history data directory unless
logging.file is set.`,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the form, so logs always go to a file.
	if cfg.Logging.File == "" {
		if err := os.MkdirAll(cfg.History.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		cfg.Logging.File = filepath.Join(cfg.History.DataDir, "cancerform.log")
	}

	log, closer := newLogger(cfg, os.Stderr)
	defer closer.Close()

	store := openHistory(cfg, log)
	if store != nil {
		store.Start(cmd.Context())
		defer func() {
			if err := store.Stop(); err != nil {
				log.Error("failed to save history", "error", err)
			}
		}()
	}

	f := newForm(newPredictor(cfg), store, log)

	log.Info("form starting", "version", Version, "api", cfg.API.BaseURL)

	return tui.Run(cmd.Context(), tui.Config{
		Form:      f,
		ExportDir: cfg.Export.Dir,
		APIURL:    cfg.API.BaseURL,
	})
}
