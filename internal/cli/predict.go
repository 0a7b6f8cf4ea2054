package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/features"
	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/predictor"
)

var predictSample bool

var predictCmd = &cobra.Command{
	Use:   "predict [file]",
	Short: "Submit feature values and print the prediction",
	Long: `Read a JSON object mapping feature names to values and submit it for
classification. The file format is the one written by export; values may
be strings or numbers. Use "-" to read from stdin.

Examples:
  cancerform predict breast_cancer_data.json
  cancerform predict --sample
  cancerform predict --sample --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().BoolVar(&predictSample, "sample", false, "submit the built-in sample patient")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	if predictSample == (len(args) == 1) {
		return errors.New("provide either a file or --sample")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer := commandLogger(cfg)
	defer closer.Close()

	store := openHistory(cfg, log)

	f, err := initForm(cmd.Context(), newPredictor(cfg), store, log)
	if err != nil {
		return err
	}

	if predictSample {
		f.LoadSample()
	} else {
		set, err := readFeatureFile(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		if err := f.Fill(set); err != nil {
			return err
		}
	}

	result, err := f.Submit(cmd.Context())
	if err != nil {
		if errors.Is(err, form.ErrNotReady) {
			return errors.New(f.State().Error)
		}
		return err
	}

	if store != nil {
		if err := store.Save(); err != nil {
			log.Warn("failed to save history", "error", err)
		}
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(out, result)
	return nil
}

func readFeatureFile(stdin io.Reader, path string) (features.Set, error) {
	if path == "-" {
		return features.ReadJSON(stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature file: %w", err)
	}
	defer file.Close()

	return features.ReadJSON(file)
}

func printResult(w io.Writer, r *predictor.Result) {
	fmt.Fprintf(w, "=== %s ===\n", r.Title())
	fmt.Fprintf(w, "Confidence: %s%%\n", formatFloat(r.Confidence))
	fmt.Fprintf(w, "  Malignant: %s%%\n", formatFloat(r.Probabilities.Malignant))
	fmt.Fprintf(w, "  Benign:    %s%%\n", formatFloat(r.Probabilities.Benign))
	fmt.Fprintf(w, "\n%s\n", form.Disclaimer)
}

// formatFloat prints v as received, without rounding.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
