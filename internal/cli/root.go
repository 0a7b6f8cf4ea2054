package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/config"
)

var (
	// Global flags
	cfgFile string
	apiURL  string
	envFile string
	jsonOut bool
	verbose bool

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cancerform",
	Short: "Breast cancer tumor measurement form",
	Long: `Cancerform collects the 30 tumor measurement features of a breast mass,
submits them to a classification service and shows the predicted
diagnosis (malignant or benign) with its confidence.

The form runs in the terminal (cancerform form) or in a browser
(cancerform serve).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "classification service base URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading configuration")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// IsJSON returns whether JSON output is enabled
func IsJSON() bool {
	return jsonOut
}

// IsVerbose returns whether verbose output is enabled
func IsVerbose() bool {
	return verbose
}
