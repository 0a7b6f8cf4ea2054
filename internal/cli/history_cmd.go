package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/logger"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past predictions",
	Long:  `List recorded predictions, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := openHistory(cfg, logger.Discard())
	if store == nil {
		return errors.New("history is disabled in configuration")
	}

	entries := store.List(historyLimit)

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No predictions recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-20s │ %-9s │ %10s │ %s\n", "Time", "Class", "Confidence", "ID")
	for _, e := range entries {
		fmt.Fprintf(out, "%-20s │ %-9s │ %9s%% │ %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Result.Title(),
			formatFloat(e.Result.Confidence),
			e.ID,
		)
	}
	fmt.Fprintf(out, "\nShowing %d of %d\n", len(entries), store.Len())
	return nil
}
