package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sigma-ops/sigma-relay/internal/adapters/driven/history/sqlite"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent relay cycles",
	RunE:  showHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10,
		"number of cycles to show")
	rootCmd.AddCommand(historyCmd)
}

func showHistory(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore("")
	if err != nil {
		return err
	}
	defer store.Close()

	cycles, err := store.RecentCycles(cmd.Context(), flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		cmd.Println("no cycles recorded yet")
		return nil
	}

	for _, c := range cycles {
		cmd.Printf("%s  %d uploaded, %d failed, %d skipped",
			c.StartedAt.Local().Format(time.DateTime), c.Uploaded, c.Failed, c.Skipped)
		if c.ErrorMessage != "" {
			cmd.Printf("  (%s)", c.ErrorMessage)
		}
		cmd.Println()
		if flagVerbose {
			for _, rec := range c.Files {
				cmd.Printf("    %-10s %s\n", rec.Status, rec.Name)
			}
		}
	}
	return nil
}
