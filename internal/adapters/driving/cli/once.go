package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single relay cycle and exit",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	relay, store, err := buildRelay(ctx, cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	result, err := relay.RunOnce(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd, result)
	return nil
}

// printSummary prints the cycle outcome, one line per file plus a tally.
func printSummary(cmd *cobra.Command, result *domain.CycleResult) {
	for _, rec := range result.Files {
		if rec.ErrorMessage != "" {
			cmd.Printf("  %-10s %s (%s)\n", rec.Status, rec.Name, rec.ErrorMessage)
			continue
		}
		cmd.Printf("  %-10s %s\n", rec.Status, rec.Name)
	}
	cmd.Printf("cycle %s: %d uploaded, %d failed, %d skipped (%s)\n",
		result.ID, result.Uploaded, result.Failed, result.Skipped,
		result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond))
}
