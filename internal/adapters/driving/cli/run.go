package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the Drive folder and relay files until interrupted",
	RunE:  runRelay,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRelay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay, store, err := buildRelay(ctx, cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	// The relay never closes its event channel, so the consumer keys off
	// the context instead of the channel.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-relay.Events():
				printEvent(cmd, ev)
			case <-ctx.Done():
				return
			}
		}
	}()

	err = relay.Run(ctx)
	<-done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printEvent(cmd *cobra.Command, ev domain.Event) {
	switch ev.Kind {
	case domain.EventFileRelayed, domain.EventFileFailed:
		cmd.Printf("%s  %-14s %s  %s\n",
			ev.Time.Format("15:04:05"), ev.Kind, ev.FileName, ev.Message)
	default:
		cmd.Printf("%s  %-14s %s\n",
			ev.Time.Format("15:04:05"), ev.Kind, ev.Message)
	}
}
