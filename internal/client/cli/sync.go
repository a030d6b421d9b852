package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eranshir/scenic/internal/client/services"
)

// NewSyncCmd runs a full push-then-pull cycle.
func NewSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push local drafts, then pull remote changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Sync.Sync(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// NewPushCmd uploads unpublished local drafts without pulling.
func NewPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Publish unpublished local drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Sync.Push(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// NewPullCmd refreshes the local cache from the remote.
func NewPullCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull remote changes into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Sync.Pull(cmd.Context(), force)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "bypass the per-type rate limit")
	return cmd
}

func printReport(w io.Writer, report *services.Report) {
	for _, res := range report.Results {
		switch {
		case res.Skipped:
			fmt.Fprintf(w, "%-9s skipped (rate-limited)\n", res.Type)
		default:
			fmt.Fprintf(w, "%-9s pushed=%d pulled=%d errors=%d\n",
				res.Type, res.Pushed, res.Pulled, len(res.Errors))
		}
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.ID, e.Message)
		}
	}
}
