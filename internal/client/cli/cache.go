package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eranshir/scenic/internal/client/models"
)

// NewCacheCmd groups the media cache maintenance subcommands.
func NewCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the on-disk media cache",
	}
	cmd.AddCommand(
		newCacheFetchCmd(app),
		newCacheVerifyCmd(app),
		newCacheRepairCmd(app),
		newCacheClearCmd(app),
	)
	return cmd
}

func newCacheFetchCmd(app *App) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "fetch <media-id>",
		Short: "Ensure one media rendition is cached locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Cache.EnsureCached(cmd.Context(), args[0], models.MediaVariant(variant))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", string(models.VariantThumbnail), "thumbnail or full")
	return cmd
}

func newCacheVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report cache flags whose backing file is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			mismatches, err := app.Cache.VerifyConsistency(cmd.Context())
			if err != nil {
				return err
			}
			if len(mismatches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "cache consistent")
				return nil
			}
			for _, mm := range mismatches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): flag set, file missing\n", mm.MediaID, mm.Variant)
			}
			return fmt.Errorf("%d mismatches found; run 'scenic cache repair'", len(mismatches))
		},
	}
}

func newCacheRepairCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Clear cache flags whose backing file is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			repaired, err := app.Cache.RepairFlags(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d flags\n", repaired)
			return nil
		},
	}
}

func newCacheClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached file and reset all flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Cache.Clear(cmd.Context())
		},
	}
}
