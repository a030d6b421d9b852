package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the scenic command tree. Every subcommand runs
// against an opened App; Open/Close bracket the invocation.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "scenic",
		Short: "Local-first client for scenic photo spots",
		Long: `scenic manages a local library of photographic spots, media and trip
plans. Records are authored offline and published explicitly; published
records from other users are pulled into a TTL-bounded local cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	root.AddCommand(
		NewSpotCmd(app),
		NewCommentCmd(app),
		NewPlanCmd(app),
		NewSyncCmd(app),
		NewPushCmd(app),
		NewPullCmd(app),
		NewCacheCmd(app),
	)
	return root
}
