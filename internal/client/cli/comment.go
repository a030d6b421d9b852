package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eranshir/scenic/internal/client/models"
)

// NewCommentCmd groups the comment subcommands.
func NewCommentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage comments on spots",
	}
	cmd.AddCommand(newCommentAddCmd(app), newCommentListCmd(app))
	return cmd
}

func newCommentAddCmd(app *App) *cobra.Command {
	var (
		spotID   string
		parentID string
		body     string
		author   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a local comment draft to a spot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.Store.GetSpot(ctx, spotID); err != nil {
				return fmt.Errorf("spot %s: %w", spotID, err)
			}
			now := time.Now().UTC()
			c := &models.Comment{
				ID:        uuid.NewString(),
				SpotID:    spotID,
				Body:      body,
				AuthorID:  author,
				CreatedAt: now,
				UpdatedAt: now,
				SyncState: models.NewLocalSyncState(),
			}
			if parentID != "" {
				c.ParentID = &parentID
			}
			if err := app.Store.UpsertComment(ctx, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&spotID, "spot", "", "spot id")
	cmd.Flags().StringVar(&parentID, "reply-to", "", "parent comment id for a threaded reply")
	cmd.Flags().StringVar(&body, "body", "", "comment text")
	cmd.Flags().StringVar(&author, "author", "", "author id")
	_ = cmd.MarkFlagRequired("spot")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newCommentListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <spot-id>",
		Short: "List the comment thread of a spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spot, err := app.Store.GetSpot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range spot.Comments {
				indent := ""
				if c.ParentID != nil {
					indent = "  "
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s: %s\n", indent, c.ID, c.AuthorID, c.Body)
			}
			return nil
		},
	}
}
