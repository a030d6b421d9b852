package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eranshir/scenic/internal/client/models"
)

// NewSpotCmd groups the spot subcommands.
func NewSpotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spot",
		Short: "Manage photo spots",
	}
	cmd.AddCommand(
		newSpotAddCmd(app),
		newSpotListCmd(app),
		newSpotShowCmd(app),
		newSpotDeleteCmd(app),
	)
	return cmd
}

func newSpotAddCmd(app *App) *cobra.Command {
	var (
		title      string
		lat, lon   float64
		heading    float64
		elevation  float64
		tags       []string
		difficulty int
		privacy    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a local spot draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			spot := &models.Spot{
				ID:         uuid.NewString(),
				Title:      title,
				Location:   models.Coordinate{Latitude: lat, Longitude: lon},
				Tags:       tags,
				Difficulty: models.Difficulty(difficulty),
				Privacy:    models.Privacy(privacy),
				Status:     models.SpotStatusActive,
				CreatedAt:  now,
				UpdatedAt:  now,
				SyncState:  models.NewLocalSyncState(),
			}
			if cmd.Flags().Changed("heading") {
				spot.Heading = &heading
			}
			if cmd.Flags().Changed("elevation") {
				spot.Elevation = &elevation
			}
			if err := app.Store.UpsertSpot(cmd.Context(), spot); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), spot.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "spot title")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().Float64Var(&heading, "heading", 0, "shooting direction in degrees")
	cmd.Flags().Float64Var(&elevation, "elevation", 0, "elevation in meters")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "approach difficulty 0-4")
	cmd.Flags().StringVar(&privacy, "privacy", string(models.PrivacyPublic), "public, unlisted or private")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newSpotListCmd(app *App) *cobra.Command {
	var draftsOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spots in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			spots, err := app.Store.ListSpots(ctx)
			if err != nil {
				return err
			}
			for _, spot := range spots {
				if draftsOnly && !spot.IsUnpublishedDraft() {
					continue
				}
				state := "published"
				if spot.IsUnpublishedDraft() {
					state = "draft"
				} else if spot.IsStale(time.Now()) {
					state = "stale"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %.5f,%.5f  %s\n",
					spot.ID, state, spot.Location.Latitude, spot.Location.Longitude, spot.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&draftsOnly, "drafts", false, "only unpublished local drafts")
	return cmd
}

func newSpotShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one spot with its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spot, err := app.Store.GetSpot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", spot.Title)
			fmt.Fprintf(out, "  location: %.5f,%.5f\n", spot.Location.Latitude, spot.Location.Longitude)
			if len(spot.Tags) > 0 {
				fmt.Fprintf(out, "  tags: %s\n", strings.Join(spot.Tags, ", "))
			}
			fmt.Fprintf(out, "  media: %d  comments: %d\n", len(spot.Media), len(spot.Comments))
			if spot.IsUnpublishedDraft() {
				fmt.Fprintln(out, "  state: local draft")
			} else if spot.RemoteID != nil {
				fmt.Fprintf(out, "  state: published as %s\n", *spot.RemoteID)
			}
			return nil
		},
	}
}

func newSpotDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a spot and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Store.DeleteSpot(cmd.Context(), args[0])
		},
	}
}
