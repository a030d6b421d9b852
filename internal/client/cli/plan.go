package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eranshir/scenic/internal/client/models"
)

// NewPlanCmd groups the plan subcommands.
func NewPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage trip plans",
	}
	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanItemCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanDeleteCmd(app),
	)
	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a local plan draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			p := &models.Plan{
				ID:        uuid.NewString(),
				Title:     title,
				CreatedAt: now,
				UpdatedAt: now,
				SyncState: models.NewLocalSyncState(),
			}
			if err := app.Store.UpsertPlan(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "plan title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newPlanItemCmd(app *App) *cobra.Command {
	var (
		planID string
		spotID string
		place  string
		timing string
	)

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Append an item to a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (spotID == "") == (place == "") {
				return fmt.Errorf("exactly one of --spot or --place is required")
			}
			p, err := app.Store.GetPlan(ctx, planID)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			item := &models.PlanItem{
				ID:        uuid.NewString(),
				PlanID:    planID,
				Position:  len(p.Items),
				Timing:    models.TimingPreference(timing),
				CreatedAt: now,
				UpdatedAt: now,
				SyncState: models.NewLocalSyncState(),
			}
			if spotID != "" {
				if _, err := app.Store.GetSpot(ctx, spotID); err != nil {
					return fmt.Errorf("spot %s: %w", spotID, err)
				}
				item.Kind = models.PlanItemSpot
				item.SpotID = &spotID
			} else {
				item.Kind = models.PlanItemPlace
				item.Place = &models.PlaceDetails{Name: place}
			}
			p.Items = append(p.Items, item)
			p.UpdatedAt = now
			if err := app.Store.UpsertPlan(ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "plan id")
	cmd.Flags().StringVar(&spotID, "spot", "", "reference an existing spot")
	cmd.Flags().StringVar(&place, "place", "", "free-form place name")
	cmd.Flags().StringVar(&timing, "timing", string(models.TimingAny), "any, sunrise, sunset or golden_hour")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Store.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range plans {
				state := "published"
				if p.IsUnpublishedDraft() {
					state = "draft"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %s\n", p.ID, state, p.Title)
			}
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a plan with its ordered items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", p.Title)
			for _, item := range p.Items {
				switch item.Kind {
				case models.PlanItemSpot:
					fmt.Fprintf(out, "  %2d. spot %s (%s)\n", item.Position+1, *item.SpotID, item.Timing)
				case models.PlanItemPlace:
					fmt.Fprintf(out, "  %2d. %s (%s)\n", item.Position+1, item.Place.Name, item.Timing)
				}
			}
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a plan and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Store.DeletePlan(cmd.Context(), args[0])
		},
	}
}
