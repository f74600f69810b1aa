package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bukafresh-client/internal/app/bukafresh"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
	subscriptionservice "github.com/magabrotheeeer/bukafresh-client/internal/services/subscription"
)

func (r *runner) subscriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Manage grocery subscriptions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "current",
			Short: "Show the current subscription",
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
					sub, err := a.Subscriptions.Current(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), sub)
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all subscriptions",
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
					subs, err := a.Subscriptions.All(ctx)
					if err != nil {
						return err
					}
					if subs == nil {
						subs = []models.Subscription{}
					}
					return printJSON(cmd.OutOrStdout(), subs)
				})
			},
		},
		r.createSubscriptionCmd(),
		r.transitionCmd(subscriptionservice.ActionPause, "Pause deliveries",
			func(s *subscriptionservice.SubscriptionService) transitionFunc { return s.Pause }),
		r.transitionCmd(subscriptionservice.ActionResume, "Resume a paused subscription",
			func(s *subscriptionservice.SubscriptionService) transitionFunc { return s.Resume }),
		r.transitionCmd(subscriptionservice.ActionCancel, "Cancel a subscription",
			func(s *subscriptionservice.SubscriptionService) transitionFunc { return s.Cancel }),
		r.transitionCmd(subscriptionservice.ActionActivate, "Activate a subscription",
			func(s *subscriptionservice.SubscriptionService) transitionFunc { return s.Activate }),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a subscription that is not active",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
					if err := a.Subscriptions.Delete(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Subscription %s deleted\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

type transitionFunc func(ctx context.Context, id string) (models.Subscription, error)

func (r *runner) transitionCmd(action subscriptionservice.Action, short string, pick func(*subscriptionservice.SubscriptionService) transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				sub, err := pick(a.Subscriptions)(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sub)
			})
		},
	}
}

func (r *runner) createSubscriptionCmd() *cobra.Command {
	var req models.CreateSubscriptionRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				sub, err := a.Subscriptions.Create(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sub)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Tier, "tier", "", "ESSENTIALS, STANDARD or PREMIUM")
	f.StringVar(&req.BillingCycle, "billing-cycle", "MONTHLY", "MONTHLY or YEARLY")
	f.StringVar(&req.PaymentMethodID, "payment-method", "", "payment method id")
	f.Float64Var(&req.Price, "price", 0, "price override")
	f.StringVar(&req.DeliveryDay, "day", "", "delivery day")
	return cmd
}
