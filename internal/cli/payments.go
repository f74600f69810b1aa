package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bukafresh-client/internal/app/bukafresh"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

func (r *runner) paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Process payments and show payment history",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the user's payments",
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
					ps, err := a.Payments.UserPayments(ctx)
					if err != nil {
						return err
					}
					return printPayments(cmd, ps)
				})
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one payment",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
					p, err := a.Payments.Payment(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), p)
				})
			},
		},
		&cobra.Command{
			Use:   "subscription <id>",
			Short: "List payments of a subscription",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
					ps, err := a.Payments.SubscriptionPayments(ctx, args[0])
					if err != nil {
						return err
					}
					return printPayments(cmd, ps)
				})
			},
		},
		r.processPaymentCmd(),
	)
	return cmd
}

func printPayments(cmd *cobra.Command, ps []models.Payment) error {
	if ps == nil {
		ps = []models.Payment{}
	}
	return printJSON(cmd.OutOrStdout(), ps)
}

func (r *runner) processPaymentCmd() *cobra.Command {
	var req models.ProcessPaymentRequest
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Pay for a subscription by bank account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				p, err := a.Payments.Process(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.SubscriptionID, "subscription", "", "subscription id")
	f.StringVar(&req.BVN, "bvn", "", "bank verification number, 11 digits")
	f.StringVar(&req.AccountNumber, "account-number", "", "account number, 10 digits")
	f.StringVar(&req.BankName, "bank", "", "bank name")
	f.StringVar(&req.PhoneNumber, "phone", "", "phone, +234XXXXXXXXXX or 0XXXXXXXXXX")
	f.StringVar(&req.FirstName, "first-name", "", "account holder first name")
	f.StringVar(&req.LastName, "last-name", "", "account holder last name")
	return cmd
}
